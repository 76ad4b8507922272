package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level int8

const (
	LevelDebug Level = iota - 1
	LevelInfo
	LevelWarn
	LevelError
)

var (
	mu     sync.Mutex
	level  = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	output zapcore.WriteSyncer = zapcore.Lock(os.Stderr)
	sugar  = build()
)

func build() *zap.SugaredLogger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.EncodeLevel = func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString("[" + l.CapitalString() + "]")
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), output, level)
	return zap.New(core).Sugar()
}

// ParseLevel разбирает уровень из конфигурации: debug, info, warn, error
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	}
	return LevelInfo, false
}

func SetLevel(l Level) {
	level.SetLevel(zapcore.Level(l))
}

// SetOutput перенаправляет логи, по умолчанию stderr
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = zapcore.Lock(zapcore.AddSync(w))
	sugar = build()
}

// UseCore подменяет ядро логгера, нужно для тестов с zaptest/observer
func UseCore(core zapcore.Core) {
	mu.Lock()
	defer mu.Unlock()
	sugar = zap.New(core).Sugar()
}

func current() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	return sugar
}

func Debug(ctx context.Context, msg string, kv ...any) {
	current().Debugw(msg, kv...)
}

func Info(ctx context.Context, msg string, kv ...any) {
	current().Infow(msg, kv...)
}

func Warn(ctx context.Context, msg string, kv ...any) {
	current().Warnw(msg, kv...)
}

func Error(ctx context.Context, err error, msg string, kv ...any) {
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	current().Errorw(msg, kv...)
}

// Sync сбрасывает буферы перед выходом
func Sync() {
	_ = current().Sync()
}
