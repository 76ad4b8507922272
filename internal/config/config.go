// Package config загружает необязательный файл настроек todo.yaml или todo.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"todo-app/internal/logger"
)

const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"

	DefaultTasksFile  = "tasks.json"
	DefaultSQLiteFile = "tasks.db"
	DefaultLogLevel   = "warn"
)

// Имена файлов настроек в порядке поиска
var FileNames = []string{"todo.yaml", "todo.yml", "todo.toml"}

var ErrInvalidConfig = errors.New("некорректная конфигурация")

type StorageConfig struct {
	Driver     string `yaml:"driver" toml:"driver"`
	Path       string `yaml:"path" toml:"path"`
	SQLitePath string `yaml:"sqlite_path" toml:"sqlite_path"`
}

type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
}

type MetricsConfig struct {
	// Addr пустой - эндпоинт метрик выключен
	Addr string `yaml:"addr" toml:"addr"`
}

type Config struct {
	Storage StorageConfig `yaml:"storage" toml:"storage"`
	Log     LogConfig     `yaml:"log" toml:"log"`
	Metrics MetricsConfig `yaml:"metrics" toml:"metrics"`
}

func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver:     DriverJSON,
			Path:       DefaultTasksFile,
			SQLitePath: DefaultSQLiteFile,
		},
		Log: LogConfig{Level: DefaultLogLevel},
	}
}

// Load ищет файл настроек в dir. Если файла нет, возвращаются значения по умолчанию.
func Load(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return Default(), nil
}

// LoadFile читает файл настроек, формат определяется по расширению
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("ошибка чтения %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("ошибка разбора %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: неизвестный формат файла %s", ErrInvalidConfig, path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverJSON, DriverSQLite:
	default:
		return fmt.Errorf("%w: неизвестный драйвер хранилища %q", ErrInvalidConfig, c.Storage.Driver)
	}

	if c.Storage.Path == "" {
		c.Storage.Path = DefaultTasksFile
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = DefaultSQLiteFile
	}

	if _, ok := logger.ParseLevel(c.Log.Level); !ok {
		return fmt.Errorf("%w: неизвестный уровень логирования %q", ErrInvalidConfig, c.Log.Level)
	}
	return nil
}

// LogLevel возвращает уровень логирования. Вызывать после Validate.
func (c *Config) LogLevel() logger.Level {
	l, _ := logger.ParseLevel(c.Log.Level)
	return l
}
