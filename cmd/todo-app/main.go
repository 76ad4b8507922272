package main

import (
	"context"
	"fmt"
	"os"

	"todo-app/internal/config"
	"todo-app/internal/logger"
	"todo-app/internal/manager"
	"todo-app/internal/server"
	"todo-app/internal/shell"
	"todo-app/internal/storage"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func run(ctx context.Context) error {
	// Настройки необязательны: без todo.yaml работаем с tasks.json в текущей папке
	cfg, err := config.Load(".")
	if err != nil {
		return err
	}
	logger.SetLevel(cfg.LogLevel())

	if cfg.Metrics.Addr != "" {
		metrics := server.NewMetricsServer(cfg.Metrics.Addr)
		metrics.Start(ctx)
		defer stopMetrics(ctx, metrics.Shutdown)
	}

	store, err := storage.New(cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	// Поврежденный файл задач - фатальная ошибка при запуске
	tasks, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("ошибка загрузки задач: %w", err)
	}
	logger.Info(ctx, "Сессия начата", "driver", cfg.Storage.Driver, "tasks", len(tasks))

	tm := manager.NewTaskManagerWithTasks(tasks)
	return shell.New(os.Stdin, os.Stdout, tm, store).Run(ctx)
}

// stopMetrics останавливает эндпоинт метрик, ошибка только логируется
func stopMetrics(ctx context.Context, shutdown func(context.Context) error) {
	if err := shutdown(ctx); err != nil {
		logger.Error(ctx, err, "Ошибка остановки сервера метрик")
	}
}
