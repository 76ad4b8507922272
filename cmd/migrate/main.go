package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"todo-app/internal/config"
	"todo-app/internal/logger"
	"todo-app/internal/storage"
)

const usage = `Usage: migrate <json-to-sqlite|sqlite-to-json>

Копирует список задач между tasks.json и базой SQLite.
Пути берутся из todo.yaml / todo.toml (storage.path, storage.sqlite_path).`

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatal("❌ Ошибка чтения настроек: ", err)
	}
	logger.SetLevel(cfg.LogLevel())

	n, err := migrate(context.Background(), cfg.Storage, os.Args[1])
	if err != nil {
		log.Fatal("❌ ", err)
	}
	log.Printf("✅ Перенесено задач: %d", n)
}

// migrate переносит весь список из одного хранилища в другое, порядок сохраняется
func migrate(ctx context.Context, cfg config.StorageConfig, direction string) (int, error) {
	jsonStore := storage.NewJSONStorage(cfg.Path)

	sqliteStore, err := storage.NewSQLiteStorage(cfg.SQLitePath)
	if err != nil {
		return 0, err
	}
	defer sqliteStore.Close()

	var src, dst storage.Storage
	switch direction {
	case "json-to-sqlite":
		src, dst = jsonStore, sqliteStore
	case "sqlite-to-json":
		src, dst = sqliteStore, jsonStore
	default:
		return 0, fmt.Errorf("неизвестное направление: %s", direction)
	}

	tasks, err := src.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка чтения источника: %w", err)
	}
	if err := dst.Save(ctx, tasks); err != nil {
		return 0, fmt.Errorf("ошибка записи: %w", err)
	}
	return len(tasks), nil
}
