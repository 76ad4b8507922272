package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"todo-app/internal/logger"
	"todo-app/internal/models"
)

const jsonIndent = "    "

// JSONStorage хранит задачи в одном JSON-файле в виде массива объектов
type JSONStorage struct {
	path string
}

func NewJSONStorage(path string) *JSONStorage {
	return &JSONStorage{path: path}
}

// Load читает файл задач. Отсутствующий файл - это пустой список, а не ошибка.
func (s *JSONStorage) Load(ctx context.Context) (tasks []models.Task, err error) {
	startTime := time.Now()
	defer func() { observe("load", startTime, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug(ctx, "Файл задач не найден, начинаем с пустого списка", "path", s.path)
			return []models.Task{}, nil
		}
		return nil, fmt.Errorf("ошибка чтения %s: %w", s.path, err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, s.path, err)
	}

	if err := validateDocument(doc); err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}

	items, _ := doc.([]any)
	tasks = make([]models.Task, 0, len(items))
	for i, item := range items {
		obj, _ := item.(map[string]any)
		task, err := models.FromMap(obj)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: [%d]: %w", ErrMalformed, s.path, i, err)
		}
		tasks = append(tasks, task)
	}

	logger.Info(ctx, "Задачи загружены", "path", s.path, "count", len(tasks))
	return tasks, nil
}

// Save перезаписывает файл целиком
func (s *JSONStorage) Save(ctx context.Context, tasks []models.Task) (err error) {
	startTime := time.Now()
	defer func() { observe("save", startTime, err) }()

	if err := ctx.Err(); err != nil {
		return err
	}

	records := make([]models.Record, 0, len(tasks))
	for _, task := range tasks {
		records = append(records, task.ToMap())
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", jsonIndent)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("ошибка сериализации задач: %w", err)
	}

	if err := os.WriteFile(s.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("ошибка записи %s: %w", s.path, err)
	}

	logger.Debug(ctx, "Задачи сохранены", "path", s.path, "count", len(tasks))
	return nil
}

func (s *JSONStorage) Close() error {
	return nil
}
