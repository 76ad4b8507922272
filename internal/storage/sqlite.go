package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"todo-app/internal/logger"
	"todo-app/internal/models"
)

// SQLiteStorage хранит тот же упорядоченный список в таблице tasks.
// Порядок задается колонкой position, идентификаторов у задач нет.
type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия БД: %w", err)
	}
	// Одно соединение: для :memory: каждое новое соединение - новая пустая база
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info(context.Background(), "SQLite база данных инициализирована", "path", dbPath)
	return &SQLiteStorage{db: db}, nil
}

func createTables(db *sql.DB) error {
	createTasksTable := `
	CREATE TABLE IF NOT EXISTS tasks (
		position INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT FALSE
	)`

	if _, err := db.Exec(createTasksTable); err != nil {
		return fmt.Errorf("ошибка создания таблицы tasks: %w", err)
	}
	return nil
}

// Закрытие соединения
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) Load(ctx context.Context) (tasks []models.Task, err error) {
	startTime := time.Now()
	defer func() { observe("load", startTime, err) }()

	query := `
	SELECT title, description, category, completed
	FROM tasks ORDER BY position`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks = []models.Task{}
	for rows.Next() {
		var r models.Record
		if err := rows.Scan(&r.Title, &r.Description, &r.Category, &r.Completed); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		tasks = append(tasks, models.FromRecord(r))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	logger.Info(ctx, "Задачи загружены из SQLite", "count", len(tasks))
	return tasks, nil
}

// Save заменяет содержимое таблицы в одной транзакции
func (s *SQLiteStorage) Save(ctx context.Context, tasks []models.Task) (err error) {
	startTime := time.Now()
	defer func() { observe("save", startTime, err) }()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM tasks"); err != nil {
		return fmt.Errorf("ошибка очистки таблицы tasks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO tasks (position, title, description, category, completed)
	VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, task := range tasks {
		r := task.ToMap()
		if _, err = stmt.ExecContext(ctx, i+1, r.Title, r.Description, r.Category, r.Completed); err != nil {
			return fmt.Errorf("ошибка записи задачи %d: %w", i+1, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return err
	}

	logger.Debug(ctx, "Задачи сохранены в SQLite", "count", len(tasks))
	return nil
}
