package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"todo-app/internal/config"
	"todo-app/internal/models"
)

// ErrMalformed - содержимое хранилища не удалось разобрать
var ErrMalformed = errors.New("повреждённые данные хранилища")

var (
	storeOpCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todoapp_store_operations_total",
			Help: "Total number of store Load/Save operations",
		},
		[]string{"op", "status"},
	)

	storeOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "todoapp_store_duration_seconds",
			Help:    "Duration of store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)

func observe(op string, startTime time.Time, err error) {
	storeOpDuration.WithLabelValues(op).Observe(time.Since(startTime).Seconds())
	status := "success"
	if err != nil {
		status = "error"
	}
	storeOpCount.WithLabelValues(op, status).Inc()
}

// Storage интерфейс для абстракции хранилища.
// Save всегда перезаписывает список целиком, Load читает его в исходном порядке.
type Storage interface {
	Load(ctx context.Context) ([]models.Task, error)
	Save(ctx context.Context, tasks []models.Task) error
	Close() error
}

// New создает хранилище по настройкам
func New(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Driver {
	case config.DriverJSON, "":
		return NewJSONStorage(cfg.Path), nil
	case config.DriverSQLite:
		return NewSQLiteStorage(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("неизвестный драйвер хранилища: %s", cfg.Driver)
	}
}

// In-memory хранилище для тестов
type MemoryStorage struct {
	mu    sync.Mutex
	tasks []models.Task
	saves int
}

func NewMemoryStorage(tasks ...models.Task) *MemoryStorage {
	return &MemoryStorage{tasks: append([]models.Task(nil), tasks...)}
}

func (m *MemoryStorage) Load(ctx context.Context) ([]models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Task{}, m.tasks...), nil
}

func (m *MemoryStorage) Save(ctx context.Context, tasks []models.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append([]models.Task{}, tasks...)
	m.saves++
	return nil
}

// Saves возвращает число вызовов Save
func (m *MemoryStorage) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *MemoryStorage) Close() error {
	return nil
}
