package manager

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"todo-app/internal/models"
)

var (
	ErrInvalidPosition = errors.New("неверный номер задачи")
	ErrInvalidInput    = errors.New("номер задачи должен быть числом")
)

const (
	NoTasksLine = "No tasks available."

	symbolDone    = "✅"
	symbolPending = "❌"
)

var (
	addTaskCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todoapp_tasks_added_total",
			Help: "Total number of Append operations",
		},
		[]string{"status"},
	)

	completeTaskCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todoapp_tasks_completed_total",
			Help: "Total number of MarkCompletedAt operations",
		},
		[]string{"status"},
	)

	deleteTaskCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todoapp_tasks_deleted_total",
			Help: "Total number of DeleteAt operations",
		},
		[]string{"status"},
	)

	taskDescLength = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "todoapp_task_desc_length_bytes",
			Help:    "Length distribution of task descriptions",
			Buckets: []float64{50, 100, 500, 1000},
		},
	)

	updateTaskDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "todoapp_update_task_duration_seconds",
			Help:    "Duration of list mutations in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	currentTasks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "todoapp_tasks_current",
			Help: "Number of tasks in the in-memory list",
		},
	)
)

// TaskManager владеет упорядоченным списком задач одной сессии.
// Задачи адресуются позицией начиная с 1.
type TaskManager struct {
	tasks []models.Task
}

func NewTaskManager() *TaskManager {
	return NewTaskManagerWithTasks(nil)
}

// NewTaskManagerWithTasks создает менеджер со списком, загруженным из хранилища
func NewTaskManagerWithTasks(tasks []models.Task) *TaskManager {
	tm := &TaskManager{tasks: append([]models.Task(nil), tasks...)}
	currentTasks.Set(float64(len(tm.tasks)))
	return tm
}

// Append добавляет задачу в конец списка. Дубликаты допустимы.
func (tm *TaskManager) Append(task models.Task) {
	startTime := time.Now()
	defer func() {
		updateTaskDuration.Observe(time.Since(startTime).Seconds())
	}()

	tm.tasks = append(tm.tasks, task)

	addTaskCount.WithLabelValues("success").Inc()
	taskDescLength.Observe(float64(len(task.Description)))
	currentTasks.Set(float64(len(tm.tasks)))
}

// ParsePosition разбирает номер задачи, введенный пользователем.
// Число, не помещающееся в int, заведомо вне списка: это ErrInvalidPosition.
func ParsePosition(input string) (int, error) {
	pos, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidPosition, input)
		}
		return 0, fmt.Errorf("%w: %q", ErrInvalidInput, input)
	}
	return pos, nil
}

func (tm *TaskManager) index(pos int) (int, error) {
	if pos < 1 || pos > len(tm.tasks) {
		return 0, fmt.Errorf("%w: %d (всего задач: %d)", ErrInvalidPosition, pos, len(tm.tasks))
	}
	return pos - 1, nil
}

// MarkCompletedAt отмечает выполненной задачу на позиции pos
func (tm *TaskManager) MarkCompletedAt(pos int) error {
	startTime := time.Now()
	defer func() {
		updateTaskDuration.Observe(time.Since(startTime).Seconds())
	}()

	i, err := tm.index(pos)
	if err != nil {
		completeTaskCount.WithLabelValues("error").Inc()
		return err
	}

	tm.tasks[i].MarkCompleted()
	completeTaskCount.WithLabelValues("success").Inc()
	return nil
}

// DeleteAt удаляет задачу на позиции pos и возвращает её.
// Следующие задачи сдвигаются на одну позицию вперед.
func (tm *TaskManager) DeleteAt(pos int) (models.Task, error) {
	startTime := time.Now()
	defer func() {
		updateTaskDuration.Observe(time.Since(startTime).Seconds())
	}()

	i, err := tm.index(pos)
	if err != nil {
		deleteTaskCount.WithLabelValues("error").Inc()
		return models.Task{}, err
	}

	removed := tm.tasks[i]
	tm.tasks = append(tm.tasks[:i], tm.tasks[i+1:]...)

	deleteTaskCount.WithLabelValues("success").Inc()
	currentTasks.Set(float64(len(tm.tasks)))
	return removed, nil
}

// Render возвращает строки для вывода, по одной на задачу
func (tm *TaskManager) Render() iter.Seq[string] {
	return func(yield func(string) bool) {
		if len(tm.tasks) == 0 {
			yield(NoTasksLine)
			return
		}
		for i, task := range tm.tasks {
			if !yield(formatTask(i+1, task)) {
				return
			}
		}
	}
}

func formatTask(pos int, task models.Task) string {
	status := symbolPending
	if task.Completed {
		status = symbolDone
	}
	return fmt.Sprintf("%d. [%s] %s - %s (Category: %s)", pos, status, task.Title, task.Description, task.Category)
}

// Tasks возвращает копию списка для сохранения
func (tm *TaskManager) Tasks() []models.Task {
	return append([]models.Task(nil), tm.tasks...)
}

func (tm *TaskManager) Len() int {
	return len(tm.tasks)
}
