package manager

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"todo-app/internal/models"
)

func threeTasks() *TaskManager {
	return NewTaskManagerWithTasks([]models.Task{
		models.NewTask("Первая", "a", "Work"),
		models.NewTask("Вторая", "b", "Personal"),
		models.NewTask("Третья", "c", "Urgent"),
	})
}

func TestAppend(t *testing.T) {
	tm := NewTaskManager()

	tm.Append(models.NewTask("Купить молоко", "2%", "Personal"))
	tm.Append(models.NewTask("Купить молоко", "2%", "Personal"))

	if tm.Len() != 2 {
		t.Fatalf("Ожидалось 2 задачи (дубликаты разрешены), получено %d", tm.Len())
	}
	if tm.Tasks()[1].Completed {
		t.Error("Новая задача не должна быть выполненной")
	}
}

func TestParsePosition(t *testing.T) {
	pos, err := ParsePosition(" 3\n")
	if err != nil || pos != 3 {
		t.Errorf("Ожидалось 3, получено %d, %v", pos, err)
	}

	for _, input := range []string{"", "abc", "1.5", "два"} {
		if _, err := ParsePosition(input); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ParsePosition(%q): ожидалась ErrInvalidInput, получено %v", input, err)
		}
	}

	for _, input := range []string{"99999999999999999999", "-99999999999999999999"} {
		_, err := ParsePosition(input)
		if !errors.Is(err, ErrInvalidPosition) || errors.Is(err, ErrInvalidInput) {
			t.Errorf("ParsePosition(%q): ожидалась ErrInvalidPosition, получено %v", input, err)
		}
	}
}

func TestMarkCompletedAtIdempotent(t *testing.T) {
	tm := threeTasks()

	if err := tm.MarkCompletedAt(2); err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}
	once := tm.Tasks()

	if err := tm.MarkCompletedAt(2); err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}

	if !slices.Equal(once, tm.Tasks()) {
		t.Errorf("Повторная отметка изменила список: %v != %v", once, tm.Tasks())
	}
	if !tm.Tasks()[1].Completed || tm.Tasks()[0].Completed || tm.Tasks()[2].Completed {
		t.Errorf("Отмечена не та задача: %+v", tm.Tasks())
	}
}

func TestInvalidPositionsLeaveListUnchanged(t *testing.T) {
	tm := threeTasks()
	before := tm.Tasks()

	for _, pos := range []int{0, -1, 4} {
		if err := tm.MarkCompletedAt(pos); !errors.Is(err, ErrInvalidPosition) {
			t.Errorf("MarkCompletedAt(%d): ожидалась ErrInvalidPosition, получено %v", pos, err)
		}
		if _, err := tm.DeleteAt(pos); !errors.Is(err, ErrInvalidPosition) {
			t.Errorf("DeleteAt(%d): ожидалась ErrInvalidPosition, получено %v", pos, err)
		}
	}

	if !slices.Equal(before, tm.Tasks()) {
		t.Errorf("Список изменился: %v != %v", before, tm.Tasks())
	}
}

func TestDeleteAtMiddle(t *testing.T) {
	tm := threeTasks()

	removed, err := tm.DeleteAt(2)
	if err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}
	if removed.Title != "Вторая" {
		t.Errorf("Удалена не та задача: %s", removed.Title)
	}

	got := tm.Tasks()
	if len(got) != 2 || got[0].Title != "Первая" || got[1].Title != "Третья" {
		t.Errorf("Неверный порядок после удаления: %+v", got)
	}
}

func TestDeleteAtSamePositionTwice(t *testing.T) {
	tm := threeTasks()

	if _, err := tm.DeleteAt(1); err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}
	removed, err := tm.DeleteAt(1)
	if err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}

	if removed.Title != "Вторая" {
		t.Errorf("Ожидалось удаление бывшей второй задачи, удалена %s", removed.Title)
	}
	if tm.Len() != 1 || tm.Tasks()[0].Title != "Третья" {
		t.Errorf("Неверный остаток: %+v", tm.Tasks())
	}
}

func TestRenderEmpty(t *testing.T) {
	lines := slices.Collect(NewTaskManager().Render())

	if len(lines) != 1 || lines[0] != NoTasksLine {
		t.Errorf("Ожидалась одна строка %q, получено %v", NoTasksLine, lines)
	}
}

func TestRender(t *testing.T) {
	tm := threeTasks()
	if err := tm.MarkCompletedAt(1); err != nil {
		t.Fatal(err)
	}

	lines := slices.Collect(tm.Render())
	if len(lines) != 3 {
		t.Fatalf("Ожидалось 3 строки, получено %d", len(lines))
	}

	if lines[0] != "1. [✅] Первая - a (Category: Work)" {
		t.Errorf("Неверная строка: %q", lines[0])
	}
	if lines[1] != "2. [❌] Вторая - b (Category: Personal)" {
		t.Errorf("Неверная строка: %q", lines[1])
	}
	for i, task := range tm.Tasks() {
		for _, field := range []string{task.Title, task.Description, task.Category} {
			if !strings.Contains(lines[i], field) {
				t.Errorf("Строка %q не содержит %q", lines[i], field)
			}
		}
	}
}

func TestRenderStopsEarly(t *testing.T) {
	tm := threeTasks()

	count := 0
	for range tm.Render() {
		count++
		break
	}
	if count != 1 {
		t.Errorf("Ожидалась 1 итерация, получено %d", count)
	}
}

func TestTasksReturnsCopy(t *testing.T) {
	tm := threeTasks()

	tasks := tm.Tasks()
	tasks[0].Title = "изменено"

	if tm.Tasks()[0].Title != "Первая" {
		t.Error("Tasks() должен возвращать копию")
	}
}

func TestDeleteTaskMetrics(t *testing.T) {
	originalDeleteTaskCount := deleteTaskCount

	registry := prometheus.NewRegistry()
	testDeleteTaskCount := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todoapp_tasks_deleted_total",
			Help: "Test counter",
		},
		[]string{"status"},
	)
	registry.MustRegister(testDeleteTaskCount)

	deleteTaskCount = testDeleteTaskCount
	defer func() {
		deleteTaskCount = originalDeleteTaskCount
	}()

	tm := threeTasks()
	if _, err := tm.DeleteAt(1); err != nil {
		t.Fatalf("DeleteAt failed: %v", err)
	}
	if _, err := tm.DeleteAt(10); err == nil {
		t.Error("Expected error for out of range position")
	}

	if got := testutil.ToFloat64(testDeleteTaskCount.WithLabelValues("success")); got != 1 {
		t.Errorf("Expected 1 success, got %v", got)
	}
	if got := testutil.ToFloat64(testDeleteTaskCount.WithLabelValues("error")); got != 1 {
		t.Errorf("Expected 1 error, got %v", got)
	}
}

func TestCurrentTasksGauge(t *testing.T) {
	tm := NewTaskManager()
	tm.Append(models.NewTask("a", "b", "c"))
	tm.Append(models.NewTask("d", "e", "f"))

	if got := testutil.ToFloat64(currentTasks); got != 2 {
		t.Errorf("Expected gauge 2, got %v", got)
	}

	if _, err := tm.DeleteAt(2); err != nil {
		t.Fatal(err)
	}
	if got := testutil.ToFloat64(currentTasks); got != 1 {
		t.Errorf("Expected gauge 1, got %v", got)
	}
}
