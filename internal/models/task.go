package models

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField = errors.New("обязательное поле отсутствует")
	ErrFieldType    = errors.New("неверный тип поля")
)

// FieldError указывает, какое поле записи не прошло проверку
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("поле %q: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Task - одна задача. Идентификатора нет: задача адресуется позицией в списке.
type Task struct {
	Title       string
	Description string
	Category    string
	Completed   bool
}

// Record - сериализуемая форма задачи, порядок полей фиксирован
type Record struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Completed   bool   `json:"completed"`
}

func NewTask(title, description, category string) Task {
	return Task{
		Title:       title,
		Description: description,
		Category:    category,
	}
}

// MarkCompleted отмечает задачу выполненной. Повторный вызов ничего не меняет.
func (t *Task) MarkCompleted() {
	t.Completed = true
}

func (t Task) ToMap() Record {
	return Record{
		Title:       t.Title,
		Description: t.Description,
		Category:    t.Category,
		Completed:   t.Completed,
	}
}

func FromRecord(r Record) Task {
	return Task{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Completed:   r.Completed,
	}
}

// FromMap собирает задачу из декодированного JSON-объекта.
// title, description и category обязательны, completed по умолчанию false.
func FromMap(data map[string]any) (Task, error) {
	title, err := requiredString(data, "title")
	if err != nil {
		return Task{}, err
	}
	description, err := requiredString(data, "description")
	if err != nil {
		return Task{}, err
	}
	category, err := requiredString(data, "category")
	if err != nil {
		return Task{}, err
	}

	task := NewTask(title, description, category)

	if raw, ok := data["completed"]; ok {
		completed, ok := raw.(bool)
		if !ok {
			return Task{}, &FieldError{Field: "completed", Err: ErrFieldType}
		}
		task.Completed = completed
	}

	return task, nil
}

func requiredString(data map[string]any, key string) (string, error) {
	raw, ok := data[key]
	if !ok {
		return "", &FieldError{Field: key, Err: ErrMissingField}
	}
	s, ok := raw.(string)
	if !ok {
		return "", &FieldError{Field: key, Err: ErrFieldType}
	}
	return s, nil
}
