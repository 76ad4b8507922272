// Package shell - интерактивное меню поверх stdin/stdout.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"todo-app/internal/logger"
	"todo-app/internal/manager"
	"todo-app/internal/models"
	"todo-app/internal/storage"
)

const (
	ChoiceAdd      = "1"
	ChoiceView     = "2"
	ChoiceComplete = "3"
	ChoiceDelete   = "4"
	ChoiceExit     = "5"
)

const (
	menuHeader = "\n=== Personal To-Do List Application ==="
	menuPrompt = "Choose an option (1-5): "

	msgAdded         = "Task added successfully."
	msgCompleted     = "Task marked as completed."
	msgInvalidNumber = "Invalid task number."
	msgNotANumber    = "Please enter a valid number."
	msgInvalidChoice = "Invalid choice. Please select a valid option."
	msgGoodbye       = "Goodbye!"
)

var menuItems = []string{
	"1. Add Task",
	"2. View Tasks",
	"3. Mark Task Completed",
	"4. Delete Task",
	"5. Exit",
}

// Shell - цикл меню одной сессии. Владеет списком задач на время Run
// и сохраняет его после каждого изменяющего действия.
type Shell struct {
	in    *bufio.Reader
	out   io.Writer
	tasks *manager.TaskManager
	store storage.Storage
}

// New создает оболочку: ввод читается из in, вывод пишется в out
func New(in io.Reader, out io.Writer, tasks *manager.TaskManager, store storage.Storage) *Shell {
	return &Shell{
		in:    bufio.NewReader(in),
		out:   out,
		tasks: tasks,
		store: store,
	}
}

// Run работает до выбора Exit или конца ввода.
// Возвращает ошибку только при неудачном сохранении.
func (s *Shell) Run(ctx context.Context) error {
	for {
		s.printMenu()

		choice, err := s.prompt(menuPrompt)
		if err != nil {
			return s.exit(ctx, err)
		}

		switch choice {
		case ChoiceAdd:
			if err := s.add(); err != nil {
				return s.exit(ctx, err)
			}
		case ChoiceView:
			s.view()
			continue
		case ChoiceComplete:
			if err := s.markCompleted(); err != nil {
				return s.exit(ctx, err)
			}
		case ChoiceDelete:
			if err := s.delete(); err != nil {
				return s.exit(ctx, err)
			}
		case ChoiceExit:
			return s.exit(ctx, nil)
		default:
			s.println(msgInvalidChoice)
			continue
		}

		if err := s.save(ctx); err != nil {
			return err
		}
	}
}

func (s *Shell) printMenu() {
	s.println(menuHeader)
	for _, item := range menuItems {
		s.println(item)
	}
}

func (s *Shell) add() error {
	title, err := s.prompt("Enter task title: ")
	if err != nil {
		return err
	}
	description, err := s.prompt("Enter task description: ")
	if err != nil {
		return err
	}
	category, err := s.prompt("Enter task category (e.g., Work, Personal, Urgent): ")
	if err != nil {
		return err
	}

	s.tasks.Append(models.NewTask(title, description, category))
	s.println(msgAdded)
	return nil
}

func (s *Shell) view() {
	for line := range s.tasks.Render() {
		s.println(line)
	}
}

func (s *Shell) markCompleted() error {
	s.view()
	pos, err := s.promptPosition("Enter the task number to mark as completed: ")
	if err != nil {
		return s.reportPositionError(err)
	}

	if err := s.tasks.MarkCompletedAt(pos); err != nil {
		return s.reportPositionError(err)
	}
	s.println(msgCompleted)
	return nil
}

func (s *Shell) delete() error {
	s.view()
	pos, err := s.promptPosition("Enter the task number to delete: ")
	if err != nil {
		return s.reportPositionError(err)
	}

	removed, err := s.tasks.DeleteAt(pos)
	if err != nil {
		return s.reportPositionError(err)
	}
	s.println("Deleted task: " + removed.Title)
	return nil
}

func (s *Shell) promptPosition(label string) (int, error) {
	input, err := s.prompt(label)
	if err != nil {
		return 0, err
	}
	return manager.ParsePosition(input)
}

// reportPositionError печатает сообщение об ошибке номера и гасит её.
// Остальные ошибки (конец ввода) возвращаются выше.
func (s *Shell) reportPositionError(err error) error {
	switch {
	case errors.Is(err, manager.ErrInvalidInput):
		s.println(msgNotANumber)
	case errors.Is(err, manager.ErrInvalidPosition):
		s.println(msgInvalidNumber)
	default:
		return err
	}
	return nil
}

func (s *Shell) save(ctx context.Context) error {
	if err := s.store.Save(ctx, s.tasks.Tasks()); err != nil {
		logger.Error(ctx, err, "Ошибка сохранения задач")
		return fmt.Errorf("ошибка сохранения задач: %w", err)
	}
	return nil
}

// exit сохраняет список еще раз. cause - ошибка чтения, завершившая цикл,
// nil при выборе Exit.
func (s *Shell) exit(ctx context.Context, cause error) error {
	if cause != nil && !errors.Is(cause, io.EOF) {
		logger.Error(ctx, cause, "Ошибка чтения ввода")
	}
	if err := s.save(ctx); err != nil {
		return err
	}
	s.println(msgGoodbye)
	return nil
}

// prompt печатает подсказку и читает одну строку без перевода строки.
// Больше ничего не обрезается.
func (s *Shell) prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)

	line, err := s.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}

	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}

func (s *Shell) println(line string) {
	fmt.Fprintln(s.out, line)
}
