package tasks

import (
	"errors"
	"fmt"
)

// ErrTaskFailed — подготовительный task завершился с ненулевым кодом.
var ErrTaskFailed = errors.New("bootstrap task failed")

// TaskError — ошибка выполнения task с контекстом для exit code процесса.
type TaskError struct {
	// Task — имя упавшего task.
	Task string

	// ExitCode — код выхода task (для не-процессных ошибок: 1).
	ExitCode int

	// Err — базовая ошибка.
	Err error
}

// Error реализует интерфейс error.
func (e *TaskError) Error() string {
	return fmt.Sprintf("task %s failed with exit code %d: %v", e.Task, e.ExitCode, e.Err)
}

// Unwrap возвращает ErrTaskFailed, чтобы работал errors.Is.
func (e *TaskError) Unwrap() error {
	return ErrTaskFailed
}
