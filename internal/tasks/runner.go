package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/shaiso/Prelude/internal/classify"
)

// Runner выполняет упорядоченный список tasks.
//
// Порядок фиксирован на этапе сборки списка; первый упавший task
// прерывает последовательность — оставшиеся не запускаются. Retry
// отсутствует намеренно: единственный механизм восстановления —
// идемпотентный перезапуск контейнера.
type Runner struct {
	tasks  []Task
	logger *slog.Logger
}

// NewRunner создаёт Runner с заданным списком tasks.
func NewRunner(tasks []Task, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{tasks: tasks, logger: logger}
}

// Run выполняет применимые tasks по порядку.
//
// Возвращает Result всегда; при падении task дополнительно возвращает
// *TaskError с именем task и его exit code.
func (r *Runner) Run(ctx context.Context, d classify.Decision) (*Result, error) {
	result := &Result{Succeeded: true}

	for _, task := range r.tasks {
		if !task.Applies(d) {
			r.logger.Debug("task skipped", "task", task.Name(), "profile", d.Profile)
			continue
		}

		r.logger.Info("task started", "task", task.Name())
		start := time.Now()

		err := task.Run(ctx)
		elapsed := time.Since(start)
		result.Timings = append(result.Timings, Timing{Task: task.Name(), Duration: elapsed})

		if err != nil {
			code := exitCode(err)
			r.logger.Error("task failed",
				"task", task.Name(),
				"exit_code", code,
				"elapsed", elapsed,
				"error", err,
			)
			result.Succeeded = false
			result.FailingTask = task.Name()
			result.ExitCode = code
			return result, &TaskError{Task: task.Name(), ExitCode: code, Err: err}
		}

		r.logger.Info("task completed", "task", task.Name(), "elapsed", elapsed)
	}

	return result, nil
}
