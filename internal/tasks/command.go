package tasks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/shaiso/Prelude/internal/classify"
)

// CommandTask запускает внешнюю команду (миграции, сборка статики).
//
// Orchestrator не интерпретирует команду — это непрозрачная операция,
// от которой наблюдается только exit status. stdout/stderr команды
// наследуются: вывод миграций должен быть виден оператору в логах
// контейнера.
type CommandTask struct {
	// TaskName — имя для логов ("migrate", "collectstatic").
	TaskName string

	// Argv — командная строка. Argv[0] резолвится через PATH.
	Argv []string

	// Prepare — task мутирует durable-состояние и выполняется только
	// при Decision.RunPrepare. Иначе task безусловный.
	Prepare bool

	// Dir — рабочая директория; пустая — текущая.
	Dir string

	// Env — дополнительные переменные окружения поверх текущих.
	Env []string
}

// Name возвращает имя task.
func (t *CommandTask) Name() string { return t.TaskName }

// Applies возвращает true для безусловных tasks и для prepare-tasks
// при Decision.RunPrepare.
func (t *CommandTask) Applies(d classify.Decision) bool {
	return !t.Prepare || d.RunPrepare
}

// Run выполняет команду и дожидается завершения.
func (t *CommandTask) Run(ctx context.Context) error {
	if len(t.Argv) == 0 {
		return fmt.Errorf("task %s has empty command", t.TaskName)
	}

	cmd := exec.CommandContext(ctx, t.Argv[0], t.Argv[1:]...)
	cmd.Dir = t.Dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), t.Env...)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run %s: %w", t.Argv[0], err)
	}
	return nil
}

// exitCode извлекает код выхода процесса из ошибки Run.
// Для ошибок, не связанных с завершением процесса (команда не найдена,
// контекст отменён), возвращает 1.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}
