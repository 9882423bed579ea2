// Package handoff передаёт управление целевому workload.
//
// Orchestrator не остаётся резидентным родителем: образ текущего
// процесса замещается workload'ом через execve. PID сохраняется,
// поэтому container runtime продолжает адресовать тот же процесс —
// stop-сигналы доставляются напрямую workload'у без посредника.
package handoff

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
)

// ErrHandoff — целевую команду не удалось запустить.
var ErrHandoff = errors.New("handoff failed")

// execFunc позволяет подменить execve в тестах: настоящий unix.Exec
// при успехе не возвращается никогда.
type execFunc func(argv0 string, argv []string, envv []string) error

// Handoff замещает текущий процесс целевой командой.
type Handoff struct {
	exec execFunc
}

// New создаёт Handoff с настоящим execve.
func New() *Handoff {
	return &Handoff{exec: unix.Exec}
}

// Exec резолвит argv[0] через PATH и замещает образ процесса.
//
// Окружение и рабочая директория наследуются как есть: всё, что
// bootstrap установил до этого момента, достаётся workload'у.
// Возврат из Exec возможен только при ошибке.
func (h *Handoff) Exec(argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("%w: empty command", ErrHandoff)
	}

	path, err := exec.LookPath(argv[0])
	if err != nil {
		return fmt.Errorf("%w: resolve %s: %v", ErrHandoff, argv[0], err)
	}

	if err := h.exec(path, argv, os.Environ()); err != nil {
		return fmt.Errorf("%w: exec %s: %v", ErrHandoff, path, err)
	}
	return nil
}
