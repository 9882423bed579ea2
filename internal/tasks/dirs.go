package tasks

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/shaiso/Prelude/internal/classify"
)

// Права по умолчанию для служебных директорий.
const defaultDirMode fs.FileMode = 0o755

// DirTask создаёт служебные директории (staticfiles, media, logs)
// и нормализует их права.
//
// Это ancillary task: в большинстве вариантов скриптов он выполнялся
// безусловно, независимо от типа workload. Gated переключает task
// на режим "только вместе с подготовкой" — варианты расходились,
// поэтому поведение настраиваемое.
type DirTask struct {
	// TaskName — имя для логов (обычно "ensure-dirs").
	TaskName string

	// Dirs — директории для создания.
	Dirs []string

	// Mode — права на директории (default: 0755).
	Mode fs.FileMode

	// Gated — выполнять только при Decision.RunPrepare.
	Gated bool
}

// Name возвращает имя task.
func (t *DirTask) Name() string { return t.TaskName }

// Applies возвращает true безусловно, либо по Decision.RunPrepare
// для gated-варианта.
func (t *DirTask) Applies(d classify.Decision) bool {
	return !t.Gated || d.RunPrepare
}

// Run создаёт директории. Идемпотентно: существующая директория —
// не ошибка, права приводятся к Mode при каждом запуске.
func (t *DirTask) Run(ctx context.Context) error {
	mode := t.Mode
	if mode == 0 {
		mode = defaultDirMode
	}

	for _, dir := range t.Dirs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := os.MkdirAll(dir, mode); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
		// MkdirAll не меняет права существующей директории.
		if err := os.Chmod(dir, mode); err != nil {
			return fmt.Errorf("chmod %s: %w", dir, err)
		}
	}
	return nil
}
