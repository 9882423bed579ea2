package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shaiso/Prelude/internal/classify"
)

// fakeTask — управляемый task для проверки порядка и прерывания.
type fakeTask struct {
	name    string
	prepare bool
	err     error
	runs    *[]string
}

func (t *fakeTask) Name() string { return t.name }

func (t *fakeTask) Applies(d classify.Decision) bool {
	return !t.prepare || d.RunPrepare
}

func (t *fakeTask) Run(ctx context.Context) error {
	*t.runs = append(*t.runs, t.name)
	return t.err
}

func webDecision() classify.Decision {
	return classify.Decision{Profile: classify.ProfileWeb, RunPrepare: true}
}

func workerDecision() classify.Decision {
	return classify.Decision{Profile: classify.ProfileWorker, RunPrepare: false}
}

func TestRunner_ExecutesInOrder(t *testing.T) {
	var runs []string
	r := NewRunner([]Task{
		&fakeTask{name: "migrate", prepare: true, runs: &runs},
		&fakeTask{name: "collectstatic", prepare: true, runs: &runs},
		&fakeTask{name: "ensure-dirs", runs: &runs},
	}, nil)

	result, err := r.Run(context.Background(), webDecision())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Succeeded {
		t.Error("expected success")
	}

	expected := []string{"migrate", "collectstatic", "ensure-dirs"}
	if len(runs) != len(expected) {
		t.Fatalf("expected %d runs, got %d: %v", len(expected), len(runs), runs)
	}
	for i, name := range expected {
		if runs[i] != name {
			t.Errorf("run %d: expected %s, got %s", i, name, runs[i])
		}
	}
}

func TestRunner_SkipsPrepareForWorker(t *testing.T) {
	var runs []string
	r := NewRunner([]Task{
		&fakeTask{name: "migrate", prepare: true, runs: &runs},
		&fakeTask{name: "collectstatic", prepare: true, runs: &runs},
		&fakeTask{name: "ensure-dirs", runs: &runs},
	}, nil)

	result, err := r.Run(context.Background(), workerDecision())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Succeeded {
		t.Error("expected success")
	}

	// Prepare-tasks пропущены, ancillary выполнен.
	if len(runs) != 1 || runs[0] != "ensure-dirs" {
		t.Errorf("expected only ensure-dirs, got %v", runs)
	}
}

func TestRunner_StopsAtFirstFailure(t *testing.T) {
	var runs []string
	r := NewRunner([]Task{
		&fakeTask{name: "first", runs: &runs},
		&fakeTask{name: "second", err: errors.New("boom"), runs: &runs},
		&fakeTask{name: "third", runs: &runs},
	}, nil)

	result, err := r.Run(context.Background(), webDecision())
	if !errors.Is(err, ErrTaskFailed) {
		t.Fatalf("expected ErrTaskFailed, got %v", err)
	}

	var taskErr *TaskError
	if !errors.As(err, &taskErr) {
		t.Fatal("expected *TaskError")
	}
	if taskErr.Task != "second" {
		t.Errorf("expected failing task second, got %s", taskErr.Task)
	}

	if result.Succeeded {
		t.Error("result should not be succeeded")
	}
	if result.FailingTask != "second" {
		t.Errorf("expected failing task second, got %s", result.FailingTask)
	}

	// Третий task не должен был стартовать.
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %v", runs)
	}
}

func TestCommandTask_ExitCodePropagated(t *testing.T) {
	task := &CommandTask{
		TaskName: "failing",
		Argv:     []string{"sh", "-c", "exit 3"},
	}
	r := NewRunner([]Task{task}, nil)

	result, err := r.Run(context.Background(), webDecision())
	if !errors.Is(err, ErrTaskFailed) {
		t.Fatalf("expected ErrTaskFailed, got %v", err)
	}
	if result.ExitCode != 3 {
		t.Errorf("expected exit code 3, got %d", result.ExitCode)
	}
}

func TestCommandTask_Success(t *testing.T) {
	task := &CommandTask{
		TaskName: "ok",
		Argv:     []string{"sh", "-c", "true"},
	}
	if err := task.Run(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCommandTask_CommandNotFound(t *testing.T) {
	task := &CommandTask{
		TaskName: "missing",
		Argv:     []string{"definitely-not-a-real-binary-xyz"},
	}
	err := task.Run(context.Background())
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if code := exitCode(err); code != 1 {
		t.Errorf("expected exit code 1 for non-process error, got %d", code)
	}
}

func TestDirTask_Idempotent(t *testing.T) {
	base := t.TempDir()
	dirs := []string{
		filepath.Join(base, "staticfiles"),
		filepath.Join(base, "media"),
		filepath.Join(base, "logs"),
	}
	task := &DirTask{TaskName: "ensure-dirs", Dirs: dirs, Mode: 0o755}

	// Два запуска подряд: одинаковое итоговое состояние, оба успешны.
	for run := 1; run <= 2; run++ {
		if err := task.Run(context.Background()); err != nil {
			t.Fatalf("run %d: unexpected error: %v", run, err)
		}
		for _, dir := range dirs {
			info, err := os.Stat(dir)
			if err != nil {
				t.Fatalf("run %d: stat %s: %v", run, dir, err)
			}
			if !info.IsDir() {
				t.Errorf("run %d: %s is not a directory", run, dir)
			}
			if perm := info.Mode().Perm(); perm != 0o755 {
				t.Errorf("run %d: %s has mode %o, expected 0755", run, dir, perm)
			}
		}
	}
}

func TestDirTask_NormalizesPermissions(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "logs")
	if err := os.Mkdir(dir, 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	task := &DirTask{TaskName: "ensure-dirs", Dirs: []string{dir}, Mode: 0o755}
	if err := task.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o755 {
		t.Errorf("expected mode 0755 after normalization, got %o", perm)
	}
}

func TestDirTask_Gated(t *testing.T) {
	gated := &DirTask{TaskName: "ensure-dirs", Gated: true}
	if gated.Applies(workerDecision()) {
		t.Error("gated task should not apply without prepare")
	}
	if !gated.Applies(webDecision()) {
		t.Error("gated task should apply with prepare")
	}

	ungated := &DirTask{TaskName: "ensure-dirs"}
	if !ungated.Applies(workerDecision()) {
		t.Error("ungated task should always apply")
	}
}
