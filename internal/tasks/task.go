package tasks

import (
	"context"
	"time"

	"github.com/shaiso/Prelude/internal/classify"
)

// Task — одна подготовительная операция boot-последовательности.
//
// Tasks считаются идемпотентными: повторный запуск после рестарта
// контейнера не должен ломаться из-за того, что работа уже сделана
// (миграция на уже мигрированной БД — no-op, а не ошибка).
type Task interface {
	// Name — имя task для логов и диагностики.
	Name() string

	// Applies решает, выполняется ли task для данного решения
	// классификатора.
	Applies(d classify.Decision) bool

	// Run выполняет task. Ненулевой exit status внешней команды
	// возвращается как ошибка.
	Run(ctx context.Context) error
}

// Timing — длительность выполнения одного task.
type Timing struct {
	Task     string
	Duration time.Duration
}

// Result — итог выполнения последовательности tasks.
// Живёт один boot, никуда не сохраняется.
type Result struct {
	// Succeeded — все применимые tasks завершились успешно.
	Succeeded bool

	// FailingTask — имя упавшего task (пустое при успехе).
	FailingTask string

	// ExitCode — код выхода упавшего task; 0 при успехе.
	ExitCode int

	// Timings — длительности выполненных tasks по порядку.
	Timings []Timing
}
