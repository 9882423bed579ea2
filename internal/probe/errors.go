package probe

import "errors"

// Ошибки readiness probe.
var (
	// ErrUnavailable — зависимость не стала доступной за отведённое
	// число попыток или дедлайн.
	ErrUnavailable = errors.New("dependency unavailable")

	// ErrAborted — ожидание прервано снаружи (остановка контейнера).
	ErrAborted = errors.New("probe aborted")
)
