package probe

import "time"

// Значения по умолчанию для Policy.
const (
	DefaultInterval = 500 * time.Millisecond
	DefaultMaxDelay = 30 * time.Second
)

// Стратегии backoff между попытками.
const (
	BackoffFixed       = "fixed"
	BackoffExponential = "exponential"
)

// Policy — политика повторных попыток readiness probe.
//
// Исторически entrypoint-скрипты повторяли попытку каждые 500ms без
// ограничений; недоступная зависимость блокировала boot навсегда.
// Policy делает ожидание ограниченным и настраиваемым: MaxAttempts
// и/или Deadline превращают вечный цикл в типизированную ошибку
// ErrUnavailable. Нулевые значения сохраняют прежнее поведение.
type Policy struct {
	// Interval — базовая задержка между попытками (default: 500ms).
	Interval time.Duration

	// Backoff — стратегия роста задержки: "fixed" или "exponential".
	// Неизвестное значение трактуется как "fixed".
	Backoff string

	// MaxDelay — потолок задержки при exponential backoff (default: 30s).
	MaxDelay time.Duration

	// MaxAttempts — максимум попыток; 0 — без ограничения.
	MaxAttempts int

	// Deadline — общий лимит времени ожидания; 0 — без лимита.
	Deadline time.Duration
}

// DelayFor возвращает задержку перед попыткой attempt (начиная с 1).
func (p Policy) DelayFor(attempt int) time.Duration {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	maxDelay := p.MaxDelay
	if maxDelay <= 0 {
		maxDelay = DefaultMaxDelay
	}

	var delay time.Duration
	switch p.Backoff {
	case BackoffExponential:
		// delay = interval * 2^(attempt-1)
		delay = interval
		for i := 1; i < attempt; i++ {
			delay *= 2
			if delay > maxDelay {
				delay = maxDelay
				break
			}
		}
	default:
		delay = interval
	}

	if delay > maxDelay {
		delay = maxDelay
	}

	return delay
}
