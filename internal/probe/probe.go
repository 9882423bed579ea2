package probe

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/shaiso/Prelude/internal/dsn"
)

// Таймаут одной попытки подключения.
const attemptTimeout = 3 * time.Second

// AttemptFunc — одна попытка проверки готовности зависимости.
// Возвращает nil, когда зависимость готова.
type AttemptFunc func(ctx context.Context) error

// Prober блокирует boot-последовательность до готовности зависимости.
//
// Повторяет попытки согласно Policy. Отмена контекста (stop-сигнал
// контейнера) прерывает ожидание с ErrAborted.
type Prober struct {
	target  string
	attempt AttemptFunc
	policy  Policy
	logger  *slog.Logger
}

// New создаёт Prober с произвольной функцией попытки.
// target используется только в логах и сообщениях об ошибках.
func New(target string, attempt AttemptFunc, policy Policy, logger *slog.Logger) *Prober {
	if logger == nil {
		logger = slog.Default()
	}
	return &Prober{
		target:  target,
		attempt: attempt,
		policy:  policy,
		logger:  logger,
	}
}

// NewTCP создаёт Prober с сырой TCP-попыткой: зависимость считается
// готовой, как только endpoint принимает соединение.
func NewTCP(ep dsn.Endpoint, policy Policy, logger *slog.Logger) *Prober {
	addr := ep.Addr()
	attempt := func(ctx context.Context) error {
		d := net.Dialer{Timeout: attemptTimeout}
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return err
		}
		return conn.Close()
	}
	return New(addr, attempt, policy, logger)
}

// Target возвращает человекочитаемый адрес зависимости.
func (p *Prober) Target() string { return p.target }

// Wait блокирует до успешной попытки и возвращает число сделанных
// попыток.
//
// Возвращает ErrUnavailable при исчерпании MaxAttempts или Deadline,
// ErrAborted при отмене контекста. При нулевых лимитах ждёт
// неограниченно, как исходные скрипты.
func (p *Prober) Wait(ctx context.Context) (int, error) {
	if p.policy.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.policy.Deadline)
		defer cancel()
	}

	p.logger.Info("waiting for dependency", "target", p.target)

	start := time.Now()
	for attempt := 1; ; attempt++ {
		err := p.attempt(ctx)
		if err == nil {
			p.logger.Info("dependency ready",
				"target", p.target,
				"attempts", attempt,
				"elapsed", time.Since(start),
			)
			return attempt, nil
		}

		p.logger.Debug("dependency not ready",
			"target", p.target,
			"attempt", attempt,
			"error", err,
		)

		if p.policy.MaxAttempts > 0 && attempt >= p.policy.MaxAttempts {
			return attempt, fmt.Errorf("%w: %s after %d attempts: %v",
				ErrUnavailable, p.target, attempt, err)
		}

		select {
		case <-time.After(p.policy.DelayFor(attempt)):
		case <-ctx.Done():
			if p.policy.Deadline > 0 && ctx.Err() == context.DeadlineExceeded {
				return attempt, fmt.Errorf("%w: %s after %s: %v",
					ErrUnavailable, p.target, time.Since(start).Round(time.Millisecond), err)
			}
			return attempt, fmt.Errorf("%w: %v", ErrAborted, ctx.Err())
		}
	}
}
