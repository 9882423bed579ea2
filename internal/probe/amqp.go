package probe

import (
	"context"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/Prelude/internal/dsn"
)

// NewAMQP создаёт Prober для брокера сообщений (Celery broker).
// Попытка выполняет полный AMQP handshake и закрывает соединение.
func NewAMQP(url string, ep dsn.Endpoint, policy Policy, logger *slog.Logger) *Prober {
	attempt := func(ctx context.Context) error {
		conn, err := amqp.DialConfig(url, amqp.Config{
			Dial: amqp.DefaultDial(attemptTimeout),
		})
		if err != nil {
			return fmt.Errorf("dial amqp: %w", err)
		}
		return conn.Close()
	}
	return New(ep.Addr(), attempt, policy, logger)
}
