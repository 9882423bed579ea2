package probe

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shaiso/Prelude/internal/dsn"
)

// NewPostgres создаёт Prober с глубокой проверкой PostgreSQL:
// вместо сырого TCP-коннекта выполняется полноценный ping через pgx.
//
// TCP-проверка отвечает "порт открыт", но Postgres в этот момент может
// ещё принимать соединения только для recovery. Ping гарантирует, что
// сервер аутентифицировал клиента и готов исполнять запросы.
func NewPostgres(rawDSN string, ep dsn.Endpoint, policy Policy, logger *slog.Logger) *Prober {
	attempt := func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
		defer cancel()

		pool, err := pgxpool.New(pingCtx, rawDSN)
		if err != nil {
			return fmt.Errorf("new pool: %w", err)
		}
		defer pool.Close()

		if err := pool.Ping(pingCtx); err != nil {
			return fmt.Errorf("ping db: %w", err)
		}
		return nil
	}
	return New(ep.Addr(), attempt, policy, logger)
}
