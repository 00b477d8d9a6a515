package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ctxKey string

const actorKey ctxKey = "store.actor"

// WithActor records the user on whose behalf queries run. With row level
// security enabled it becomes the app.current_user_id setting.
func WithActor(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, actorKey, userID)
}

// ActorFromContext returns the user set by WithActor.
func ActorFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(actorKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// runScoped calls fn on the pool directly, or inside a transaction that
// carries the actor's id when rls is on and an actor is known.
func runScoped(ctx context.Context, pool *pgxpool.Pool, rls bool, fn func(q querier) error) error {
	actor, ok := ActorFromContext(ctx)
	if !rls || !ok {
		return fn(pool)
	}

	return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "SELECT set_config('app.current_user_id', $1, true)", actor.String()); err != nil {
			return fmt.Errorf("set rls actor: %w", err)
		}
		return fn(tx)
	})
}
