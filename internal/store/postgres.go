package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"itassets-dashboard/internal/models"
)

const uniqueViolation = "23505"

// PGTable is a Table over one PostgreSQL relation. Identifiers are taken
// from a fixed whitelist and quoted; values are always bound.
type PGTable[T models.Record] struct {
	pool     *pgxpool.Pool
	name     string
	columns  map[string]bool
	selected string
	rls      bool
}

// NewPGTable builds a table for relation name. columns lists the writable
// columns; id, status and the timestamps are implied.
func NewPGTable[T models.Record](pool *pgxpool.Pool, name string, columns []string, rls bool) *PGTable[T] {
	allowed := map[string]bool{"status": true, "created_by": true}
	for _, c := range columns {
		allowed[c] = true
	}

	sel := []string{"id", "status", "created_by", "created_at", "updated_at"}
	for _, c := range sortedKeys(allowed) {
		if c != "status" && c != "created_by" {
			sel = append(sel, c)
		}
	}
	quoted := make([]string, len(sel))
	for i, c := range sel {
		quoted[i] = pq.QuoteIdentifier(c)
	}

	return &PGTable[T]{
		pool:     pool,
		name:     pq.QuoteIdentifier(name),
		columns:  allowed,
		selected: strings.Join(quoted, ", "),
		rls:      rls,
	}
}

func (t *PGTable[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	err := t.run(ctx, func(q querier) error {
		rows, err := q.Query(ctx, "SELECT "+t.selected+" FROM "+t.name+" ORDER BY created_at DESC")
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[T])
		return err
	})
	if err != nil {
		return nil, t.wrap("list", err)
	}
	return out, nil
}

func (t *PGTable[T]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	var out T
	err := t.run(ctx, func(q querier) error {
		rows, err := q.Query(ctx, "SELECT "+t.selected+" FROM "+t.name+" WHERE id = $1", id)
		if err != nil {
			return err
		}
		out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[T])
		return err
	})
	if err != nil {
		return out, t.wrap("get", err)
	}
	return out, nil
}

func (t *PGTable[T]) Insert(ctx context.Context, cols map[string]any) (T, error) {
	var out T
	names, args, err := t.bind(cols)
	if err != nil {
		return out, err
	}

	sqlStr := "INSERT INTO " + t.name
	if len(names) == 0 {
		sqlStr += " DEFAULT VALUES"
	} else {
		ph := make([]string, len(names))
		for i := range names {
			ph[i] = fmt.Sprintf("$%d", i+1)
		}
		sqlStr += " (" + strings.Join(names, ", ") + ") VALUES (" + strings.Join(ph, ", ") + ")"
	}
	sqlStr += " RETURNING " + t.selected

	err = t.run(ctx, func(q querier) error {
		rows, err := q.Query(ctx, sqlStr, args...)
		if err != nil {
			return err
		}
		out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[T])
		return err
	})
	if err != nil {
		return out, t.wrap("insert", err)
	}
	return out, nil
}

func (t *PGTable[T]) Update(ctx context.Context, id uuid.UUID, cols map[string]any) (T, error) {
	var out T
	writable := make(map[string]any, len(cols))
	for k, v := range cols {
		if k == "created_by" || protected[k] {
			continue
		}
		writable[k] = v
	}
	names, args, err := t.bind(writable)
	if err != nil {
		return out, err
	}
	if len(names) == 0 {
		return out, ErrNoFields
	}

	sets := make([]string, 0, len(names)+1)
	for i, n := range names {
		sets = append(sets, fmt.Sprintf("%s = $%d", n, i+1))
	}
	sets = append(sets, "updated_at = now()")
	sqlStr := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		t.name, strings.Join(sets, ", "), len(args)+1, t.selected)
	args = append(args, id)

	err = t.run(ctx, func(q querier) error {
		rows, err := q.Query(ctx, sqlStr, args...)
		if err != nil {
			return err
		}
		out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[T])
		return err
	})
	if err != nil {
		return out, t.wrap("update", err)
	}
	return out, nil
}

func (t *PGTable[T]) Delete(ctx context.Context, id uuid.UUID) error {
	err := t.run(ctx, func(q querier) error {
		tag, err := q.Exec(ctx, "DELETE FROM "+t.name+" WHERE id = $1", id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
	if err != nil {
		return t.wrap("delete", err)
	}
	return nil
}

func (t *PGTable[T]) Count(ctx context.Context) (int, error) {
	var n int
	err := t.run(ctx, func(q querier) error {
		return q.QueryRow(ctx, "SELECT count(*) FROM "+t.name).Scan(&n)
	})
	if err != nil {
		return 0, t.wrap("count", err)
	}
	return n, nil
}

// bind checks cols against the whitelist and returns quoted names with
// their values in a stable order.
func (t *PGTable[T]) bind(cols map[string]any) ([]string, []any, error) {
	keys := sortedKeys(cols)
	names := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for _, k := range keys {
		if !t.columns[k] {
			return nil, nil, fmt.Errorf("%w: %s", ErrColumn, k)
		}
		names = append(names, pq.QuoteIdentifier(k))
		args = append(args, cols[k])
	}
	return names, args, nil
}

func (t *PGTable[T]) run(ctx context.Context, fn func(q querier) error) error {
	return runScoped(ctx, t.pool, t.rls, fn)
}

func (t *PGTable[T]) wrap(op string, err error) error {
	return mapError(fmt.Sprintf("%s %s", op, t.name), err)
}

func mapError(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, withMessage(ErrNotFound, "registro não encontrado"))
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w: %w", op, ErrConflict, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
