// Package accessor wraps one asset table with list/create/update/delete,
// a loading flag and user-facing notices. Every mutation re-lists on
// success; nothing is applied locally before the store confirms it.
package accessor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"itassets-dashboard/internal/entity"
	"itassets-dashboard/internal/models"
	"itassets-dashboard/internal/notify"
	"itassets-dashboard/internal/store"
)

// ErrStale is returned by List when the caller's context ended before the
// response could be applied.
var ErrStale = errors.New("stale list response")

// SessionFunc returns the identity of the caller, if any.
type SessionFunc func(ctx context.Context) (uuid.UUID, bool)

// Observer is told about every finished operation.
type Observer interface {
	ObserveOperation(entity, op string, err error)
}

type Option func(*config)

type config struct {
	session   SessionFunc
	observer  Observer
	noRefresh bool
}

// WithSession sets how created_by is resolved on create.
func WithSession(fn SessionFunc) Option {
	return func(c *config) { c.session = fn }
}

// WithObserver reports operation outcomes, typically to metrics.
func WithObserver(o Observer) Option {
	return func(c *config) { c.observer = o }
}

// WithoutRefresh skips the re-list after a successful mutation. Bulk loads
// use it; Records then holds the last explicit List.
func WithoutRefresh() Option {
	return func(c *config) { c.noRefresh = true }
}

type Accessor[T models.Record] struct {
	def      entity.Definition
	table    store.Table[T]
	notifier notify.Notifier
	cfg      config

	mu      sync.RWMutex
	records []T
	pending int
	gen     uint64
	last    T
}

// New builds an accessor and runs the initial list. The accessor is usable
// even when that first list fails; the error is returned alongside it.
func New[T models.Record](ctx context.Context, def entity.Definition, table store.Table[T], n notify.Notifier, opts ...Option) (*Accessor[T], error) {
	if n == nil {
		n = notify.Discard
	}
	cfg := config{session: func(context.Context) (uuid.UUID, bool) { return uuid.Nil, false }}
	for _, opt := range opts {
		opt(&cfg)
	}

	a := &Accessor[T]{def: def, table: table, notifier: n, cfg: cfg}
	return a, a.List(ctx)
}

// Definition returns the entity this accessor serves.
func (a *Accessor[T]) Definition() entity.Definition {
	return a.def
}

// List reloads the records. On failure the previous list is kept. A result
// that arrives after ctx is done, or after a newer List started, is dropped.
func (a *Accessor[T]) List(ctx context.Context) error {
	a.mu.Lock()
	a.pending++
	a.gen++
	gen := a.gen
	a.mu.Unlock()

	recs, err := a.table.List(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending--

	if ctx.Err() != nil {
		a.observe("list", ErrStale)
		return fmt.Errorf("%w: %w", ErrStale, ctx.Err())
	}
	if gen != a.gen {
		a.observe("list", ErrStale)
		return ErrStale
	}
	if err != nil {
		a.observe("list", err)
		a.notifier.Notify(notify.Failure("Erro", a.def.LoadFailure()))
		return err
	}

	a.records = recs
	a.observe("list", nil)
	return nil
}

// Create inserts a record from form values, stamping the caller as its
// creator when a session is present.
func (a *Accessor[T]) Create(ctx context.Context, data map[string]string) error {
	cols, err := a.def.ForInsert(data)
	if err != nil {
		return a.fail("create", "cadastrar", err)
	}
	if id, ok := a.cfg.session(ctx); ok {
		cols["created_by"] = id
	}

	rec, err := a.table.Insert(ctx, cols)
	if err != nil {
		return a.fail("create", "cadastrar", err)
	}
	a.remember(rec)
	return a.succeed(ctx, "create", "cadastrado")
}

// Update applies a partial update by id.
func (a *Accessor[T]) Update(ctx context.Context, id uuid.UUID, data map[string]string) error {
	cols, err := a.def.ToColumns(data)
	if err != nil {
		return a.fail("update", "atualizar", err)
	}
	rec, err := a.table.Update(ctx, id, cols)
	if err != nil {
		return a.fail("update", "atualizar", err)
	}
	a.remember(rec)
	return a.succeed(ctx, "update", "atualizado")
}

// Delete removes a record permanently.
func (a *Accessor[T]) Delete(ctx context.Context, id uuid.UUID) error {
	if err := a.table.Delete(ctx, id); err != nil {
		return a.fail("delete", "remover", err)
	}
	return a.succeed(ctx, "delete", "removido")
}

// Get reads one record straight from the store without touching the list.
func (a *Accessor[T]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	return a.table.Get(ctx, id)
}

// Last returns the row stored by the most recent successful Create or
// Update.
func (a *Accessor[T]) Last() T {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.last
}

func (a *Accessor[T]) remember(rec T) {
	a.mu.Lock()
	a.last = rec
	a.mu.Unlock()
}

// Records returns a copy of the current list.
func (a *Accessor[T]) Records() []T {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]T, len(a.records))
	copy(out, a.records)
	return out
}

// Rows returns the current list keyed by column name, ready for the grid.
func (a *Accessor[T]) Rows() []map[string]string {
	recs := a.Records()
	rows := make([]map[string]string, len(recs))
	for i, r := range recs {
		rows[i] = r.Values()
	}
	return rows
}

// Loading reports whether a list is outstanding.
func (a *Accessor[T]) Loading() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.pending > 0
}

func (a *Accessor[T]) succeed(ctx context.Context, op, verb string) error {
	a.observe(op, nil)
	a.notifier.Notify(notify.Success("Sucesso", a.def.Message(verb)))
	if a.cfg.noRefresh {
		return nil
	}
	// The mutation stands even if the refresh fails; List reports that itself.
	_ = a.List(ctx)
	return nil
}

func (a *Accessor[T]) fail(op, action string, err error) error {
	a.observe(op, err)
	msg := store.Message(err)
	if msg == "" {
		msg = a.def.Fallback(action)
	}
	a.notifier.Notify(notify.Failure("Erro", msg))
	return err
}

func (a *Accessor[T]) observe(op string, err error) {
	if a.cfg.observer != nil {
		a.cfg.observer.ObserveOperation(a.def.Slug, op, err)
	}
}
