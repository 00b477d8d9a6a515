// Package assets bundles the five typed asset tables behind one value so
// the pages, the JSON API and the importer share the same backing store.
package assets

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"itassets-dashboard/internal/accessor"
	"itassets-dashboard/internal/entity"
	"itassets-dashboard/internal/models"
	"itassets-dashboard/internal/notify"
	"itassets-dashboard/internal/store"
)

type Tables struct {
	Computers    store.Table[models.Computer]
	Phones       store.Table[models.Phone]
	Switches     store.Table[models.Switch]
	AccessPoints store.Table[models.AccessPoint]
	Collectors   store.Table[models.Collector]
}

// NewMemory returns empty in-process tables.
func NewMemory() *Tables {
	return &Tables{
		Computers:    memory[models.Computer](entity.Computers),
		Phones:       memory[models.Phone](entity.Phones),
		Switches:     memory[models.Switch](entity.Switches),
		AccessPoints: memory[models.AccessPoint](entity.AccessPoints),
		Collectors:   memory[models.Collector](entity.Collectors),
	}
}

// NewPostgres returns tables backed by pool. With rls set every statement
// runs in a transaction carrying the caller's id for the row level policies.
func NewPostgres(pool *pgxpool.Pool, rls bool) *Tables {
	return &Tables{
		Computers:    postgres[models.Computer](pool, entity.Computers, rls),
		Phones:       postgres[models.Phone](pool, entity.Phones, rls),
		Switches:     postgres[models.Switch](pool, entity.Switches, rls),
		AccessPoints: postgres[models.AccessPoint](pool, entity.AccessPoints, rls),
		Collectors:   postgres[models.Collector](pool, entity.Collectors, rls),
	}
}

func memory[T models.Record](def entity.Definition) store.Table[T] {
	return store.NewMemoryTable[T](def.Table, def.ColumnNames(), def.Unique...)
}

func postgres[T models.Record](pool *pgxpool.Pool, def entity.Definition, rls bool) store.Table[T] {
	return store.NewPGTable[T](pool, def.Table, def.ColumnNames(), rls)
}

// Writer is the part of an accessor that does not depend on the record
// type. Bulk loads go through it.
type Writer interface {
	Definition() entity.Definition
	Create(ctx context.Context, data map[string]string) error
}

// Open builds the accessor of def over its table. The initial list runs as
// usual; its error is returned.
func (t *Tables) Open(ctx context.Context, def entity.Definition, n notify.Notifier, opts ...accessor.Option) (Writer, error) {
	switch def.Slug {
	case entity.Computers.Slug:
		return accessor.New(ctx, def, t.Computers, n, opts...)
	case entity.Phones.Slug:
		return accessor.New(ctx, def, t.Phones, n, opts...)
	case entity.Switches.Slug:
		return accessor.New(ctx, def, t.Switches, n, opts...)
	case entity.AccessPoints.Slug:
		return accessor.New(ctx, def, t.AccessPoints, n, opts...)
	case entity.Collectors.Slug:
		return accessor.New(ctx, def, t.Collectors, n, opts...)
	}
	return nil, fmt.Errorf("unknown entity %q", def.Slug)
}

// Counters maps each entity slug to its table.
func (t *Tables) Counters() map[string]store.Counter {
	return map[string]store.Counter{
		entity.Computers.Slug:    t.Computers,
		entity.Phones.Slug:       t.Phones,
		entity.Switches.Slug:     t.Switches,
		entity.AccessPoints.Slug: t.AccessPoints,
		entity.Collectors.Slug:   t.Collectors,
	}
}

// Counts holds the dashboard totals.
type Counts struct {
	BySlug map[string]int `json:"by_slug"`
	Total  int            `json:"total"`
}

// Of returns the count for one entity.
func (c Counts) Of(slug string) int {
	return c.BySlug[slug]
}

// Count queries every table concurrently. Any failure fails the whole call
// and cancels the other queries.
func (t *Tables) Count(ctx context.Context) (Counts, error) {
	counters := t.Counters()

	var mu sync.Mutex
	out := Counts{BySlug: make(map[string]int, len(counters))}

	g, ctx := errgroup.WithContext(ctx)
	for slug, c := range counters {
		g.Go(func() error {
			n, err := c.Count(ctx)
			if err != nil {
				return fmt.Errorf("count %s: %w", slug, err)
			}
			mu.Lock()
			out.BySlug[slug] = n
			out.Total += n
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Counts{}, err
	}
	return out, nil
}
