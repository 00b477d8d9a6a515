package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"itassets-dashboard/internal/models"
)

// MemoryTable keeps rows in process. It backs STORE_DRIVER=memory and the
// unit tests, with the same ordering and error semantics as PGTable.
type MemoryTable[T models.Record] struct {
	mu      sync.RWMutex
	name    string
	columns map[string]bool
	unique  []string
	rows    map[uuid.UUID]map[string]any
	clock   *monotonic
}

// NewMemoryTable builds an empty table. unique lists columns whose non-empty
// values may not repeat.
func NewMemoryTable[T models.Record](name string, columns []string, unique ...string) *MemoryTable[T] {
	allowed := map[string]bool{"status": true, "created_by": true}
	for _, c := range columns {
		allowed[c] = true
	}
	return &MemoryTable[T]{
		name:    name,
		columns: allowed,
		unique:  unique,
		rows:    map[uuid.UUID]map[string]any{},
		clock:   &monotonic{now: time.Now},
	}
}

func (m *MemoryTable[T]) List(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	ordered := make([]map[string]any, 0, len(m.rows))
	for _, row := range m.rows {
		ordered = append(ordered, row)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i]["created_at"].(time.Time).After(ordered[j]["created_at"].(time.Time))
	})

	out := make([]T, 0, len(ordered))
	for _, row := range ordered {
		rec, err := decode[T](row)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", m.name, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (m *MemoryTable[T]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	row, ok := m.rows[id]
	if !ok {
		return zero, m.notFound("get")
	}
	return decode[T](row)
}

func (m *MemoryTable[T]) Insert(ctx context.Context, cols map[string]any) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if err := m.check(cols); err != nil {
		return zero, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkUnique(uuid.Nil, cols); err != nil {
		return zero, err
	}

	now := m.clock.next()
	row := map[string]any{
		"id":         uuid.New(),
		"status":     models.StatusActive,
		"created_at": now,
		"updated_at": now,
	}
	for k, v := range cols {
		row[k] = v
	}
	m.rows[row["id"].(uuid.UUID)] = row
	return decode[T](row)
}

func (m *MemoryTable[T]) Update(ctx context.Context, id uuid.UUID, cols map[string]any) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	writable := make(map[string]any, len(cols))
	for k, v := range cols {
		if k == "created_by" || protected[k] {
			continue
		}
		writable[k] = v
	}
	if err := m.check(writable); err != nil {
		return zero, err
	}
	if len(writable) == 0 {
		return zero, ErrNoFields
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.rows[id]
	if !ok {
		return zero, m.notFound("update")
	}
	if err := m.checkUnique(id, writable); err != nil {
		return zero, err
	}
	for k, v := range writable {
		row[k] = v
	}
	row["updated_at"] = m.clock.next()
	return decode[T](row)
}

func (m *MemoryTable[T]) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rows[id]; !ok {
		return m.notFound("delete")
	}
	delete(m.rows, id)
	return nil
}

func (m *MemoryTable[T]) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows), nil
}

func (m *MemoryTable[T]) check(cols map[string]any) error {
	for k := range cols {
		if !m.columns[k] {
			return fmt.Errorf("%w: %s", ErrColumn, k)
		}
	}
	return nil
}

func (m *MemoryTable[T]) checkUnique(self uuid.UUID, cols map[string]any) error {
	for _, col := range m.unique {
		v, ok := cols[col].(string)
		if !ok || v == "" {
			continue
		}
		for id, row := range m.rows {
			if id != self && row[col] == v {
				msg := fmt.Sprintf("duplicate key value violates unique constraint on %q", col)
				return fmt.Errorf("%s %s: %w", "write", m.name, withMessage(ErrConflict, msg))
			}
		}
	}
	return nil
}

func (m *MemoryTable[T]) notFound(op string) error {
	return fmt.Errorf("%s %s: %w", op, m.name, withMessage(ErrNotFound, "registro não encontrado"))
}

// monotonic hands out strictly increasing timestamps.
type monotonic struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

func (c *monotonic) next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now().UTC()
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}
