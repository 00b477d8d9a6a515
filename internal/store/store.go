// Package store is the remote table layer: one typed table per asset
// category, backed by PostgreSQL or by memory.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"itassets-dashboard/internal/models"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	// ErrNoFields is returned by Update when nothing writable was given.
	ErrNoFields = errors.New("no fields to update")
	// ErrColumn is returned when a payload names a column the table does not expose.
	ErrColumn = errors.New("column not writable")
)

// Table is the contract every asset table satisfies. Column maps hold
// either a string or nil (NULL); created_by may also be a uuid.UUID.
type Table[T models.Record] interface {
	// List returns every row, newest first.
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id uuid.UUID) (T, error)
	Insert(ctx context.Context, cols map[string]any) (T, error)
	// Update changes only the given columns and bumps updated_at. id,
	// created_at and created_by are never written.
	Update(ctx context.Context, id uuid.UUID, cols map[string]any) (T, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
}

// Counter is the part of Table the dashboard needs.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// protected columns are assigned by the store itself.
var protected = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// Message extracts the human readable message a failed operation carried,
// or "" when the error has none worth showing.
func Message(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Message
	}
	var me *messageError
	if errors.As(err, &me) {
		return me.msg
	}
	return ""
}

// messageError pairs a sentinel with the message shown to users.
type messageError struct {
	kind error
	msg  string
}

func (e *messageError) Error() string { return e.kind.Error() + ": " + e.msg }
func (e *messageError) Unwrap() error { return e.kind }

func withMessage(kind error, msg string) error {
	return &messageError{kind: kind, msg: msg}
}
