package models

import (
	"time"

	"github.com/google/uuid"
)

// Status values stored in every asset table.
const (
	StatusActive      = "Ativo"
	StatusInactive    = "Inativo"
	StatusMaintenance = "Manutenção"
)

// StatusChoices is the fixed option set offered by the status field.
var StatusChoices = []string{StatusActive, StatusInactive, StatusMaintenance}

// Record is implemented by every asset row.
type Record interface {
	RecordID() uuid.UUID
	// Values returns the row keyed by column name. NULL columns map to "".
	Values() map[string]string
}

// Base holds the columns shared by all asset tables.
type Base struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	Status    string     `db:"status" json:"status"`
	CreatedBy *uuid.UUID `db:"created_by" json:"created_by"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// RecordID returns the server-assigned identity.
func (b Base) RecordID() uuid.UUID {
	return b.ID
}

func (b Base) values() map[string]string {
	v := map[string]string{
		"id":         b.ID.String(),
		"status":     b.Status,
		"created_by": "",
		"created_at": formatTime(b.CreatedAt),
		"updated_at": formatTime(b.UpdatedAt),
	}
	if b.CreatedBy != nil {
		v["created_by"] = b.CreatedBy.String()
	}
	return v
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// str dereferences a nullable column.
func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
