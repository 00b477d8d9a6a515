// Package table holds the read-only record grid: column descriptors, the
// substring filter, cell formatting and the spreadsheet export.
package table

import (
	"fmt"
	"strings"
	"time"
)

// Kind selects how a column's cells are rendered.
type Kind string

const (
	KindPlain  Kind = "plain"
	KindStatus Kind = "status"
	KindDate   Kind = "date"
)

// Placeholder is shown for missing or empty cells.
const Placeholder = "-"

// DateLayout is the pt-BR day/month/year format.
const DateLayout = "02/01/2006"

type Column struct {
	Key   string
	Label string
	Kind  Kind
}

// Actions records which row callbacks were supplied. A false flag means the
// action is not offered at all.
type Actions struct {
	View   bool
	Edit   bool
	Delete bool
}

// Any reports whether the actions column should be rendered.
func (a Actions) Any() bool {
	return a.View || a.Edit || a.Delete
}

// Filter keeps the rows where any value contains query, ignoring case.
// An empty query returns rows unchanged. Order is preserved.
func Filter(rows []map[string]string, query string) []map[string]string {
	if query == "" {
		return rows
	}
	needle := strings.ToLower(query)
	out := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		if matches(row, needle) {
			out = append(out, row)
		}
	}
	return out
}

func matches(row map[string]string, needle string) bool {
	for _, v := range row {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

// Tone is the colour class of a status badge.
type Tone string

const (
	TonePositive Tone = "positive"
	ToneNegative Tone = "negative"
	ToneWarning  Tone = "warning"
	ToneNeutral  Tone = "neutral"
)

// StatusTone maps a stored status to its badge colour.
func StatusTone(status string) Tone {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "ativo", "active":
		return TonePositive
	case "inativo", "inactive":
		return ToneNegative
	case "manutenção", "manutencao", "maintenance":
		return ToneWarning
	default:
		return ToneNeutral
	}
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatDate renders an ISO timestamp or date as DD/MM/YYYY. Values that do
// not parse are returned as given.
func FormatDate(value string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(DateLayout)
		}
	}
	return value
}

// Cell returns the display text of one cell.
func Cell(row map[string]string, col Column) string {
	v, ok := row[col.Key]
	if !ok || v == "" {
		return Placeholder
	}
	if col.Kind == KindDate {
		return FormatDate(v)
	}
	return v
}

// CountLabel is the "N itens encontrados" line under the search box.
func CountLabel(n int) string {
	if n == 1 {
		return "1 item encontrado"
	}
	return fmt.Sprintf("%d itens encontrados", n)
}

// EmptyMessage is shown in place of rows when nothing is visible.
func EmptyMessage(query string) string {
	if query != "" {
		return noResults
	}
	return "Nenhum item cadastrado"
}

const noResults = "Nenhum resultado encontrado"
