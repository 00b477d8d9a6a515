package table

import (
	"encoding/json"
	"sort"
	"strings"
)

// Row is one rendered line of the grid. Search holds every field value of
// the record, lowercased, as a JSON array for the in-page filter.
type Row struct {
	ID     string
	Cells  []ViewCell
	Search string
}

// ViewCell is a formatted cell; Tone is set only for status columns.
type ViewCell struct {
	Text string
	Tone Tone
}

// View is everything a template needs to draw the grid.
type View struct {
	Title   string
	Query   string
	Columns []Column
	Actions Actions
	Rows    []Row
	Total   int
}

// NewView filters rows by query and formats every visible cell. Rows are
// keyed by column name; the "id" key becomes Row.ID.
func NewView(title string, cols []Column, rows []map[string]string, query string, actions Actions) View {
	visible := Filter(rows, query)
	v := View{
		Title:   title,
		Query:   query,
		Columns: cols,
		Actions: actions,
		Rows:    make([]Row, 0, len(visible)),
		Total:   len(rows),
	}
	for _, raw := range visible {
		r := Row{ID: raw["id"], Cells: make([]ViewCell, 0, len(cols)), Search: searchKey(raw)}
		for _, col := range cols {
			c := ViewCell{Text: Cell(raw, col)}
			if col.Kind == KindStatus {
				c.Tone = StatusTone(raw[col.Key])
			}
			r.Cells = append(r.Cells, c)
		}
		v.Rows = append(v.Rows, r)
	}
	return v
}

func searchKey(row map[string]string) string {
	vals := make([]string, 0, len(row))
	for _, v := range row {
		if v != "" {
			vals = append(vals, strings.ToLower(v))
		}
	}
	sort.Strings(vals)
	b, _ := json.Marshal(vals)
	return string(b)
}

// NoMatchMessage is shown when the in-page filter hides every row.
func (v View) NoMatchMessage() string {
	return noResults
}

// CountLabel reports the number of visible rows.
func (v View) CountLabel() string {
	return CountLabel(len(v.Rows))
}

// Empty reports whether no row is visible.
func (v View) Empty() bool {
	return len(v.Rows) == 0
}

func (v View) EmptyMessage() string {
	return EmptyMessage(v.Query)
}
