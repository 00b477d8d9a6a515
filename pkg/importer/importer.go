// Package importer loads asset records from an .xlsx workbook. Each sheet
// names one asset category; each data row goes through the same create path
// as the record form.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tealeg/xlsx/v3"

	"itassets-dashboard/internal/entity"
	"itassets-dashboard/internal/form"
	"itassets-dashboard/internal/models"
)

// ErrTooManyErrors stops an import once MaxErrors rows have failed.
var ErrTooManyErrors = errors.New("too many errors")

const maxSamples = 10

// Creator inserts one record from form values.
type Creator interface {
	Definition() entity.Definition
	Create(ctx context.Context, values map[string]string) error
}

// OpenFunc returns the creator for a category. It is called once per sheet.
type OpenFunc func(ctx context.Context, def entity.Definition) (Creator, error)

// Options controls an import run.
type Options struct {
	Mapping   *Mapping
	DryRun    bool
	MaxErrors int // default 50
}

// RowError describes a rejected row. Row is 1-based, as shown by spreadsheet
// tools.
type RowError struct {
	Sheet   string `json:"sheet"`
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// SheetSummary contains the statistics for one sheet.
type SheetSummary struct {
	Name     string     `json:"name"`
	Entity   string     `json:"entity"`
	Inserted int        `json:"inserted"`
	Skipped  int        `json:"skipped"`
	Errors   int        `json:"errors"`
	Unmapped []string   `json:"unmapped_headers,omitempty"`
	Samples  []RowError `json:"error_samples,omitempty"`
}

// Summary contains the statistics for the whole workbook. In a dry run
// Inserted counts the rows that would have been created.
type Summary struct {
	Inserted int            `json:"inserted"`
	Skipped  int            `json:"skipped"`
	Errors   int            `json:"errors"`
	Sheets   []SheetSummary `json:"sheets"`
	Ignored  []string       `json:"ignored_sheets,omitempty"`
	DryRun   bool           `json:"dry_run"`
}

// Import reads a workbook from r. Sheets whose name matches no category are
// listed in Summary.Ignored. The partial summary is returned with any error.
func Import(ctx context.Context, r io.Reader, open OpenFunc, opts Options) (Summary, error) {
	summary := Summary{DryRun: opts.DryRun, Sheets: []SheetSummary{}}
	if opts.MaxErrors <= 0 {
		opts.MaxErrors = 50
	}
	if opts.Mapping == nil {
		opts.Mapping = DefaultMapping()
	}

	// xlsx needs random access, so the upload is buffered.
	data, err := io.ReadAll(r)
	if err != nil {
		return summary, fmt.Errorf("read workbook: %w", err)
	}
	book, err := xlsx.OpenBinary(data)
	if err != nil {
		return summary, fmt.Errorf("open workbook: %w", err)
	}

	for _, sheet := range book.Sheets {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		def, ok := entity.ByName(sheet.Name)
		if !ok {
			summary.Ignored = append(summary.Ignored, sheet.Name)
			continue
		}

		var creator Creator
		if !opts.DryRun {
			if creator, err = open(ctx, def); err != nil {
				return summary, fmt.Errorf("open %s: %w", def.Slug, err)
			}
		}

		budget := opts.MaxErrors - summary.Errors
		s := processSheet(ctx, sheet, def, creator, opts.Mapping, budget)
		summary.Sheets = append(summary.Sheets, s)
		summary.Inserted += s.Inserted
		summary.Skipped += s.Skipped
		summary.Errors += s.Errors

		if summary.Errors >= opts.MaxErrors {
			return summary, fmt.Errorf("%w (%d), stopping import", ErrTooManyErrors, summary.Errors)
		}
	}
	return summary, nil
}

func processSheet(ctx context.Context, sheet *xlsx.Sheet, def entity.Definition, creator Creator, m *Mapping, budget int) SheetSummary {
	s := SheetSummary{Name: sheet.Name, Entity: def.Slug}
	if sheet.MaxRow == 0 {
		return s
	}

	reject := func(row int, msg string) {
		s.Errors++
		if len(s.Samples) < maxSamples {
			s.Samples = append(s.Samples, RowError{Sheet: sheet.Name, Row: row + 1, Message: msg})
		}
	}

	header, err := sheet.Row(0)
	if err != nil {
		reject(0, "failed to read header row: "+err.Error())
		return s
	}

	// GetCell creates missing cells, so every loop is bounded by MaxCol/MaxRow.
	columns := make(map[int]string, sheet.MaxCol)
	for c := 0; c < sheet.MaxCol; c++ {
		name := strings.TrimSpace(header.GetCell(c).String())
		if name == "" {
			continue
		}
		if field, ok := m.resolve(def, name); ok {
			columns[c] = field
		} else {
			s.Unmapped = append(s.Unmapped, name)
		}
	}

	for r := 1; r < sheet.MaxRow && s.Errors < budget; r++ {
		if ctx.Err() != nil {
			return s
		}
		row, err := sheet.Row(r)
		if err != nil {
			reject(r, err.Error())
			continue
		}

		values := make(map[string]string, len(columns))
		for c, field := range columns {
			if v := strings.TrimSpace(row.GetCell(c).String()); v != "" {
				values[field] = v
			}
		}
		if len(values) == 0 {
			s.Skipped++
			continue
		}
		if _, ok := values["status"]; !ok {
			values["status"] = models.StatusActive
		}

		if msg := validate(def, values); msg != "" {
			reject(r, msg)
			continue
		}
		if creator != nil {
			if err := creator.Create(ctx, values); err != nil {
				reject(r, err.Error())
				continue
			}
		}
		s.Inserted++
	}
	return s
}

// validate applies the form rules: required fields present, fixed-choice
// fields within their options.
func validate(def entity.Definition, values map[string]string) string {
	f := form.New(def.FormTitle(), def.Fields, values)
	if missing := f.Missing(); len(missing) > 0 {
		labels := make([]string, 0, len(missing))
		for _, field := range missing {
			labels = append(labels, field.Label)
		}
		return "campos obrigatórios: " + strings.Join(labels, ", ")
	}
	for _, field := range def.Fields {
		v, ok := values[field.Name]
		if !ok || field.Kind != form.KindChoice || field.HasChoice(v) {
			continue
		}
		return fmt.Sprintf("%s: valor inválido %q", field.Label, v)
	}
	return ""
}
