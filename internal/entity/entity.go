// Package entity describes the five asset categories: their tables, form
// fields, grid columns and the explicit form-name to column-name mapping.
package entity

import (
	"errors"
	"fmt"
	"strings"

	"itassets-dashboard/internal/form"
	"itassets-dashboard/internal/models"
	"itassets-dashboard/internal/table"
)

// ErrUnknownField is returned when a payload names a field the entity does
// not define.
var ErrUnknownField = errors.New("unknown field")

// Mapping renames one form field to its column.
type Mapping struct {
	Form   string
	Column string
}

// Definition is everything the generic accessor and page need to know about
// one asset category.
type Definition struct {
	Table       string
	Slug        string
	Singular    string
	Plural      string
	Description string
	Fields      []form.Field
	Mappings    []Mapping
	Columns     []table.Column
	// Unique lists columns backed by a unique index.
	Unique []string
}

// Heading is the page title, e.g. "Gestão de Computadores".
func (d Definition) Heading() string { return "Gestão de " + d.Plural }

// FormTitle is the create form title.
func (d Definition) FormTitle() string { return "Cadastrar Novo " + d.Singular }

// EditTitle is the edit form title.
func (d Definition) EditTitle() string { return "Editar " + d.Singular }

// ListTitle is the grid title.
func (d Definition) ListTitle() string { return "Lista de " + d.Plural }

// NewButton is the label of the create button.
func (d Definition) NewButton() string { return "Novo " + d.Singular }

// Message builds the notice text for a completed mutation; verb is one of
// "cadastrado", "atualizado" or "removido".
func (d Definition) Message(verb string) string {
	return fmt.Sprintf("%s %s com sucesso!", d.Singular, verb)
}

// Fallback builds the failure text used when the store gives no message;
// action is one of "cadastrar", "atualizar" or "remover".
func (d Definition) Fallback(action string) string {
	return fmt.Sprintf("Erro ao %s %s.", action, strings.ToLower(d.Singular))
}

// LoadFailure is the notice text for a failed list.
func (d Definition) LoadFailure() string {
	return fmt.Sprintf("Não foi possível carregar os %s.", strings.ToLower(d.Plural))
}

// Field looks up a form field descriptor by name.
func (d Definition) Field(name string) (form.Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return form.Field{}, false
}

// ColumnFor returns the column a form field is stored in.
func (d Definition) ColumnFor(formName string) (string, bool) {
	for _, m := range d.Mappings {
		if m.Form == formName {
			return m.Column, true
		}
	}
	return "", false
}

// ColumnNames lists the writable columns of the table.
func (d Definition) ColumnNames() []string {
	cols := make([]string, 0, len(d.Mappings)+1)
	for _, m := range d.Mappings {
		cols = append(cols, m.Column)
	}
	return append(cols, "created_by")
}

// ToColumns renames a form payload to column names. Empty optional values
// become NULL; empty required values are passed through as "".
func (d Definition) ToColumns(values map[string]string) (map[string]any, error) {
	cols := make(map[string]any, len(values))
	for name, v := range values {
		column, ok := d.ColumnFor(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
		f, _ := d.Field(name)
		if v == "" && !f.Required {
			cols[column] = nil
			continue
		}
		cols[column] = v
	}
	return cols, nil
}

// ForInsert is ToColumns plus the insert defaults: a missing status becomes
// Ativo.
func (d Definition) ForInsert(values map[string]string) (map[string]any, error) {
	cols, err := d.ToColumns(values)
	if err != nil {
		return nil, err
	}
	if s, ok := cols["status"]; !ok || s == nil || s == "" {
		cols["status"] = models.StatusActive
	}
	return cols, nil
}

// ToForm is the inverse of ToColumns for a stored record. Only mapped
// fields are returned.
func (d Definition) ToForm(rec models.Record) map[string]string {
	row := rec.Values()
	values := make(map[string]string, len(d.Mappings))
	for _, m := range d.Mappings {
		values[m.Form] = row[m.Column]
	}
	return values
}

// Check verifies that every field has a mapping and every mapping a field.
func (d Definition) Check() error {
	if len(d.Fields) != len(d.Mappings) {
		return fmt.Errorf("%s: %d fields but %d mappings", d.Slug, len(d.Fields), len(d.Mappings))
	}
	for _, f := range d.Fields {
		if _, ok := d.ColumnFor(f.Name); !ok {
			return fmt.Errorf("%s: field %q has no column", d.Slug, f.Name)
		}
	}
	return nil
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
