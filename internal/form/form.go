// Package form implements the record form: a labelled input set described by
// field descriptors, collected into a flat name → string mapping.
package form

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"itassets-dashboard/internal/notify"
)

// Kind is the input type rendered for a field.
type Kind string

const (
	KindLine      Kind = "line"
	KindChoice    Kind = "choice"
	KindMultiline Kind = "multiline"
)

// Field describes one input.
type Field struct {
	Name        string
	Label       string
	Kind        Kind
	Placeholder string
	Required    bool
	Choices     []string
}

// HasChoice reports whether v is one of the field's fixed options.
func (f Field) HasChoice(v string) bool {
	for _, c := range f.Choices {
		if c == v {
			return true
		}
	}
	return false
}

// ErrMissingFields is returned by Submit when a required field is empty.
var ErrMissingFields = errors.New("required fields missing")

// SubmitFunc receives the full value mapping of a valid form.
type SubmitFunc func(ctx context.Context, values map[string]string) error

// Form is the state of one record form.
type Form struct {
	Title  string
	Fields []Field
	Values map[string]string
}

// New builds a form seeded with a copy of seed (which may be nil).
func New(title string, fields []Field, seed map[string]string) *Form {
	values := make(map[string]string, len(seed))
	for k, v := range seed {
		values[k] = v
	}
	return &Form{Title: title, Fields: fields, Values: values}
}

// Value returns the current value of a field.
func (f *Form) Value(name string) string {
	return f.Values[name]
}

// Set updates one field value.
func (f *Form) Set(name, value string) {
	if f.Values == nil {
		f.Values = map[string]string{}
	}
	f.Values[name] = value
}

// Missing returns the required fields that have no value, in descriptor order.
func (f *Form) Missing() []Field {
	var missing []Field
	for _, field := range f.Fields {
		if field.Required && f.Values[field.Name] == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// Submit validates the form and hands the values to fn.
//
// A missing required field aborts before fn is called. The values are cleared
// only after fn succeeds.
func (f *Form) Submit(ctx context.Context, fn SubmitFunc, n notify.Notifier) error {
	if n == nil {
		n = notify.Discard
	}

	if missing := f.Missing(); len(missing) > 0 {
		labels := make([]string, 0, len(missing))
		for _, field := range missing {
			labels = append(labels, field.Label)
		}
		joined := strings.Join(labels, ", ")
		n.Notify(notify.Failure("Campos obrigatórios", "Por favor, preencha: "+joined))
		return fmt.Errorf("%w: %s", ErrMissingFields, joined)
	}

	values := make(map[string]string, len(f.Values))
	for k, v := range f.Values {
		values[k] = v
	}

	if err := fn(ctx, values); err != nil {
		n.Notify(notify.Failure("Erro", "Ocorreu um erro ao salvar. Tente novamente."))
		return err
	}

	n.Notify(notify.Success("Sucesso!", f.Title+" salvo com sucesso."))
	f.Values = map[string]string{}
	return nil
}

// Cancel discards in-progress edits without validation.
func (f *Form) Cancel() {
	f.Values = map[string]string{}
}

// Bind reads exactly the descriptor names from a posted form. Values are
// kept as typed; a choice value outside the field's options is dropped.
func (f *Form) Bind(r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("parse form: %w", err)
	}
	for _, field := range f.Fields {
		v := r.PostForm.Get(field.Name)
		if field.Kind == KindChoice && v != "" && !field.HasChoice(v) {
			v = ""
		}
		f.Set(field.Name, v)
	}
	return nil
}
