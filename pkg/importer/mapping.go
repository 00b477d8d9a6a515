package importer

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"itassets-dashboard/internal/entity"
)

//go:embed default_mapping.yaml
var defaultMapping []byte

// Mapping lists extra header names per entity. Headers always match a
// field's name or label; aliases cover spreadsheets exported by other tools.
type Mapping struct {
	Version int                     `yaml:"version"`
	Sheets  map[string]SheetMapping `yaml:"sheets"`
}

// SheetMapping maps a form field name to the headers accepted for it.
type SheetMapping struct {
	Aliases map[string][]string `yaml:"aliases"`
}

// ParseMapping decodes a YAML mapping. Sheet keys may be a slug, table name
// or plural label; field names must exist on the entity.
func ParseMapping(data []byte) (*Mapping, error) {
	var m Mapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse mapping: %w", err)
	}

	normalized := make(map[string]SheetMapping, len(m.Sheets))
	for key, sheet := range m.Sheets {
		def, ok := entity.ByName(key)
		if !ok {
			return nil, fmt.Errorf("mapping: unknown sheet %q", key)
		}
		for field := range sheet.Aliases {
			if _, ok := def.Field(field); !ok {
				return nil, fmt.Errorf("mapping: sheet %q: %w: %s", key, entity.ErrUnknownField, field)
			}
		}
		normalized[def.Slug] = sheet
	}
	m.Sheets = normalized
	return &m, nil
}

// LoadMapping reads a mapping file.
func LoadMapping(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping: %w", err)
	}
	return ParseMapping(data)
}

// DefaultMapping returns the built-in aliases.
func DefaultMapping() *Mapping {
	m, err := ParseMapping(defaultMapping)
	if err != nil {
		panic(err)
	}
	return m
}

// resolve returns the form field a header names, if any.
func (m *Mapping) resolve(def entity.Definition, header string) (string, bool) {
	h := strings.TrimSpace(header)
	if h == "" {
		return "", false
	}
	for _, f := range def.Fields {
		if strings.EqualFold(f.Name, h) || strings.EqualFold(f.Label, h) {
			return f.Name, true
		}
		if col, ok := def.ColumnFor(f.Name); ok && strings.EqualFold(col, h) {
			return f.Name, true
		}
	}
	if m == nil {
		return "", false
	}
	for field, aliases := range m.Sheets[def.Slug].Aliases {
		for _, alias := range aliases {
			if strings.EqualFold(alias, h) {
				return field, true
			}
		}
	}
	return "", false
}
