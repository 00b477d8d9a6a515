package store

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// decode fills a T from a column map using the struct's db tags, the same
// way pgx.RowToStructByName maps result columns. Embedded structs are
// flattened and text values are parsed into uuid and time fields.
func decode[T any](row map[string]any) (T, error) {
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "db",
		Squash:     true,
		DecodeHook: mapstructure.TextUnmarshallerHookFunc(),
		Result:     &out,
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(row); err != nil {
		var zero T
		return zero, fmt.Errorf("decode row: %w", err)
	}
	return out, nil
}
