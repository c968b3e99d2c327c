// Package cardfile reads and writes the semi-structured card record format:
// YAML document streams where each document is either a single card mapping
// or a set file with metadata and a cards list.
package cardfile

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/encukou/ptcgdex/internal/domain"
)

// Record wraps one raw card mapping for consume-style decomposition. Every
// recognized field is popped off; whatever survives is reported by Leftover
// so unknown fields fail loudly instead of being dropped.
type Record struct {
	fields map[string]any
}

// NewRecord wraps a decoded YAML mapping.
func NewRecord(fields map[string]any) *Record {
	if fields == nil {
		fields = map[string]any{}
	}
	return &Record{fields: fields}
}

// Has reports whether the field is still present.
func (r *Record) Has(key string) bool {
	_, ok := r.fields[key]
	return ok
}

// Len is the number of unconsumed fields.
func (r *Record) Len() int { return len(r.fields) }

// Leftover returns the unconsumed field names, sorted.
func (r *Record) Leftover() []string {
	if len(r.fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(r.fields))
	for k := range r.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Discard pops fields without looking at their values. Used for legacy
// fields that are recognized but carry no modeled meaning.
func (r *Record) Discard(keys ...string) {
	for _, k := range keys {
		delete(r.fields, k)
	}
}

// Set writes or replaces a field. Used by the correction table.
func (r *Record) Set(key string, value any) { r.fields[key] = value }

// Get reads a field without consuming it.
func (r *Record) Get(key string) (any, bool) {
	v, ok := r.fields[key]
	return v, ok
}

func (r *Record) pop(key string) (any, bool) {
	v, ok := r.fields[key]
	if ok {
		delete(r.fields, key)
	}
	return v, ok
}

func typeError(key string, want string, got any) error {
	return fmt.Errorf("field %q: expected %s, got %T: %w", key, want, got, domain.ErrValidation)
}

// PopString consumes a string field.
func (r *Record) PopString(key string) (string, bool, error) {
	v, ok := r.pop(key)
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, typeError(key, "string", v)
	}
	return s, true, nil
}

// PopNumberString consumes a field that may be written as a bare integer
// or as a string, such as in-set numbers ("12", "12a", "SH1").
func (r *Record) PopNumberString(key string) (string, bool, error) {
	v, ok := r.pop(key)
	if !ok {
		return "", false, nil
	}
	switch n := v.(type) {
	case string:
		return n, true, nil
	case int:
		return strconv.Itoa(n), true, nil
	default:
		return "", false, typeError(key, "string or integer", v)
	}
}

// PopInt consumes an integer field.
func (r *Record) PopInt(key string) (int, bool, error) {
	v, ok := r.pop(key)
	if !ok {
		return 0, false, nil
	}
	n, ok := v.(int)
	if !ok {
		return 0, false, typeError(key, "integer", v)
	}
	return n, true, nil
}

// PopBool consumes a boolean field.
func (r *Record) PopBool(key string) (bool, bool, error) {
	v, ok := r.pop(key)
	if !ok {
		return false, false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, false, typeError(key, "boolean", v)
	}
	return b, true, nil
}

// PopFloat consumes a numeric field, accepting both integer and float forms.
func (r *Record) PopFloat(key string) (float64, bool, error) {
	v, ok := r.pop(key)
	if !ok {
		return 0, false, nil
	}
	switch n := v.(type) {
	case float64:
		return n, true, nil
	case int:
		return float64(n), true, nil
	default:
		return 0, false, typeError(key, "number", v)
	}
}

// PopStringList consumes a list of strings. A bare scalar is accepted as a
// one-element list, matching how older records wrote single-valued fields.
func (r *Record) PopStringList(key string) ([]string, bool, error) {
	v, ok := r.pop(key)
	if !ok {
		return nil, false, nil
	}
	switch list := v.(type) {
	case string:
		return []string{list}, true, nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false, typeError(key, "list of strings", item)
			}
			out = append(out, s)
		}
		return out, true, nil
	default:
		return nil, false, typeError(key, "list of strings", v)
	}
}

// PopMap consumes a nested mapping as its own Record.
func (r *Record) PopMap(key string) (*Record, bool, error) {
	v, ok := r.pop(key)
	if !ok {
		return nil, false, nil
	}
	m, err := asMapping(key, v)
	if err != nil {
		return nil, false, err
	}
	return NewRecord(m), true, nil
}

// PopMapList consumes a list of mappings, each wrapped as a Record.
func (r *Record) PopMapList(key string) ([]*Record, bool, error) {
	v, ok := r.pop(key)
	if !ok {
		return nil, false, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, false, typeError(key, "list of mappings", v)
	}
	out := make([]*Record, 0, len(list))
	for _, item := range list {
		m, err := asMapping(key, item)
		if err != nil {
			return nil, false, err
		}
		out = append(out, NewRecord(m))
	}
	return out, true, nil
}

func asMapping(key string, v any) (map[string]any, error) {
	switch m := v.(type) {
	case map[string]any:
		return m, nil
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, typeError(key, "mapping with string keys", k)
			}
			out[ks] = val
		}
		return out, nil
	default:
		return nil, typeError(key, "mapping", v)
	}
}
