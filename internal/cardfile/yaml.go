package cardfile

import (
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/encukou/ptcgdex/internal/domain"
)

// DateLayout is the wire format for set-level dates.
const DateLayout = "2006-01-02"

// Document is one decoded YAML document: a bare card record, or a set file
// carrying set metadata plus a cards list.
type Document struct {
	Set   *SetMeta
	Cards []*Record
}

// SetMeta is the set-level metadata of a set file.
type SetMeta struct {
	Name        string
	Total       *int
	ReleaseDate *time.Time
	BanDate     *time.Time
}

// DecodeDocuments reads a full YAML document stream. Each document is
// classified by the presence of a "cards" key; set-level fields are
// consumed with the same leftover discipline as card fields.
func DecodeDocuments(r io.Reader) ([]*Document, error) {
	dec := yaml.NewDecoder(r)
	var docs []*Document
	for {
		var raw map[string]any
		err := dec.Decode(&raw)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode card file: %w", err)
		}
		if raw == nil {
			continue
		}
		doc, err := parseDocument(NewRecord(raw))
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
}

func parseDocument(rec *Record) (*Document, error) {
	if !rec.Has("cards") {
		return &Document{Cards: []*Record{rec}}, nil
	}

	cards, _, err := rec.PopMapList("cards")
	if err != nil {
		return nil, err
	}
	name, hasName, err := rec.PopString("name")
	if err != nil {
		return nil, err
	}
	if !hasName {
		return nil, &domain.SchemaMismatchError{Missing: []string{"name"}}
	}
	total, hasTotal, err := rec.PopInt("total")
	if err != nil {
		return nil, err
	}
	release, err := popDate(rec, "release date")
	if err != nil {
		return nil, err
	}
	ban, err := popDate(rec, "modified ban date")
	if err != nil {
		return nil, err
	}
	if rec.Len() > 0 {
		return nil, &domain.SchemaMismatchError{Leftover: rec.Leftover()}
	}

	meta := &SetMeta{Name: name, ReleaseDate: release, BanDate: ban}
	if hasTotal {
		meta.Total = &total
	}
	return &Document{Set: meta, Cards: cards}, nil
}

// popDate consumes an ISO date. The YAML decoder may hand dates over as
// strings or as resolved time.Time values depending on quoting.
func popDate(rec *Record, key string) (*time.Time, error) {
	v, ok := rec.Get(key)
	if !ok {
		return nil, nil
	}
	rec.Discard(key)
	switch d := v.(type) {
	case string:
		t, err := time.Parse(DateLayout, d)
		if err != nil {
			return nil, fmt.Errorf("field %q: %q is not an ISO date: %w", key, d, domain.ErrValidation)
		}
		return &t, nil
	case time.Time:
		return &d, nil
	default:
		return nil, fmt.Errorf("field %q: expected date, got %T: %w", key, v, domain.ErrValidation)
	}
}

// EncodeDocuments writes documents as a YAML stream with two-space indent,
// separated by the standard document marker.
func EncodeDocuments(w io.Writer, docs ...any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for _, doc := range docs {
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode card file: %w", err)
		}
	}
	return enc.Close()
}
