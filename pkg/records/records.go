// Package records is the external record store that model-backed tree items
// mirror. Records are loosely typed maps grouped by a lowercase model name.
package records

import (
	"context"
	"fmt"
	"strings"
)

// IDField is the key every record is identified by.
const IDField = "id"

// Record is one stored record.
type Record map[string]any

// ID returns the record id as a string.
func (r Record) ID() string {
	v, ok := r[IDField]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// String returns field as a string, or "" when it is missing.
func (r Record) String(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func (r Record) clone() Record {
	cp := make(Record, len(r))
	for k, v := range r {
		cp[k] = v
	}
	return cp
}

// Criteria selects records whose fields equal every given value. Values are
// compared by their printed form so that 7 and "7" match.
type Criteria map[string]any

// Match reports whether r satisfies c. Empty criteria match everything.
func (c Criteria) Match(r Record) bool {
	for k, want := range c {
		got, ok := r[k]
		if !ok {
			return false
		}
		if fmt.Sprint(got) != fmt.Sprint(want) {
			return false
		}
	}
	return true
}

// ByID is shorthand for Criteria{"id": id}.
func ByID(id string) Criteria {
	return Criteria{IDField: id}
}

// Store reads and writes records of named models.
type Store interface {
	// FindOne returns the first match, or nil when there is none.
	FindOne(ctx context.Context, model string, c Criteria) (Record, error)
	Find(ctx context.Context, model string, c Criteria) ([]Record, error)
	// Create assigns an id when r has none.
	Create(ctx context.Context, model string, r Record) (Record, error)
	// Update merges patch into every match and returns the updated records.
	Update(ctx context.Context, model string, c Criteria, patch Record) ([]Record, error)
}

// ValidID reports whether id can name a record file: not empty, no path
// separators, no dot segments.
func ValidID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, "/\\\x00")
}

// ModelName normalizes a model name.
func ModelName(model string) string {
	return strings.ToLower(strings.TrimSpace(model))
}
