// Package item defines the catalog tree node and its persisted nested form.
package item

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ID identifies an item within one catalog instance.
//
// The zero value is Root. On the wire Root is written as the literal 0 and
// 0, "0", "" and null all read back as Root, so callers only ever compare
// against Root or call IsRoot.
type ID string

// Root is the parent of every top-level item.
const Root ID = ""

// IsRoot reports whether id denotes "no parent".
func (id ID) IsRoot() bool {
	return id == Root
}

func (id ID) String() string {
	if id.IsRoot() {
		return "0"
	}
	return string(id)
}

// ParseID normalizes a raw id from a CLI argument or a loosely typed payload.
func ParseID(raw string) ID {
	raw = strings.TrimSpace(raw)
	if raw == "0" {
		return Root
	}
	return ID(raw)
}

// MarshalJSON writes Root as 0 and any other id as a string.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.IsRoot() {
		return []byte("0"), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts strings, numbers and null.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = Root
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ParseID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("item: id must be a string or number: %w", err)
	}
	if v, err := n.Int64(); err == nil {
		*id = ParseID(strconv.FormatInt(v, 10))
		return nil
	}
	*id = ParseID(n.String())
	return nil
}

// MarshalYAML mirrors MarshalJSON.
func (id ID) MarshalYAML() (interface{}, error) {
	if id.IsRoot() {
		return 0, nil
	}
	return string(id), nil
}

// Item is a single node of a catalog tree.
type Item struct {
	ID          ID     `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	ParentID    ID     `json:"parentId" yaml:"parentId"`
	SortOrder   int    `json:"sortOrder" yaml:"sortOrder"`
	Icon        string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Type        string `json:"type" yaml:"type"`
	URLPath     string `json:"urlPath,omitempty" yaml:"urlPath,omitempty"`
	ModelID     string `json:"modelId,omitempty" yaml:"modelId,omitempty"`
	TargetBlank bool   `json:"targetBlank,omitempty" yaml:"targetBlank,omitempty"`

	// Childs is only populated when projecting a nested view.
	Childs []*Item `json:"childs,omitempty" yaml:"childs,omitempty"`
	// Marked flags a search hit.
	Marked bool `json:"marked,omitempty" yaml:"marked,omitempty"`
}

// Clone returns a deep copy of the item.
func (it *Item) Clone() *Item {
	if it == nil {
		return nil
	}
	cp := *it
	if it.Childs != nil {
		cp.Childs = make([]*Item, len(it.Childs))
		for i, c := range it.Childs {
			cp.Childs[i] = c.Clone()
		}
	}
	return &cp
}

// Strip returns a copy without the transient projection fields.
func (it *Item) Strip() *Item {
	if it == nil {
		return nil
	}
	cp := *it
	cp.Childs = nil
	cp.Marked = false
	return &cp
}

// Less orders siblings by SortOrder, then ID so gaps and duplicates still
// yield a stable order.
func Less(a, b *Item) bool {
	if a.SortOrder != b.SortOrder {
		return a.SortOrder < b.SortOrder
	}
	return a.ID < b.ID
}

// Sort orders items in place by SortOrder.
func Sort(items []*Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return Less(items[i], items[j])
	})
}
