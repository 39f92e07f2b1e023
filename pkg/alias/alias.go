// Package alias maps tracked account handles to the names people actually
// write in captions, and back.
package alias

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"ignetwork/pkg/errors"
	"ignetwork/pkg/logger"
)

// Term is one searchable key and the handle it resolves to
type Term struct {
	Key       string
	Canonical string
}

// Table is a bidirectional alias table. Every tracked handle maps to itself;
// display names are aliases of exactly one handle.
type Table struct {
	entities  []string
	tracked   map[string]bool
	canonical map[string]string   // folded term -> handle
	aliases   map[string][]string // handle -> terms
	names     map[string]string   // handle -> display name
}

// New builds a table for the given tracked handles and handle->display-name
// map. Names of untracked handles only label vertices and are never searched.
func New(entities []string, names map[string]string) (*Table, error) {
	t := &Table{
		tracked:   make(map[string]bool, len(entities)),
		canonical: make(map[string]string, len(entities)+len(names)),
		aliases:   make(map[string][]string, len(entities)),
		names:     make(map[string]string, len(names)),
	}

	for _, handle := range entities {
		handle = TrimHandle(handle)
		if handle == "" || t.tracked[handle] {
			continue
		}
		key := Fold(handle)
		if other, ok := t.canonical[key]; ok {
			return nil, errors.Config("", fmt.Sprintf("handles %q and %q differ only by case", other, handle), nil)
		}
		t.entities = append(t.entities, handle)
		t.tracked[handle] = true
		t.canonical[key] = handle
		t.aliases[handle] = []string{handle}
	}

	handles := make([]string, 0, len(names))
	for handle := range names {
		handles = append(handles, handle)
	}
	sort.Strings(handles)

	for _, raw := range handles {
		handle := TrimHandle(raw)
		name := strings.TrimSpace(names[raw])
		if handle == "" || name == "" {
			continue
		}
		t.names[handle] = name

		if !t.tracked[handle] {
			continue
		}
		key := Fold(name)
		if owner, ok := t.canonical[key]; ok {
			if owner == handle {
				continue
			}
			return nil, errors.Config("", fmt.Sprintf("name %q of %q already resolves to %q", name, handle, owner), nil)
		}
		t.canonical[key] = handle
		t.aliases[handle] = append(t.aliases[handle], name)
	}

	return t, nil
}

// Load reads the handle->display-name JSON object at path. A missing file is
// a config error when required, otherwise the table holds only self-mappings.
func Load(path string, entities []string, required bool) (*Table, error) {
	if path == "" {
		return New(entities, nil)
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !required {
		logger.GetLogger().WithField("file", path).Warn("Name map not found, labels fall back to handles")
		return New(entities, nil)
	}
	if err != nil {
		return nil, errors.Config(path, "cannot read name map", err)
	}

	var names map[string]string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, errors.Parse(path, "name map is not a JSON object of strings", err)
	}

	t, err := New(entities, names)
	if err != nil {
		if e, ok := err.(*errors.Error); ok {
			e.Path = path
		}
		return nil, err
	}
	return t, nil
}

// Canonical resolves a handle, @handle or display name to its tracked handle
func (t *Table) Canonical(term string) (string, bool) {
	handle, ok := t.canonical[Fold(TrimHandle(term))]
	return handle, ok
}

// Resolve returns the tracked handle that s names case-insensitively, or the
// trimmed s when it is not a tracked handle. Display names do not resolve.
func (t *Table) Resolve(s string) string {
	s = TrimHandle(s)
	key := Fold(s)
	if handle, ok := t.canonical[key]; ok && Fold(handle) == key {
		return handle
	}
	return s
}

// Aliases returns the searchable terms of a tracked handle, the handle first
func (t *Table) Aliases(handle string) []string {
	terms := t.aliases[handle]
	out := make([]string, len(terms))
	copy(out, terms)
	return out
}

// DisplayName returns the mapped name of handle, or the handle itself
func (t *Table) DisplayName(handle string) string {
	if name, ok := t.names[handle]; ok {
		return name
	}
	return handle
}

// IsTracked reports whether handle belongs to the entity set
func (t *Table) IsTracked(handle string) bool {
	return t.tracked[handle]
}

// Entities returns the tracked handles in input order
func (t *Table) Entities() []string {
	out := make([]string, len(t.entities))
	copy(out, t.entities)
	return out
}

// SearchTerms lists every searchable key sorted by handle, then key
func (t *Table) SearchTerms() []Term {
	var terms []Term
	for handle, keys := range t.aliases {
		for _, key := range keys {
			terms = append(terms, Term{Key: key, Canonical: handle})
		}
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Canonical != terms[j].Canonical {
			return terms[i].Canonical < terms[j].Canonical
		}
		return terms[i].Key < terms[j].Key
	})
	return terms
}

// TrimHandle strips spaces and a leading @ from a handle
func TrimHandle(s string) string {
	return strings.TrimPrefix(strings.TrimSpace(s), "@")
}

// Fold returns the case-folded NFC form used to compare terms
func Fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}
