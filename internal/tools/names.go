// Package tools maps internal tool identifiers to the names printed in the paper.
package tools

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownTool is returned when a tool has no display name.
var ErrUnknownTool = errors.New("unknown tool")

// Names maps tool identifier to display name. It is never modified after
// construction.
type Names map[string]string

// DisplayName returns the display name for id.
func (n Names) DisplayName(id string) (string, error) {
	name, ok := n[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, id)
	}
	return name, nil
}

// Validate reports every id in ids that has no display name.
func (n Names) Validate(ids []string) error {
	var missing []string
	for _, id := range ids {
		if _, ok := n[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: %s", ErrUnknownTool, strings.Join(missing, ", "))
}

// Entry is one identifier/display-name pair as written in config files.
type Entry struct {
	ID   string `mapstructure:"id"`
	Name string `mapstructure:"name"`
}

// FromEntries builds Names from config entries. Later entries win.
func FromEntries(entries []Entry) (Names, error) {
	n := make(Names, len(entries))
	for i, e := range entries {
		if e.ID == "" || e.Name == "" {
			return nil, fmt.Errorf("tool entry %d: id and name are required", i)
		}
		n[e.ID] = e.Name
	}
	return n, nil
}

// ParsePairs builds Names from "id=Display Name" strings.
func ParsePairs(pairs []string) (Names, error) {
	n := make(Names, len(pairs))
	for _, p := range pairs {
		id, name, ok := strings.Cut(p, "=")
		if !ok || id == "" || name == "" {
			return nil, fmt.Errorf("invalid tool name %q, expected id=name", p)
		}
		n[id] = name
	}
	return n, nil
}

// Merge returns a copy of n with every entry of other added on top.
func (n Names) Merge(other Names) Names {
	out := make(Names, len(n)+len(other))
	for k, v := range n {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}
