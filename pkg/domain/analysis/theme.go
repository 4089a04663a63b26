// Package analysis computes the derived views shown alongside disclosed
// risks: industry gap coverage for one company and the severity divergence
// matrix across several companies. Everything here is pure and works on
// data already loaded by the caller.
package analysis

import (
	"slices"

	"github.com/vanerisk/vane/pkg/domain/types"
)

// ThemeSet is a set of theme ids.
type ThemeSet map[types.ThemeID]struct{}

func NewThemeSet(ids ...types.ThemeID) ThemeSet {
	s := make(ThemeSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id. Empty ids are ignored.
func (s ThemeSet) Add(id types.ThemeID) {
	if id == "" {
		return
	}
	s[id] = struct{}{}
}

func (s ThemeSet) Has(id types.ThemeID) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the members in lexical order.
func (s ThemeSet) Sorted() []types.ThemeID {
	out := make([]types.ThemeID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// ThemeNames maps theme ids to display names.
type ThemeNames map[types.ThemeID]string

// Name returns the display name of id, or the id itself when unknown.
func (n ThemeNames) Name(id types.ThemeID) string {
	if name, ok := n[id]; ok && name != "" {
		return name
	}
	return string(id)
}
