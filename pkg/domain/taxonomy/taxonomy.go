// Package taxonomy holds the fixed grouping of risk themes into categories
// used by the comparison matrix.
package taxonomy

import (
	"slices"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/types"
)

// Category is a named, ordered group of theme ids.
type Category struct {
	Name     string
	ThemeIDs []types.ThemeID
}

// Taxonomy is an immutable category table with a theme to category reverse index.
type Taxonomy struct {
	categories []Category
	index      map[types.ThemeID]int
}

// New builds a Taxonomy from categories in display order. The input is copied.
// When a theme appears in more than one category the first one wins; Validate
// reports the duplicate.
func New(categories []Category) *Taxonomy {
	t := &Taxonomy{
		categories: make([]Category, len(categories)),
		index:      make(map[types.ThemeID]int),
	}
	for i, c := range categories {
		t.categories[i] = Category{Name: c.Name, ThemeIDs: slices.Clone(c.ThemeIDs)}
		for _, id := range c.ThemeIDs {
			if _, exists := t.index[id]; !exists {
				t.index[id] = i
			}
		}
	}
	return t
}

// Categories returns the categories in display order.
func (t *Taxonomy) Categories() []Category {
	out := make([]Category, len(t.categories))
	for i, c := range t.categories {
		out[i] = Category{Name: c.Name, ThemeIDs: slices.Clone(c.ThemeIDs)}
	}
	return out
}

// CategoryOf returns the name of the category containing id.
func (t *Taxonomy) CategoryOf(id types.ThemeID) (string, bool) {
	i, ok := t.index[id]
	if !ok {
		return "", false
	}
	return t.categories[i].Name, true
}

func (t *Taxonomy) Contains(id types.ThemeID) bool {
	_, ok := t.index[id]
	return ok
}

// ThemeIDs returns every mapped theme id in display order.
func (t *Taxonomy) ThemeIDs() []types.ThemeID {
	out := make([]types.ThemeID, 0, len(t.index))
	for _, c := range t.categories {
		out = append(out, c.ThemeIDs...)
	}
	return out
}

// Unmapped returns the ids that no category contains, deduplicated and sorted.
func (t *Taxonomy) Unmapped(ids []types.ThemeID) []types.ThemeID {
	var out []types.ThemeID
	for _, id := range ids {
		if id == "" || t.Contains(id) || slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Validate checks that every category is named and non-empty, every theme id
// is well formed, and no theme id belongs to two categories.
func (t *Taxonomy) Validate() error {
	seen := make(map[types.ThemeID]string)
	names := make(map[string]struct{})

	for _, c := range t.categories {
		if c.Name == "" {
			return goerr.New("category name cannot be empty")
		}
		if _, dup := names[c.Name]; dup {
			return goerr.New("duplicate category", goerr.V("category", c.Name))
		}
		names[c.Name] = struct{}{}

		if len(c.ThemeIDs) == 0 {
			return goerr.New("category has no themes", goerr.V("category", c.Name))
		}
		for _, id := range c.ThemeIDs {
			if err := id.Validate(); err != nil {
				return goerr.Wrap(err, "invalid theme in category", goerr.V("category", c.Name))
			}
			if prev, dup := seen[id]; dup {
				return goerr.New("theme belongs to more than one category",
					goerr.V("theme_id", id),
					goerr.V("category", c.Name),
					goerr.V("previous", prev))
			}
			seen[id] = c.Name
		}
	}
	return nil
}
