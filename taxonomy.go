package triage

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
)

// Category identifies one taxonomy leaf in "Parent > Child" notation.
type Category string

// Entry binds a category to its routing team, example ticket phrasings and candidate next actions.
type Entry struct {
	Category  Category
	Team      string
	Phrasings []string
	Actions   []string
}

// Taxonomy is the closed, immutable catalog of categories.
// Lookups of a category outside the catalog are programming errors and panic.
type Taxonomy struct {
	order   []Category
	entries map[Category]Entry
}

// NewTaxonomy validates entries and builds a Taxonomy. Every entry needs a team, at least one
// phrasing and at least one action, and categories must be unique. Declaration order is kept so
// random selection is reproducible for a given seed.
func NewTaxonomy(entries []Entry) (*Taxonomy, error) {
	if len(entries) == 0 {
		return nil, errors.New("taxonomy has no categories")
	}

	t := &Taxonomy{
		order:   make([]Category, 0, len(entries)),
		entries: make(map[Category]Entry, len(entries)),
	}
	for _, e := range entries {
		if strings.TrimSpace(string(e.Category)) == "" {
			return nil, errors.New("taxonomy entry has an empty category")
		}
		if _, ok := t.entries[e.Category]; ok {
			return nil, fmt.Errorf("duplicate category %q", e.Category)
		}
		if strings.TrimSpace(e.Team) == "" {
			return nil, fmt.Errorf("category %q has no routing team", e.Category)
		}
		if len(e.Phrasings) == 0 {
			return nil, fmt.Errorf("category %q has no phrasings", e.Category)
		}
		if len(e.Actions) == 0 {
			return nil, fmt.Errorf("category %q has no next actions", e.Category)
		}

		t.order = append(t.order, e.Category)
		t.entries[e.Category] = Entry{
			Category:  e.Category,
			Team:      e.Team,
			Phrasings: slices.Clone(e.Phrasings),
			Actions:   slices.Clone(e.Actions),
		}
	}

	return t, nil
}

// MustNewTaxonomy is like NewTaxonomy but panics on an invalid catalog.
func MustNewTaxonomy(entries []Entry) *Taxonomy {
	t, err := NewTaxonomy(entries)
	if err != nil {
		panic(fmt.Sprintf("triage: %v", err))
	}
	return t
}

// Categories returns every category in declaration order.
func (t *Taxonomy) Categories() []Category {
	return slices.Clone(t.order)
}

// Contains reports whether c belongs to the catalog.
func (t *Taxonomy) Contains(c Category) bool {
	_, ok := t.entries[c]
	return ok
}

// Team returns the routing team bound to c.
func (t *Taxonomy) Team(c Category) string {
	return t.entry(c).Team
}

// Phrasings returns a copy of the example ticket phrasings of c.
func (t *Taxonomy) Phrasings(c Category) []string {
	return slices.Clone(t.entry(c).Phrasings)
}

// Actions returns a copy of the candidate next actions of c.
func (t *Taxonomy) Actions(c Category) []string {
	return slices.Clone(t.entry(c).Actions)
}

// RandomCategory picks a category uniformly.
func (t *Taxonomy) RandomCategory(rng *rand.Rand) Category {
	return t.order[rng.IntN(len(t.order))]
}

// RandomPhrasing picks one of the phrasings of c uniformly.
func (t *Taxonomy) RandomPhrasing(c Category, rng *rand.Rand) string {
	p := t.entry(c).Phrasings
	return p[rng.IntN(len(p))]
}

// RandomAction picks one of the next actions of c uniformly.
func (t *Taxonomy) RandomAction(c Category, rng *rand.Rand) string {
	a := t.entry(c).Actions
	return a[rng.IntN(len(a))]
}

func (t *Taxonomy) entry(c Category) Entry {
	e, ok := t.entries[c]
	if !ok {
		panic(fmt.Sprintf("triage: category %q is not in the taxonomy", c))
	}
	return e
}
