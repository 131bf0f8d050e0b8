package catalog

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// ErrNotFound is returned when a lookup matches no concept.
var ErrNotFound = errors.New("concept not found")

// catalog holds the concept list with precomputed indices.
type catalog struct {
	concepts   []Concept
	bySymbol   map[string]*Concept
	byName     map[string]*Concept
	byOrdinal  map[int]*Concept
	byCategory map[Category][]Concept
}

// c is the package-level catalog singleton, set by init() in seed.go.
var c *catalog

func buildCatalog(concepts []Concept) *catalog {
	sorted := slices.Clone(concepts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Ordinal < sorted[j].Ordinal
	})

	ct := &catalog{
		concepts:   sorted,
		bySymbol:   make(map[string]*Concept, len(sorted)),
		byName:     make(map[string]*Concept, len(sorted)),
		byOrdinal:  make(map[int]*Concept, len(sorted)),
		byCategory: make(map[Category][]Concept),
	}
	for i := range ct.concepts {
		cc := &ct.concepts[i]
		ct.bySymbol[strings.ToLower(cc.Symbol)] = cc
		ct.byName[cc.Name] = cc
		ct.byOrdinal[cc.Ordinal] = cc
		ct.byCategory[cc.Category] = append(ct.byCategory[cc.Category], *cc)
	}
	return ct
}

// All returns every concept ordered by ordinal.
func All() []Concept {
	return slices.Clone(c.concepts)
}

// Len returns the number of concepts.
func Len() int {
	return len(c.concepts)
}

// BySymbol looks a concept up by symbol, ignoring case.
func BySymbol(symbol string) (Concept, error) {
	cc, ok := c.bySymbol[strings.ToLower(strings.TrimSpace(symbol))]
	if !ok {
		return Concept{}, fmt.Errorf("symbol %q: %w", symbol, ErrNotFound)
	}
	return *cc, nil
}

// ByOrdinal looks a concept up by its ordinal index.
func ByOrdinal(ordinal int) (Concept, error) {
	cc, ok := c.byOrdinal[ordinal]
	if !ok {
		return Concept{}, fmt.Errorf("ordinal %d: %w", ordinal, ErrNotFound)
	}
	return *cc, nil
}

// ByCategory returns the concepts of one category ordered by ordinal.
func ByCategory(cat Category) []Concept {
	return slices.Clone(c.byCategory[cat])
}

// Lookup resolves a free-form reference: an ordinal, a symbol, or a display name.
func Lookup(ref string) (Concept, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		return ByOrdinal(n)
	}
	if cc, err := BySymbol(ref); err == nil {
		return cc, nil
	}
	if cc, ok := c.byName[ref]; ok {
		return *cc, nil
	}
	return Concept{}, fmt.Errorf("%q: %w", ref, ErrNotFound)
}

// Neighbor returns the concept delta positions away from ordinal, wrapping
// around both ends of the table.
func Neighbor(ordinal, delta int) Concept {
	n := len(c.concepts)
	idx := 0
	for i := range c.concepts {
		if c.concepts[i].Ordinal == ordinal {
			idx = i
			break
		}
	}
	idx = ((idx+delta)%n + n) % n
	return c.concepts[idx]
}

// Validate checks the catalog for structural issues.
func Validate() error {
	return validateConcepts(c.concepts)
}
