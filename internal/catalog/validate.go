package catalog

import (
	"fmt"
	"strings"
)

// validateConcepts performs all structural checks on the given concept set.
// Returns a combined error describing all problems found, or nil if valid.
func validateConcepts(concepts []Concept) error {
	var errs []string

	symbols := make(map[string]bool, len(concepts))
	ordinals := make(map[int]bool, len(concepts))
	populated := make(map[Category]bool)

	for _, cc := range concepts {
		key := strings.ToLower(cc.Symbol)
		if cc.Symbol == "" {
			errs = append(errs, fmt.Sprintf("concept %d has an empty symbol", cc.Ordinal))
		} else if symbols[key] {
			errs = append(errs, fmt.Sprintf("duplicate symbol: %q", cc.Symbol))
		}
		symbols[key] = true

		if cc.Ordinal <= 0 {
			errs = append(errs, fmt.Sprintf("concept %q: ordinal must be > 0, got %d", cc.Symbol, cc.Ordinal))
		} else if ordinals[cc.Ordinal] {
			errs = append(errs, fmt.Sprintf("duplicate ordinal: %d", cc.Ordinal))
		}
		ordinals[cc.Ordinal] = true

		if strings.TrimSpace(cc.Name) == "" {
			errs = append(errs, fmt.Sprintf("concept %q has an empty name", cc.Symbol))
		}
		if !cc.Category.Valid() {
			errs = append(errs, fmt.Sprintf("concept %q has unknown category %q", cc.Symbol, cc.Category))
		}
		populated[cc.Category] = true
	}

	for _, cat := range AllCategories() {
		if !populated[cat] {
			errs = append(errs, fmt.Sprintf("category %q has no concepts", cat))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
