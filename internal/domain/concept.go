package domain

import (
	"fmt"
	"strings"
)

// ConceptCategories is the allowed set for ConceptOption.Category.
var ConceptCategories = []string{"cosmetics", "food", "clothes", "person", "car", "others"}

const (
	MinConceptResults = 1
	MaxConceptResults = 4
)

// ConceptOption carries the structured generation parameters forwarded to
// the background studio API. It is validated once at the request boundary
// and passed structured through the pipeline.
type ConceptOption struct {
	Category   string `json:"category,omitempty"`
	Theme      string `json:"theme,omitempty"`
	NumResults int    `json:"num_results,omitempty"`
}

// Validate checks the option against the allowed category set and the
// result-count bounds. A zero NumResults means "provider default".
func (c ConceptOption) Validate() error {
	if c.Category != "" {
		found := false
		for _, cat := range ConceptCategories {
			if c.Category == cat {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: category must be one of %s", ErrValidation, strings.Join(ConceptCategories, ", "))
		}
	}
	if c.NumResults != 0 && (c.NumResults < MinConceptResults || c.NumResults > MaxConceptResults) {
		return fmt.Errorf("%w: num_results must be between %d and %d", ErrValidation, MinConceptResults, MaxConceptResults)
	}
	return nil
}
