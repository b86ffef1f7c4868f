package domain

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// Field budgets carried over from the product's banner layout. Ad copy
// returned by the text provider is truncated to these rune counts.
const (
	MaxItemNameLength     = 10
	MaxItemConceptLength  = 15
	MaxItemCategoryLength = 10
	MaxAdTextRunes        = 30
	MaxServeTextRunes     = 20
)

// Banner holds generated ad copy for a product photo. The text fields are
// empty until the copy task completes.
type Banner struct {
	ID             string
	UserID         string
	ImageID        string
	ItemName       string
	ItemConcept    string
	ItemCategory   string
	AdText         string
	ServeText      string
	AdText2        string
	ServeText2     string
	AddInformation string
	Version        int
	IsDeleted      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Pending reports whether the copy task has not yet filled the text fields.
func (b Banner) Pending() bool {
	return b.AdText == ""
}

// ValidateTextField checks a user-supplied banner field against its budget.
func ValidateTextField(name, value string, max int) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", ErrValidation, name)
	}
	if utf8.RuneCountInString(value) > max {
		return fmt.Errorf("%w: %s must be at most %d characters", ErrValidation, name, max)
	}
	return nil
}
