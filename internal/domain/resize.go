package domain

import (
	"fmt"
	"time"
)

// MaxResizeDim is a sanity ceiling for resize requests; the transform
// itself accepts any positive dimensions.
const MaxResizeDim = 8000

// ValidateResizeDim rejects non-positive or absurd dimensions before any
// network call is made.
func ValidateResizeDim(name string, v int) error {
	if v <= 0 {
		return fmt.Errorf("%w: %s must be a positive integer", ErrValidation, name)
	}
	if v > MaxResizeDim {
		return fmt.Errorf("%w: %s must be at most %d", ErrValidation, name, MaxResizeDim)
	}
	return nil
}

// ResizedImage references exactly one of a Background or a
// RecreatedBackground as its source artifact.
type ResizedImage struct {
	ID                    string
	Width                 int
	Height                int
	BackgroundID          string
	RecreatedBackgroundID string
	ImageURL              string
	Version               int
	IsDeleted             bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// ValidateSource enforces the exactly-one-reference invariant.
func (r ResizedImage) ValidateSource() error {
	has := 0
	if r.BackgroundID != "" {
		has++
	}
	if r.RecreatedBackgroundID != "" {
		has++
	}
	if has != 1 {
		return fmt.Errorf("%w: exactly one of background_id and recreated_background_id must be set", ErrValidation)
	}
	return nil
}

func (r ResizedImage) Pending() bool {
	return r.ImageURL == ""
}
