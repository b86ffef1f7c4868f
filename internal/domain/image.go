package domain

import "time"

// SourceImage is an uploaded product photo. The row is created as a
// placeholder when the upload request is accepted; ImageURL stays empty
// until the upload task has stored the bytes.
type SourceImage struct {
	ID        string
	UserID    string
	ImageURL  string
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Pending reports whether the upload task has not yet published the image.
func (s SourceImage) Pending() bool {
	return s.ImageURL == ""
}
