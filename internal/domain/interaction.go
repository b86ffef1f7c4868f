package domain

import "time"

// Interaction is an append-only log entry recording what was generated for
// a user. Entries are read newest-first and joined into the chat prompt as
// conversation context for subsequent copy generation.
type Interaction struct {
	ID        string
	UserID    string
	Detail    string
	CreatedAt time.Time
}
