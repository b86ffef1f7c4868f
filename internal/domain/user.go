package domain

import "time"

// User is created through nickname registration. Users are only ever
// soft-deleted; artifact records keep referencing the row.
type User struct {
	ID        string
	Nickname  string
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MaxNicknameLength bounds nicknames at the request boundary.
const MaxNicknameLength = 30
