package repo

import (
	"context"
	"fmt"

	"bannerlab/internal/domain"
	"bannerlab/internal/infra"
	"bannerlab/internal/sqlinline"
)

// UserRepo persists nickname registrations.
type UserRepo struct {
	sql infra.SQLExecutor
}

func NewUserRepo(sql infra.SQLExecutor) *UserRepo {
	return &UserRepo{sql: sql}
}

// Create registers a nickname. A unique violation on the nickname column is
// reported as domain.ErrDuplicateNickname.
func (r *UserRepo) Create(ctx context.Context, nickname string) (domain.User, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertUser, nickname)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Nickname, &u.CreatedAt); err != nil {
		if infra.IsUniqueViolation(err) {
			return domain.User{}, fmt.Errorf("%w: %s", domain.ErrDuplicateNickname, nickname)
		}
		return domain.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// GetByID fetches a user, excluding soft-deleted rows.
func (r *UserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectUserByID, id)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Nickname, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if infra.IsNoRows(err) {
			return domain.User{}, fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
		}
		return domain.User{}, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}

// InteractionRepo is the append-only generation log consumed as chat
// history by the copy pipeline.
type InteractionRepo struct {
	sql infra.SQLExecutor
}

func NewInteractionRepo(sql infra.SQLExecutor) *InteractionRepo {
	return &InteractionRepo{sql: sql}
}

func (r *InteractionRepo) Append(ctx context.Context, userID, detail string) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QInsertInteraction, userID, detail); err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	return nil
}

// RecentDetails returns up to limit entries, newest first.
func (r *InteractionRepo) RecentDetails(ctx context.Context, userID string, limit int) ([]string, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QSelectInteractionsByUser, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("select interactions: %w", err)
	}
	defer rows.Close()

	var details []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}
	return details, nil
}
