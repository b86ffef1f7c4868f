package repo

import (
	"context"
	"fmt"

	"bannerlab/internal/domain"
	"bannerlab/internal/infra"
	"bannerlab/internal/sqlinline"
)

// BannerRepo persists banner records and their generated copy.
type BannerRepo struct {
	sql infra.SQLExecutor
}

func NewBannerRepo(sql infra.SQLExecutor) *BannerRepo {
	return &BannerRepo{sql: sql}
}

// Create inserts a banner with empty copy fields; the copy task fills
// them in later.
func (r *BannerRepo) Create(ctx context.Context, b domain.Banner) (string, int, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertBanner,
		b.UserID, b.ImageID, b.ItemName, b.ItemConcept, b.ItemCategory, b.AddInformation,
	)
	var id string
	var version int
	if err := row.Scan(&id, &version); err != nil {
		return "", 0, fmt.Errorf("insert banner: %w", err)
	}
	return id, version, nil
}

func (r *BannerRepo) GetByID(ctx context.Context, id string) (domain.Banner, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectBannerByID, id)
	var b domain.Banner
	if err := row.Scan(
		&b.ID, &b.UserID, &b.ImageID, &b.ItemName, &b.ItemConcept, &b.ItemCategory,
		&b.AdText, &b.ServeText, &b.AdText2, &b.ServeText2, &b.AddInformation,
		&b.Version, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		if infra.IsNoRows(err) {
			return domain.Banner{}, fmt.Errorf("%w: banner %s", domain.ErrNotFound, id)
		}
		return domain.Banner{}, fmt.Errorf("select banner: %w", err)
	}
	return b, nil
}

// CompleteCopy publishes both generated copy pairs under the version guard.
func (r *BannerRepo) CompleteCopy(ctx context.Context, id, adText, serveText, adText2, serveText2 string, expectedVersion int) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QUpdateBannerCopy, id, adText, serveText, adText2, serveText2, expectedVersion)
	if err != nil {
		return fmt.Errorf("update banner copy: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: banner %s at version %d", domain.ErrStaleRecord, id, expectedVersion)
	}
	return nil
}

// UpdateInputs replaces the user-supplied fields and bumps the version so
// any in-flight copy task for the previous inputs cannot land.
func (r *BannerRepo) UpdateInputs(ctx context.Context, b domain.Banner) (int, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QUpdateBannerInputs,
		b.ID, b.ItemName, b.ItemConcept, b.ItemCategory, b.AddInformation,
	)
	var version int
	if err := row.Scan(&version); err != nil {
		if infra.IsNoRows(err) {
			return 0, fmt.Errorf("%w: banner %s", domain.ErrNotFound, b.ID)
		}
		return 0, fmt.Errorf("update banner inputs: %w", err)
	}
	return version, nil
}

func (r *BannerRepo) SoftDelete(ctx context.Context, id string) error {
	row := r.sql.QueryRow(ctx, sqlinline.QSoftDeleteBanner, id)
	var deleted string
	if err := row.Scan(&deleted); err != nil {
		if infra.IsNoRows(err) {
			return fmt.Errorf("%w: banner %s", domain.ErrNotFound, id)
		}
		return fmt.Errorf("delete banner: %w", err)
	}
	return nil
}
