package repo

import (
	"context"
	"fmt"

	"bannerlab/internal/domain"
	"bannerlab/internal/infra"
	"bannerlab/internal/sqlinline"
)

// ResizeRepo persists resize requests. Each row references exactly one of
// a background or a recreated background; the unused column stays NULL.
type ResizeRepo struct {
	sql infra.SQLExecutor
}

func NewResizeRepo(sql infra.SQLExecutor) *ResizeRepo {
	return &ResizeRepo{sql: sql}
}

func (r *ResizeRepo) Create(ctx context.Context, rz domain.ResizedImage) (string, int, error) {
	if err := rz.ValidateSource(); err != nil {
		return "", 0, err
	}
	row := r.sql.QueryRow(ctx, sqlinline.QInsertResizedImage,
		rz.Width, rz.Height, nullableID(rz.BackgroundID), nullableID(rz.RecreatedBackgroundID),
	)
	var id string
	var version int
	if err := row.Scan(&id, &version); err != nil {
		return "", 0, fmt.Errorf("insert resized image: %w", err)
	}
	return id, version, nil
}

func (r *ResizeRepo) GetByID(ctx context.Context, id string) (domain.ResizedImage, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectResizedImageByID, id)
	var rz domain.ResizedImage
	if err := row.Scan(
		&rz.ID, &rz.Width, &rz.Height,
		&rz.BackgroundID, &rz.RecreatedBackgroundID,
		&rz.ImageURL, &rz.Version, &rz.CreatedAt, &rz.UpdatedAt,
	); err != nil {
		if infra.IsNoRows(err) {
			return domain.ResizedImage{}, fmt.Errorf("%w: resized image %s", domain.ErrNotFound, id)
		}
		return domain.ResizedImage{}, fmt.Errorf("select resized image: %w", err)
	}
	return rz, nil
}

func (r *ResizeRepo) CompleteResult(ctx context.Context, id, url string, expectedVersion int) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QUpdateResizedImageResult, id, url, expectedVersion)
	if err != nil {
		return fmt.Errorf("update resized image result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: resized image %s at version %d", domain.ErrStaleRecord, id, expectedVersion)
	}
	return nil
}

func (r *ResizeRepo) SoftDelete(ctx context.Context, id string) (string, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSoftDeleteResizedImage, id)
	var url string
	if err := row.Scan(&url); err != nil {
		if infra.IsNoRows(err) {
			return "", fmt.Errorf("%w: resized image %s", domain.ErrNotFound, id)
		}
		return "", fmt.Errorf("delete resized image: %w", err)
	}
	return url, nil
}

// nullableID maps an empty id to SQL NULL.
func nullableID(id string) any {
	if id == "" {
		return nil
	}
	return id
}
