package repo

import (
	"context"
	"fmt"

	"bannerlab/internal/domain"
	"bannerlab/internal/infra"
	"bannerlab/internal/sqlinline"
)

// ImageRepo persists uploaded source photos.
type ImageRepo struct {
	sql infra.SQLExecutor
}

func NewImageRepo(sql infra.SQLExecutor) *ImageRepo {
	return &ImageRepo{sql: sql}
}

// CreatePlaceholder inserts a row with an empty image_url. The URL is
// published later by the upload task.
func (r *ImageRepo) CreatePlaceholder(ctx context.Context, userID string) (string, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertSourceImage, userID)
	var id string
	if err := row.Scan(&id); err != nil {
		return "", fmt.Errorf("insert source image: %w", err)
	}
	return id, nil
}

func (r *ImageRepo) GetByID(ctx context.Context, id string) (domain.SourceImage, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectSourceImageByID, id)
	var img domain.SourceImage
	if err := row.Scan(&img.ID, &img.UserID, &img.ImageURL, &img.CreatedAt, &img.UpdatedAt); err != nil {
		if infra.IsNoRows(err) {
			return domain.SourceImage{}, fmt.Errorf("%w: image %s", domain.ErrNotFound, id)
		}
		return domain.SourceImage{}, fmt.Errorf("select source image: %w", err)
	}
	return img, nil
}

// SetURL publishes the stored blob URL on the placeholder row.
func (r *ImageRepo) SetURL(ctx context.Context, id, url string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QUpdateSourceImageURL, id, url)
	if err != nil {
		return fmt.Errorf("update source image url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: image %s", domain.ErrNotFound, id)
	}
	return nil
}

// SoftDelete marks the row deleted and returns the stored URL so the
// caller can schedule blob removal.
func (r *ImageRepo) SoftDelete(ctx context.Context, id string) (string, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSoftDeleteSourceImage, id)
	var url string
	if err := row.Scan(&url); err != nil {
		if infra.IsNoRows(err) {
			return "", fmt.Errorf("%w: image %s", domain.ErrNotFound, id)
		}
		return "", fmt.Errorf("delete source image: %w", err)
	}
	return url, nil
}
