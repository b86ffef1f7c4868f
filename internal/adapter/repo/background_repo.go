package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"bannerlab/internal/domain"
	"bannerlab/internal/infra"
	"bannerlab/internal/sqlinline"
)

// BackgroundRepo persists generated background records. Completion updates
// are guarded by the row version captured when the task was submitted.
type BackgroundRepo struct {
	sql infra.SQLExecutor
}

func NewBackgroundRepo(sql infra.SQLExecutor) *BackgroundRepo {
	return &BackgroundRepo{sql: sql}
}

// Create inserts a placeholder row with an empty image_url and returns its
// id and initial version.
func (r *BackgroundRepo) Create(ctx context.Context, b domain.Background) (string, int, error) {
	concept, err := json.Marshal(b.ConceptOption)
	if err != nil {
		return "", 0, fmt.Errorf("encode concept option: %w", err)
	}
	row := r.sql.QueryRow(ctx, sqlinline.QInsertBackground,
		b.UserID, b.ImageID, string(b.GenType), concept,
		b.OutputW, b.OutputH, b.MultiblobSOD, b.BGColorHex,
	)
	var id string
	var version int
	if err := row.Scan(&id, &version); err != nil {
		return "", 0, fmt.Errorf("insert background: %w", err)
	}
	return id, version, nil
}

func (r *BackgroundRepo) GetByID(ctx context.Context, id string) (domain.Background, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectBackgroundByID, id)
	var b domain.Background
	var concept []byte
	if err := row.Scan(
		&b.ID, &b.UserID, &b.ImageID, &b.GenType, &concept,
		&b.OutputW, &b.OutputH, &b.MultiblobSOD, &b.BGColorHex,
		&b.ImageURL, &b.Recreated, &b.Version, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		if infra.IsNoRows(err) {
			return domain.Background{}, fmt.Errorf("%w: background %s", domain.ErrNotFound, id)
		}
		return domain.Background{}, fmt.Errorf("select background: %w", err)
	}
	if len(concept) > 0 {
		if err := json.Unmarshal(concept, &b.ConceptOption); err != nil {
			return domain.Background{}, fmt.Errorf("decode concept option: %w", err)
		}
	}
	return b, nil
}

// CompleteResult publishes the generated image URL. The update only lands
// when the row version still matches expectedVersion; a concurrent write
// or deletion surfaces as domain.ErrStaleRecord.
func (r *BackgroundRepo) CompleteResult(ctx context.Context, id, url string, recreated bool, expectedVersion int) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QUpdateBackgroundResult, id, url, recreated, expectedVersion)
	if err != nil {
		return fmt.Errorf("update background result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: background %s at version %d", domain.ErrStaleRecord, id, expectedVersion)
	}
	return nil
}

// UpdateConcept replaces the concept option and bumps the version, which
// invalidates any in-flight completion for the previous parameters.
func (r *BackgroundRepo) UpdateConcept(ctx context.Context, id string, concept domain.ConceptOption) (int, error) {
	payload, err := json.Marshal(concept)
	if err != nil {
		return 0, fmt.Errorf("encode concept option: %w", err)
	}
	row := r.sql.QueryRow(ctx, sqlinline.QUpdateBackgroundConcept, id, payload)
	var version int
	if err := row.Scan(&version); err != nil {
		if infra.IsNoRows(err) {
			return 0, fmt.Errorf("%w: background %s", domain.ErrNotFound, id)
		}
		return 0, fmt.Errorf("update background concept: %w", err)
	}
	return version, nil
}

func (r *BackgroundRepo) SoftDelete(ctx context.Context, id string) (string, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSoftDeleteBackground, id)
	var url string
	if err := row.Scan(&url); err != nil {
		if infra.IsNoRows(err) {
			return "", fmt.Errorf("%w: background %s", domain.ErrNotFound, id)
		}
		return "", fmt.Errorf("delete background: %w", err)
	}
	return url, nil
}

// RecreatedRepo persists concept-swapped reworks of an existing background.
type RecreatedRepo struct {
	sql infra.SQLExecutor
}

func NewRecreatedRepo(sql infra.SQLExecutor) *RecreatedRepo {
	return &RecreatedRepo{sql: sql}
}

func (r *RecreatedRepo) Create(ctx context.Context, backgroundID string, concept domain.ConceptOption) (string, int, error) {
	payload, err := json.Marshal(concept)
	if err != nil {
		return "", 0, fmt.Errorf("encode concept option: %w", err)
	}
	row := r.sql.QueryRow(ctx, sqlinline.QInsertRecreatedBackground, backgroundID, payload)
	var id string
	var version int
	if err := row.Scan(&id, &version); err != nil {
		return "", 0, fmt.Errorf("insert recreated background: %w", err)
	}
	return id, version, nil
}

func (r *RecreatedRepo) GetByID(ctx context.Context, id string) (domain.RecreatedBackground, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectRecreatedBackgroundByID, id)
	var rec domain.RecreatedBackground
	var concept []byte
	if err := row.Scan(&rec.ID, &rec.BackgroundID, &concept, &rec.ImageURL, &rec.Version, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if infra.IsNoRows(err) {
			return domain.RecreatedBackground{}, fmt.Errorf("%w: recreated background %s", domain.ErrNotFound, id)
		}
		return domain.RecreatedBackground{}, fmt.Errorf("select recreated background: %w", err)
	}
	if len(concept) > 0 {
		if err := json.Unmarshal(concept, &rec.ConceptOption); err != nil {
			return domain.RecreatedBackground{}, fmt.Errorf("decode concept option: %w", err)
		}
	}
	return rec, nil
}

func (r *RecreatedRepo) CompleteResult(ctx context.Context, id, url string, expectedVersion int) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QUpdateRecreatedBackgroundResult, id, url, expectedVersion)
	if err != nil {
		return fmt.Errorf("update recreated background result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: recreated background %s at version %d", domain.ErrStaleRecord, id, expectedVersion)
	}
	return nil
}

func (r *RecreatedRepo) SoftDelete(ctx context.Context, id string) (string, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSoftDeleteRecreatedBackground, id)
	var url string
	if err := row.Scan(&url); err != nil {
		if infra.IsNoRows(err) {
			return "", fmt.Errorf("%w: recreated background %s", domain.ErrNotFound, id)
		}
		return "", fmt.Errorf("delete recreated background: %w", err)
	}
	return url, nil
}
