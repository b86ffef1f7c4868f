package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"bannerlab/internal/domain"
	"bannerlab/internal/jobs"
	"bannerlab/internal/storage"
)

type createRecreatedRequest struct {
	BackgroundID  string                `json:"background_id"`
	ConceptOption *domain.ConceptOption `json:"concept_option"`
}

// RecreatedCreate reworks an existing background with a new concept. The
// parent background id is always explicit in the request; the server never
// guesses "the latest" record.
func (a *App) RecreatedCreate(w http.ResponseWriter, r *http.Request) {
	var req createRecreatedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", a.msg(r, "요청 본문이 올바르지 않습니다.", "invalid request body"))
		return
	}
	if req.BackgroundID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", a.msg(r, "background_id가 필요합니다.", "background_id is required"))
		return
	}
	concept := domain.ConceptOption{}
	if req.ConceptOption != nil {
		concept = *req.ConceptOption
	}
	if err := concept.Validate(); err != nil {
		a.domainError(w, r, err)
		return
	}

	if _, err := a.backgrounds.GetByID(r.Context(), req.BackgroundID); err != nil {
		a.domainError(w, r, err)
		return
	}

	recreatedID, version, err := a.recreated.Create(r.Context(), req.BackgroundID, concept)
	if err != nil {
		a.domainError(w, r, err)
		return
	}

	key := storage.NewKey("png")
	taskID, ok := a.submit(w, r, domain.TaskTypeBackgroundRecreate, jobs.RecreatePayload{
		RecreatedID:     recreatedID,
		BlobKey:         key,
		ExpectedVersion: version,
	})
	if !ok {
		return
	}
	a.json(w, http.StatusAccepted, map[string]any{
		"recreated_background_id": recreatedID,
		"background_id":           req.BackgroundID,
		"task_id":                 taskID,
		"s3_url":                  a.Store.URL(key),
	})
}

func (a *App) RecreatedGet(w http.ResponseWriter, r *http.Request) {
	rec, err := a.recreated.GetByID(r.Context(), chi.URLParam(r, "recreated_id"))
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"recreated_background_id": rec.ID,
		"background_id":           rec.BackgroundID,
		"concept_option":          rec.ConceptOption,
		"image_url":               rec.ImageURL,
		"status":                  lo.Ternary(rec.Pending(), "pending", "ready"),
		"created_at":              rec.CreatedAt,
	})
}

func (a *App) RecreatedDelete(w http.ResponseWriter, r *http.Request) {
	url, err := a.recreated.SoftDelete(r.Context(), chi.URLParam(r, "recreated_id"))
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.deleteBlobByURL(r, url)
	a.json(w, http.StatusOK, map[string]string{
		"message": a.msg(r, "배경이 삭제되었습니다.", "recreated background deleted"),
	})
}
