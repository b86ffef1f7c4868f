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

type createResizingRequest struct {
	BackgroundID          string `json:"background_id"`
	RecreatedBackgroundID string `json:"recreated_background_id"`
	Width                 int    `json:"width"`
	Height                int    `json:"height"`
}

// ResizingsCreate rescales a finished background. Dimensions are checked
// before any record is written or any network call happens.
func (a *App) ResizingsCreate(w http.ResponseWriter, r *http.Request) {
	a.createResizing(w, r, false)
}

// ResizingsRecreatedCreate rescales a recreated background.
func (a *App) ResizingsRecreatedCreate(w http.ResponseWriter, r *http.Request) {
	a.createResizing(w, r, true)
}

func (a *App) createResizing(w http.ResponseWriter, r *http.Request, fromRecreated bool) {
	var req createResizingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", a.msg(r, "요청 본문이 올바르지 않습니다.", "invalid request body"))
		return
	}
	if err := domain.ValidateResizeDim("width", req.Width); err != nil {
		a.domainError(w, r, err)
		return
	}
	if err := domain.ValidateResizeDim("height", req.Height); err != nil {
		a.domainError(w, r, err)
		return
	}

	if req.BackgroundID != "" && req.RecreatedBackgroundID != "" {
		a.error(w, http.StatusBadRequest, "bad_request", a.msg(r,
			"background_id와 recreated_background_id 중 하나만 지정해야 합니다.",
			"specify exactly one of background_id and recreated_background_id"))
		return
	}

	record := domain.ResizedImage{Width: req.Width, Height: req.Height}
	if fromRecreated {
		if req.RecreatedBackgroundID == "" {
			a.error(w, http.StatusBadRequest, "bad_request", a.msg(r, "recreated_background_id가 필요합니다.", "recreated_background_id is required"))
			return
		}
		if _, err := a.recreated.GetByID(r.Context(), req.RecreatedBackgroundID); err != nil {
			a.domainError(w, r, err)
			return
		}
		record.RecreatedBackgroundID = req.RecreatedBackgroundID
	} else {
		if req.BackgroundID == "" {
			a.error(w, http.StatusBadRequest, "bad_request", a.msg(r, "background_id가 필요합니다.", "background_id is required"))
			return
		}
		if _, err := a.backgrounds.GetByID(r.Context(), req.BackgroundID); err != nil {
			a.domainError(w, r, err)
			return
		}
		record.BackgroundID = req.BackgroundID
	}

	resizedID, version, err := a.resizes.Create(r.Context(), record)
	if err != nil {
		a.domainError(w, r, err)
		return
	}

	key := storage.NewKey("png")
	taskID, ok := a.submit(w, r, domain.TaskTypeImageResize, jobs.ResizePayload{
		ResizedID:       resizedID,
		BlobKey:         key,
		ExpectedVersion: version,
	})
	if !ok {
		return
	}
	a.json(w, http.StatusAccepted, map[string]any{
		"resizing_id":       resizedID,
		"task_id":           taskID,
		"resized_image_url": a.Store.URL(key),
	})
}

func (a *App) ResizingsGet(w http.ResponseWriter, r *http.Request) {
	rz, err := a.resizes.GetByID(r.Context(), chi.URLParam(r, "resizing_id"))
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	body := map[string]any{
		"resizing_id": rz.ID,
		"width":       rz.Width,
		"height":      rz.Height,
		"image_url":   rz.ImageURL,
		"status":      lo.Ternary(rz.Pending(), "pending", "ready"),
		"created_at":  rz.CreatedAt,
	}
	if rz.BackgroundID != "" {
		body["background_id"] = rz.BackgroundID
	}
	if rz.RecreatedBackgroundID != "" {
		body["recreated_background_id"] = rz.RecreatedBackgroundID
	}
	a.json(w, http.StatusOK, body)
}

func (a *App) ResizingsDelete(w http.ResponseWriter, r *http.Request) {
	url, err := a.resizes.SoftDelete(r.Context(), chi.URLParam(r, "resizing_id"))
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.deleteBlobByURL(r, url)
	a.json(w, http.StatusOK, map[string]string{
		"message": a.msg(r, "이미지가 삭제되었습니다.", "resized image deleted"),
	})
}
