package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"bannerlab/internal/domain"
	"bannerlab/internal/jobs"
)

type bannerRequest struct {
	UserID         string `json:"user_id"`
	ImageID        string `json:"image_id"`
	ItemName       string `json:"item_name"`
	ItemConcept    string `json:"item_concept"`
	ItemCategory   string `json:"item_category"`
	AddInformation string `json:"add_information"`
}

func (req *bannerRequest) validate() error {
	if err := domain.ValidateTextField("item_name", strings.TrimSpace(req.ItemName), domain.MaxItemNameLength); err != nil {
		return err
	}
	if err := domain.ValidateTextField("item_concept", strings.TrimSpace(req.ItemConcept), domain.MaxItemConceptLength); err != nil {
		return err
	}
	return domain.ValidateTextField("item_category", strings.TrimSpace(req.ItemCategory), domain.MaxItemCategoryLength)
}

// BannersCreate stores the banner inputs and enqueues copy generation.
// The text fields come back empty until the task finishes.
func (a *App) BannersCreate(w http.ResponseWriter, r *http.Request) {
	var req bannerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", a.msg(r, "요청 본문이 올바르지 않습니다.", "invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		a.domainError(w, r, err)
		return
	}
	if !a.requireID(w, r, "user_id", req.UserID) || !a.requireID(w, r, "image_id", req.ImageID) {
		return
	}
	if _, err := a.users.GetByID(r.Context(), req.UserID); err != nil {
		a.domainError(w, r, err)
		return
	}
	if _, err := a.images.GetByID(r.Context(), req.ImageID); err != nil {
		a.domainError(w, r, err)
		return
	}

	bannerID, version, err := a.banners.Create(r.Context(), domain.Banner{
		UserID:         req.UserID,
		ImageID:        req.ImageID,
		ItemName:       strings.TrimSpace(req.ItemName),
		ItemConcept:    strings.TrimSpace(req.ItemConcept),
		ItemCategory:   strings.TrimSpace(req.ItemCategory),
		AddInformation: strings.TrimSpace(req.AddInformation),
	})
	if err != nil {
		a.domainError(w, r, err)
		return
	}

	taskID, ok := a.submit(w, r, domain.TaskTypeBannerCopy, jobs.BannerPayload{
		BannerID:        bannerID,
		ExpectedVersion: version,
	})
	if !ok {
		return
	}
	a.json(w, http.StatusAccepted, map[string]any{
		"banner_id": bannerID,
		"task_id":   taskID,
	})
}

func (a *App) BannersGet(w http.ResponseWriter, r *http.Request) {
	banner, err := a.banners.GetByID(r.Context(), chi.URLParam(r, "banner_id"))
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"banner_id":       banner.ID,
		"user_id":         banner.UserID,
		"image_id":        banner.ImageID,
		"item_name":       banner.ItemName,
		"item_concept":    banner.ItemConcept,
		"item_category":   banner.ItemCategory,
		"ad_text":         banner.AdText,
		"serve_text":      banner.ServeText,
		"ad_text2":        banner.AdText2,
		"serve_text2":     banner.ServeText2,
		"add_information": banner.AddInformation,
		"status":          lo.Ternary(banner.Pending(), "pending", "ready"),
		"created_at":      banner.CreatedAt,
	})
}

// BannersUpdate replaces the inputs and regenerates the copy. The version
// bump keeps a still-running task for the old inputs from landing.
func (a *App) BannersUpdate(w http.ResponseWriter, r *http.Request) {
	bannerID := chi.URLParam(r, "banner_id")
	var req bannerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", a.msg(r, "요청 본문이 올바르지 않습니다.", "invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		a.domainError(w, r, err)
		return
	}

	version, err := a.banners.UpdateInputs(r.Context(), domain.Banner{
		ID:             bannerID,
		ItemName:       strings.TrimSpace(req.ItemName),
		ItemConcept:    strings.TrimSpace(req.ItemConcept),
		ItemCategory:   strings.TrimSpace(req.ItemCategory),
		AddInformation: strings.TrimSpace(req.AddInformation),
	})
	if err != nil {
		a.domainError(w, r, err)
		return
	}

	taskID, ok := a.submit(w, r, domain.TaskTypeBannerCopy, jobs.BannerPayload{
		BannerID:        bannerID,
		ExpectedVersion: version,
	})
	if !ok {
		return
	}
	a.json(w, http.StatusAccepted, map[string]any{
		"banner_id": bannerID,
		"task_id":   taskID,
	})
}

func (a *App) BannersDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.banners.SoftDelete(r.Context(), chi.URLParam(r, "banner_id")); err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{
		"message": a.msg(r, "배너가 삭제되었습니다.", "banner deleted"),
	})
}
