package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"bannerlab/internal/domain"
	"bannerlab/internal/jobs"
	"bannerlab/internal/storage"
)

type createBackgroundRequest struct {
	UserID        string                `json:"user_id"`
	ImageID       string                `json:"image_id"`
	GenType       string                `json:"gen_type"`
	MultiblobSOD  bool                  `json:"multiblob_sod"`
	OutputW       *int                  `json:"output_w"`
	OutputH       *int                  `json:"output_h"`
	BGColorHexStr string                `json:"bg_color_hex_code"`
	ConceptOption *domain.ConceptOption `json:"concept_option"`
}

// BackgroundsCreate validates the generation request, writes a placeholder
// record and enqueues generation. Nothing upstream is called before the
// request is fully validated.
func (a *App) BackgroundsCreate(w http.ResponseWriter, r *http.Request) {
	var req createBackgroundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", a.msg(r, "요청 본문이 올바르지 않습니다.", "invalid request body"))
		return
	}

	genType := domain.GenType(req.GenType)
	if !lo.Contains(domain.GenTypes, genType) {
		a.error(w, http.StatusBadRequest, "bad_request",
			fmt.Sprintf("gen_type must be one of %s", domain.GenTypeList()))
		return
	}
	outputW := domain.DefaultOutputDim
	if req.OutputW != nil {
		outputW = *req.OutputW
	}
	outputH := domain.DefaultOutputDim
	if req.OutputH != nil {
		outputH = *req.OutputH
	}
	if err := domain.ValidateOutputDim("output_w", outputW); err != nil {
		a.domainError(w, r, err)
		return
	}
	if err := domain.ValidateOutputDim("output_h", outputH); err != nil {
		a.domainError(w, r, err)
		return
	}
	bgColor := req.BGColorHexStr
	if bgColor == "" {
		bgColor = domain.DefaultBGColorHex
	}
	if !domain.ValidHexColor(bgColor) {
		a.error(w, http.StatusBadRequest, "bad_request", "bg_color_hex_code must be a #RGB or #RRGGBB color")
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

	backgroundID, version, err := a.backgrounds.Create(r.Context(), domain.Background{
		UserID:        req.UserID,
		ImageID:       req.ImageID,
		GenType:       genType,
		ConceptOption: concept,
		OutputW:       outputW,
		OutputH:       outputH,
		MultiblobSOD:  req.MultiblobSOD,
		BGColorHex:    bgColor,
	})
	if err != nil {
		a.domainError(w, r, err)
		return
	}

	key := storage.NewKey("png")
	taskID, ok := a.submit(w, r, domain.TaskTypeBackgroundGenerate, jobs.BackgroundPayload{
		BackgroundID:    backgroundID,
		BlobKey:         key,
		ExpectedVersion: version,
	})
	if !ok {
		return
	}
	a.json(w, http.StatusAccepted, map[string]any{
		"background_id": backgroundID,
		"task_id":       taskID,
		"s3_url":        a.Store.URL(key),
	})
}

func (a *App) BackgroundsGet(w http.ResponseWriter, r *http.Request) {
	bg, err := a.backgrounds.GetByID(r.Context(), chi.URLParam(r, "background_id"))
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, backgroundBody(bg))
}

type updateBackgroundRequest struct {
	ConceptOption *domain.ConceptOption `json:"concept_option"`
}

// BackgroundsUpdate swaps the concept option and regenerates. The version
// bump invalidates any still-running task for the old parameters.
func (a *App) BackgroundsUpdate(w http.ResponseWriter, r *http.Request) {
	backgroundID := chi.URLParam(r, "background_id")
	var req updateBackgroundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ConceptOption == nil {
		a.error(w, http.StatusBadRequest, "bad_request", a.msg(r, "concept_option이 필요합니다.", "concept_option is required"))
		return
	}
	if err := req.ConceptOption.Validate(); err != nil {
		a.domainError(w, r, err)
		return
	}

	version, err := a.backgrounds.UpdateConcept(r.Context(), backgroundID, *req.ConceptOption)
	if err != nil {
		a.domainError(w, r, err)
		return
	}

	key := storage.NewKey("png")
	taskID, ok := a.submit(w, r, domain.TaskTypeBackgroundRegenerate, jobs.BackgroundPayload{
		BackgroundID:    backgroundID,
		BlobKey:         key,
		ExpectedVersion: version,
	})
	if !ok {
		return
	}
	a.json(w, http.StatusAccepted, map[string]any{
		"background_id": backgroundID,
		"task_id":       taskID,
		"s3_url":        a.Store.URL(key),
	})
}

func (a *App) BackgroundsDelete(w http.ResponseWriter, r *http.Request) {
	url, err := a.backgrounds.SoftDelete(r.Context(), chi.URLParam(r, "background_id"))
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.deleteBlobByURL(r, url)
	a.json(w, http.StatusOK, map[string]string{
		"message": a.msg(r, "배경이 삭제되었습니다.", "background deleted"),
	})
}

func backgroundBody(bg domain.Background) map[string]any {
	return map[string]any{
		"background_id":     bg.ID,
		"user_id":           bg.UserID,
		"image_id":          bg.ImageID,
		"gen_type":          bg.GenType,
		"concept_option":    bg.ConceptOption,
		"output_w":          bg.OutputW,
		"output_h":          bg.OutputH,
		"multiblob_sod":     bg.MultiblobSOD,
		"bg_color_hex_code": bg.BGColorHex,
		"image_url":         bg.ImageURL,
		"recreated":         bg.Recreated,
		"status":            lo.Ternary(bg.Pending(), "pending", "ready"),
		"created_at":        bg.CreatedAt,
	}
}
