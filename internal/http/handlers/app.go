package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"bannerlab/internal/adapter/repo"
	"bannerlab/internal/domain"
	"bannerlab/internal/infra"
	"bannerlab/internal/jobs"
	"bannerlab/internal/middleware"
	"bannerlab/internal/storage"
)

// App carries the dependencies every handler needs. Handlers never touch
// providers directly; mutations validate, write a placeholder row, enqueue
// a task and answer 202.
type App struct {
	SQL        infra.SQLExecutor
	Cfg        *infra.Config
	Store      storage.BlobStore
	Dispatcher *jobs.Dispatcher
	Logger     zerolog.Logger

	users        *repo.UserRepo
	images       *repo.ImageRepo
	backgrounds  *repo.BackgroundRepo
	recreated    *repo.RecreatedRepo
	resizes      *repo.ResizeRepo
	banners      *repo.BannerRepo
	interactions *repo.InteractionRepo
}

func NewApp(sql infra.SQLExecutor, cfg *infra.Config, store storage.BlobStore, dispatcher *jobs.Dispatcher, logger zerolog.Logger) *App {
	return &App{
		SQL:        sql,
		Cfg:        cfg,
		Store:      store,
		Dispatcher: dispatcher,
		Logger:     logger,

		users:        repo.NewUserRepo(sql),
		images:       repo.NewImageRepo(sql),
		backgrounds:  repo.NewBackgroundRepo(sql),
		recreated:    repo.NewRecreatedRepo(sql),
		resizes:      repo.NewResizeRepo(sql),
		banners:      repo.NewBannerRepo(sql),
		interactions: repo.NewInteractionRepo(sql),
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, errorResponse{Error: errCode, Message: message})
}

// msg picks the response text for the request locale.
func (a *App) msg(r *http.Request, ko, en string) string {
	if middleware.LocaleFromContext(r.Context()) == "ko" {
		return ko
	}
	return en
}

// domainError renders a domain error with the right status code. Validation
// details are passed through; everything else gets a generic body.
func (a *App) domainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, domain.ErrDuplicateNickname):
		a.error(w, http.StatusConflict, "duplicate_nickname", a.msg(r, "이미 사용 중인 닉네임입니다.", "nickname already taken"))
	case errors.Is(err, domain.ErrNotFound), infra.IsInvalidUUID(err):
		// a malformed id names nothing, same as an unknown one
		a.error(w, http.StatusNotFound, "not_found", a.msg(r, "요청한 리소스를 찾을 수 없습니다.", "resource not found"))
	case errors.Is(err, domain.ErrStaleRecord):
		a.error(w, http.StatusConflict, "conflict", a.msg(r, "리소스가 변경되어 요청을 처리할 수 없습니다.", "resource changed, request cannot be applied"))
	default:
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("handlers: internal error")
		a.error(w, http.StatusInternalServerError, "internal", a.msg(r, "서버 오류가 발생했습니다.", "internal server error"))
	}
}

// requireID rejects a blank required reference field before it reaches a
// uuid cast in the database.
func (a *App) requireID(w http.ResponseWriter, r *http.Request, field, value string) bool {
	if strings.TrimSpace(value) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", a.msg(r, field+"가 필요합니다.", field+" is required"))
		return false
	}
	return true
}

// submit enqueues a task, translating dispatch failures into a 500.
func (a *App) submit(w http.ResponseWriter, r *http.Request, taskType domain.TaskType, payload any) (string, bool) {
	taskID, err := a.Dispatcher.Submit(r.Context(), taskType, payload)
	if err != nil {
		a.Logger.Error().Err(err).Str("task_type", string(taskType)).Msg("handlers: enqueue failed")
		a.error(w, http.StatusInternalServerError, "internal", a.msg(r, "작업을 등록하지 못했습니다.", "failed to queue task"))
		return "", false
	}
	return taskID, true
}
