package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"bannerlab/internal/domain"
)

type createUserRequest struct {
	Nickname string `json:"nickname"`
}

// UsersCreate registers a nickname and returns the new user id. There is
// no password or token; the id is the credential.
func (a *App) UsersCreate(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", a.msg(r, "요청 본문이 올바르지 않습니다.", "invalid request body"))
		return
	}
	nickname := strings.TrimSpace(req.Nickname)
	if nickname == "" {
		a.error(w, http.StatusBadRequest, "bad_request", a.msg(r, "닉네임을 입력해 주세요.", "nickname is required"))
		return
	}
	if utf8.RuneCountInString(nickname) > domain.MaxNicknameLength {
		a.error(w, http.StatusBadRequest, "bad_request", a.msg(r, "닉네임이 너무 깁니다.", "nickname is too long"))
		return
	}

	user, err := a.users.Create(r.Context(), nickname)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"id":         user.ID,
		"nickname":   user.Nickname,
		"created_at": user.CreatedAt,
	})
}

func (a *App) UsersGet(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	user, err := a.users.GetByID(r.Context(), userID)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"id":         user.ID,
		"nickname":   user.Nickname,
		"created_at": user.CreatedAt,
	})
}
