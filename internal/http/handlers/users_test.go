package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"bannerlab/internal/middleware"
	"bannerlab/internal/sqlinline"
)

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func withLocale(r *http.Request, locale string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.LocaleKey, locale))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not json: %v", err)
	}
	return body
}

func TestUsersCreate(t *testing.T) {
	sql := &stubSQL{
		queryRow: func(query string, args ...any) pgx.Row {
			if query == sqlinline.QInsertUser {
				return simpleRow{scan: scanInto("user-1", args[0], time.Now())}
			}
			return simpleRow{}
		},
	}
	app := newTestApp(sql)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/nicknames", strings.NewReader(`{"nickname":"민수"}`))
	rec := httptest.NewRecorder()
	app.UsersCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["id"] != "user-1" || body["nickname"] != "민수" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestUsersCreateRejectsMissingNickname(t *testing.T) {
	sql := &stubSQL{}
	app := newTestApp(sql)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/nicknames", strings.NewReader(`{"nickname":"  "}`))
	rec := httptest.NewRecorder()
	app.UsersCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if inserts := sql.callsFor(sqlinline.QInsertUser); len(inserts) != 0 {
		t.Fatalf("expected no insert on invalid input, got %d", len(inserts))
	}
}

func TestUsersCreateRejectsLongNickname(t *testing.T) {
	app := newTestApp(&stubSQL{})

	long := strings.Repeat("가", 31)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/nicknames", strings.NewReader(`{"nickname":"`+long+`"}`))
	rec := httptest.NewRecorder()
	app.UsersCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUsersCreateDuplicateNickname(t *testing.T) {
	sql := &stubSQL{
		queryRow: func(query string, args ...any) pgx.Row {
			return simpleRow{scan: func(dest ...any) error {
				return &pgconn.PgError{Code: "23505"}
			}}
		},
	}
	app := newTestApp(sql)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/nicknames", strings.NewReader(`{"nickname":"민수"}`))
	rec := httptest.NewRecorder()
	app.UsersCreate(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != "duplicate_nickname" {
		t.Fatalf("unexpected error code %v", body["error"])
	}
	if !strings.Contains(body["message"].(string), "닉네임") {
		t.Fatalf("expected Korean default message, got %v", body["message"])
	}
}

func TestUsersGetMalformedIDIsNotFound(t *testing.T) {
	// a non-uuid path id makes Postgres answer 22P02 on the ::uuid cast
	sql := &stubSQL{
		queryRow: func(query string, args ...any) pgx.Row {
			return simpleRow{scan: func(dest ...any) error {
				return &pgconn.PgError{Code: "22P02"}
			}}
		},
	}
	app := newTestApp(sql)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nicknames/not-a-uuid", nil)
	req = withURLParam(req, "user_id", "not-a-uuid")
	rec := httptest.NewRecorder()
	app.UsersGet(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
	if body := decodeBody(t, rec); body["error"] != "not_found" {
		t.Fatalf("unexpected error code %v", body["error"])
	}
}

func TestUsersGetNotFoundUsesLocale(t *testing.T) {
	app := newTestApp(&stubSQL{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nicknames/user-9", nil)
	req = withURLParam(req, "user_id", "user-9")
	req = withLocale(req, "en")
	rec := httptest.NewRecorder()
	app.UsersGet(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if msg := decodeBody(t, rec)["message"].(string); msg != "resource not found" {
		t.Fatalf("expected English message, got %q", msg)
	}
}
