package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"bannerlab/internal/jobs"
	"bannerlab/internal/sqlinline"
)

func recreatedStub() *stubSQL {
	now := time.Now()
	return &stubSQL{
		queryRow: func(query string, args ...any) pgx.Row {
			switch query {
			case sqlinline.QSelectBackgroundByID:
				return simpleRow{scan: scanInto(
					"bg-1", "user-1", "img-1", "concept", []byte(`{"category":"food"}`),
					1000, 1000, false, "#FFFFFF",
					"mem://bg.png", false, 1, now, now,
				)}
			case sqlinline.QInsertRecreatedBackground:
				return simpleRow{scan: scanInto("rec-1", 0)}
			case sqlinline.QInsertTask:
				return simpleRow{scan: scanInto("task-1")}
			}
			return simpleRow{}
		},
	}
}

func TestRecreatedCreateAccepted(t *testing.T) {
	sql := recreatedStub()
	app := newTestApp(sql)

	payload := `{"background_id":"bg-1","concept_option":{"category":"cosmetics","theme":"spring"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recreated-backgrounds", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	app.RecreatedCreate(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["recreated_background_id"] != "rec-1" || body["background_id"] != "bg-1" {
		t.Fatalf("unexpected body %v", body)
	}

	tasks := sql.callsFor(sqlinline.QInsertTask)
	if len(tasks) != 1 || tasks[0].args[0] != "background_recreate" {
		t.Fatalf("expected one background_recreate task, got %v", tasks)
	}
	var taskPayload jobs.RecreatePayload
	if err := json.Unmarshal(tasks[0].args[1].([]byte), &taskPayload); err != nil {
		t.Fatalf("task payload is not json: %v", err)
	}
	if taskPayload.RecreatedID != "rec-1" {
		t.Fatalf("unexpected task payload %+v", taskPayload)
	}
}

func TestRecreatedCreateRequiresExplicitParent(t *testing.T) {
	sql := recreatedStub()
	app := newTestApp(sql)

	payload := `{"concept_option":{"category":"cosmetics"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recreated-backgrounds", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	app.RecreatedCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(sql.calls) != 0 {
		t.Fatalf("expected no sql calls without a parent id, got %v", sql.calls)
	}
}

func TestRecreatedCreateUnknownParent(t *testing.T) {
	sql := recreatedStub()
	sql.queryRow = nil // every lookup misses
	app := newTestApp(sql)

	payload := `{"background_id":"bg-404"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recreated-backgrounds", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	app.RecreatedCreate(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}
