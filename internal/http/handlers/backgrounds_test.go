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

func backgroundsStub() *stubSQL {
	now := time.Now()
	return &stubSQL{
		queryRow: func(query string, args ...any) pgx.Row {
			switch query {
			case sqlinline.QSelectUserByID:
				return simpleRow{scan: scanInto("user-1", "민수", now, now)}
			case sqlinline.QSelectSourceImageByID:
				return simpleRow{scan: scanInto("img-1", "user-1", "mem://src.png", now, now)}
			case sqlinline.QInsertBackground:
				return simpleRow{scan: scanInto("bg-1", 0)}
			case sqlinline.QInsertTask:
				return simpleRow{scan: scanInto("task-1")}
			}
			return simpleRow{}
		},
	}
}

func TestBackgroundsCreateAccepted(t *testing.T) {
	sql := backgroundsStub()
	app := newTestApp(sql)

	payload := `{"user_id":"user-1","image_id":"img-1","gen_type":"concept","output_w":800,"output_h":600,"concept_option":{"category":"food","num_results":2}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/backgrounds", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	app.BackgroundsCreate(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["background_id"] != "bg-1" || body["task_id"] != "task-1" {
		t.Fatalf("unexpected body %v", body)
	}
	s3URL, _ := body["s3_url"].(string)
	if !strings.HasPrefix(s3URL, "mem://") || !strings.HasSuffix(s3URL, ".png") {
		t.Fatalf("unexpected s3_url %q", s3URL)
	}

	tasks := sql.callsFor(sqlinline.QInsertTask)
	if len(tasks) != 1 || tasks[0].args[0] != "background_generate" {
		t.Fatalf("expected one background_generate task, got %v", tasks)
	}
	var taskPayload jobs.BackgroundPayload
	if err := json.Unmarshal(tasks[0].args[1].([]byte), &taskPayload); err != nil {
		t.Fatalf("task payload is not json: %v", err)
	}
	if taskPayload.BackgroundID != "bg-1" || taskPayload.ExpectedVersion != 0 {
		t.Fatalf("unexpected task payload %+v", taskPayload)
	}
	if !strings.HasSuffix(s3URL, taskPayload.BlobKey) {
		t.Fatalf("response url %q does not match reserved key %q", s3URL, taskPayload.BlobKey)
	}
}

func TestBackgroundsCreateDefaultsDimensionsAndColor(t *testing.T) {
	sql := backgroundsStub()
	app := newTestApp(sql)

	payload := `{"user_id":"user-1","image_id":"img-1","gen_type":"remove_bg"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/backgrounds", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	app.BackgroundsCreate(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	inserts := sql.callsFor(sqlinline.QInsertBackground)
	if len(inserts) != 1 {
		t.Fatalf("expected one insert, got %d", len(inserts))
	}
	args := inserts[0].args
	if args[4] != 1000 || args[5] != 1000 {
		t.Fatalf("expected default 1000x1000, got %v x %v", args[4], args[5])
	}
	if args[7] != "#FFFFFF" {
		t.Fatalf("expected default color, got %v", args[7])
	}
}

func TestBackgroundsCreateRejectsUnknownGenType(t *testing.T) {
	sql := backgroundsStub()
	app := newTestApp(sql)

	payload := `{"user_id":"user-1","image_id":"img-1","gen_type":"sparkle"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/backgrounds", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	app.BackgroundsCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	msg := decodeBody(t, rec)["message"].(string)
	for _, name := range []string{"remove_bg", "color_bg", "simple", "concept"} {
		if !strings.Contains(msg, name) {
			t.Fatalf("expected allowed set in message, got %q", msg)
		}
	}
	if inserts := sql.callsFor(sqlinline.QInsertBackground); len(inserts) != 0 {
		t.Fatalf("expected no insert on invalid input")
	}
}

func TestBackgroundsCreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"output_w too small", `{"user_id":"u","image_id":"i","gen_type":"simple","output_w":100}`},
		{"output_h too large", `{"user_id":"u","image_id":"i","gen_type":"simple","output_h":2400}`},
		{"bad hex color", `{"user_id":"u","image_id":"i","gen_type":"simple","bg_color_hex_code":"FFFFFF"}`},
		{"bad concept category", `{"user_id":"u","image_id":"i","gen_type":"concept","concept_option":{"category":"gadgets"}}`},
		{"num_results out of range", `{"user_id":"u","image_id":"i","gen_type":"concept","concept_option":{"num_results":5}}`},
		{"missing user_id", `{"image_id":"i","gen_type":"simple"}`},
		{"missing image_id", `{"user_id":"u","gen_type":"simple"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sql := backgroundsStub()
			app := newTestApp(sql)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/backgrounds", strings.NewReader(tc.payload))
			rec := httptest.NewRecorder()
			app.BackgroundsCreate(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			if inserts := sql.callsFor(sqlinline.QInsertBackground); len(inserts) != 0 {
				t.Fatalf("expected no insert on invalid input")
			}
			if tasks := sql.callsFor(sqlinline.QInsertTask); len(tasks) != 0 {
				t.Fatalf("expected no task on invalid input")
			}
		})
	}
}

func TestBackgroundsUpdateEnqueuesRegenerate(t *testing.T) {
	sql := backgroundsStub()
	sql.queryRow = func(query string, args ...any) pgx.Row {
		switch query {
		case sqlinline.QUpdateBackgroundConcept:
			return simpleRow{scan: scanInto(4)}
		case sqlinline.QInsertTask:
			return simpleRow{scan: scanInto("task-7")}
		}
		return simpleRow{}
	}
	app := newTestApp(sql)

	payload := `{"concept_option":{"category":"cosmetics","theme":"spring"}}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/backgrounds/bg-1", strings.NewReader(payload))
	req = withURLParam(req, "background_id", "bg-1")
	rec := httptest.NewRecorder()
	app.BackgroundsUpdate(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	tasks := sql.callsFor(sqlinline.QInsertTask)
	if len(tasks) != 1 || tasks[0].args[0] != "background_regenerate" {
		t.Fatalf("expected background_regenerate task, got %v", tasks)
	}
	var taskPayload jobs.BackgroundPayload
	_ = json.Unmarshal(tasks[0].args[1].([]byte), &taskPayload)
	if taskPayload.ExpectedVersion != 4 {
		t.Fatalf("expected new version 4 in payload, got %+v", taskPayload)
	}
}

func TestBackgroundsGetPendingStatus(t *testing.T) {
	now := time.Now()
	sql := &stubSQL{
		queryRow: func(query string, args ...any) pgx.Row {
			if query == sqlinline.QSelectBackgroundByID {
				return simpleRow{scan: scanInto(
					"bg-1", "user-1", "img-1", "simple", []byte(`{}`),
					1000, 1000, false, "#FFFFFF",
					"", false, 0, now, now,
				)}
			}
			return simpleRow{}
		},
	}
	app := newTestApp(sql)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/backgrounds/bg-1", nil)
	req = withURLParam(req, "background_id", "bg-1")
	rec := httptest.NewRecorder()
	app.BackgroundsGet(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "pending" || body["image_url"] != "" {
		t.Fatalf("expected pending record, got %v", body)
	}
}
