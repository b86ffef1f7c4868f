package adcopy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"bannerlab/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewClient(Options{APIKey: "copy-key", BaseURL: server.URL, HTTPClient: server.Client()})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return client, server
}

func TestCompleteReturnsFirstChoice(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer copy-key" {
			t.Errorf("authorization = %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "gpt-3.5-turbo" {
			t.Errorf("model = %q", req.Model)
		}
		if req.MaxTokens != 50 {
			t.Errorf("max_tokens = %d", req.MaxTokens)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "  반짝이는 아침을 여는 커피  "}},
			},
		})
	})

	text, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hello"}}, 50)
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if text != "반짝이는 아침을 여는 커피" {
		t.Fatalf("text = %q", text)
	}
}

func TestCompleteMapsFailureStatuses(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	if _, err := client.Complete(context.Background(), nil, 50); !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("error = %v, want ErrGenerationFailed", err)
	}
}

func TestCompleteRejectsEmptyChoices(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})

	if _, err := client.Complete(context.Background(), nil, 50); !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("error = %v, want ErrGenerationFailed", err)
	}
}

func TestTruncateCountsRunes(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 3, "hel"},
		{"한글은 룬 단위로", 4, "한글은 "},
		{"anything", 0, ""},
	}
	for _, tc := range cases {
		got := Truncate(tc.in, tc.max)
		if got != tc.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
		if utf8.RuneCountInString(got) > tc.max && tc.max > 0 {
			t.Errorf("Truncate(%q, %d) exceeded budget", tc.in, tc.max)
		}
	}
}

func TestStaticComposerStaysWithinOfflineBudget(t *testing.T) {
	composer := NewStaticComposer()
	ad, err := composer.AdText(context.Background(), CopyInput{ItemName: "수제 캔들", ItemConcept: "감성"})
	if err != nil {
		t.Fatalf("AdText returned error: %v", err)
	}
	if ad == "" || !strings.Contains(ad, "수제 캔들") {
		t.Fatalf("ad text = %q", ad)
	}
	serve, err := composer.ServeText(context.Background(), ad, "")
	if err != nil {
		t.Fatalf("ServeText returned error: %v", err)
	}
	if serve == "" {
		t.Fatal("serve text empty")
	}
}
