package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/javiermolinar/congrid/internal/schedule"
)

func TestNew_RequiresURL(t *testing.T) {
	if _, err := New("  "); !errors.Is(err, ErrNoBaseURL) {
		t.Fatalf("expected ErrNoBaseURL, got %v", err)
	}
}

func TestLoadSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/v1/schedule" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"locations": [{"id": 1, "text": "Boiler Room"}],
			"blocks": [{"id": 5, "text": "Sunday Morning", "offset": 40}],
			"slots": [{"id": 9, "text": "Midnight - 7 AM", "start": 0, "width": 7}],
			"games": [{"id": 3, "title": "Down with the Sun", "gm": "Ana", "location": 0, "time_block": 0, "time_slot": 0, "start": 40, "width": 7}]
		}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = c.Close() }()

	snap, err := c.LoadSnapshot(context.Background())
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if len(snap.Games) != 1 || snap.Games[0].Title != "Down with the Sun" || snap.Blocks[0].Offset != 40 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestSaveAssignment(t *testing.T) {
	var (
		got   map[string]any
		auth  string
		ctype string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/schedule/items" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		ctype = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		_, _ = w.Write([]byte(`{"id": 7, "status": "ok"}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, WithToken("s3cret"))
	if err != nil {
		t.Fatal(err)
	}

	loc := int64(13)
	if err := c.SaveAssignment(context.Background(), schedule.Assignment{ID: 7, Location: &loc}); err != nil {
		t.Fatalf("SaveAssignment failed: %v", err)
	}

	if auth != "Bearer s3cret" {
		t.Errorf("authorization = %q", auth)
	}
	if ctype != "application/json" {
		t.Errorf("content type = %q", ctype)
	}
	if got["id"] != float64(7) || got["location"] != float64(13) {
		t.Errorf("payload = %v", got)
	}
	for _, key := range []string{"time_block", "time_slot"} {
		if _, ok := got[key]; ok {
			t.Errorf("payload should omit %s: %v", key, got)
		}
	}
}

func TestSaveAssignment_StatusError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "problem document", status: http.StatusNotFound, body: `{"title": "Not Found", "status": 404, "detail": "game not found"}`, wantMsg: "game not found"},
		{name: "error body", status: http.StatusUnauthorized, body: `{"error": "unauthorized"}`, wantMsg: "unauthorized"},
		{name: "plain text", status: http.StatusBadGateway, body: "upstream down\n", wantMsg: "upstream down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c, err := New(srv.URL)
			if err != nil {
				t.Fatal(err)
			}

			err = c.SaveAssignment(context.Background(), schedule.Assignment{ID: 1})
			var statusErr *StatusError
			if !errors.As(err, &statusErr) {
				t.Fatalf("expected *StatusError, got %v", err)
			}
			if statusErr.Code != tt.status || statusErr.Message != tt.wantMsg {
				t.Errorf("status error = %+v", statusErr)
			}
		})
	}
}

func TestLoadSnapshot_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.LoadSnapshot(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
