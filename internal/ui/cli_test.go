package ui

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/javiermolinar/congrid/internal/config"
	"github.com/javiermolinar/congrid/internal/db"
	"github.com/javiermolinar/congrid/internal/schedule"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.DBPath = filepath.Join(t.TempDir(), "congrid.db")
	cfg.UI.PreviewPath = ""
	return cfg
}

// execute runs the CLI with args and returns stdout and stderr.
func execute(t *testing.T, app *App, args ...string) (string, string, error) {
	t.Helper()
	DisableColor()
	var stdout, stderr bytes.Buffer
	app.root.SetOut(&stdout)
	app.root.SetErr(&stderr)
	app.root.SetArgs(args)
	err := app.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	app := NewApp(newTestStore(t), testConfig(t))

	out, _, err := execute(t, app, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "congrid dev") {
		t.Fatalf("output = %q", out)
	}
}

func TestAssignCommandSavesSchedule(t *testing.T) {
	ctx := context.Background()
	store := newSeededStore(t)
	app := NewApp(store, testConfig(t))

	out, _, err := execute(t, app, "assign", "2", "--block", "saturday morning", "--slot", "Midnight - 7 AM")
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if !strings.Contains(out, "saved 3 of 3") {
		t.Fatalf("output missing progress: %q", out)
	}
	if !strings.Contains(out, "on the grid") {
		t.Fatalf("output missing status: %q", out)
	}

	snap, err := store.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	s, err := schedule.FromSnapshot(snap)
	if err != nil {
		t.Fatal(err)
	}
	it, ok := s.ItemByID(2)
	if !ok {
		t.Fatal("game 2 missing")
	}
	if got := s.OptionLabel(schedule.DimTimeBlock, it.TimeBlockIndex); got != "Saturday Morning" {
		t.Fatalf("time block = %q, want Saturday Morning", got)
	}
	if it.Start != 6 || it.Width != 7 {
		t.Fatalf("start/width = %v/%v, want 6/7", it.Start, it.Width)
	}

	revs, err := store.ListRevisions(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(revs) == 0 {
		t.Fatal("no revision recorded for the changed game")
	}
}

func TestAssignCommandErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "no flags", args: []string{"assign", "1"}},
		{name: "bad id", args: []string{"assign", "one", "--slot", "none"}},
		{name: "unknown game", args: []string{"assign", "99", "--slot", "none"}, wantErr: schedule.ErrItemNotFound},
		{name: "unknown option", args: []string{"assign", "1", "--location", "Attic"}, wantErr: ErrUnknownOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := NewApp(newSeededStore(t), testConfig(t))
			_, _, err := execute(t, app, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAssignCommandUnchanged(t *testing.T) {
	store := newSeededStore(t)
	app := NewApp(store, testConfig(t))

	out, _, err := execute(t, app, "assign", "1", "--location", "dance floor")
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if !strings.Contains(out, "already has that assignment") {
		t.Fatalf("output = %q", out)
	}
	last, err := store.LastScheduled(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if !last.IsZero() {
		t.Fatal("unchanged assignment was saved")
	}
}

func TestListCommand(t *testing.T) {
	app := NewApp(newSeededStore(t), testConfig(t))

	out, _, err := execute(t, app, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	friday := strings.Index(out, "=== Friday Night ===")
	midnight := strings.Index(out, "=== Saturday Midnight ===")
	none := strings.Index(out, "=== "+unscheduledGroup+" ===")
	if friday < 0 || midnight < 0 || none < 0 {
		t.Fatalf("missing groups in:\n%s", out)
	}
	if !(friday < midnight && midnight < none) {
		t.Fatalf("groups out of order:\n%s", out)
	}
	if !strings.Contains(out, "○ #2") {
		t.Fatalf("unscheduled game not marked:\n%s", out)
	}
	if !strings.Contains(out, "Booked: 15h") {
		t.Fatalf("missing booking summary:\n%s", out)
	}
}

func TestListCommandUnscheduled(t *testing.T) {
	app := NewApp(newSeededStore(t), testConfig(t))

	out, _, err := execute(t, app, "list", "--unscheduled")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "2nd Game") {
		t.Fatalf("unscheduled game missing:\n%s", out)
	}
	if strings.Contains(out, "First Game") || strings.Contains(out, "Booked") {
		t.Fatalf("unexpected content:\n%s", out)
	}
}

func TestShowCommand(t *testing.T) {
	app := NewApp(newSeededStore(t), testConfig(t))

	out, _, err := execute(t, app, "show", "3")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	for _, want := range []string{"Down with the Sun", "Ana", "Dungeon", "Quiet room", "Last scheduled: never"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderCommand(t *testing.T) {
	app := NewApp(newSeededStore(t), testConfig(t))
	path := filepath.Join(t.TempDir(), "out", "schedule.svg")

	_, stderr, err := execute(t, app, "render", "--width", "300", "-o", path)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading svg: %v", err)
	}
	if !strings.HasPrefix(string(data), "<svg") {
		t.Fatalf("output is not svg: %.40q", data)
	}
	for _, want := range []string{"First Game", "Down with the Sun"} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("svg missing %q", want)
		}
	}
	if !strings.Contains(stderr, "#2 2nd Game") {
		t.Fatalf("skipped game not reported: %q", stderr)
	}
}

func TestRenderCommandUnknownTheme(t *testing.T) {
	app := NewApp(newSeededStore(t), testConfig(t))

	if _, _, err := execute(t, app, "render", "--theme", "neon"); err == nil {
		t.Fatal("expected error for unknown theme")
	}
}

func TestHTTPServerRoutes(t *testing.T) {
	store := newSeededStore(t)
	cfg := testConfig(t)
	srv := newHTTPServer(cfg, store, newLogger(&bytes.Buffer{}, "error"))

	ts := httptest.NewServer(srv.Handler)
	defer ts.Close()

	for _, path := range []string{"/v1/health", "/v1/schedule", "/v1/schedule.svg"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s = %d, want 200", path, resp.StatusCode)
		}
	}
}

func TestRunServerStopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.Listen = "127.0.0.1:0"
	srv := newHTTPServer(cfg, newTestStore(t), newLogger(&bytes.Buffer{}, "error"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := runServer(ctx, srv, newLogger(&bytes.Buffer{}, "error")); err != nil {
		t.Fatalf("runServer: %v", err)
	}
}

func TestEnsureStoreCreatesDatabase(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.DBPath = filepath.Join(t.TempDir(), "nested", "congrid.db")
	app := NewApp(nil, cfg)
	t.Cleanup(func() { _ = app.Close() })

	if err := app.ensureRepo(); err != nil {
		t.Fatalf("ensureRepo: %v", err)
	}
	if _, ok := app.repo.(*db.SQLite); !ok {
		t.Fatalf("repo = %T, want *db.SQLite", app.repo)
	}
	if _, err := os.Stat(cfg.Storage.DBPath); err != nil {
		t.Fatalf("database not created: %v", err)
	}
}
