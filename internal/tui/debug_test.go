package tui

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/javiermolinar/congrid/internal/schedule"
)

func TestDebugLoggerWritesJSONLines(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Cleanup(func() { debugLog = nil })

	if err := InitDebugLogger(true); err != nil {
		t.Fatalf("InitDebugLogger: %v", err)
	}
	it := &schedule.Item{ID: 7, Title: "A Very Long Game Title That Gets Cut Short"}
	LogSelection(it, schedule.DimLocation, 2, nil)
	LogSaveStep(1, 3, false, errors.New("refused"))
	LogModeChange(ModeNormal, ModeSaving, "save")
	CloseDebugLogger()

	f, err := os.Open(DebugLogPath)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()

	var events []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var entry map[string]any
		if err := json.Unmarshal(sc.Bytes(), &entry); err != nil {
			t.Fatalf("line %q is not JSON: %v", sc.Text(), err)
		}
		events = append(events, entry)
	}

	want := []string{"DEBUG_START", "SELECTION", "SAVE_STEP", "MODE_CHANGE", "DEBUG_END"}
	if len(events) != len(want) {
		t.Fatalf("events = %d, want %d", len(events), len(want))
	}
	for i, name := range want {
		if events[i]["event"] != name {
			t.Fatalf("event %d = %v, want %s", i, events[i]["event"], name)
		}
	}

	sel := events[1]
	if sel["dimension"] != "location" {
		t.Fatalf("dimension = %v, want location", sel["dimension"])
	}
	if title := sel["title"].(string); len([]rune(title)) != 30 {
		t.Fatalf("title %q not truncated to 30 runes", title)
	}
	if events[2]["error"] != "refused" {
		t.Fatalf("save step error = %v, want refused", events[2]["error"])
	}
	if events[3]["to"] != "Saving" {
		t.Fatalf("mode change to = %v, want Saving", events[3]["to"])
	}
}

func TestDebugLoggerDisabledWritesNothing(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Cleanup(func() { debugLog = nil })

	if err := InitDebugLogger(false); err != nil {
		t.Fatalf("InitDebugLogger: %v", err)
	}
	LogError("test", errors.New("boom"))
	CloseDebugLogger()

	if _, err := os.Stat(DebugLogPath); !os.IsNotExist(err) {
		t.Fatalf("debug log exists while disabled: %v", err)
	}
}

func TestTruncateStr(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{in: "short", max: 10, want: "short"},
		{in: "exactly10!", max: 10, want: "exactly10!"},
		{in: "Caça ao Tesouro", max: 8, want: "Caça ..."},
	}
	for _, tt := range tests {
		if got := truncateStr(tt.in, tt.max); got != tt.want {
			t.Errorf("truncateStr(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
