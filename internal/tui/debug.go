package tui

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/congrid/internal/render"
	"github.com/javiermolinar/congrid/internal/schedule"
)

// DebugLogger logs TUI state, keystrokes, and events to a file.
type DebugLogger struct {
	mu      sync.Mutex
	file    *os.File
	enabled bool
	seq     int
}

// Global debug logger instance
var debugLog *DebugLogger

// DebugLogPath is the fixed path for debug logs
const DebugLogPath = "congrid-debug.log"

// InitDebugLogger initializes the debug logger if debug mode is enabled.
func InitDebugLogger(enabled bool) error {
	if !enabled {
		debugLog = &DebugLogger{enabled: false}
		return nil
	}

	// Create log file in current directory with fixed name (easy to find)
	logPath := DebugLogPath
	f, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("creating debug log: %w", err)
	}

	debugLog = &DebugLogger{
		file:    f,
		enabled: true,
	}

	debugLog.log("DEBUG_START", map[string]any{
		"log_file": logPath,
		"time":     time.Now().Format(time.RFC3339),
	})

	return nil
}

// CloseDebugLogger closes the debug log file.
func CloseDebugLogger() {
	if debugLog != nil && debugLog.file != nil {
		debugLog.log("DEBUG_END", map[string]any{
			"time": time.Now().Format(time.RFC3339),
		})
		_ = debugLog.file.Close()
	}
}

// log writes a structured log entry.
func (d *DebugLogger) log(event string, data map[string]any) {
	if d == nil || !d.enabled || d.file == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	entry := map[string]any{
		"seq":   d.seq,
		"ts":    time.Now().Format("15:04:05.000"),
		"event": event,
	}
	for k, v := range data {
		entry[k] = v
	}

	b, _ := json.Marshal(entry)
	_, _ = fmt.Fprintf(d.file, "%s\n", b)
}

// LogKeyPress logs a key press event.
func LogKeyPress(msg tea.KeyMsg) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	debugLog.log("KEY_PRESS", map[string]any{
		"key":  msg.String(),
		"type": fmt.Sprintf("%T", msg.Type),
	})
}

// LogModeChange logs a mode change.
func LogModeChange(from, to Mode, reason string) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	debugLog.log("MODE_CHANGE", map[string]any{
		"from":   modeString(from),
		"to":     modeString(to),
		"reason": reason,
	})
}

// LogCursorMove logs cursor movement.
func LogCursorMove(row, col int, reason string) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	debugLog.log("CURSOR_MOVE", map[string]any{
		"row":    row,
		"col":    col,
		"reason": reason,
	})
}

// LogSelection logs a selector change on an item.
func LogSelection(it *schedule.Item, dim schedule.Dimension, index int, err error) {
	if debugLog == nil || !debugLog.enabled || it == nil {
		return
	}
	data := map[string]any{
		"item_id":   it.ID,
		"title":     truncateStr(it.Title, 30),
		"dimension": dim.String(),
		"index":     index,
		"start":     it.Start,
		"width":     it.Width,
	}
	if err != nil {
		data["error"] = err.Error()
	}
	debugLog.log("SELECTION", data)
}

// LogSaveStep logs one step of the save pipeline.
func LogSaveStep(saved, total int, done bool, err error) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	data := map[string]any{
		"saved": saved,
		"total": total,
		"done":  done,
	}
	if err != nil {
		data["error"] = err.Error()
	}
	debugLog.log("SAVE_STEP", data)
}

// LogRender logs the outcome of a redraw.
func LogRender(d *render.Drawing, width float64) {
	if debugLog == nil || !debugLog.enabled || d == nil {
		return
	}
	debugLog.log("RENDER", map[string]any{
		"width":   width,
		"blocks":  len(d.Blocks),
		"skipped": d.Skipped,
		"height":  d.Geometry.Height,
	})
}

// LogError logs an error.
func LogError(context string, err error) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	debugLog.log("ERROR", map[string]any{
		"context": context,
		"error":   err.Error(),
	})
}

// modeString returns a string representation of a Mode.
func modeString(m Mode) string {
	switch m {
	case ModeNormal:
		return "Normal"
	case ModeSaving:
		return "Saving"
	case ModeModal:
		return "Modal"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// truncateStr truncates a string to max runes.
func truncateStr(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
