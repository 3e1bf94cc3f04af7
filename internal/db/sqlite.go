// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/congrid/internal/schedule"
)

// Store errors.
var (
	ErrGameNotFound     = errors.New("game not found")
	ErrUnknownReference = errors.New("unknown reference")
)

// revisionPrefix starts every revision comment written by SaveAssignment.
const revisionPrefix = "Schedule Submission"

// SQLite implements schedule.Repository using SQLite.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// LoadSnapshot reads the whole schedule. Locations keep their sort order,
// blocks are ordered by sort_id, slots by start, and games by block, slot and
// title with unscheduled games last.
func (s *SQLite) LoadSnapshot(ctx context.Context) (*schedule.Snapshot, error) {
	snap := &schedule.Snapshot{
		Locations: []schedule.LocationRecord{},
		Blocks:    []schedule.BlockRecord{},
		Slots:     []schedule.SlotRecord{},
		Games:     []schedule.GameRecord{},
	}

	locIndex := make(map[int64]int)
	err := s.query(ctx, `SELECT id, text FROM locations ORDER BY sort_id, id`, func(rows *sql.Rows) error {
		var l schedule.LocationRecord
		if err := rows.Scan(&l.ID, &l.Text); err != nil {
			return err
		}
		locIndex[l.ID] = len(snap.Locations)
		snap.Locations = append(snap.Locations, l)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading locations: %w", err)
	}

	blockIndex := make(map[int64]int)
	err = s.query(ctx, `SELECT id, text FROM time_blocks ORDER BY sort_id, id`, func(rows *sql.Rows) error {
		var b schedule.BlockRecord
		if err := rows.Scan(&b.ID, &b.Text); err != nil {
			return err
		}
		b.Offset = schedule.BlockOffset(b.Text)
		blockIndex[b.ID] = len(snap.Blocks)
		snap.Blocks = append(snap.Blocks, b)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading time blocks: %w", err)
	}

	slotIndex := make(map[int64]int)
	err = s.query(ctx, `SELECT id, start, stop FROM time_slots ORDER BY start, stop, id`, func(rows *sql.Rows) error {
		var (
			sl          schedule.SlotRecord
			start, stop float64
		)
		if err := rows.Scan(&sl.ID, &start, &stop); err != nil {
			return err
		}
		sl.Text = schedule.SlotText(start, stop)
		sl.Start = start
		sl.Width = schedule.SlotWidth(start, stop)
		slotIndex[sl.ID] = len(snap.Slots)
		snap.Slots = append(snap.Slots, sl)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading time slots: %w", err)
	}

	query := `
		SELECT g.id, g.title, g.gm, g.location_id, g.time_block_id, g.time_slot_id,
		       g.preferred_time, g.special_requests
		FROM games g
		LEFT JOIN time_blocks b ON b.id = g.time_block_id
		LEFT JOIN time_slots sl ON sl.id = g.time_slot_id
		ORDER BY b.sort_id IS NULL, b.sort_id, sl.start IS NULL, sl.start, g.title, g.id
	`
	err = s.query(ctx, query, func(rows *sql.Rows) error {
		var (
			g                  schedule.GameRecord
			loc, block, slotID sql.NullInt64
		)
		if err := rows.Scan(&g.ID, &g.Title, &g.GM, &loc, &block, &slotID,
			&g.PreferredTime, &g.SpecialRequests); err != nil {
			return err
		}
		g.Location = lookup(locIndex, loc)
		g.TimeBlock = lookup(blockIndex, block)
		g.TimeSlot = lookup(slotIndex, slotID)

		g.Start = schedule.UnscheduledStart
		if g.TimeBlock >= 0 && g.TimeSlot >= 0 {
			g.Start = snap.Blocks[g.TimeBlock].Offset + snap.Slots[g.TimeSlot].Start
		}
		if g.TimeSlot >= 0 {
			g.Width = snap.Slots[g.TimeSlot].Width
		}
		snap.Games = append(snap.Games, g)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading games: %w", err)
	}

	return snap, nil
}

// SaveAssignment stores a game's location, time block and time slot. Omitted
// references are cleared. The game's last_scheduled time is updated and a
// revision records which fields changed.
func (s *SQLite) SaveAssignment(ctx context.Context, a schedule.Assignment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var old [3]sql.NullInt64
	err = tx.QueryRowContext(ctx,
		`SELECT location_id, time_block_id, time_slot_id FROM games WHERE id = ?`, a.ID,
	).Scan(&old[0], &old[1], &old[2])
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %d", ErrGameNotFound, a.ID)
	}
	if err != nil {
		return fmt.Errorf("querying game: %w", err)
	}

	refs := []struct {
		key   string
		table string
		value *int64
	}{
		{"location", "locations", a.Location},
		{"time_block", "time_blocks", a.TimeBlock},
		{"time_slot", "time_slots", a.TimeSlot},
	}

	var changed []string
	values := make([]any, len(refs))
	for i, ref := range refs {
		if ref.value != nil {
			if err := checkExists(ctx, tx, ref.table, *ref.value); err != nil {
				return fmt.Errorf("%s %d: %w", ref.key, *ref.value, err)
			}
			values[i] = *ref.value
		}
		if !sameRef(old[i], ref.value) {
			changed = append(changed, ref.key)
		}
	}
	sort.Strings(changed)

	_, err = tx.ExecContext(ctx, `
		UPDATE games
		SET location_id = ?, time_block_id = ?, time_slot_id = ?, last_scheduled = ?
		WHERE id = ?
	`, values[0], values[1], values[2], s.now().UTC().Format(time.RFC3339), a.ID)
	if err != nil {
		return fmt.Errorf("updating game %d: %w", a.ID, err)
	}

	comment := fmt.Sprintf("%s - %s Changed", revisionPrefix, strings.Join(changed, ", "))
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO revisions (game_id, comment, created_at) VALUES (?, ?, ?)`,
		a.ID, comment, s.now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("recording revision: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Revision is one recorded change to a game.
type Revision struct {
	ID        int64
	GameID    int64
	Comment   string
	CreatedAt time.Time
}

// ListRevisions returns the revisions of a game, oldest first.
func (s *SQLite) ListRevisions(ctx context.Context, gameID int64) ([]Revision, error) {
	var revs []Revision
	err := s.query(ctx, `
		SELECT id, game_id, comment, created_at FROM revisions WHERE game_id = ? ORDER BY id
	`, func(rows *sql.Rows) error {
		var (
			r         Revision
			createdAt string
		)
		if err := rows.Scan(&r.ID, &r.GameID, &r.Comment, &createdAt); err != nil {
			return err
		}
		t, err := parseTime(createdAt)
		if err != nil {
			return fmt.Errorf("parsing created at: %w", err)
		}
		r.CreatedAt = t
		revs = append(revs, r)
		return nil
	}, gameID)
	if err != nil {
		return nil, fmt.Errorf("listing revisions: %w", err)
	}
	return revs, nil
}

// LastScheduled returns when a game's assignment was last saved. The zero time
// means never.
func (s *SQLite) LastScheduled(ctx context.Context, gameID int64) (time.Time, error) {
	var value sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT last_scheduled FROM games WHERE id = ?`, gameID).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, fmt.Errorf("%w: %d", ErrGameNotFound, gameID)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("querying game: %w", err)
	}
	if !value.Valid {
		return time.Time{}, nil
	}
	return parseTime(value.String)
}

func (s *SQLite) query(ctx context.Context, query string, scan func(*sql.Rows) error, args ...any) error {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func checkExists(ctx context.Context, tx *sql.Tx, table string, id int64) error {
	var one int
	// table is one of the fixed names above, never user input.
	err := tx.QueryRowContext(ctx, "SELECT 1 FROM "+table+" WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUnknownReference
	}
	return err
}

func sameRef(old sql.NullInt64, next *int64) bool {
	if !old.Valid || next == nil {
		return !old.Valid && next == nil
	}
	return old.Int64 == *next
}

func lookup(index map[int64]int, id sql.NullInt64) int {
	if !id.Valid {
		return schedule.Unset
	}
	if i, ok := index[id.Int64]; ok {
		return i
	}
	return schedule.Unset
}

// parseTime parses timestamps written by this package or by SQLite defaults.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse time: %s", s)
}
