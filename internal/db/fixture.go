package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/congrid/internal/schedule"
)

// ErrInvalidFixture is returned for fixtures that cannot be imported.
var ErrInvalidFixture = errors.New("invalid fixture")

// Fixture is a convention schedule in TOML form. Games reference locations
// and blocks by text and slots by name.
type Fixture struct {
	Locations  []FixtureLocation `toml:"locations"`
	TimeBlocks []FixtureBlock    `toml:"time_blocks"`
	TimeSlots  []FixtureSlot     `toml:"time_slots"`
	Games      []FixtureGame     `toml:"games"`
}

// FixtureLocation is a room.
type FixtureLocation struct {
	Text string `toml:"text"`
}

// FixtureBlock is a time block such as "Saturday Day".
type FixtureBlock struct {
	Text   string `toml:"text"`
	SortID int    `toml:"sort_id"`
}

// FixtureSlot is a time slot in hours of the day. Name defaults to the slot's
// display text, e.g. "6 PM - Midnight".
type FixtureSlot struct {
	Name  string  `toml:"name"`
	Start float64 `toml:"start"`
	Stop  float64 `toml:"stop"`
}

// FixtureGame is a game with optional assignments.
type FixtureGame struct {
	Title           string `toml:"title"`
	GM              string `toml:"gm"`
	Location        string `toml:"location"`
	TimeBlock       string `toml:"time_block"`
	TimeSlot        string `toml:"time_slot"`
	PreferredTime   string `toml:"preferred_time"`
	SpecialRequests string `toml:"special_requests"`
}

// ImportStats counts the rows created by Import.
type ImportStats struct {
	Locations int
	Blocks    int
	Slots     int
	Games     int
}

// LoadFixture reads a fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture decodes and validates a TOML fixture.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks required fields and slot ranges.
func (f *Fixture) Validate() error {
	for i, l := range f.Locations {
		if strings.TrimSpace(l.Text) == "" {
			return fmt.Errorf("%w: location %d has no text", ErrInvalidFixture, i)
		}
	}
	for i, b := range f.TimeBlocks {
		if strings.TrimSpace(b.Text) == "" {
			return fmt.Errorf("%w: time block %d has no text", ErrInvalidFixture, i)
		}
	}
	for i, sl := range f.TimeSlots {
		if sl.Start < 0 || sl.Start >= 24 || sl.Stop < 0 || sl.Stop > 24 {
			return fmt.Errorf("%w: time slot %d hours out of range", ErrInvalidFixture, i)
		}
	}
	for i, g := range f.Games {
		if strings.TrimSpace(g.Title) == "" {
			return fmt.Errorf("%w: game %d has no title", ErrInvalidFixture, i)
		}
	}
	return nil
}

// SlotName returns the name games use to reference a slot.
func (sl FixtureSlot) SlotName() string {
	if sl.Name != "" {
		return sl.Name
	}
	return schedule.SlotText(sl.Start, sl.Stop)
}

// Import inserts a fixture in one transaction.
func (s *SQLite) Import(ctx context.Context, f *Fixture) (ImportStats, error) {
	var stats ImportStats
	if f == nil {
		return stats, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	locations := make(map[string]int64)
	for i, l := range f.Locations {
		id, err := insert(ctx, tx, `INSERT INTO locations (text, sort_id) VALUES (?, ?)`, l.Text, i)
		if err != nil {
			return stats, fmt.Errorf("inserting location %q: %w", l.Text, err)
		}
		locations[strings.ToLower(l.Text)] = id
		stats.Locations++
	}

	blocks := make(map[string]int64)
	for _, b := range f.TimeBlocks {
		id, err := insert(ctx, tx, `INSERT INTO time_blocks (text, sort_id) VALUES (?, ?)`, b.Text, b.SortID)
		if err != nil {
			return stats, fmt.Errorf("inserting time block %q: %w", b.Text, err)
		}
		blocks[strings.ToLower(b.Text)] = id
		stats.Blocks++
	}

	slots := make(map[string]int64)
	for _, sl := range f.TimeSlots {
		id, err := insert(ctx, tx, `INSERT INTO time_slots (start, stop) VALUES (?, ?)`, sl.Start, sl.Stop)
		if err != nil {
			return stats, fmt.Errorf("inserting time slot %q: %w", sl.SlotName(), err)
		}
		slots[strings.ToLower(sl.SlotName())] = id
		stats.Slots++
	}

	for _, g := range f.Games {
		loc, err := reference(locations, "location", g.Location)
		if err != nil {
			return stats, fmt.Errorf("game %q: %w", g.Title, err)
		}
		block, err := reference(blocks, "time block", g.TimeBlock)
		if err != nil {
			return stats, fmt.Errorf("game %q: %w", g.Title, err)
		}
		slot, err := reference(slots, "time slot", g.TimeSlot)
		if err != nil {
			return stats, fmt.Errorf("game %q: %w", g.Title, err)
		}

		_, err = insert(ctx, tx, `
			INSERT INTO games (title, gm, location_id, time_block_id, time_slot_id, preferred_time, special_requests)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, g.Title, g.GM, loc, block, slot, g.PreferredTime, g.SpecialRequests)
		if err != nil {
			return stats, fmt.Errorf("inserting game %q: %w", g.Title, err)
		}
		stats.Games++
	}

	if err := tx.Commit(); err != nil {
		return ImportStats{}, fmt.Errorf("committing transaction: %w", err)
	}
	return stats, nil
}

func insert(ctx context.Context, tx *sql.Tx, query string, args ...any) (int64, error) {
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}
	return id, nil
}

// reference resolves a fixture reference. An empty name means unassigned.
func reference(ids map[string]int64, kind, name string) (any, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	id, ok := ids[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s %q", ErrUnknownReference, kind, name)
	}
	return id, nil
}
