package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS locations (
			id      INTEGER PRIMARY KEY AUTOINCREMENT,
			text    TEXT NOT NULL UNIQUE,
			sort_id INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS time_blocks (
			id      INTEGER PRIMARY KEY AUTOINCREMENT,
			text    TEXT NOT NULL UNIQUE,
			sort_id INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS time_slots (
			id    INTEGER PRIMARY KEY AUTOINCREMENT,
			start REAL NOT NULL CHECK(start >= 0 AND start < 24),
			stop  REAL NOT NULL CHECK(stop >= 0 AND stop <= 24),
			UNIQUE(start, stop)
		);

		CREATE TABLE IF NOT EXISTS games (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			title            TEXT NOT NULL,
			gm               TEXT NOT NULL DEFAULT '',
			location_id      INTEGER REFERENCES locations(id),
			time_block_id    INTEGER REFERENCES time_blocks(id),
			time_slot_id     INTEGER REFERENCES time_slots(id),
			preferred_time   TEXT NOT NULL DEFAULT '',
			special_requests TEXT NOT NULL DEFAULT '',
			last_modified    DATETIME DEFAULT CURRENT_TIMESTAMP,
			last_scheduled   DATETIME
		);

		CREATE TABLE IF NOT EXISTS revisions (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id    INTEGER NOT NULL REFERENCES games(id),
			comment    TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_games_block ON games(time_block_id);
		CREATE INDEX IF NOT EXISTS idx_revisions_game ON revisions(game_id);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating schedule tables: %w", err)
	}

	return nil
}
