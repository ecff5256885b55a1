package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

type DB struct {
	db *sql.DB
}

func NewDB(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS raffle_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		raffle_id TEXT NOT NULL,
		chat_id INTEGER NOT NULL,
		place_number INTEGER NOT NULL,
		participants INTEGER NOT NULL,
		winner_id INTEGER NOT NULL,
		winner_name TEXT NOT NULL,
		finished_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_raffle_history_finished_at ON raffle_history(finished_at);
	CREATE INDEX IF NOT EXISTS idx_raffle_history_winner_id ON raffle_history(winner_id);
	`

	if _, err := d.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

func (d *DB) DB() *sql.DB {
	return d.db
}
