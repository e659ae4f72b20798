package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultDeck receives cards generated without an explicit deck.
const DefaultDeck = "General"

// Open connects to the SQLite database and runs schema migrations.
func Open(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=foreign_keys(1)", path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)

	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return conn, nil
}

func migrate(db *sql.DB) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS decks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			language TEXT NOT NULL DEFAULT 'french',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS documents (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			original_name TEXT NOT NULL,
			stored_path TEXT NOT NULL UNIQUE,
			format TEXT NOT NULL CHECK(format IN ('text','markdown','html','pdf')),
			page_count INTEGER NOT NULL DEFAULT 0,
			uploaded_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS cards (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			deck_id INTEGER NOT NULL,
			source_document_id INTEGER,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			card_type TEXT NOT NULL,
			level TEXT NOT NULL DEFAULT '',
			relevance_score REAL NOT NULL DEFAULT 0,
			due DATETIME,
			stability REAL NOT NULL DEFAULT 0,
			difficulty REAL NOT NULL DEFAULT 0,
			elapsed_days INTEGER NOT NULL DEFAULT 0,
			scheduled_days INTEGER NOT NULL DEFAULT 0,
			reps INTEGER NOT NULL DEFAULT 0,
			lapses INTEGER NOT NULL DEFAULT 0,
			state INTEGER NOT NULL DEFAULT 0,
			last_review DATETIME,
			working_queue_position INTEGER DEFAULT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY(deck_id) REFERENCES decks(id) ON DELETE CASCADE,
			FOREIGN KEY(source_document_id) REFERENCES documents(id) ON DELETE SET NULL
		);`,
		`CREATE TABLE IF NOT EXISTS review_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			card_id INTEGER NOT NULL,
			rating INTEGER NOT NULL,
			scheduled_days INTEGER NOT NULL,
			elapsed_days INTEGER NOT NULL,
			state INTEGER NOT NULL,
			reviewed_at DATETIME NOT NULL,
			FOREIGN KEY(card_id) REFERENCES cards(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_cards_due ON cards(due);`,
		`CREATE INDEX IF NOT EXISTS idx_cards_deck ON cards(deck_id);`,
		`CREATE INDEX IF NOT EXISTS idx_cards_working_queue ON cards(working_queue_position) WHERE working_queue_position IS NOT NULL;`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("execute %q: %w", stmt, err)
		}
	}

	const insertDefault = `
	INSERT INTO decks (name, language, created_at, updated_at)
	SELECT ?, 'french', ?, ?
	WHERE NOT EXISTS (SELECT 1 FROM decks WHERE name = ?);`
	now := time.Now().UTC()
	if _, err := db.Exec(insertDefault, DefaultDeck, now, now, DefaultDeck); err != nil {
		return fmt.Errorf("seed default deck: %w", err)
	}

	return nil
}
