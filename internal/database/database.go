package database

import (
	"database/sql"

	_ "modernc.org/sqlite" // SQLite driver
)

// New creates a new database connection pool.
func New(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dataSourceName+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS notes (
		id TEXT NOT NULL PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		tags_json TEXT NOT NULL DEFAULT '[]',
		color TEXT NOT NULL DEFAULT '#ffffff',
		user_id TEXT NOT NULL REFERENCES users(id),
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_notes_user_created
		ON notes(user_id, created_at DESC);
	`
	_, err := db.Exec(sqlStmt)
	return err
}
