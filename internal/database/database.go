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
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		name TEXT,
		bio TEXT,
		profile_image BLOB,
		profile_image_mime TEXT,
		-- Store the ordered skill list as JSON text
		skills_json TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS match_requests (
		id TEXT NOT NULL PRIMARY KEY,
		mentor_id TEXT NOT NULL,
		mentee_id TEXT NOT NULL,
		message TEXT,
		status TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (mentor_id) REFERENCES users(id),
		FOREIGN KEY (mentee_id) REFERENCES users(id)
	);

	-- Schema-level backstop for the two matching invariants: at most one
	-- pending request per mentee, at most one accepted mentee per mentor.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_requests_one_pending_per_mentee
		ON match_requests(mentee_id) WHERE status = 'pending';
	CREATE UNIQUE INDEX IF NOT EXISTS idx_requests_one_accepted_per_mentor
		ON match_requests(mentor_id) WHERE status = 'accepted';

	CREATE TABLE IF NOT EXISTS events (
		id TEXT NOT NULL PRIMARY KEY,
		type TEXT NOT NULL,
		level TEXT NOT NULL,
		message TEXT,
		user_id TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(sqlStmt)
	return err
}
