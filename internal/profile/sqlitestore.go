package profile

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS profile_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS profile_users (
	position INTEGER PRIMARY KEY,
	user_id  TEXT NOT NULL UNIQUE,
	name     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS profile_tagged_data (
	position INTEGER PRIMARY KEY,
	tags     TEXT NOT NULL,
	vals     TEXT NOT NULL
);`

const versionKey = "version"

// SQLiteStore keeps the database in three tables of a SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) a SQLite profile database at path.
// ":memory:" gives a private in-memory database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("profile: open %s: %w", path, err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)
	s, err := NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLiteStore wraps an open handle, creating the tables if missing.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("profile: create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load reads the database back in stored order.
func (s *SQLiteStore) Load() (*Database, error) {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM profile_meta WHERE key = ?`, versionKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoDatabase
	}
	if err != nil {
		return nil, fmt.Errorf("profile: read version: %w", err)
	}
	version, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("profile: version %q: %w", raw, ErrBadVersion)
	}

	db := &Database{Version: version, Users: []User{}, TaggedData: []TaggedItem{}}
	if err := db.checkVersion(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT user_id, name FROM profile_users ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("profile: query users: %w", err)
	}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("profile: scan user: %w", err)
		}
		db.Users = append(db.Users, u)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("profile: users: %w", err)
	}

	rows, err = s.db.Query(`SELECT tags, vals FROM profile_tagged_data ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("profile: query tagged data: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tagsJSON, valsJSON string
		if err := rows.Scan(&tagsJSON, &valsJSON); err != nil {
			return nil, fmt.Errorf("profile: scan tagged data: %w", err)
		}
		var it TaggedItem
		if err := json.Unmarshal([]byte(tagsJSON), &it.Tags); err != nil {
			return nil, fmt.Errorf("profile: decode tags: %w", err)
		}
		it.Vals = New("")
		if err := it.Vals.UnmarshalJSON([]byte(valsJSON)); err != nil {
			return nil, fmt.Errorf("profile: decode vals: %w", err)
		}
		db.TaggedData = append(db.TaggedData, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("profile: tagged data: %w", err)
	}
	return db, nil
}

// Save replaces the stored database in one transaction.
func (s *SQLiteStore) Save(db *Database) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("profile: begin: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM profile_users`,
		`DELETE FROM profile_tagged_data`,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("profile: clear: %w", err)
		}
	}
	if _, err := tx.Exec(`INSERT OR REPLACE INTO profile_meta (key, value) VALUES (?, ?)`,
		versionKey, strconv.FormatFloat(db.Version, 'f', -1, 64)); err != nil {
		return fmt.Errorf("profile: write version: %w", err)
	}
	for i, u := range db.Users {
		if _, err := tx.Exec(`INSERT INTO profile_users (position, user_id, name) VALUES (?, ?, ?)`, i, u.ID, u.Name); err != nil {
			return fmt.Errorf("profile: insert user %q: %w", u.ID, err)
		}
	}
	for i, it := range db.TaggedData {
		tags, err := json.Marshal(it.Tags)
		if err != nil {
			return fmt.Errorf("profile: encode tags: %w", err)
		}
		vals, err := it.Vals.MarshalJSON()
		if err != nil {
			return fmt.Errorf("profile: encode vals: %w", err)
		}
		if _, err := tx.Exec(`INSERT INTO profile_tagged_data (position, tags, vals) VALUES (?, ?, ?)`, i, string(tags), string(vals)); err != nil {
			return fmt.Errorf("profile: insert tagged data: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("profile: commit: %w", err)
	}
	return nil
}
