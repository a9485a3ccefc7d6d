// Package readinglist persists the user's saved stories in SQLite.
package readinglist

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one saved story. Engagement fields are a snapshot taken at
// save time; they are not refreshed.
type Entry struct {
	StoryID     string `json:"objectID"`
	Title       string `json:"title"`
	URL         string `json:"url,omitempty"`
	Author      string `json:"author"`
	Points      int    `json:"points"`
	NumComments int    `json:"num_comments"`
	SavedAt     int64  `json:"saved_at"` // Unix timestamp
}

// Store provides SQLite-backed persistence for the reading list.
type Store struct {
	db *sql.DB
}

const createTablesSQL = `
CREATE TABLE IF NOT EXISTS reading_list (
	story_id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	url TEXT,
	author TEXT,
	points INTEGER,
	num_comments INTEGER,
	saved_at INTEGER
);
`

// New opens the SQLite database at dbPath, creates the schema if needed,
// and returns a Store.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("readinglist: open database: %w", err)
	}

	// WAL improves concurrent read behavior under the HTTP server.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("readinglist: set WAL mode: %w", err)
	}

	if _, err := db.Exec(createTablesSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("readinglist: create tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts or replaces an entry. A zero SavedAt is stamped with the
// current time; saving an already-saved story refreshes its snapshot.
func (s *Store) Save(e *Entry) error {
	savedAt := e.SavedAt
	if savedAt == 0 {
		savedAt = time.Now().Unix()
	}
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO reading_list (story_id, title, url, author, points, num_comments, saved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.StoryID, e.Title, e.URL, e.Author, e.Points, e.NumComments, savedAt,
	)
	if err != nil {
		return fmt.Errorf("readinglist: save story %s: %w", e.StoryID, err)
	}
	return nil
}

// Remove deletes an entry. Removing an absent story is a no-op.
func (s *Store) Remove(storyID string) error {
	_, err := s.db.Exec(`DELETE FROM reading_list WHERE story_id = ?`, storyID)
	if err != nil {
		return fmt.Errorf("readinglist: remove story %s: %w", storyID, err)
	}
	return nil
}

// List returns all entries, most recently saved first.
func (s *Store) List() ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT story_id, title, url, author, points, num_comments, saved_at
		 FROM reading_list ORDER BY saved_at DESC, story_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("readinglist: list: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.StoryID, &e.Title, &e.URL, &e.Author, &e.Points, &e.NumComments, &e.SavedAt); err != nil {
			return nil, fmt.Errorf("readinglist: scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("readinglist: iterate entries: %w", err)
	}
	return entries, nil
}

// Contains reports whether a story is saved.
func (s *Store) Contains(storyID string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM reading_list WHERE story_id = ?`, storyID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("readinglist: contains %s: %w", storyID, err)
	}
	return count > 0, nil
}

// Count returns the number of saved stories.
func (s *Store) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM reading_list`).Scan(&count); err != nil {
		return 0, fmt.Errorf("readinglist: count: %w", err)
	}
	return count, nil
}
