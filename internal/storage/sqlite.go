package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite stores records in a local pages table.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens/creates the database at path and initialises the schema.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLite) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pages (
		page_id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		url TEXT NOT NULL,
		title TEXT,
		status INTEGER,
		size INTEGER,
		depth INTEGER,
		score INTEGER,
		links INTEGER,
		worker INTEGER,
		crawled_at TIMESTAMP NOT NULL,
		UNIQUE(run_id, url)
	);

	CREATE INDEX IF NOT EXISTS idx_pages_url ON pages(url);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLite) Write(ctx context.Context, r Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pages (run_id, url, title, status, size, depth, score, links, worker, crawled_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, url) DO NOTHING
	`, r.RunID, r.URL, r.Title, r.Status, r.Size, r.Depth, r.Score, r.Links, r.Worker, r.CrawledAt)
	if err != nil {
		return fmt.Errorf("failed to insert page: %w", err)
	}
	return nil
}

// Pages returns the records of one run in insertion order.
func (s *SQLite) Pages(ctx context.Context, runID string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, url, title, status, size, depth, score, links, worker, crawled_at
		FROM pages
		WHERE run_id = ?
		ORDER BY page_id ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pages: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.RunID, &r.URL, &r.Title, &r.Status, &r.Size, &r.Depth,
			&r.Score, &r.Links, &r.Worker, &r.CrawledAt); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pages: %w", err)
	}
	return out, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
