// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library keeps a local record of saved research digests so past
// searches can be listed and reopened.
package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jordansp99/academic-research-assistant/pkg/types"
)

const dbFile = "library.db"

// Store manages the digest library SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the library database at dir/library.db,
// creating the schema if it does not exist.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating library directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS digests (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			query TEXT NOT NULL,
			created_at TEXT NOT NULL,
			paper_count INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS papers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			digest_id INTEGER NOT NULL REFERENCES digests(id),
			title TEXT,
			authors TEXT,
			abstract TEXT,
			source TEXT,
			venue TEXT,
			year TEXT,
			doi TEXT,
			url TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_digest_id ON papers(digest_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores one saved digest and its papers. Returns the digest ID.
func (s *Store) Record(ctx context.Context, query string, papers []types.Paper) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO digests (query, created_at, paper_count) VALUES (?, ?, ?)`,
		query, time.Now().UTC().Format(time.RFC3339), len(papers),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting digest: %w", err)
	}
	digestID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading digest id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (digest_id, title, authors, abstract, source, venue, year, doi, url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range papers {
		authorsJSON, _ := json.Marshal(p.Authors)
		_, err := stmt.ExecContext(ctx,
			digestID, p.Title, string(authorsJSON), p.Abstract,
			string(p.Source), p.Venue, p.Year, p.DOI, p.URL,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting paper %q: %w", p.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing digest: %w", err)
	}
	return digestID, nil
}

// DigestInfo summarizes one saved digest.
type DigestInfo struct {
	ID        int64
	Query     string
	CreatedAt time.Time
	Papers    int
}

// List returns all saved digests, newest first.
func (s *Store) List(ctx context.Context) ([]DigestInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, created_at, paper_count FROM digests ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying digests: %w", err)
	}
	defer rows.Close()

	var infos []DigestInfo
	for rows.Next() {
		var info DigestInfo
		var created string
		if err := rows.Scan(&info.ID, &info.Query, &created, &info.Papers); err != nil {
			return nil, fmt.Errorf("scanning digest: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			info.CreatedAt = t
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Papers returns the papers of one saved digest in insertion order.
func (s *Store) Papers(ctx context.Context, digestID int64) ([]types.Paper, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title, authors, abstract, source, venue, year, doi, url
		 FROM papers WHERE digest_id = ? ORDER BY id`, digestID)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var papers []types.Paper
	for rows.Next() {
		var p types.Paper
		var authorsJSON, source string
		if err := rows.Scan(&p.Title, &authorsJSON, &p.Abstract, &source, &p.Venue, &p.Year, &p.DOI, &p.URL); err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		if err := json.Unmarshal([]byte(authorsJSON), &p.Authors); err != nil {
			return nil, fmt.Errorf("parsing authors for %q: %w", p.Title, err)
		}
		p.Source = types.Source(source)
		p.Status = types.StatusComplete
		papers = append(papers, p)
	}
	return papers, rows.Err()
}
