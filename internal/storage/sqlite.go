package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Run is one pipeline invocation.
type Run struct {
	ID        int64
	Topic     string
	Words     []string
	NRecords  int
	CreatedAt time.Time
}

// Document is one rendered page of a run and its upload outcome.
type Document struct {
	RunID   int64
	Name    string
	Path    string
	DriveID string
	Status  string // "rendered", "render_failed", "uploaded", "upload_failed"
}

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens the run-history database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			topic TEXT,
			words TEXT,
			n_records INTEGER,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS documents (
			run_id INTEGER,
			name TEXT,
			path TEXT,
			drive_id TEXT,
			status TEXT,
			FOREIGN KEY (run_id) REFERENCES runs(id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_documents_run ON documents(run_id);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// SaveRun records a pipeline invocation and returns its ID.
func (s *SQLiteStore) SaveRun(ctx context.Context, topic string, words []string, nRecords int) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (topic, words, n_records) VALUES (?, ?, ?)`,
		topic, strings.Join(words, " "), nRecords)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}
	return res.LastInsertId()
}

// SaveDocument records one page's render/upload outcome.
func (s *SQLiteStore) SaveDocument(ctx context.Context, doc Document) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (run_id, name, path, drive_id, status) VALUES (?, ?, ?, ?, ?)`,
		doc.RunID, doc.Name, doc.Path, doc.DriveID, doc.Status)
	if err != nil {
		return fmt.Errorf("failed to save document %s: %w", doc.Name, err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *SQLiteStore) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, topic, words, n_records, created_at FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var words string
		if err := rows.Scan(&r.ID, &r.Topic, &words, &r.NRecords, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Words = strings.Fields(words)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// DocumentsForRun returns the documents of one run in insertion order.
func (s *SQLiteStore) DocumentsForRun(ctx context.Context, runID int64) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, name, path, drive_id, status FROM documents WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.RunID, &d.Name, &d.Path, &d.DriveID, &d.Status); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
