// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package leaderboard persists extracted SOTA entries in SQLite and
// renders ranked reports.
package leaderboard

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/sota-agent/pkg/types"
)

const dbFile = "leaderboard.db"

// Store manages the leaderboard SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the leaderboard database at
// cfg.IndexDir/leaderboard.db, creating the schema if needed.
func NewStore(cfg types.LeaderboardConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.IndexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(cfg.IndexDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 50
	}

	s := &Store{db: db, maxResults: maxResults}

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
		`CREATE TABLE IF NOT EXISTS entries (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			arxiv_id TEXT NOT NULL UNIQUE,
			paper_title TEXT NOT NULL,
			method TEXT NOT NULL,
			pipeline TEXT,
			strategy TEXT,
			metric_value REAL NOT NULL,
			evidence TEXT,
			dataset_mentioned INTEGER NOT NULL,
			recorded_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_pipeline ON entries(pipeline)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_metric ON entries(metric_value)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='entries_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE entries_fts USING fts5(paper_title, method, evidence, content=entries, content_rowid=rowid)`,
			`CREATE TRIGGER entries_ai AFTER INSERT ON entries BEGIN
				INSERT INTO entries_fts(rowid, paper_title, method, evidence)
				VALUES (new.rowid, new.paper_title, new.method, new.evidence);
			END`,
			`CREATE TRIGGER entries_ad AFTER DELETE ON entries BEGIN
				INSERT INTO entries_fts(entries_fts, rowid, paper_title, method, evidence)
				VALUES('delete', old.rowid, old.paper_title, old.method, old.evidence);
			END`,
			`CREATE TRIGGER entries_au AFTER UPDATE ON entries BEGIN
				INSERT INTO entries_fts(entries_fts, rowid, paper_title, method, evidence)
				VALUES('delete', old.rowid, old.paper_title, old.method, old.evidence);
				INSERT INTO entries_fts(rowid, paper_title, method, evidence)
				VALUES (new.rowid, new.paper_title, new.method, new.evidence);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Put upserts one entry keyed by arXiv ID. Re-analyzing a paper replaces
// its previous entry.
func (s *Store) Put(ctx context.Context, e types.SOTAEntry) error {
	if e.ArxivID == "" {
		return fmt.Errorf("entry has no arXiv ID")
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (arxiv_id, paper_title, method, pipeline, strategy,
			metric_value, evidence, dataset_mentioned, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(arxiv_id) DO UPDATE SET
			paper_title=excluded.paper_title, method=excluded.method,
			pipeline=excluded.pipeline, strategy=excluded.strategy,
			metric_value=excluded.metric_value, evidence=excluded.evidence,
			dataset_mentioned=excluded.dataset_mentioned,
			recorded_at=excluded.recorded_at`,
		e.ArxivID, e.PaperTitle, e.Method, e.Pipeline, e.Strategy,
		e.MetricValue, e.Evidence, e.DatasetMentioned,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting entry %s: %w", e.ArxivID, err)
	}
	return nil
}

// Top returns entries with a reported metric, best first. A limit of
// zero uses the store default.
func (s *Store) Top(ctx context.Context, limit int) ([]types.SOTAEntry, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT arxiv_id, paper_title, method, pipeline, strategy,
			metric_value, evidence, dataset_mentioned
		 FROM entries
		 WHERE metric_value >= 0
		 ORDER BY metric_value DESC, method
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying leaderboard: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// All returns every stored entry, ranked ones first.
func (s *Store) All(ctx context.Context) ([]types.SOTAEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT arxiv_id, paper_title, method, pipeline, strategy,
			metric_value, evidence, dataset_mentioned
		 FROM entries
		 ORDER BY metric_value DESC, method`)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Search runs an FTS5 full-text query over paper titles, method names,
// and evidence quotes, ranked by relevance.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]types.SOTAEntry, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT e.arxiv_id, e.paper_title, e.method, e.pipeline, e.strategy,
			e.metric_value, e.evidence, e.dataset_mentioned
		 FROM entries_fts
		 JOIN entries e ON e.rowid = entries_fts.rowid
		 WHERE entries_fts MATCH ?
		 ORDER BY entries_fts.rank
		 LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching leaderboard: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]types.SOTAEntry, error) {
	var entries []types.SOTAEntry
	for rows.Next() {
		var (
			e        types.SOTAEntry
			pipeline sql.NullString
			strategy sql.NullString
			evidence sql.NullString
		)
		if err := rows.Scan(
			&e.ArxivID, &e.PaperTitle, &e.Method, &pipeline, &strategy,
			&e.MetricValue, &evidence, &e.DatasetMentioned,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		e.Pipeline = pipeline.String
		e.Strategy = strategy.String
		e.Evidence = evidence.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
