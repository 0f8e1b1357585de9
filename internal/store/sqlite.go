// Package store persists chain runs in SQLite
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ppiankov/driftchain/internal/model"
)

// ErrNotFound is returned by GetRun for an unknown id
var ErrNotFound = errors.New("run not found")

const schemaSQL = `
CREATE TABLE IF NOT EXISTS translation_runs (
    id TEXT PRIMARY KEY,
    original_text TEXT NOT NULL,
    chain TEXT NOT NULL,
    results TEXT NOT NULL,
    analysis TEXT,
    timestamp INTEGER NOT NULL,
    overall_drift REAL,
    final_text TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON translation_runs(timestamp);
CREATE INDEX IF NOT EXISTS idx_runs_drift ON translation_runs(overall_drift);
`

// RunSummary is one row of the run history
type RunSummary struct {
	ID           string    `json:"id"`
	OriginalText string    `json:"original_text"`
	Chain        []string  `json:"chain"`
	OverallDrift float64   `json:"overall_drift"`
	FinalText    string    `json:"final_text"`
	Timestamp    time.Time `json:"timestamp"`
}

// Stats aggregates every stored run
type Stats struct {
	TotalRuns       int      `json:"total_runs"`
	MaxDrift        float64  `json:"max_drift"`
	AverageDrift    float64  `json:"average_drift"`
	LanguagesUsed   []string `json:"languages_used"`
	UniqueLanguages int      `json:"unique_languages"`
}

// SQLiteStore is a run sink backed by a SQLite file
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the schema
func Open(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Concurrent batch runs write through one connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode = WAL`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun stores a run record and returns its id
func (s *SQLiteStore) SaveRun(ctx context.Context, record model.RunRecord) (string, error) {
	if record.ID == "" {
		return "", fmt.Errorf("run record has no id")
	}

	chain, err := json.Marshal(record.Chain)
	if err != nil {
		return "", fmt.Errorf("marshal chain: %w", err)
	}
	results, err := json.Marshal(record.Steps)
	if err != nil {
		return "", fmt.Errorf("marshal results: %w", err)
	}
	analysis, err := json.Marshal(record.DriftRecords)
	if err != nil {
		return "", fmt.Errorf("marshal analysis: %w", err)
	}

	ts := record.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO translation_runs(id, original_text, chain, results, analysis, timestamp, overall_drift, final_text)
		 VALUES(?,?,?,?,?,?,?,?)`,
		record.ID,
		record.OriginalText,
		string(chain),
		string(results),
		string(analysis),
		ts.UnixMilli(),
		record.OverallDrift,
		record.FinalText,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return record.ID, nil
}

// GetRun loads one run by id
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*model.RunRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, original_text, chain, results, analysis, timestamp, overall_drift, final_text
		 FROM translation_runs WHERE id = ?`, id)

	var (
		record              model.RunRecord
		chain, results      string
		analysis, finalText sql.NullString
		ts                  int64
		overallDrift        sql.NullFloat64
	)
	err := row.Scan(&record.ID, &record.OriginalText, &chain, &results, &analysis, &ts, &overallDrift, &finalText)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}

	if err := json.Unmarshal([]byte(chain), &record.Chain); err != nil {
		return nil, fmt.Errorf("decode chain: %w", err)
	}
	if err := json.Unmarshal([]byte(results), &record.Steps); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	if analysis.Valid && analysis.String != "" {
		if err := json.Unmarshal([]byte(analysis.String), &record.DriftRecords); err != nil {
			return nil, fmt.Errorf("decode analysis: %w", err)
		}
	}
	record.OverallDrift = overallDrift.Float64
	record.FinalText = finalText.String
	record.Timestamp = time.UnixMilli(ts).UTC()

	return &record, nil
}

// History returns the most recent runs, newest first
func (s *SQLiteStore) History(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, original_text, chain, timestamp, overall_drift, final_text
		 FROM translation_runs ORDER BY timestamp DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	history := []RunSummary{}
	for rows.Next() {
		var (
			summary      RunSummary
			chain        string
			ts           int64
			overallDrift sql.NullFloat64
			finalText    sql.NullString
		)
		if err := rows.Scan(&summary.ID, &summary.OriginalText, &chain, &ts, &overallDrift, &finalText); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		if err := json.Unmarshal([]byte(chain), &summary.Chain); err != nil {
			return nil, fmt.Errorf("decode chain: %w", err)
		}
		summary.OverallDrift = overallDrift.Float64
		summary.FinalText = finalText.String
		summary.Timestamp = time.UnixMilli(ts).UTC()
		history = append(history, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return history, nil
}

// Stats aggregates drift and language usage over every stored run
func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	var maxDrift, avgDrift sql.NullFloat64

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), MAX(overall_drift), AVG(overall_drift) FROM translation_runs`,
	).Scan(&stats.TotalRuns, &maxDrift, &avgDrift)
	if err != nil {
		return Stats{}, fmt.Errorf("query stats: %w", err)
	}
	stats.MaxDrift = maxDrift.Float64
	stats.AverageDrift = avgDrift.Float64

	rows, err := s.db.QueryContext(ctx, `SELECT chain FROM translation_runs`)
	if err != nil {
		return Stats{}, fmt.Errorf("query chains: %w", err)
	}
	defer func() { _ = rows.Close() }()

	seen := make(map[string]bool)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return Stats{}, fmt.Errorf("scan chain: %w", err)
		}
		var chain []string
		if err := json.Unmarshal([]byte(raw), &chain); err != nil {
			continue
		}
		for _, lang := range chain {
			seen[lang] = true
		}
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("iterate chains: %w", err)
	}

	stats.LanguagesUsed = make([]string, 0, len(seen))
	for lang := range seen {
		stats.LanguagesUsed = append(stats.LanguagesUsed, lang)
	}
	sort.Strings(stats.LanguagesUsed)
	stats.UniqueLanguages = len(stats.LanguagesUsed)

	return stats, nil
}
