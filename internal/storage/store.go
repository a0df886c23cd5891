package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dyike/ArenaGo/internal/models"
	"github.com/dyike/ArenaGo/pkg/sqlite"
)

const (
	StatusRunning = "running"
	StatusDone    = "done"
	StatusError   = "error"
)

// Store persists tournament runs to sqlite. One run row per tournament,
// with its entrant viewpoints and matches in child tables and the full
// structures kept as JSON for replay.
type Store struct {
	db *sql.DB
}

// NewStore opens (and if needed creates) the database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	db, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		symbol TEXT NOT NULL,
		status TEXT NOT NULL,
		stance TEXT,
		confidence REAL,
		consensus REAL,
		risk_level TEXT,
		allocation_pct REAL,
		recommendation_json TEXT,
		started_at DATETIME NOT NULL,
		finished_at DATETIME
	);
	CREATE TABLE IF NOT EXISTS viewpoints (
		run_id TEXT NOT NULL,
		profile_id TEXT NOT NULL,
		stance TEXT NOT NULL,
		confidence REAL NOT NULL,
		viewpoint_json TEXT NOT NULL,
		PRIMARY KEY (run_id, profile_id)
	);
	CREATE TABLE IF NOT EXISTS matches (
		id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL,
		round TEXT NOT NULL,
		index_in_round INTEGER NOT NULL,
		bull_profile TEXT NOT NULL,
		bear_profile TEXT NOT NULL,
		winner TEXT,
		match_json TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_symbol ON runs(symbol, started_at);
	CREATE INDEX IF NOT EXISTS idx_matches_run ON matches(run_id, round, index_in_round);`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// CreateRun registers a new running tournament.
func (s *Store) CreateRun(ctx context.Context, runID, symbol string, startedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, symbol, status, started_at) VALUES (?, ?, ?, ?)`,
		runID, symbol, StatusRunning, startedAt)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

// SaveViewpoint stores one generated entrant under the run.
func (s *Store) SaveViewpoint(ctx context.Context, runID string, vp *models.Viewpoint) error {
	data, err := json.Marshal(vp)
	if err != nil {
		return fmt.Errorf("marshal viewpoint: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO viewpoints (run_id, profile_id, stance, confidence, viewpoint_json)
		 VALUES (?, ?, ?, ?, ?)`,
		runID, vp.ProfileID, vp.Stance, vp.Confidence, string(data))
	if err != nil {
		return fmt.Errorf("save viewpoint: %w", err)
	}
	return nil
}

// SaveMatch stores one completed match under the run. Re-saving the same
// match ID overwrites, so callers may persist on every update.
func (s *Store) SaveMatch(ctx context.Context, runID string, m *models.Match) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal match: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO matches (id, run_id, round, index_in_round, bull_profile, bear_profile, winner, match_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, runID, m.Round, m.IndexInRound, m.Bull.ProfileID, m.Bear.ProfileID, m.Winner, string(data))
	if err != nil {
		return fmt.Errorf("save match: %w", err)
	}
	return nil
}

// FinishRun finalizes the run row. rec may be nil on failure.
func (s *Store) FinishRun(ctx context.Context, runID, status string, rec *models.FinalRecommendation) error {
	if rec == nil {
		_, err := s.db.ExecContext(ctx,
			`UPDATE runs SET status = ?, finished_at = ? WHERE id = ?`,
			status, time.Now(), runID)
		if err != nil {
			return fmt.Errorf("finish run: %w", err)
		}
		return nil
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal recommendation: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, stance = ?, confidence = ?, consensus = ?, risk_level = ?,
		 allocation_pct = ?, recommendation_json = ?, finished_at = ? WHERE id = ?`,
		status, rec.Stance, rec.Confidence, rec.ConsensusStrength, rec.RiskLevel,
		rec.SuggestedAllocationPct, string(data), time.Now(), runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// RunSummary is one row of run history.
type RunSummary struct {
	ID         string
	Symbol     string
	Status     string
	Stance     string
	Confidence float64
	Consensus  float64
	RiskLevel  string
	StartedAt  time.Time
}

// RecentRuns lists the latest runs, newest first. An empty symbol lists
// across all symbols.
func (s *Store) RecentRuns(ctx context.Context, symbol string, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, symbol, status, COALESCE(stance, ''), COALESCE(confidence, 0),
	          COALESCE(consensus, 0), COALESCE(risk_level, ''), started_at
	          FROM runs`
	args := []any{}
	if symbol != "" {
		query += ` WHERE symbol = ?`
		args = append(args, symbol)
	}
	query += ` ORDER BY started_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.Symbol, &r.Status, &r.Stance, &r.Confidence,
			&r.Consensus, &r.RiskLevel, &r.StartedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRecommendation loads the stored recommendation of a finished run.
func (s *Store) GetRecommendation(ctx context.Context, runID string) (*models.FinalRecommendation, error) {
	var raw sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT recommendation_json FROM runs WHERE id = ?`, runID).Scan(&raw)
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", runID, err)
	}
	if !raw.Valid || raw.String == "" {
		return nil, fmt.Errorf("run %s has no recommendation", runID)
	}

	var rec models.FinalRecommendation
	if err := json.Unmarshal([]byte(raw.String), &rec); err != nil {
		return nil, fmt.Errorf("decode recommendation: %w", err)
	}
	return &rec, nil
}

// RunMatches loads all stored matches of a run in bracket order.
func (s *Store) RunMatches(ctx context.Context, runID string) ([]*models.Match, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT match_json FROM matches WHERE run_id = ?
		 ORDER BY CASE round WHEN 'quarterfinal' THEN 0 WHEN 'semifinal' THEN 1 ELSE 2 END, index_in_round`,
		runID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var out []*models.Match
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		var m models.Match
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return nil, fmt.Errorf("decode match: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
