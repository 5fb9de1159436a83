// Package repository persists a best-effort transcript of completed turns.
// The transcript is an audit trail only; session state itself is in-memory
// and ephemeral by design.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/xiaot623/helpdesk/internal/domain"
)

// Turn is one recorded user-in/assistant-out cycle.
type Turn struct {
	TurnID    string          `json:"turn_id"`
	SessionID string          `json:"session_id"`
	Category  domain.Category `json:"category"`
	Status    string          `json:"status"` // completed, failed
	Question  string          `json:"question"`
	Answer    string          `json:"answer"`
	LatencyMs int64           `json:"latency_ms"`
	CreatedAt time.Time       `json:"created_at"`
}

// TranscriptStore records turns in SQLite.
type TranscriptStore struct {
	db *sql.DB
}

// NewTranscriptStore opens the database and applies the schema.
func NewTranscriptStore(dsn string) (*TranscriptStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	store := &TranscriptStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *TranscriptStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS turns (
			turn_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			category TEXT NOT NULL,
			status TEXT NOT NULL,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			latency_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_id, created_at)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// RecordTurn inserts one turn row.
func (s *TranscriptStore) RecordTurn(ctx context.Context, t *Turn) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO turns (turn_id, session_id, category, status, question, answer, latency_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TurnID, t.SessionID, string(t.Category), t.Status, t.Question, t.Answer, t.LatencyMs, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record turn: %w", err)
	}
	return nil
}

// ListTurns returns up to limit turns for the session, oldest first.
func (s *TranscriptStore) ListTurns(ctx context.Context, sessionID string, limit int) ([]Turn, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT turn_id, session_id, category, status, question, answer, latency_ms, created_at
		 FROM turns WHERE session_id = ? ORDER BY created_at ASC LIMIT ?`,
		sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	turns := []Turn{}
	for rows.Next() {
		var t Turn
		var category string
		if err := rows.Scan(&t.TurnID, &t.SessionID, &category, &t.Status,
			&t.Question, &t.Answer, &t.LatencyMs, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		t.Category = domain.Category(category)
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// Close closes the underlying database.
func (s *TranscriptStore) Close() error {
	return s.db.Close()
}
