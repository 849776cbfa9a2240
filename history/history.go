// Package history provides SQLite-backed storage for conversation turns.
// Turns are an audit log for the chat endpoints, separate from extracted
// memory: the memory stores hold what the assistant learned, history holds
// what was actually said.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Turn is one recorded exchange: a user message and the assistant's reply.
type Turn struct {
	ID          string    `json:"id"`
	UserKey     string    `json:"user_name"`
	UserMessage string    `json:"user_message"`
	Reply       string    `json:"reply"`
	Personality string    `json:"personality"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store provides SQLite-backed storage for conversation turns.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) a SQLite database and initializes the schema.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent access
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	createSQL := `CREATE TABLE IF NOT EXISTS chat_turns (
		id TEXT PRIMARY KEY,
		user_key TEXT NOT NULL,
		user_message TEXT NOT NULL,
		reply TEXT NOT NULL,
		personality TEXT NOT NULL DEFAULT 'default',
		created_at DATETIME NOT NULL
	)`
	if _, err := db.Exec(createSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &Store{db: db}, nil
}

// Append records a completed exchange and returns its generated ID.
func (s *Store) Append(ctx context.Context, userKey, userMessage, reply, personality string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_turns (id, user_key, user_message, reply, personality, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, userKey, userMessage, reply, personality,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// Recent returns up to limit turns for a user, oldest first.
func (s *Store) Recent(ctx context.Context, userKey string, limit int) ([]*Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_key, user_message, reply, personality, created_at FROM (
			SELECT id, user_key, user_message, reply, personality, created_at, rowid
			FROM chat_turns WHERE user_key = ? ORDER BY rowid DESC LIMIT ?
		 ) ORDER BY rowid ASC`,
		userKey, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTurns(rows)
}

// Clear deletes all turns for a user.
func (s *Store) Clear(ctx context.Context, userKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM chat_turns WHERE user_key = ?`, userKey)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func scanTurns(rows *sql.Rows) ([]*Turn, error) {
	var turns []*Turn
	for rows.Next() {
		var t Turn
		var createdAt string
		if err := rows.Scan(&t.ID, &t.UserKey, &t.UserMessage, &t.Reply, &t.Personality, &createdAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		t.CreatedAt = parsed
		turns = append(turns, &t)
	}
	return turns, rows.Err()
}
