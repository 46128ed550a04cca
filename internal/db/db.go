// Package db provides PostgreSQL session and artifact storage.
package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// CreateSession creates a new optimization session record and returns its ID
func (db *DB) CreateSession(ctx context.Context, photoCount int, style string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO sessions (photo_count, style, status)
		 VALUES ($1, $2, 'running')
		 RETURNING id`,
		photoCount, style,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create session: %w", err)
	}
	return id, nil
}

// CompleteSession marks a session as completed or failed
func (db *DB) CompleteSession(ctx context.Context, sessionID uuid.UUID, status string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE sessions SET status = $1, completed_at = NOW() WHERE id = $2`,
		status, sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete session: %w", err)
	}
	return nil
}

// SaveArtifact stores a JSON artifact for a session, replacing any previous
// artifact for the same step
func (db *DB) SaveArtifact(ctx context.Context, sessionID uuid.UUID, step string, content any) error {
	jsonBytes, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO artifacts (session_id, step, content)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (session_id, step) DO UPDATE SET content = $3, created_at = NOW()`,
		sessionID, step, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save artifact %s: %w", step, err)
	}
	return nil
}

// SaveTextArtifact stores a text artifact (like the generated description)
func (db *DB) SaveTextArtifact(ctx context.Context, sessionID uuid.UUID, step, text string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO artifacts (session_id, step, text_content)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (session_id, step) DO UPDATE SET text_content = $3, created_at = NOW()`,
		sessionID, step, text,
	)
	if err != nil {
		return fmt.Errorf("failed to save text artifact %s: %w", step, err)
	}
	return nil
}

// GetArtifact retrieves a JSON artifact by session ID and step. Returns nil
// when none exists.
func (db *DB) GetArtifact(ctx context.Context, sessionID uuid.UUID, step string) ([]byte, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content FROM artifacts WHERE session_id = $1 AND step = $2`,
		sessionID, step,
	).Scan(&content)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get artifact %s: %w", step, err)
	}
	return content, nil
}

// GetSession retrieves a session by ID. Returns nil when none exists.
func (db *DB) GetSession(ctx context.Context, sessionID uuid.UUID) (*Session, error) {
	var session Session
	err := db.pool.QueryRow(ctx,
		`SELECT id, photo_count, style, status, created_at, completed_at
		 FROM sessions WHERE id = $1`,
		sessionID,
	).Scan(&session.ID, &session.PhotoCount, &session.Style, &session.Status, &session.CreatedAt, &session.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// ListSessions retrieves recent sessions, newest first
func (db *DB) ListSessions(ctx context.Context, limit int) ([]Session, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, photo_count, style, status, created_at, completed_at
		 FROM sessions ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var session Session
		if err := rows.Scan(&session.ID, &session.PhotoCount, &session.Style, &session.Status, &session.CreatedAt, &session.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}
