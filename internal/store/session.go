package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Session is one run of the control loop.
type Session struct {
	ID           string
	Platform     string
	CooldownMode string
	StartedAt    time.Time
	// EndedAt is zero while the session is running.
	EndedAt   time.Time
	EndReason string
}

// SessionRepository records control loop sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Start inserts a new running session and returns it.
func (r *SessionRepository) Start(platform, cooldownMode string) (*Session, error) {
	sess := &Session{
		ID:           uuid.New().String(),
		Platform:     platform,
		CooldownMode: cooldownMode,
		StartedAt:    time.Now(),
	}

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, platform, cooldown_mode, started_at) VALUES (?, ?, ?, ?)`,
		sess.ID, sess.Platform, sess.CooldownMode, sess.StartedAt,
	)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// End marks a session finished with the given reason.
func (r *SessionRepository) End(id, reason string) error {
	result, err := r.db.Exec(
		`UPDATE sessions SET ended_at = ?, end_reason = ? WHERE id = ?`,
		time.Now(), reason, id,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Get retrieves a session by its ID.
func (r *SessionRepository) Get(id string) (*Session, error) {
	sess := &Session{}
	var endedAt sql.NullTime

	err := r.db.QueryRow(
		`SELECT id, platform, cooldown_mode, started_at, ended_at, end_reason
		 FROM sessions WHERE id = ?`,
		id,
	).Scan(&sess.ID, &sess.Platform, &sess.CooldownMode, &sess.StartedAt, &endedAt, &sess.EndReason)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if endedAt.Valid {
		sess.EndedAt = endedAt.Time
	}
	return sess, nil
}
