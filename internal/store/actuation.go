package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Actuation is one volume change issued by the control loop.
type Actuation struct {
	ID         string
	SessionID  string
	Label      string
	Delta      int
	HandIndex  int
	Handedness string
	// Error holds the volume backend error text, empty on success.
	Error     string
	CreatedAt time.Time
}

// ActuationRepository records actuations.
type ActuationRepository struct {
	db *sql.DB
}

// Actuations returns the actuation repository for this store.
func (s *Store) Actuations() *ActuationRepository {
	return &ActuationRepository{db: s.db}
}

// Record inserts an actuation. ID and CreatedAt are filled in when empty.
func (r *ActuationRepository) Record(a *Actuation) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO actuations (id, session_id, label, delta, hand_index, handedness, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.SessionID, a.Label, a.Delta, a.HandIndex, a.Handedness, a.Error, a.CreatedAt,
	)
	return err
}

// ListBySession returns the actuations of a session in insertion order.
func (r *ActuationRepository) ListBySession(sessionID string) ([]*Actuation, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, label, delta, hand_index, handedness, error, created_at
		 FROM actuations WHERE session_id = ? ORDER BY rowid`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actuations []*Actuation
	for rows.Next() {
		a := &Actuation{}
		err := rows.Scan(&a.ID, &a.SessionID, &a.Label, &a.Delta, &a.HandIndex, &a.Handedness, &a.Error, &a.CreatedAt)
		if err != nil {
			return nil, err
		}
		actuations = append(actuations, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return actuations, nil
}

// CountByLabel returns how many actuations of each label a session has.
func (r *ActuationRepository) CountByLabel(sessionID string) (map[string]int, error) {
	rows, err := r.db.Query(
		`SELECT label, COUNT(*) FROM actuations WHERE session_id = ? GROUP BY label`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var label string
		var n int
		if err := rows.Scan(&label, &n); err != nil {
			return nil, err
		}
		counts[label] = n
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}
