package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Solve represents a recorded solve in the database.
type Solve struct {
	SolveID       string
	Size          int
	StartedAt     time.Time
	EndedAt       *time.Time
	DurationMs    *int64
	ScrambleState string
	ScrambleText  *string
	Notes         *string
}

// Completed reports whether the solve reached the solved state.
func (s *Solve) Completed() bool {
	return s.EndedAt != nil
}

// SolveRepository provides CRUD operations for solves.
type SolveRepository struct {
	db *DB
}

// NewSolveRepository creates a new solve repository.
func NewSolveRepository(db *DB) *SolveRepository {
	return &SolveRepository{db: db}
}

// Create creates a new solve starting from scrambleState and returns its ID.
// scrambleText is the move sequence that produced the state, if known.
func (r *SolveRepository) Create(size int, scrambleState, scrambleText string) (string, error) {
	id := uuid.New().String()

	var scramblePtr *string
	if scrambleText != "" {
		scramblePtr = &scrambleText
	}

	_, err := r.db.Exec(`
		INSERT INTO solves (solve_id, size, started_at, scramble_state, scramble_text)
		VALUES (?, ?, ?, ?, ?)
	`, id, size, formatTime(time.Now()), scrambleState, scramblePtr)

	if err != nil {
		return "", fmt.Errorf("failed to create solve: %w", err)
	}

	return id, nil
}

// Complete marks a solve as solved with the measured solve time.
func (r *SolveRepository) Complete(solveID string, durationMs int64) error {
	res, err := r.db.Exec(`
		UPDATE solves
		SET ended_at = ?, duration_ms = ?
		WHERE solve_id = ?
	`, formatTime(time.Now()), durationMs, solveID)
	if err != nil {
		return fmt.Errorf("failed to complete solve: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to complete solve: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("failed to complete solve: %s not found", solveID)
	}
	return nil
}

// SetNotes replaces the notes of a solve.
func (r *SolveRepository) SetNotes(solveID, notes string) error {
	_, err := r.db.Exec("UPDATE solves SET notes = ? WHERE solve_id = ?", notes, solveID)
	if err != nil {
		return fmt.Errorf("failed to set notes: %w", err)
	}
	return nil
}

const solveColumns = `solve_id, size, started_at, ended_at, duration_ms, scramble_state, scramble_text, notes`

type scanner interface {
	Scan(dest ...any) error
}

func scanSolve(row scanner) (*Solve, error) {
	var s Solve
	var startedAtStr string
	var endedAtStr sql.NullString

	err := row.Scan(
		&s.SolveID, &s.Size, &startedAtStr, &endedAtStr,
		&s.DurationMs, &s.ScrambleState, &s.ScrambleText, &s.Notes,
	)
	if err != nil {
		return nil, err
	}

	s.StartedAt = parseTime(startedAtStr)
	if endedAtStr.Valid {
		t := parseTime(endedAtStr.String)
		s.EndedAt = &t
	}
	return &s, nil
}

// Get retrieves a solve by ID. It returns nil if there is no such solve.
func (r *SolveRepository) Get(solveID string) (*Solve, error) {
	s, err := scanSolve(r.db.QueryRow(`SELECT `+solveColumns+` FROM solves WHERE solve_id = ?`, solveID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get solve: %w", err)
	}
	return s, nil
}

// GetLast retrieves the most recent solve, or nil if there are none.
func (r *SolveRepository) GetLast() (*Solve, error) {
	s, err := scanSolve(r.db.QueryRow(`
		SELECT ` + solveColumns + ` FROM solves
		ORDER BY started_at DESC, rowid DESC
		LIMIT 1
	`))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last solve: %w", err)
	}
	return s, nil
}

// List retrieves recent solves, newest first.
func (r *SolveRepository) List(limit int) ([]Solve, error) {
	rows, err := r.db.Query(`
		SELECT `+solveColumns+` FROM solves
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, limit)

	if err != nil {
		return nil, fmt.Errorf("failed to list solves: %w", err)
	}
	defer rows.Close()

	var solves []Solve
	for rows.Next() {
		s, err := scanSolve(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan solve: %w", err)
		}
		solves = append(solves, *s)
	}

	return solves, rows.Err()
}

// Delete deletes a solve and all related data (cascading).
func (r *SolveRepository) Delete(solveID string) error {
	_, err := r.db.Exec("DELETE FROM solves WHERE solve_id = ?", solveID)
	if err != nil {
		return fmt.Errorf("failed to delete solve: %w", err)
	}
	return nil
}
