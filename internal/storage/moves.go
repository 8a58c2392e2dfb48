package storage

import (
	"database/sql"
	"fmt"

	"github.com/SeamusWaldron/nxncube"
)

// MoveRecord represents a move in the database.
type MoveRecord struct {
	MoveID    int64
	SolveID   string
	MoveIndex int
	TsMs      int64 // since solve start
	Token     string
}

// Move parses the stored token.
func (m MoveRecord) Move() (nxncube.Move, error) {
	return nxncube.ParseMove(m.Token)
}

// MoveRepository provides CRUD operations for moves.
type MoveRepository struct {
	db *DB
}

// NewMoveRepository creates a new move repository.
func NewMoveRepository(db *DB) *MoveRepository {
	return &MoveRepository{db: db}
}

// Create stores a move in canonical notation and returns its ID.
func (r *MoveRepository) Create(solveID string, moveIndex int, tsMs int64, move nxncube.Move) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO moves (solve_id, move_index, ts_ms, token)
		VALUES (?, ?, ?, ?)
	`, solveID, moveIndex, tsMs, move.Notation())

	if err != nil {
		return 0, fmt.Errorf("failed to create move: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get move ID: %w", err)
	}

	return id, nil
}

// CreateBatch creates multiple moves in a single transaction, all with the
// same timestamp.
func (r *MoveRepository) CreateBatch(solveID string, moves []nxncube.Move, startIndex int, tsMs int64) error {
	return r.db.Transaction(func(tx *sql.Tx) error {
		for i, move := range moves {
			_, err := tx.Exec(`
				INSERT INTO moves (solve_id, move_index, ts_ms, token)
				VALUES (?, ?, ?, ?)
			`, solveID, startIndex+i, tsMs, move.Notation())
			if err != nil {
				return fmt.Errorf("failed to create move %d: %w", startIndex+i, err)
			}
		}
		return nil
	})
}

// GetBySolve retrieves all moves for a solve in order.
func (r *MoveRepository) GetBySolve(solveID string) ([]MoveRecord, error) {
	rows, err := r.db.Query(`
		SELECT move_id, solve_id, move_index, ts_ms, token
		FROM moves
		WHERE solve_id = ?
		ORDER BY move_index
	`, solveID)

	if err != nil {
		return nil, fmt.Errorf("failed to get moves: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		err := rows.Scan(&m.MoveID, &m.SolveID, &m.MoveIndex, &m.TsMs, &m.Token)
		if err != nil {
			return nil, fmt.Errorf("failed to scan move: %w", err)
		}
		moves = append(moves, m)
	}

	return moves, rows.Err()
}

// GetNextIndex returns the next move index for a solve.
func (r *MoveRepository) GetNextIndex(solveID string) (int, error) {
	var maxIndex int
	err := r.db.QueryRow(`
		SELECT COALESCE(MAX(move_index), -1) FROM moves WHERE solve_id = ?
	`, solveID).Scan(&maxIndex)
	if err != nil {
		return 0, fmt.Errorf("failed to get max move index: %w", err)
	}
	return maxIndex + 1, nil
}

// Count returns the number of moves for a solve.
func (r *MoveRepository) Count(solveID string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM moves WHERE solve_id = ?", solveID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count moves: %w", err)
	}
	return count, nil
}

// ToMoves parses MoveRecords into moves.
func ToMoves(records []MoveRecord) ([]nxncube.Move, error) {
	moves := make([]nxncube.Move, len(records))
	for i, r := range records {
		m, err := r.Move()
		if err != nil {
			return nil, fmt.Errorf("failed to parse move %d: %w", r.MoveIndex, err)
		}
		moves[i] = m
	}
	return moves, nil
}
