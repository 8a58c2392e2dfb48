package storage

import (
	"database/sql"
	"fmt"

	"github.com/SeamusWaldron/nxncube"
)

// CameraRecord is one logged camera position.
type CameraRecord struct {
	CameraID int64
	SolveID  string
	TsMs     int64 // since solve start
	Position nxncube.Vec3
}

// CameraRepository provides CRUD operations for camera positions.
type CameraRepository struct {
	db *DB
}

// NewCameraRepository creates a new camera repository.
func NewCameraRepository(db *DB) *CameraRepository {
	return &CameraRepository{db: db}
}

// Create stores a camera position and returns its ID.
func (r *CameraRepository) Create(solveID string, tsMs int64, pos nxncube.Vec3) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO cameras (solve_id, ts_ms, x, y, z)
		VALUES (?, ?, ?, ?, ?)
	`, solveID, tsMs, pos.X, pos.Y, pos.Z)

	if err != nil {
		return 0, fmt.Errorf("failed to create camera: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get camera ID: %w", err)
	}

	return id, nil
}

// GetBySolve retrieves all camera positions for a solve in time order.
func (r *CameraRepository) GetBySolve(solveID string) ([]CameraRecord, error) {
	rows, err := r.db.Query(`
		SELECT camera_id, solve_id, ts_ms, x, y, z
		FROM cameras
		WHERE solve_id = ?
		ORDER BY ts_ms, camera_id
	`, solveID)

	if err != nil {
		return nil, fmt.Errorf("failed to get cameras: %w", err)
	}
	defer rows.Close()

	var cameras []CameraRecord
	for rows.Next() {
		var c CameraRecord
		err := rows.Scan(&c.CameraID, &c.SolveID, &c.TsMs, &c.Position.X, &c.Position.Y, &c.Position.Z)
		if err != nil {
			return nil, fmt.Errorf("failed to scan camera: %w", err)
		}
		cameras = append(cameras, c)
	}

	return cameras, rows.Err()
}

// GetLast returns the most recent camera position for a solve, or nil if
// none was logged.
func (r *CameraRepository) GetLast(solveID string) (*CameraRecord, error) {
	row := r.db.QueryRow(`
		SELECT camera_id, solve_id, ts_ms, x, y, z
		FROM cameras
		WHERE solve_id = ?
		ORDER BY ts_ms DESC, camera_id DESC
		LIMIT 1
	`, solveID)

	var c CameraRecord
	err := row.Scan(&c.CameraID, &c.SolveID, &c.TsMs, &c.Position.X, &c.Position.Y, &c.Position.Z)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last camera: %w", err)
	}

	return &c, nil
}
