// Package analysis computes statistics over recorded solves: per-solve
// summaries, repeated move sequences and trends across sessions.
package analysis

import (
	"fmt"
	"sort"

	"github.com/SeamusWaldron/nxncube"
	"github.com/SeamusWaldron/nxncube/internal/storage"
)

// DefaultPauseThresholdMs is the gap after which a pause is counted.
const DefaultPauseThresholdMs = 1500

// TimedMove is a move with its offset from the start of the solve.
type TimedMove struct {
	Move nxncube.Move
	TsMs int64
}

// FromRecords parses stored move records.
func FromRecords(records []storage.MoveRecord) ([]TimedMove, error) {
	moves := make([]TimedMove, len(records))
	for i, r := range records {
		m, err := r.Move()
		if err != nil {
			return nil, fmt.Errorf("move %d of %s: %w", r.MoveIndex, r.SolveID, err)
		}
		moves[i] = TimedMove{Move: m, TsMs: r.TsMs}
	}
	return moves, nil
}

// SolveSummary contains statistics for a single solve.
type SolveSummary struct {
	SolveID           string  `json:"solve_id"`
	Size              int     `json:"size"`
	DurationMs        int64   `json:"duration_ms"` // 0 for unfinished solves
	TotalMoves        int     `json:"total_moves"`
	Turns             int     `json:"turns"` // moves excluding whole-cube rotations
	Rotations         int     `json:"rotations"`
	TPS               float64 `json:"tps"`
	LongestPauseMs    int64   `json:"longest_pause_ms"`
	PauseCount        int     `json:"pause_count"`
	AvgMoveDurationMs float64 `json:"avg_move_duration_ms"`
	WastedMoves       int     `json:"wasted_moves"`
}

// Summarize computes the summary of one solve. Pauses are gaps between
// consecutive moves longer than pauseThresholdMs.
func Summarize(solve *storage.Solve, moves []TimedMove, pauseThresholdMs int64) SolveSummary {
	s := SolveSummary{
		SolveID:           solve.SolveID,
		Size:              solve.Size,
		TotalMoves:        len(moves),
		LongestPauseMs:    FindLongestPause(moves),
		PauseCount:        CountPausesOver(moves, pauseThresholdMs),
		AvgMoveDurationMs: CalculateAvgMoveDuration(moves),
		WastedMoves:       AnalyzeRepetitions(moves).TotalWastedMoves,
	}
	if solve.DurationMs != nil {
		s.DurationMs = *solve.DurationMs
	}
	for _, m := range moves {
		if m.Move.IsRotation() {
			s.Rotations++
		} else {
			s.Turns++
		}
	}
	s.TPS = CalculateTPS(s.Turns, s.DurationMs)
	return s
}

// PauseInfo represents a pause during solving.
type PauseInfo struct {
	AfterMoveIndex int   `json:"after_move_index"`
	DurationMs     int64 `json:"duration_ms"`
	TsMs           int64 `json:"ts_ms"`
}

// AnalyzePauses finds all gaps of at least thresholdMs.
func AnalyzePauses(moves []TimedMove, thresholdMs int64) []PauseInfo {
	var pauses []PauseInfo

	for i := 1; i < len(moves); i++ {
		gap := moves[i].TsMs - moves[i-1].TsMs
		if gap >= thresholdMs {
			pauses = append(pauses, PauseInfo{
				AfterMoveIndex: i - 1,
				DurationMs:     gap,
				TsMs:           moves[i-1].TsMs,
			})
		}
	}

	return pauses
}

// CalculateTPS calculates turns per second.
func CalculateTPS(turns int, durationMs int64) float64 {
	if durationMs <= 0 {
		return 0
	}
	return float64(turns) / (float64(durationMs) / 1000.0)
}

// CalculateAvgMoveDuration calculates the average time between moves.
func CalculateAvgMoveDuration(moves []TimedMove) float64 {
	if len(moves) < 2 {
		return 0
	}

	totalGap := moves[len(moves)-1].TsMs - moves[0].TsMs
	return float64(totalGap) / float64(len(moves)-1)
}

// FindLongestPause finds the longest gap between consecutive moves.
func FindLongestPause(moves []TimedMove) int64 {
	var longest int64

	for i := 1; i < len(moves); i++ {
		gap := moves[i].TsMs - moves[i-1].TsMs
		if gap > longest {
			longest = gap
		}
	}

	return longest
}

// CountPausesOver counts gaps strictly longer than thresholdMs.
func CountPausesOver(moves []TimedMove, thresholdMs int64) int {
	count := 0
	for i := 1; i < len(moves); i++ {
		gap := moves[i].TsMs - moves[i-1].TsMs
		if gap > thresholdMs {
			count++
		}
	}
	return count
}

// MovementProfile counts which faces and kinds of turn a solve uses.
type MovementProfile struct {
	FaceCounts    map[nxncube.Face]int `json:"face_counts"`
	KindCounts    map[string]int       `json:"kind_counts"`
	HalfTurns     int                  `json:"half_turns"`
	MostUsedFace  nxncube.Face         `json:"most_used_face"`
	FaceSequences map[string]int       `json:"face_sequences"` // e.g. "RU" -> count
}

// AnalyzeMovementProfile analyzes which faces and turns are most used.
func AnalyzeMovementProfile(moves []TimedMove) *MovementProfile {
	profile := &MovementProfile{
		FaceCounts:    make(map[nxncube.Face]int),
		KindCounts:    make(map[string]int),
		FaceSequences: make(map[string]int),
	}

	for i, m := range moves {
		face := m.Move.Face()
		profile.FaceCounts[face]++
		profile.KindCounts[m.Move.Kind.String()]++
		if m.Move.Double {
			profile.HalfTurns++
		}

		// 2-move face sequences
		if i > 0 {
			seq := string(moves[i-1].Move.Face()) + string(face)
			profile.FaceSequences[seq]++
		}
	}

	// Ties go to the alphabetically first face.
	faces := make([]nxncube.Face, 0, len(profile.FaceCounts))
	for face := range profile.FaceCounts {
		faces = append(faces, face)
	}
	sort.Slice(faces, func(i, j int) bool { return faces[i] < faces[j] })
	maxFaceCount := 0
	for _, face := range faces {
		if count := profile.FaceCounts[face]; count > maxFaceCount {
			maxFaceCount = count
			profile.MostUsedFace = face
		}
	}

	return profile
}
