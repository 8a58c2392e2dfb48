package analysis

import (
	"math"
	"sort"
	"time"
)

// SolveData represents minimal solve data for trend analysis.
type SolveData struct {
	SolveID    string
	Size       int
	StartedAt  time.Time
	DurationMs int64 // 0 for unfinished solves
	Turns      int
	TPS        float64
}

// SolveStats represents statistics for a single solve in trend context.
type SolveStats struct {
	SolveID    string  `json:"solve_id"`
	Timestamp  string  `json:"timestamp"`
	DurationMs int64   `json:"duration_ms"`
	Turns      int     `json:"turns"`
	TPS        float64 `json:"tps"`
}

// TrendReport contains trend analysis across multiple solves.
type TrendReport struct {
	TotalSolves     int `json:"total_solves"`
	CompletedSolves int `json:"completed_solves"`

	AvgDurationMs float64 `json:"avg_duration_ms"`
	AvgTurns      float64 `json:"avg_turns"`
	AvgTPS        float64 `json:"avg_tps"`

	BestSolve  SolveStats `json:"best_solve"`
	WorstSolve SolveStats `json:"worst_solve"`

	// ImprovementPct compares the first and last quarter of completed
	// solves. Negative means slower.
	ImprovementPct   float64 `json:"improvement_pct"`
	ConsistencyScore float64 `json:"consistency_score"` // 0-100

	// Means of the most recent 5, 12, 50 and 100 completed solves
	RollingAvgs map[int]float64 `json:"rolling_averages"`
}

// rollingWindows are the usual speedcubing averages.
var rollingWindows = []int{5, 12, 50, 100}

func toStats(s SolveData) SolveStats {
	return SolveStats{
		SolveID:    s.SolveID,
		Timestamp:  s.StartedAt.Format(time.RFC3339),
		DurationMs: s.DurationMs,
		Turns:      s.Turns,
		TPS:        s.TPS,
	}
}

// AnalyzeTrends analyzes trends across multiple solves. Unfinished solves
// count toward TotalSolves only.
func AnalyzeTrends(solves []SolveData) *TrendReport {
	report := &TrendReport{
		TotalSolves: len(solves),
		RollingAvgs: make(map[int]float64),
	}

	var completed []SolveData
	for _, s := range solves {
		if s.DurationMs > 0 {
			completed = append(completed, s)
		}
	}
	sort.Slice(completed, func(i, j int) bool {
		return completed[i].StartedAt.Before(completed[j].StartedAt)
	})
	report.CompletedSolves = len(completed)
	if len(completed) == 0 {
		return report
	}

	var totalDuration, totalTurns int64
	var totalTPS float64
	best, worst := completed[0], completed[0]
	for _, s := range completed {
		totalDuration += s.DurationMs
		totalTurns += int64(s.Turns)
		totalTPS += s.TPS
		if s.DurationMs < best.DurationMs {
			best = s
		}
		if s.DurationMs > worst.DurationMs {
			worst = s
		}
	}

	n := float64(len(completed))
	report.AvgDurationMs = float64(totalDuration) / n
	report.AvgTurns = float64(totalTurns) / n
	report.AvgTPS = totalTPS / n
	report.BestSolve = toStats(best)
	report.WorstSolve = toStats(worst)
	report.ImprovementPct = calculateImprovement(completed)
	report.ConsistencyScore = calculateConsistency(completed)

	for _, w := range rollingWindows {
		if len(completed) < w {
			break
		}
		var sum int64
		for _, s := range completed[len(completed)-w:] {
			sum += s.DurationMs
		}
		report.RollingAvgs[w] = float64(sum) / float64(w)
	}

	return report
}

// calculateImprovement compares the mean of the first quarter of solves
// with the mean of the last quarter.
func calculateImprovement(solves []SolveData) float64 {
	if len(solves) < 4 {
		return 0
	}
	quarter := len(solves) / 4

	var firstSum, lastSum int64
	for i := 0; i < quarter; i++ {
		firstSum += solves[i].DurationMs
		lastSum += solves[len(solves)-1-i].DurationMs
	}
	firstAvg := float64(firstSum) / float64(quarter)
	lastAvg := float64(lastSum) / float64(quarter)
	if firstAvg <= 0 {
		return 0
	}
	return (firstAvg - lastAvg) / firstAvg * 100
}

// calculateConsistency maps the coefficient of variation of solve times to
// 0-100: a CV of 0 scores 100 and a CV of 1 or more scores 0.
func calculateConsistency(solves []SolveData) float64 {
	if len(solves) < 2 {
		return 100
	}

	var sum float64
	for _, s := range solves {
		sum += float64(s.DurationMs)
	}
	mean := sum / float64(len(solves))
	if mean <= 0 {
		return 100
	}

	var sumSquares float64
	for _, s := range solves {
		diff := float64(s.DurationMs) - mean
		sumSquares += diff * diff
	}
	cv := math.Sqrt(sumSquares/float64(len(solves))) / mean

	return math.Max(0, 100-cv*100)
}
