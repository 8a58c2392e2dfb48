package analysis

import "github.com/SeamusWaldron/nxncube"

// Cancellation represents an immediate move cancellation (e.g. R followed
// by R', or 2R2 followed by 2R2).
type Cancellation struct {
	Index1 int    `json:"index1"`
	Index2 int    `json:"index2"`
	Move1  string `json:"move1"`
	Move2  string `json:"move2"`
	TsMs   int64  `json:"ts_ms"`
}

// MergeOpportunity represents adjacent turns of the same layers that could
// be written as one move.
type MergeOpportunity struct {
	Index1     int    `json:"index1"`
	Index2     int    `json:"index2"`
	Move1      string `json:"move1"`
	Move2      string `json:"move2"`
	MergedMove string `json:"merged_move"`
	TsMs       int64  `json:"ts_ms"`
}

// BackAndForthPattern represents alternating moves (e.g. R U R U R U).
type BackAndForthPattern struct {
	StartIndex int      `json:"start_index"`
	EndIndex   int      `json:"end_index"`
	Pattern    []string `json:"pattern"`
	Count      int      `json:"count"`
	TsMs       int64    `json:"ts_ms"`
}

// RepetitionReport contains all repetition analysis results.
type RepetitionReport struct {
	ImmediateCancellations []Cancellation        `json:"immediate_cancellations"`
	MergeOpportunities     []MergeOpportunity    `json:"merge_opportunities"`
	BackAndForthPatterns   []BackAndForthPattern `json:"back_and_forth_patterns"`
	TotalWastedMoves       int                   `json:"total_wasted_moves"`
}

// sameLayers reports whether a and b turn the same set of layers about the
// same axis from the same side.
func sameLayers(a, b nxncube.Move) bool {
	return a.Axis == b.Axis && a.Kind == b.Kind && a.Negative == b.Negative && a.Depth == b.Depth
}

// faceQuarters counts a move's quarter turns relative to its face letter.
func faceQuarters(m nxncube.Move) int {
	q := m.Sign
	if m.Double {
		q *= 2
	}
	return q
}

// mergeMoves combines two moves of the same layers. It returns false when
// they cancel out.
func mergeMoves(a, b nxncube.Move) (nxncube.Move, bool) {
	q := ((faceQuarters(a)+faceQuarters(b))%4 + 4) % 4
	merged := a
	switch q {
	case 0:
		return nxncube.Move{}, false
	case 1:
		merged.Sign, merged.Double = 1, false
	case 2:
		merged.Sign, merged.Double = 1, true
	case 3:
		merged.Sign, merged.Double = -1, false
	}
	return merged, true
}

// AnalyzeRepetitions analyzes a move sequence for repetitions and wasted
// motion. Each move takes part in at most one cancellation or merge.
func AnalyzeRepetitions(moves []TimedMove) *RepetitionReport {
	report := &RepetitionReport{
		ImmediateCancellations: []Cancellation{},
		MergeOpportunities:     []MergeOpportunity{},
		BackAndForthPatterns:   []BackAndForthPattern{},
	}

	if len(moves) < 2 {
		return report
	}

	for i := 0; i < len(moves)-1; i++ {
		m1, m2 := moves[i], moves[i+1]
		if !sameLayers(m1.Move, m2.Move) {
			continue
		}

		merged, ok := mergeMoves(m1.Move, m2.Move)
		if !ok {
			report.ImmediateCancellations = append(report.ImmediateCancellations, Cancellation{
				Index1: i,
				Index2: i + 1,
				Move1:  m1.Move.Notation(),
				Move2:  m2.Move.Notation(),
				TsMs:   m1.TsMs,
			})
			report.TotalWastedMoves += 2
		} else {
			report.MergeOpportunities = append(report.MergeOpportunities, MergeOpportunity{
				Index1:     i,
				Index2:     i + 1,
				Move1:      m1.Move.Notation(),
				Move2:      m2.Move.Notation(),
				MergedMove: merged.Notation(),
				TsMs:       m1.TsMs,
			})
			report.TotalWastedMoves++
		}
		i++
	}

	report.BackAndForthPatterns = findBackAndForth(moves)

	return report
}

// findBackAndForth finds alternating move patterns like R U R U R U.
func findBackAndForth(moves []TimedMove) []BackAndForthPattern {
	var patterns []BackAndForthPattern

	i := 0
	for i < len(moves)-3 {
		a, b := moves[i].Move, moves[i+1].Move
		if a == b {
			i++
			continue
		}

		count := 1
		j := i + 2
		for j < len(moves)-1 && moves[j].Move == a && moves[j+1].Move == b {
			count++
			j += 2
		}

		// At least 3 repetitions
		if count >= 3 {
			patterns = append(patterns, BackAndForthPattern{
				StartIndex: i,
				EndIndex:   i + count*2 - 1,
				Pattern:    []string{a.Notation(), b.Notation()},
				Count:      count,
				TsMs:       moves[i].TsMs,
			})
			i = j
		} else {
			i++
		}
	}

	return patterns
}

// OptimizeMoves returns the sequence with cancellations and merges applied
// repeatedly, so R U U' R' reduces to nothing.
func OptimizeMoves(moves []TimedMove) []TimedMove {
	result := make([]TimedMove, 0, len(moves))

	for _, move := range moves {
		if len(result) == 0 || !sameLayers(result[len(result)-1].Move, move.Move) {
			result = append(result, move)
			continue
		}

		last := &result[len(result)-1]
		if merged, ok := mergeMoves(last.Move, move.Move); ok {
			last.Move = merged
		} else {
			result = result[:len(result)-1]
		}
	}

	return result
}

// CalculateEfficiency returns the optimized length over the original length.
func CalculateEfficiency(original, optimized []TimedMove) float64 {
	if len(original) == 0 {
		return 1.0
	}
	return float64(len(optimized)) / float64(len(original))
}
