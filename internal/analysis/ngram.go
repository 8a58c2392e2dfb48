package analysis

import (
	"sort"
	"strings"
)

// maxOccurrences caps the sample occurrences kept per n-gram.
const maxOccurrences = 10

// NGram represents a repeated move sequence.
type NGram struct {
	N           int               `json:"n"`
	Sequence    []string          `json:"sequence"`
	Count       int               `json:"count"`
	Occurrences []NGramOccurrence `json:"occurrences,omitempty"`
}

// Key returns the sequence as space-separated notation.
func (g NGram) Key() string {
	return strings.Join(g.Sequence, " ")
}

// NGramOccurrence represents where an n-gram was found.
type NGramOccurrence struct {
	SolveID    string `json:"solve_id,omitempty"`
	StartIndex int    `json:"start_index"`
	TsMs       int64  `json:"ts_ms"`
}

// NGramReport contains the results of n-gram mining.
type NGramReport struct {
	TopNGrams map[int][]NGram `json:"top_ngrams"` // Keyed by n
}

// RollingHash implements a Rabin-Karp rolling hash over interned tokens.
type RollingHash struct {
	base   uint64
	hash   uint64
	pow    uint64 // base^(n-1) for removal
	window []uint32
	n      int
}

// NewRollingHash creates a new rolling hash for window size n.
func NewRollingHash(n int) *RollingHash {
	rh := &RollingHash{
		base:   1_000_003,
		n:      n,
		window: make([]uint32, 0, n),
	}

	rh.pow = 1
	for i := 0; i < n-1; i++ {
		rh.pow *= rh.base
	}

	return rh
}

// Roll adds a token, dropping the oldest one once the window is full.
func (rh *RollingHash) Roll(token uint32) {
	if len(rh.window) < rh.n {
		rh.window = append(rh.window, token)
		rh.hash = rh.hash*rh.base + uint64(token)
		return
	}

	old := rh.window[0]
	rh.hash = (rh.hash-uint64(old)*rh.pow)*rh.base + uint64(token)

	copy(rh.window, rh.window[1:])
	rh.window[rh.n-1] = token
}

// Hash returns the current hash value.
func (rh *RollingHash) Hash() uint64 {
	return rh.hash
}

// Window returns a copy of the current window.
func (rh *RollingHash) Window() []uint32 {
	result := make([]uint32, len(rh.window))
	copy(result, rh.window)
	return result
}

// Ready returns true if the window is full.
func (rh *RollingHash) Ready() bool {
	return len(rh.window) == rh.n
}

// ngramEntry tracks n-gram occurrences during mining.
type ngramEntry struct {
	tokens      []uint32
	count       int
	occurrences []NGramOccurrence
}

// MineNGrams finds the top-K most frequent n-grams for each n in
// [minN, maxN]. Only sequences seen at least twice are reported. Moves are
// compared by canonical notation, so "3R" on a 5x5 and "3R" on a 7x7 are
// the same token.
func MineNGrams(moves []TimedMove, minN, maxN, topK int) *NGramReport {
	report := &NGramReport{
		TopNGrams: make(map[int][]NGram),
	}

	if len(moves) < minN {
		return report
	}

	// Intern notation strings
	ids := make(map[string]uint32)
	var names []string
	tokens := make([]uint32, len(moves))
	for i, m := range moves {
		name := m.Move.Notation()
		id, ok := ids[name]
		if !ok {
			id = uint32(len(names))
			ids[name] = id
			names = append(names, name)
		}
		tokens[i] = id
	}

	for n := minN; n <= maxN && n <= len(moves); n++ {
		if ngrams := mineNGramsForN(tokens, names, moves, n, topK); len(ngrams) > 0 {
			report.TopNGrams[n] = ngrams
		}
	}

	return report
}

func mineNGramsForN(tokens []uint32, names []string, moves []TimedMove, n, topK int) []NGram {
	counts := make(map[uint64][]*ngramEntry)
	rh := NewRollingHash(n)

	for i, token := range tokens {
		rh.Roll(token)
		if !rh.Ready() {
			continue
		}

		start := i - n + 1
		occ := NGramOccurrence{StartIndex: start, TsMs: moves[start].TsMs}
		hash := rh.Hash()
		window := rh.Window()

		var found *ngramEntry
		for _, entry := range counts[hash] {
			if slicesEqual(entry.tokens, window) {
				found = entry
				break
			}
		}
		if found == nil {
			counts[hash] = append(counts[hash], &ngramEntry{
				tokens:      window,
				count:       1,
				occurrences: []NGramOccurrence{occ},
			})
			continue
		}
		found.count++
		if len(found.occurrences) < maxOccurrences {
			found.occurrences = append(found.occurrences, occ)
		}
	}

	var result []NGram
	for _, bucket := range counts {
		for _, entry := range bucket {
			if entry.count < 2 {
				continue
			}
			sequence := make([]string, len(entry.tokens))
			for j, token := range entry.tokens {
				sequence[j] = names[token]
			}
			result = append(result, NGram{
				N:           n,
				Sequence:    sequence,
				Count:       entry.count,
				Occurrences: entry.occurrences,
			})
		}
	}

	return topNGrams(result, topK)
}

// topNGrams sorts by count, then by notation, and keeps the first k.
func topNGrams(ngrams []NGram, k int) []NGram {
	sort.Slice(ngrams, func(i, j int) bool {
		if ngrams[i].Count != ngrams[j].Count {
			return ngrams[i].Count > ngrams[j].Count
		}
		return ngrams[i].Key() < ngrams[j].Key()
	})
	if len(ngrams) > k {
		ngrams = ngrams[:k]
	}
	return ngrams
}

func slicesEqual(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// MineNGramsAcrossSolves aggregates per-solve reports keyed by solve ID.
func MineNGramsAcrossSolves(solveNGrams map[string]*NGramReport, topK int) *NGramReport {
	report := &NGramReport{
		TopNGrams: make(map[int][]NGram),
	}

	// Iterate solves in a fixed order so sample occurrences are stable.
	solveIDs := make([]string, 0, len(solveNGrams))
	for id := range solveNGrams {
		solveIDs = append(solveIDs, id)
	}
	sort.Strings(solveIDs)

	aggregated := make(map[int]map[string]*NGram)
	for _, solveID := range solveIDs {
		for n, ngrams := range solveNGrams[solveID].TopNGrams {
			if aggregated[n] == nil {
				aggregated[n] = make(map[string]*NGram)
			}
			for _, ng := range ngrams {
				key := ng.Key()
				existing, ok := aggregated[n][key]
				if !ok {
					existing = &NGram{N: ng.N, Sequence: ng.Sequence}
					aggregated[n][key] = existing
				}
				existing.Count += ng.Count
				for _, occ := range ng.Occurrences {
					if len(existing.Occurrences) < maxOccurrences {
						occ.SolveID = solveID
						existing.Occurrences = append(existing.Occurrences, occ)
					}
				}
			}
		}
	}

	for n, byKey := range aggregated {
		ngrams := make([]NGram, 0, len(byKey))
		for _, ng := range byKey {
			ngrams = append(ngrams, *ng)
		}
		report.TopNGrams[n] = topNGrams(ngrams, topK)
	}

	return report
}
