package nxncube

import (
	"fmt"
	"math/rand"
)

// Scramble returns a random sequence of length layer turns for an n×n×n
// puzzle. Consecutive moves never share an axis, and centre layers of odd
// puzzles are never turned on their own. The same seed yields the same
// sequence.
func Scramble(n, length int, rng *rand.Rand) ([]Move, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, n)
	}

	moves := make([]Move, 0, length)
	prev := Axis(-1)
	for len(moves) < length {
		axis := Axis(rng.Intn(3))
		if axis == prev {
			continue
		}
		index := rng.Intn(n)
		if n%2 == 1 && index == n/2 {
			continue
		}

		var m Move
		switch rng.Intn(3) {
		case 0:
			m = layerMove(axis, index, n, 1)
		case 1:
			m = layerMove(axis, index, n, -1)
		default:
			m = layerMove(axis, index, n, 1)
			m.Sign = 1
			m.Double = true
		}
		moves = append(moves, m)
		prev = axis
	}
	return moves, nil
}

// ScrambleState applies moves to a solved n×n×n cube and returns the
// resulting sticker state.
func ScrambleState(n int, moves []Move) (string, error) {
	c, err := NewCube(n)
	if err != nil {
		return "", err
	}
	for _, m := range moves {
		if _, err := c.ApplyMove(m); err != nil {
			return "", fmt.Errorf("scramble move %s: %w", m, err)
		}
	}
	return c.State(), nil
}
