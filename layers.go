package nxncube

import "fmt"

// ResolveLayers returns the 0-based layer indices along the move axis that
// the move turns on an n×n×n puzzle, in ascending order.
//
// Faces on the axis-positive side (R, U, F) count depth from index n-1
// downwards; faces on the negative side (L, D, B) count from index 0.
func ResolveLayers(m Move, n int) ([]int, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, n)
	}

	switch m.Kind {
	case LayerWhole:
		return layerRange(0, n-1), nil

	case LayerSlice:
		if n < 3 {
			return nil, fmt.Errorf("%w: %s needs an inner layer, size is %d", ErrLayerOutOfRange, m.Face(), n)
		}
		return layerRange(1, n-2), nil

	case LayerSingle, LayerWide:
		if m.Depth < 1 || m.Depth > n {
			return nil, fmt.Errorf("%w: %s depth %d on size %d", ErrLayerOutOfRange, m.Face(), m.Depth, n)
		}
		lo := m.Depth - 1
		if m.Kind == LayerWide {
			lo = 0
		}
		hi := m.Depth - 1
		if m.Negative {
			return layerRange(lo, hi), nil
		}
		return layerRange(n-1-hi, n-1-lo), nil
	}

	return nil, fmt.Errorf("%w: unknown layer kind %d", ErrInvalidToken, m.Kind)
}

func layerRange(lo, hi int) []int {
	out := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}
	return out
}

// layerMove returns the move token that turns exactly the layer at index
// along axis, by the same sidedness rule ResolveLayers uses. On a 3×3×3 the
// centre layer is written as its slice move.
func layerMove(axis Axis, index, n int, quarters int) Move {
	var m Move
	switch {
	case n == 3 && index == 1:
		m = Move{Axis: axis, Kind: LayerSlice}
	case 2*index < n-1:
		m = Move{Axis: axis, Kind: LayerSingle, Negative: true, Depth: index + 1}
	default:
		m = Move{Axis: axis, Kind: LayerSingle, Depth: n - index}
	}
	return m.withQuarters(quarters)
}
