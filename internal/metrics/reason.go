package metrics

import (
	"errors"

	"github.com/SeamusWaldron/nxncube"
)

// reason maps engine errors to a bounded label set.
func reason(err error) string {
	switch {
	case errors.Is(err, nxncube.ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, nxncube.ErrLayerOutOfRange):
		return "layer_out_of_range"
	case errors.Is(err, nxncube.ErrInvalidSize):
		return "invalid_size"
	default:
		return "other"
	}
}
