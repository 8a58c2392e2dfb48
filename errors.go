package nxncube

import "errors"

// Sentinel errors for the nxncube package.
var (
	// Move errors
	ErrInvalidToken    = errors.New("nxncube: invalid move token")
	ErrLayerOutOfRange = errors.New("nxncube: layer out of range")

	// Gesture errors. Both are expected during ordinary camera drags.
	ErrNoActiveGesture = errors.New("nxncube: no active gesture")
	ErrDragTooShort    = errors.New("nxncube: drag too short")

	// State errors
	ErrInvalidState = errors.New("nxncube: invalid sticker state")
	ErrInvalidSize  = errors.New("nxncube: invalid puzzle size")
)
