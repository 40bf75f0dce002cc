package tilemap

import "errors"

var (
	// ErrInvalidConfig reports a degenerate tilemap declaration or argument
	// (zero sized layer, bad chunking, gauge with max == 0...).
	ErrInvalidConfig = errors.New("tilemap: invalid configuration")

	// ErrUnknownLayer reports a layer id with no declared layer.
	ErrUnknownLayer = errors.New("tilemap: unknown layer")
)
