package ga

import "bitevolve/internal/rng"

// ErrInvalidArgument is the only error class raised by the core. It is shared
// with the rng package so errors.Is matches either origin.
var ErrInvalidArgument = rng.ErrInvalidArgument
