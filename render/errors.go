package render

import "github.com/cockroachdb/errors"

var (
	ErrNoSuitableDevice            = errors.New("no suitable GPU")
	ErrMissingExtension            = errors.New("missing extension")
	ErrMissingLayer                = errors.New("missing layer")
	ErrNoMemoryType                = errors.New("no suitable memory type")
	ErrUnsupportedFormat           = errors.New("unsupported format")
	ErrUnsupportedLayoutTransition = errors.New("unsupported layout transition")
	ErrInvalidSPIRV                = errors.New("invalid SPIR-V")
	ErrEmptyImage                  = errors.New("empty image")
	// ErrSurfaceLost is returned when the surface stops reporting formats
	// or present modes for the chosen device.
	ErrSurfaceLost = errors.New("surface lost")
)
