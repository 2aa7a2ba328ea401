package pixquant

import "errors"

// Errors returned by pixquant.
//
// ErrInvalidPalette, ErrInvalidDimensions, ErrInvalidOptions and
// ErrResourceExhausted are caller-visible failures. ErrBackendUnavailable
// never reaches Process callers: it marks a GPU failure that the Processor
// recovers from by rerunning on the CPU.
var (
	// ErrInvalidPalette is returned when no active palette color is given.
	ErrInvalidPalette = errors.New("pixquant: palette has no active colors")

	// ErrInvalidDimensions is returned for zero-sized images, including images
	// that scale down to zero width or height, and for malformed buffers.
	ErrInvalidDimensions = errors.New("pixquant: invalid dimensions")

	// ErrInvalidOptions is returned when a configuration value is out of range.
	ErrInvalidOptions = errors.New("pixquant: invalid options")

	// ErrResourceExhausted is returned when an image exceeds the processing limits.
	ErrResourceExhausted = errors.New("pixquant: image exceeds processing limits")

	// ErrBackendUnavailable wraps GPU context, shader, pipeline and buffer failures.
	ErrBackendUnavailable = errors.New("pixquant: backend unavailable")

	// ErrSuperseded is returned by Session runs overtaken by a newer request.
	ErrSuperseded = errors.New("pixquant: superseded by a newer request")

	// ErrSessionClosed is returned when processing on a closed Session.
	ErrSessionClosed = errors.New("pixquant: session is closed")
)
