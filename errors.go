package guitex

import "errors"

// Errors returned by the bridge.
var (
	// ErrNegotiationFailed is returned when the toolkit's native pixel format
	// could not be determined. It is fatal to Install.
	ErrNegotiationFailed = errors.New("guitex: pixel format negotiation failed")

	// ErrUnsupportedFormat is returned when the engine supports neither the
	// native format nor its own fallback format.
	ErrUnsupportedFormat = errors.New("guitex: unsupported pixel format")

	// ErrCursorAssetMissing is returned when a cursor has no asset or the
	// asset could not be loaded.
	ErrCursorAssetMissing = errors.New("guitex: cursor asset missing")

	// ErrInvalidCursor is returned when a cursor file cannot be decoded.
	ErrInvalidCursor = errors.New("guitex: invalid cursor file")

	// ErrClosed is returned by operations on a closed container.
	ErrClosed = errors.New("guitex: container is closed")
)
