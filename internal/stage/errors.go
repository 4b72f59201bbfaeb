package stage

import "errors"

// Stage error kinds. Every failure wraps exactly one of these; nothing is
// recovered locally, the error travels up to the process boundary.
var (
	// ErrConfiguration — required invocation arguments missing or invalid.
	// Raised before any I/O.
	ErrConfiguration = errors.New("configuration error")

	// ErrInputRead — input object missing, inaccessible or malformed.
	ErrInputRead = errors.New("input read error")

	// ErrTransform — a transformer in the chain failed.
	ErrTransform = errors.New("transform error")

	// ErrOutputWrite — output serialization or object write failed.
	ErrOutputWrite = errors.New("output write error")
)
