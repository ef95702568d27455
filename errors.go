package pcbbox

import "errors"

var (
	// ErrInvalidParams is matched by every parameter validation failure.
	ErrInvalidParams = errors.New("invalid enclosure parameters")
	// ErrUnknownFace is returned for faces that carry no feature of the
	// requested kind.
	ErrUnknownFace = errors.New("unknown face")
)
