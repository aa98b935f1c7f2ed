package schema

import "errors"

var (
	// ErrInvalidRequest indicates a malformed request payload.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrInvalidTag indicates a theme tag that cannot be stored in the cookie.
	ErrInvalidTag = errors.New("invalid theme tag")
	// ErrInvalidEvent indicates a theme event with an unknown kind or value.
	ErrInvalidEvent = errors.New("invalid theme event")
	// ErrUnknownControl indicates an event referencing an element that is not rendered.
	ErrUnknownControl = errors.New("unknown control")
	// ErrInvalidID indicates a record id that is not positive.
	ErrInvalidID = errors.New("invalid id")
)
