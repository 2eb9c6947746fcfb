package events

import "errors"

var (
	ErrUnknownAction   = errors.New("unknown event action")
	ErrInvalidEnvelope = errors.New("invalid event envelope")
)
