package challenge

import "errors"

var (
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrChallengeInternal = errors.New("internal error")
	ErrNotParticipant    = errors.New("user is not a participant of the challenge")
)
