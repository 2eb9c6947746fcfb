package custom

import "errors"

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotificationInternal = errors.New("internal error")
	ErrAlreadyProcessed     = errors.New("notification was already processed")
	ErrInvalidInput         = errors.New("invalid notification")
)
