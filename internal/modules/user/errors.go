package user

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInternal     = errors.New("internal server error")
	// ErrCacheMiss is returned by the display-name cache when it holds nothing for the user.
	ErrCacheMiss = errors.New("display name not cached")
)
