package friend

import "errors"

var ErrFriendInternal = errors.New("internal error")
