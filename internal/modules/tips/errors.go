package tips

import "errors"

var (
	ErrTipsNotFound    = errors.New("tips not found")
	ErrTipsInternal    = errors.New("internal error")
	ErrArchiveDisabled = errors.New("tips archive is not configured")
	ErrArchiveFailed   = errors.New("failed to archive tips")
)
