package services

import "errors"

// Domain error kinds. Handlers match them with errors.Is and map each to an
// HTTP status; none of them is retried inside the service layer.
var (
	ErrValidation       = errors.New("validation failure")
	ErrNotFound         = errors.New("not found")
	ErrAttemptExceeded  = errors.New("no attempts remaining")
	ErrWindowClosed     = errors.New("exam window is closed")
	ErrAlreadySubmitted = errors.New("attempt already submitted")
	ErrAttemptExpired   = errors.New("attempt time expired")
)
