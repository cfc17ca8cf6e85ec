package session

import "errors"

// Input validation failures. Callers treat these as declined actions rather
// than faults.
var (
	ErrEmptyMessage   = errors.New("message is empty")
	ErrReplyPending   = errors.New("a reply is already pending")
	ErrThreadNotFound = errors.New("thread not found")
	ErrInvalidMode    = errors.New("invalid display mode")
)
