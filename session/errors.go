package session

import "errors"

var (
	ErrIncompleteRecord = errors.New("incomplete-session-record")
	ErrNoManager        = errors.New("no-session-manager")
)
