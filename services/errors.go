package services

import (
	"context"
	"errors"

	"github.com/juho05/jobmatch/apiclient"
	"github.com/juho05/jobmatch/session"
)

var (
	ErrInvalidCredentials = errors.New("invalid-credentials")
	ErrNotAuthenticated   = errors.New("not-authenticated")
	ErrWrongRole          = errors.New("wrong-role")
	ErrInvalidSalaryRange = errors.New("invalid-salary-range")
	ErrInvalidStatus      = errors.New("invalid-status")

	ErrInvalidFileType = errors.New("invalid-file-type")
	ErrFileTooLarge    = errors.New("file-too-large")
)

// ErrorKey maps err to the translation key of the inline message shown to the user.
func ErrorKey(err error) string {
	var statusErr *apiclient.StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials):
		return "invalidCredentials"
	case errors.Is(err, ErrNotAuthenticated), errors.Is(err, session.ErrNoManager):
		return "sessionExpired"
	case errors.Is(err, ErrWrongRole):
		return "wrongRole"
	case errors.Is(err, ErrInvalidFileType):
		return "invalidFileType"
	case errors.Is(err, ErrFileTooLarge):
		return "fileTooLarge"
	case errors.Is(err, ErrInvalidSalaryRange):
		return "invalidSalaryRange"
	case errors.Is(err, ErrInvalidStatus):
		return "invalidStatus"
	case errors.Is(err, apiclient.ErrTransport), errors.Is(err, context.DeadlineExceeded):
		return "apiUnavailable"
	case errors.Is(err, apiclient.ErrNotFound):
		return "notFound"
	case errors.As(err, &statusErr) && statusErr.Status < 500:
		return "requestRejected"
	default:
		return "apiError"
	}
}
