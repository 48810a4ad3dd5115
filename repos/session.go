package repos

import (
	"context"

	"github.com/alexedwards/scs/v2"
)

// SessionRepository stores the server side of web sessions. The job-matching session record
// lives in one key of the session data.
type SessionRepository interface {
	scs.Store
	scs.CtxStore
	scs.IterableStore
	scs.IterableCtxStore

	// DeleteExpired removes sessions past their expiry and returns how many were removed.
	DeleteExpired(ctx context.Context) (int64, error)
}
