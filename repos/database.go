package repos

import (
	"context"
	"time"

	"github.com/juho05/log"
)

type DB interface {
	NewSessionRepository() SessionRepository
	Close() error
}

// CleanupSessions deletes expired sessions every interval until ctx is done.
func CleanupSessions(ctx context.Context, repo SessionRepository, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.DeleteExpired(ctx)
			if err != nil {
				log.Errorf("Failed to delete expired sessions: %s", err)
				continue
			}
			if n > 0 {
				log.Tracef("Deleted %d expired sessions", n)
			}
		}
	}
}
