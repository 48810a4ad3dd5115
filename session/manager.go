package session

import (
	"context"
	"sync"
	"time"

	"github.com/juho05/log"
)

const DefaultTTL = 60 * time.Minute

// Manager is the in-memory authority for the current identity and access token.
// Bootstrap, Login and Logout are its only mutators; every mutation is mirrored to the Store.
type Manager struct {
	store Store
	ttl   time.Duration
	now   func() time.Time

	mu           sync.RWMutex
	identity     *Identity
	accessToken  string
	expiresAt    time.Time
	bootstrapped bool
}

type Option func(m *Manager)

func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		ttl:   DefaultTTL,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Bootstrap restores the session from the Store. An expired record is cleared from the
// Store. Calling Bootstrap again re-reads the Store.
func (m *Manager) Bootstrap(ctx context.Context) {
	rec, ok := m.store.Load(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.bootstrapped = true

	if !ok {
		m.reset()
		return
	}
	if !rec.ValidAt(m.now()) {
		log.Tracef("Discarding expired session of %s %s", rec.Identity.Role, rec.Identity.IdentityID)
		m.reset()
		if err := m.store.Clear(ctx); err != nil {
			log.Errorf("Failed to clear expired session: %s", err)
		}
		return
	}
	identity := rec.Identity
	m.identity = &identity
	m.accessToken = rec.AccessToken
	m.expiresAt = rec.ExpiresAt
}

// Login adopts identity and token with a fresh expiry and persists the full record.
// If the Store rejects the record the manager stays logged out.
func (m *Manager) Login(ctx context.Context, identity Identity, accessToken string) {
	rec := Record{
		Identity:    identity,
		AccessToken: accessToken,
		ExpiresAt:   m.now().Add(m.ttl).Truncate(time.Millisecond),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.bootstrapped = true

	if err := m.store.Save(ctx, rec); err != nil {
		log.Errorf("Failed to persist session of %s %s: %s", identity.Role, identity.IdentityID, err)
		m.reset()
		if err = m.store.Clear(ctx); err != nil {
			log.Errorf("Failed to clear session: %s", err)
		}
		return
	}
	m.identity = &identity
	m.accessToken = accessToken
	m.expiresAt = rec.ExpiresAt
}

func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
	if err := m.store.Clear(ctx); err != nil {
		log.Errorf("Failed to clear session: %s", err)
	}
}

func (m *Manager) reset() {
	m.identity = nil
	m.accessToken = ""
	m.expiresAt = time.Time{}
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.identity != nil
}

func (m *Manager) Bootstrapped() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bootstrapped
}

// Identity returns the current identity and whether there is one.
func (m *Manager) Identity() (Identity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.identity == nil {
		return Identity{}, false
	}
	return *m.identity, true
}

func (m *Manager) Role() Role {
	identity, _ := m.Identity()
	return identity.Role
}

func (m *Manager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.accessToken
}

func (m *Manager) ExpiresAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.expiresAt
}

// Expired reports whether a held session has passed its expiry. It does not mutate state.
func (m *Manager) Expired() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.identity != nil && m.now().After(m.expiresAt)
}

// Snapshot is a consistent read of the manager state.
type Snapshot struct {
	Bootstrapped  bool
	Authenticated bool
	Identity      Identity
	ExpiresAt     time.Time
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := Snapshot{
		Bootstrapped: m.bootstrapped,
		ExpiresAt:    m.expiresAt,
	}
	if m.identity != nil {
		s.Authenticated = true
		s.Identity = *m.identity
	}
	return s
}

type managerCtxKey struct{}

func NewContext(ctx context.Context, m *Manager) context.Context {
	return context.WithValue(ctx, managerCtxKey{}, m)
}

// FromContext returns the manager bound to ctx, or nil.
func FromContext(ctx context.Context) *Manager {
	m, _ := ctx.Value(managerCtxKey{}).(*Manager)
	return m
}
