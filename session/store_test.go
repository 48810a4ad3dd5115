package session

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord() Record {
	return Record{
		Identity:    Identity{Role: RoleCandidate, IdentityID: "42"},
		AccessToken: "tok123",
		ExpiresAt:   time.UnixMilli(1_700_003_600_000),
	}
}

func assertSameRecord(t *testing.T, want, got Record) {
	t.Helper()
	assert.Equal(t, want.Identity, got.Identity)
	assert.Equal(t, want.AccessToken, got.AccessToken)
	assert.Equal(t, want.ExpiresAt.UnixMilli(), got.ExpiresAt.UnixMilli())
}

func TestRecordJSON(t *testing.T) {
	data, err := encodeRecord(testRecord())
	require.NoError(t, err)
	assert.JSONEq(t, `{"identity":{"role":"candidate","identityId":"42"},"accessToken":"tok123","expiresAt":1700003600000}`, string(data))

	_, err = encodeRecord(Record{AccessToken: "x", ExpiresAt: time.Now()})
	assert.ErrorIs(t, err, ErrIncompleteRecord)

	_, err = decodeRecord([]byte(`{"identity":{"role":"candidate","identityId":"42"},"expiresAt":1}`))
	assert.ErrorIs(t, err, ErrIncompleteRecord)

	_, err = decodeRecord([]byte(`{"identity":{"role":"recruiter","identityId":"42"},"accessToken":"t","expiresAt":1}`))
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("Company")
	require.NoError(t, err)
	assert.Equal(t, RoleCompany, role)

	_, err = ParseRole("")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, ok := store.Load(ctx)
	assert.False(t, ok)

	require.NoError(t, store.Save(ctx, testRecord()))
	rec, ok := store.Load(ctx)
	require.True(t, ok)
	assertSameRecord(t, testRecord(), rec)

	require.NoError(t, store.Clear(ctx))
	_, ok = store.Load(ctx)
	assert.False(t, ok)
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "session.json")
		store := NewFileStore(path, "")

		_, ok := store.Load(ctx)
		assert.False(t, ok)

		require.NoError(t, store.Save(ctx, testRecord()))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

		rec, ok := store.Load(ctx)
		require.True(t, ok)
		assertSameRecord(t, testRecord(), rec)

		require.NoError(t, store.Clear(ctx))
		_, ok = store.Load(ctx)
		assert.False(t, ok)
		require.NoError(t, store.Clear(ctx))
	})

	t.Run("malformed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))
		_, ok := NewFileStore(path, "").Load(ctx)
		assert.False(t, ok)
	})

	t.Run("sealed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		store := NewFileStore(path, "correct horse")
		require.NoError(t, store.Save(ctx, testRecord()))

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.False(t, bytes.Contains(raw, []byte("tok123")))

		rec, ok := store.Load(ctx)
		require.True(t, ok)
		assertSameRecord(t, testRecord(), rec)

		_, ok = NewFileStore(path, "wrong").Load(ctx)
		assert.False(t, ok)
		_, ok = NewFileStore(path, "").Load(ctx)
		assert.False(t, ok)
	})
}

func TestSlotStore(t *testing.T) {
	sessionManager := scs.New()
	sessionManager.Store = memstore.New()
	store := NewSlotStore(sessionManager, "")

	ctx, err := sessionManager.Load(context.Background(), "")
	require.NoError(t, err)

	_, ok := store.Load(ctx)
	assert.False(t, ok)

	require.NoError(t, store.Save(ctx, testRecord()))
	rec, ok := store.Load(ctx)
	require.True(t, ok)
	assertSameRecord(t, testRecord(), rec)

	sessionManager.Put(ctx, DefaultSlotKey, []byte("{"))
	_, ok = store.Load(ctx)
	assert.False(t, ok)

	require.NoError(t, store.Clear(ctx))
	assert.False(t, sessionManager.Exists(ctx, DefaultSlotKey))
}

func TestSlotStoreWithoutSession(t *testing.T) {
	sessionManager := scs.New()
	store := NewSlotStore(sessionManager, "auth")
	ctx := context.Background()

	_, ok := store.Load(ctx)
	assert.False(t, ok)
	assert.Error(t, store.Save(ctx, testRecord()))
	assert.Error(t, store.Clear(ctx))

	m := NewManager(store)
	m.Login(ctx, Identity{Role: RoleCandidate, IdentityID: "42"}, "tok123")
	assert.False(t, m.IsAuthenticated())
}
