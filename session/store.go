package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/alexedwards/scs/v2"
	"github.com/juho05/log"
)

// Store is a single durable slot holding one serialized Record.
//
// Load never fails: an empty slot and malformed data both report absent.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Load(ctx context.Context) (Record, bool)
	Clear(ctx context.Context) error
}

// DefaultSlotKey is the key of the session record inside a scs session.
const DefaultSlotKey = "auth"

// SlotStore keeps the record under one key of the scs session bound to the request context.
// The scs LoadAndSave middleware must run before any of its methods are called.
type SlotStore struct {
	sessionManager *scs.SessionManager
	key            string
}

func NewSlotStore(sessionManager *scs.SessionManager, key string) *SlotStore {
	if key == "" {
		key = DefaultSlotKey
	}
	return &SlotStore{
		sessionManager: sessionManager,
		key:            key,
	}
}

func (s *SlotStore) Save(ctx context.Context, rec Record) (err error) {
	data, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	defer recoverSlot("save", &err)
	s.sessionManager.Put(ctx, s.key, data)
	return nil
}

func (s *SlotStore) Load(ctx context.Context) (rec Record, ok bool) {
	var err error
	defer func() {
		if err != nil {
			log.Errorf("Session slot unavailable: %s", err)
			rec, ok = Record{}, false
		}
	}()
	defer recoverSlot("load", &err)

	data := s.sessionManager.GetBytes(ctx, s.key)
	if len(data) == 0 {
		return Record{}, false
	}
	rec, err = decodeRecord(data)
	if err != nil {
		log.Tracef("Ignoring malformed session slot: %s", err)
		err = nil
		return Record{}, false
	}
	return rec, true
}

func (s *SlotStore) Clear(ctx context.Context) (err error) {
	defer recoverSlot("clear", &err)
	s.sessionManager.Remove(ctx, s.key)
	return nil
}

// scs panics when the context carries no session data.
func recoverSlot(op string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("session slot %s: %v", op, r)
	}
}

// MemoryStore is an in-process slot. It stores the encoded form so that Load exercises
// the same decoding path as the durable stores.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(ctx context.Context, rec Record) error {
	data, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	return nil
}

func (m *MemoryStore) Load(ctx context.Context) (Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.data) == 0 {
		return Record{}, false
	}
	rec, err := decodeRecord(m.data)
	if err != nil {
		return Record{}, false
	}
	return rec, true
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}

// SetRaw replaces the slot contents without validation.
func (m *MemoryStore) SetRaw(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
}

// Raw returns a copy of the slot contents.
func (m *MemoryStore) Raw() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil
	}
	return append([]byte(nil), m.data...)
}
