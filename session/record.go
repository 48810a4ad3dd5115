package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrUnknownRole = errors.New("unknown-role")

// Role selects the API endpoints and the navigation namespace of an identity.
type Role int

const (
	RoleNone Role = iota
	RoleCandidate
	RoleCompany
)

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "candidate":
		return RoleCandidate, nil
	case "company":
		return RoleCompany, nil
	default:
		return RoleNone, fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

func (r Role) String() string {
	switch r {
	case RoleCandidate:
		return "candidate"
	case RoleCompany:
		return "company"
	default:
		return ""
	}
}

func (r Role) Valid() bool {
	return r == RoleCandidate || r == RoleCompany
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, ErrUnknownRole
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	role, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = role
	return nil
}

type Identity struct {
	Role       Role   `json:"role"`
	IdentityID string `json:"identityId"`
}

func (i Identity) Valid() bool {
	return i.Role.Valid() && i.IdentityID != ""
}

// Record is the durable tuple persisted in a Store. It is either absent or fully populated.
type Record struct {
	Identity    Identity  `json:"identity"`
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"-"`
}

type recordJSON struct {
	Identity    Identity `json:"identity"`
	AccessToken string   `json:"accessToken"`
	ExpiresAt   int64    `json:"expiresAt"`
}

func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		Identity:    r.Identity,
		AccessToken: r.AccessToken,
		ExpiresAt:   r.ExpiresAt.UnixMilli(),
	})
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var rec recordJSON
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	r.Identity = rec.Identity
	r.AccessToken = rec.AccessToken
	r.ExpiresAt = time.UnixMilli(rec.ExpiresAt)
	return nil
}

// Complete reports whether identity, token and expiry are all set.
func (r Record) Complete() bool {
	return r.Identity.Valid() && r.AccessToken != "" && r.ExpiresAt.UnixMilli() > 0
}

// ValidAt reports whether the record is complete and now <= ExpiresAt.
func (r Record) ValidAt(now time.Time) bool {
	return r.Complete() && !now.After(r.ExpiresAt)
}

func encodeRecord(rec Record) ([]byte, error) {
	if !rec.Complete() {
		return nil, ErrIncompleteRecord
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode session record: %w", err)
	}
	return data, nil
}

func decodeRecord(data []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("decode session record: %w", err)
	}
	if !rec.Complete() {
		return Record{}, ErrIncompleteRecord
	}
	return rec, nil
}
