package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/juho05/jobmatch/session"
)

var (
	anonymous = State{Bootstrapped: true}
	candidate = State{Bootstrapped: true, Authenticated: true, Role: session.RoleCandidate}
	company   = State{Bootstrapped: true, Authenticated: true, Role: session.RoleCompany}
)

func TestPublicOnly(t *testing.T) {
	p := DefaultPaths()

	assert.Equal(t, Decision{Outcome: Suspend}, p.PublicOnly(State{}, "/login"))
	assert.Equal(t, Decision{Outcome: Render}, p.PublicOnly(anonymous, "/login"))
	assert.Equal(t, Decision{Outcome: Redirect, Target: "/candidate/home"}, p.PublicOnly(candidate, "/login"))
	assert.Equal(t, Decision{Outcome: Redirect, Target: "/company/home"}, p.PublicOnly(company, "/signup"))
}

func TestPrivateOnly(t *testing.T) {
	p := DefaultPaths()

	t.Run("suspends before bootstrap", func(t *testing.T) {
		assert.Equal(t, Suspend, p.PrivateOnly(State{Authenticated: true, Role: session.RoleCompany}, "/company/home").Outcome)
	})

	t.Run("anonymous goes to login", func(t *testing.T) {
		assert.Equal(t, Decision{Outcome: Redirect, Target: "/login"}, p.PrivateOnly(anonymous, "/candidate/jobs"))
	})

	t.Run("own namespace renders with chrome", func(t *testing.T) {
		assert.Equal(t, Decision{Outcome: Render, Chrome: true}, p.PrivateOnly(candidate, "/candidate/jobs/12"))
		assert.Equal(t, Decision{Outcome: Render, Chrome: true}, p.PrivateOnly(company, "/company/jobs?sort=name"))
	})

	t.Run("other namespace redirects home", func(t *testing.T) {
		assert.Equal(t, Decision{Outcome: Redirect, Target: "/company/home"}, p.PrivateOnly(company, "/candidate/home"))
		assert.Equal(t, Decision{Outcome: Redirect, Target: "/candidate/home"}, p.PrivateOnly(candidate, "/company/jobs/3/candidates"))
	})

	t.Run("shared paths render", func(t *testing.T) {
		assert.Equal(t, Decision{Outcome: Render, Chrome: true}, p.PrivateOnly(candidate, "/logout"))
	})
}

func TestRedirectIdempotent(t *testing.T) {
	p := DefaultPaths()

	d := p.PrivateOnly(anonymous, "/login")
	assert.Equal(t, Render, d.Outcome)

	d = p.PrivateOnly(company, "/candidate/home")
	assert.Equal(t, Redirect, d.Outcome)
	assert.Equal(t, Decision{Outcome: Render, Chrome: true}, p.PrivateOnly(company, d.Target))
}

func TestRoot(t *testing.T) {
	p := DefaultPaths()
	assert.Equal(t, Suspend, p.Root(State{}).Outcome)
	assert.Equal(t, "/login", p.Root(anonymous).Target)
	assert.Equal(t, "/candidate/home", p.Root(candidate).Target)
	assert.Equal(t, "/company/home", p.Root(company).Target)
}

func TestNamespace(t *testing.T) {
	tests := []struct {
		path string
		role session.Role
		ok   bool
	}{
		{"/candidate/home", session.RoleCandidate, true},
		{"/company", session.RoleCompany, true},
		{"company/jobs", session.RoleCompany, true},
		{"/candidates", session.RoleNone, false},
		{"/", session.RoleNone, false},
		{"/static/../company/x", session.RoleCompany, true},
		{"", session.RoleNone, false},
	}
	for _, tt := range tests {
		role, ok := Namespace(tt.path)
		assert.Equal(t, tt.role, role, tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
	}
}

func TestStateOf(t *testing.T) {
	assert.Equal(t, State{}, StateOf(nil))

	m := session.NewManager(session.NewMemoryStore())
	assert.Equal(t, State{}, StateOf(m))

	m.Bootstrap(context.Background())
	assert.Equal(t, anonymous, StateOf(m))

	m.Login(context.Background(), session.Identity{Role: session.RoleCompany, IdentityID: "9"}, "t")
	assert.Equal(t, company, StateOf(m))
}
