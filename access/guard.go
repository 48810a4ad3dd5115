// Package access decides navigation outcomes from the session state. All functions are pure.
package access

import (
	"path"
	"strings"

	"github.com/juho05/jobmatch/session"
)

type Outcome int

const (
	// Suspend renders nothing until the session is bootstrapped.
	Suspend Outcome = iota
	Render
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case Suspend:
		return "suspend"
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

type Decision struct {
	Outcome Outcome
	// Target is set for Redirect.
	Target string
	// Chrome is set when the persistent navigation is rendered around the content.
	Chrome bool
}

type State struct {
	Bootstrapped  bool
	Authenticated bool
	Role          session.Role
}

func StateOf(m *session.Manager) State {
	if m == nil {
		return State{}
	}
	s := m.Snapshot()
	return State{
		Bootstrapped:  s.Bootstrapped,
		Authenticated: s.Authenticated,
		Role:          s.Identity.Role,
	}
}

type Paths struct {
	Login         string
	CandidateHome string
	CompanyHome   string
}

func DefaultPaths() Paths {
	return Paths{
		Login:         "/login",
		CandidateHome: "/candidate/home",
		CompanyHome:   "/company/home",
	}
}

// Home returns the landing path of role. Anything but a company lands on the candidate home.
func (p Paths) Home(role session.Role) string {
	if role == session.RoleCompany {
		return p.CompanyHome
	}
	return p.CandidateHome
}

// Root decides the "/" route: the role's home when authenticated, the login page otherwise.
func (p Paths) Root(st State) Decision {
	if !st.Bootstrapped {
		return Decision{Outcome: Suspend}
	}
	if st.Authenticated {
		return Decision{Outcome: Redirect, Target: p.Home(st.Role)}
	}
	return Decision{Outcome: Redirect, Target: p.Login}
}

func (p Paths) PublicOnly(st State, requested string) Decision {
	if !st.Bootstrapped {
		return Decision{Outcome: Suspend}
	}
	if st.Authenticated {
		return redirect(requested, p.Home(st.Role), false)
	}
	return Decision{Outcome: Render}
}

func (p Paths) PrivateOnly(st State, requested string) Decision {
	if !st.Bootstrapped {
		return Decision{Outcome: Suspend}
	}
	if !st.Authenticated {
		return redirect(requested, p.Login, false)
	}
	if ns, ok := Namespace(requested); ok && ns != st.Role {
		return redirect(requested, p.Home(st.Role), true)
	}
	return Decision{Outcome: Render, Chrome: true}
}

// redirect degrades to Render when the target is the requested path so that repeated
// evaluation never loops.
func redirect(requested, target string, chrome bool) Decision {
	if cleanPath(requested) == cleanPath(target) {
		return Decision{Outcome: Render, Chrome: chrome}
	}
	return Decision{Outcome: Redirect, Target: target}
}

// Namespace returns the role owning the top-level segment of p.
func Namespace(p string) (session.Role, bool) {
	segment, _, _ := strings.Cut(strings.TrimPrefix(cleanPath(p), "/"), "/")
	role, err := session.ParseRole(segment)
	if err != nil {
		return session.RoleNone, false
	}
	return role, true
}

func cleanPath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "/"
	}
	return path.Clean("/" + p)
}
