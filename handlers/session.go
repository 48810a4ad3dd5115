package handlers

import (
	"net/http"
	"time"

	"github.com/juho05/jobmatch/access"
	"github.com/juho05/jobmatch/session"
)

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	d := h.Paths.Root(access.StateOf(session.FromContext(r.Context())))
	if d.Outcome != access.Redirect {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, d.Target, http.StatusSeeOther)
}

type sessionResponse struct {
	Authenticated bool       `json:"authenticated"`
	Role          string     `json:"role,omitempty"`
	IdentityID    string     `json:"identityId,omitempty"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	Home          string     `json:"home,omitempty"`
}

// sessionInfo reports the session state to scripts of the same origin. The access token
// never leaves the server.
func (h *Handler) sessionInfo(w http.ResponseWriter, r *http.Request) {
	s := access.StateOf(session.FromContext(r.Context()))
	if !s.Authenticated {
		respond(w, http.StatusOK, sessionResponse{})
		return
	}
	snapshot := session.FromContext(r.Context()).Snapshot()
	respond(w, http.StatusOK, sessionResponse{
		Authenticated: true,
		Role:          snapshot.Identity.Role.String(),
		IdentityID:    snapshot.Identity.IdentityID,
		ExpiresAt:     &snapshot.ExpiresAt,
		Home:          h.Paths.Home(snapshot.Identity.Role),
	})
}
