package handlers

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/juho05/jobmatch/access"
	"github.com/juho05/jobmatch/services"
)

type Handler struct {
	Router         chi.Router
	SessionManager *scs.SessionManager
	Renderer       Renderer
	StaticFS       fs.FS
	Paths          access.Paths
	SessionTTL     time.Duration
	BaseURL        string
	GoogleClientID string

	AuthService        services.AuthService
	ProfileService     services.ProfileService
	JobService         services.JobService
	ApplicationService services.ApplicationService
}

func NewHandler() *Handler {
	return &Handler{
		Paths: access.DefaultPaths(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Router.ServeHTTP(w, r)
}
