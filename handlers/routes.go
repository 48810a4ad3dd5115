package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) registerMiddlewares() {
	h.Router.Use(recoverPanic)
	h.Router.Use(middleware.RealIP)
	h.Router.Use(middleware.RequestID)
	h.Router.Use(middleware.Timeout(60 * time.Second))
	h.Router.Use(logRequest)
	h.Router.Use(securityHeaders)
}

func (h *Handler) RegisterRoutes() {
	if h.Router == nil {
		h.Router = chi.NewRouter()
	}
	h.registerMiddlewares()

	h.registerStaticRoutes()

	h.Router.With(corsHeaders, h.SessionManager.LoadAndSave, h.loadSession).Get("/session", h.sessionInfo)
	h.Router.Group(func(r chi.Router) {
		r.Use(h.SessionManager.LoadAndSave, csrf, h.loadSession)

		r.Get("/", h.root)
		r.Group(h.publicRoutes)
		r.With(h.privateOnly).Post("/logout", h.logout)
		r.With(h.privateOnly).Route("/candidate", h.candidateRoutes)
		r.With(h.privateOnly).Route("/company", h.companyRoutes)
	})
}

func (h *Handler) publicRoutes(r chi.Router) {
	r.Use(h.publicOnly)
	r.Get("/login", h.loginPage)
	r.With(rateLimit(10, time.Minute)).Post("/login", h.login)
	r.Get("/signup", h.signupPage)
	r.With(rateLimit(5, time.Minute)).Post("/signup", h.signup)
	r.With(rateLimit(10, time.Minute)).Post("/auth/google", h.googleAuth)
}

func (h *Handler) candidateRoutes(r chi.Router) {
	r.Get("/home", h.candidateHome)
	r.Get("/jobs", h.jobBoard)
	r.Get("/jobs/{id}", h.jobPage)
	r.Post("/jobs/{id}/apply", h.apply)
	r.Get("/profile", h.profilePage)
	r.Post("/profile", h.updateCandidateProfile)
	r.Post("/profile/cv", h.uploadCV)
	r.Post("/profile/pictures", h.uploadPicture)
}

func (h *Handler) companyRoutes(r chi.Router) {
	r.Get("/home", h.companyHome)
	r.Post("/applications/{id}/status", h.updateApplicationStatus)
	r.Get("/jobs", h.companyJobs)
	r.Post("/jobs", h.createJob)
	r.Post("/jobs/skills", h.extractSkills)
	r.Get("/jobs/{id}/candidates", h.topCandidates)
	r.Get("/profile", h.profilePage)
	r.Post("/profile", h.updateCompanyProfile)
}

func (h *Handler) registerStaticRoutes() {
	h.Router.With(staticCache(24*time.Hour)).Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(h.StaticFS))))
}
