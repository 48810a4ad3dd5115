package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/cors"
	"github.com/juho05/log"
	"github.com/justinas/nosurf"
	"github.com/sethvargo/go-limiter/httplimit"
	"github.com/sethvargo/go-limiter/memorystore"

	"github.com/juho05/jobmatch"
	"github.com/juho05/jobmatch/access"
	"github.com/juho05/jobmatch/config"
	"github.com/juho05/jobmatch/session"
)

type statusResponseWriter struct {
	http.ResponseWriter
	status int
}

func (s *statusResponseWriter) WriteHeader(code int) {
	if s.status >= 200 {
		return
	}
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusResponseWriter) Write(b []byte) (int, error) {
	if s.status < 200 {
		s.WriteHeader(http.StatusOK)
	}
	return s.ResponseWriter.Write(b)
}

func (s *statusResponseWriter) ReadFrom(r io.Reader) (int64, error) {
	if s.status < 200 {
		s.WriteHeader(http.StatusOK)
	}
	return io.Copy(s.ResponseWriter, r)
}

func logRequest(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		rw := &statusResponseWriter{ResponseWriter: w}
		start := time.Now()
		defer func() {
			u := *r.URL
			u.RawQuery = ""
			u.RawFragment = ""
			log.Tracef("%s %s, status: %d %s, duration: %s", r.Method, u.String(), rw.status, http.StatusText(rw.status), time.Since(start).String())
		}()
		next.ServeHTTP(rw, r)
	}
	return http.HandlerFunc(fn)
}

func recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if e, ok := err.(error); ok && errors.Is(e, http.ErrAbortHandler) {
					panic(err)
				}
				w.Header().Set("Connection", "close")
				serverError(w, fmt.Errorf("%v", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func csrf(next http.Handler) http.Handler {
	handler := nosurf.New(next)
	// Google posts the sign-in credential cross-site and protects it with its own
	// double-submit cookie (see googleAuth).
	handler.ExemptPath("/auth/google")
	handler.SetBaseCookie(http.Cookie{
		HttpOnly: true,
		Path:     "/",
		Secure:   strings.HasPrefix(config.BaseURL(), "https://"),
		SameSite: http.SameSiteLaxMode,
	})
	return handler
}

// loadSession binds a session.Manager, bootstrapped from the request's web session, to the
// request context.
func (h *Handler) loadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := session.NewManager(session.NewSlotStore(h.SessionManager, session.DefaultSlotKey), session.WithTTL(h.SessionTTL))
		ctx := session.NewContext(r.Context(), m)
		m.Bootstrap(ctx)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type chromeCtxKey struct{}

func (h *Handler) guard(decide func(st access.State, requested string) access.Decision) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := session.FromContext(r.Context())
			d := decide(access.StateOf(m), r.URL.Path)
			switch d.Outcome {
			case access.Suspend:
				w.WriteHeader(http.StatusNoContent)
			case access.Redirect:
				if d.Target == h.Paths.Login && r.Method == http.MethodGet {
					h.SessionManager.Put(r.Context(), "loginRedirect", r.URL.RequestURI())
				}
				http.Redirect(w, r, d.Target, http.StatusSeeOther)
			default:
				if d.Chrome {
					r = r.WithContext(context.WithValue(r.Context(), chromeCtxKey{}, true))
				}
				next.ServeHTTP(w, r)
			}
		})
	}
}

func (h *Handler) publicOnly(next http.Handler) http.Handler {
	return h.guard(h.Paths.PublicOnly)(next)
}

func (h *Handler) privateOnly(next http.Handler) http.Handler {
	return h.guard(h.Paths.PrivateOnly)(next)
}

func staticCache(maxAge time.Duration) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", int64(maxAge.Seconds())))
			w.Header().Set("Last-Modified", jobmatch.StartTime.Format(http.TimeFormat))
			if ifModSince, err := time.Parse(http.TimeFormat, r.Header.Get("If-Modified-Since")); err == nil && !ifModSince.Before(jobmatch.StartTime) {
				w.WriteHeader(http.StatusNotModified)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if config.GoogleClientID() != "" {
			w.Header().Set("Content-Security-Policy", "default-src 'self';img-src 'self' https://storage.googleapis.com;style-src 'self' https://accounts.google.com/gsi/style;frame-src 'self' https://accounts.google.com/gsi/;script-src 'self' https://accounts.google.com/gsi/client;connect-src 'self' https://accounts.google.com/gsi/;")
			w.Header().Set("Cross-Origin-Opener-Policy", "same-origin-allow-popups")
		} else {
			w.Header().Set("Content-Security-Policy", "default-src 'self';img-src 'self' https://storage.googleapis.com;style-src 'self';frame-src 'self';script-src 'self';connect-src 'self';")
			w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		}
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Permissions-Policy", "geolocation=(), camera=(), microphone=(), interest-cohort=()")
		w.Header().Set("Referrer-Policy", "same-origin")
		w.Header().Set("Cross-Origin-Resource-Policy", "same-site")
		next.ServeHTTP(w, r)
	})
}

func corsHeaders(next http.Handler) http.Handler {
	handler := cors.Handler(cors.Options{
		AllowedOrigins:   []string{config.BaseURL()},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowCredentials: true,
		MaxAge:           int((15 * time.Minute).Seconds()),
	})
	return handler(next)
}

func rateLimit(tokens int, interval time.Duration) func(next http.Handler) http.Handler {
	store, err := memorystore.New(&memorystore.Config{
		Tokens:   uint64(tokens),
		Interval: interval,
	})
	if err != nil {
		panic("init rate limit store: " + err.Error())
	}
	var headers []string
	if config.BehindProxy() {
		headers = append(headers, "X-Forwarded-For")
	}
	mware, err := httplimit.NewMiddleware(store, httplimit.IPKeyFunc(headers...))
	if err != nil {
		panic("init rate limit middleware: " + err.Error())
	}
	return mware.Handle
}
