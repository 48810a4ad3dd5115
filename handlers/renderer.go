package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"github.com/justinas/nosurf"

	"github.com/juho05/jobmatch/apiclient"
	"github.com/juho05/jobmatch/services"
	"github.com/juho05/jobmatch/session"
)

type templateData struct {
	Form        any
	Data        any
	FieldErrors map[string]string
	Errors      []string
	Flash       string
	CSRFToken   string
	Lang        string
	// Chrome renders the navigation of the signed-in area.
	Chrome         bool
	Session        session.Snapshot
	Role           string
	Home           string
	GoogleClientID string
	BaseURL        string
}

func (h *Handler) newTemplateData(r *http.Request) templateData {
	data := templateData{
		FieldErrors:    make(map[string]string),
		CSRFToken:      nosurf.Token(r),
		Lang:           services.GetLanguageFromAcceptLanguageHeader(r.Header.Get("Accept-Language")),
		GoogleClientID: h.GoogleClientID,
		BaseURL:        h.BaseURL,
	}
	data.Chrome, _ = r.Context().Value(chromeCtxKey{}).(bool)
	if m := session.FromContext(r.Context()); m != nil {
		data.Session = m.Snapshot()
		if data.Session.Authenticated {
			data.Role = data.Session.Identity.Role.String()
			data.Home = h.Paths.Home(data.Session.Identity.Role)
		}
	}
	if h.SessionManager != nil {
		data.Flash = h.SessionManager.PopString(r.Context(), "flash")
	}
	return data
}

func (h *Handler) newTemplateDataWithData(r *http.Request, data any) templateData {
	tmplData := h.newTemplateData(r)
	tmplData.Data = data
	return tmplData
}

type Renderer interface {
	render(w http.ResponseWriter, status int, page string, data templateData)
}

type renderer struct {
	templates map[string]*template.Template
}

func NewRenderer(htmlFS fs.FS) (Renderer, error) {
	renderer := &renderer{
		templates: make(map[string]*template.Template),
	}
	err := renderer.loadTemplates(htmlFS)
	if err != nil {
		return nil, err
	}
	return renderer, nil
}

func (r *renderer) render(w http.ResponseWriter, status int, page string, data templateData) {
	t, ok := r.templates[page]
	if !ok {
		serverError(w, fmt.Errorf("template %s does not exist", page))
		return
	}

	buf := &bytes.Buffer{}

	err := t.ExecuteTemplate(buf, "base", data)
	if err != nil {
		serverError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

var templateFuncs = template.FuncMap{
	"t": services.T,
	"date": func(t apiclient.Timestamp) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	},
	"percent": func(score float64) string {
		return fmt.Sprintf("%.1f%%", score)
	},
	"salary": func(lo, hi float64) string {
		switch {
		case lo > 0 && hi > 0:
			return fmt.Sprintf("%.0f - %.0f", lo, hi)
		case lo > 0:
			return fmt.Sprintf("%.0f+", lo)
		case hi > 0:
			return fmt.Sprintf("≤ %.0f", hi)
		}
		return ""
	},
	"join":     strings.Join,
	"contains": func(list []string, s string) bool {
		return slices.Contains(list, s)
	},
	"eqFold":   strings.EqualFold,
	"storage":  apiclient.PublicStorageURL,
	"inc": func(i int) int {
		return i + 1
	},
	"dict": func(pairs ...any) (map[string]any, error) {
		if len(pairs)%2 != 0 {
			return nil, errors.New("dict: odd number of arguments")
		}
		m := make(map[string]any, len(pairs)/2)
		for i := 0; i < len(pairs); i += 2 {
			key, ok := pairs[i].(string)
			if !ok {
				return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
			}
			m[key] = pairs[i+1]
		}
		return m, nil
	},
}

func (r *renderer) loadTemplates(htmlFS fs.FS) error {
	pages, err := fs.Glob(htmlFS, "pages/*.tmpl.html")
	if err != nil {
		return fmt.Errorf("find html pages: %w", err)
	}

	for _, page := range pages {
		name := strings.TrimSuffix(filepath.Base(page), ".tmpl.html")

		t, err := template.New(name).Funcs(templateFuncs).ParseFS(htmlFS, "base.tmpl.html")
		if err != nil {
			return fmt.Errorf("parse base.tmpl.html: %w", err)
		}

		t, err = t.ParseFS(htmlFS, "partials/*.tmpl.html")
		if err != nil {
			return fmt.Errorf("parse template partials: %w", err)
		}

		t, err = t.ParseFS(htmlFS, page)
		if err != nil {
			return fmt.Errorf("parse %s: %w", page, err)
		}

		r.templates[name] = t
	}

	return nil
}
