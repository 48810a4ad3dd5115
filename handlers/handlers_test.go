package handlers

import (
	"bytes"
	"encoding/json"
	"html"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juho05/jobmatch"
	"github.com/juho05/jobmatch/apiclient"
	"github.com/juho05/jobmatch/services"
)

// fakeAPI is an in-memory version of the remote job-matching API.
type fakeAPI struct {
	mu sync.Mutex

	jobs         []apiclient.Job
	applications []apiclient.Application
	// rejectToken makes every call authorized with this token fail with 401.
	rejectToken string

	applied  map[string]string
	statuses map[string]string
	uploads  int
	tokens   []string
}

func newFakeAPI() *fakeAPI {
	day := func(s string) apiclient.Timestamp {
		t, _ := time.Parse(time.DateOnly, s)
		return apiclient.Timestamp{Time: t}
	}
	return &fakeAPI{
		jobs: []apiclient.Job{
			{ID: "1", Title: "Backend Engineer", CompanyName: "Acme", Location: "Berlin", EmploymentType: "Full-time", Skills: []string{"Golang", "SQL"},
				IsActive: true, ApplicationCount: 1},
			{ID: "2", Title: "Product Designer", CompanyName: "Globex", Location: "Remote", EmploymentType: "Part-time", ApplicationCount: 2},
		},
		applications: []apiclient.Application{
			{ID: "7", JobID: "1", JobTitle: "Backend Engineer", CandidateName: "Zoe", Status: "pending", MatchScore: 91.5, AppliedAt: day("2024-05-01"),
				MatchedSkills: []apiclient.MatchedSkill{{CVSkill: "Go", JobSkill: "Golang"}, {CVSkill: "SQL", JobSkill: "SQL"}}, ExtraSkills: []string{"Kubernetes"}},
			{ID: "8", JobID: "2", JobTitle: "Product Designer", CandidateName: "Adam", Status: "approved", MatchScore: 40, AppliedAt: day("2024-05-02"),
				MatchedSkills: []apiclient.MatchedSkill{{CVSkill: "Go", JobSkill: "Go"}}},
			{ID: "9", JobID: "2", JobTitle: "Data Analyst", CandidateName: "Eve", Status: "rejected", MatchScore: 75, AppliedAt: day("2024-05-02"),
				MatchedSkills: []apiclient.MatchedSkill{{CVSkill: "SQL", JobSkill: "SQL"}}},
		},
		applied:  make(map[string]string),
		statuses: make(map[string]string),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// authorized records the bearer token of r and reports whether it is accepted.
func (f *fakeAPI) authorized(w http.ResponseWriter, r *http.Request) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	f.tokens = append(f.tokens, token)
	if token == "" || token == f.rejectToken {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
		return false
	}
	return true
}

func (f *fakeAPI) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login/{role}", func(w http.ResponseWriter, r *http.Request) {
		var creds apiclient.Credentials
		json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect email or password"})
			return
		}
		role := r.PathValue("role")
		writeJSON(w, http.StatusOK, map[string]any{"access_token": "tok-" + role, "user_id": 42, "user_type": role})
	})
	mux.HandleFunc("POST /register/{role}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]string{"message": "registered"})
	})
	mux.HandleFunc("GET /jobs", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, f.jobs)
	})
	mux.HandleFunc("GET /jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
		for _, j := range f.jobs {
			if j.ID.String() == r.PathValue("id") {
				writeJSON(w, http.StatusOK, j)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Job not found"})
	})
	mux.HandleFunc("POST /jobs/{id}/apply", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(w, r) {
			return
		}
		var body struct {
			CoverLetter string `json:"cover_letter"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.applied[r.PathValue("id")] = body.CoverLetter
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, apiclient.Application{ID: "10", JobID: apiclient.ID(r.PathValue("id")), Status: "pending"})
	})
	mux.HandleFunc("GET /applications/my", func(w http.ResponseWriter, r *http.Request) {
		if f.authorized(w, r) {
			writeJSON(w, http.StatusOK, f.applications)
		}
	})
	mux.HandleFunc("GET /applications/company", func(w http.ResponseWriter, r *http.Request) {
		if f.authorized(w, r) {
			writeJSON(w, http.StatusOK, f.applications)
		}
	})
	mux.HandleFunc("PUT /applications/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(w, r) {
			return
		}
		r.ParseForm()
		f.mu.Lock()
		f.statuses[r.PathValue("id")] = r.PostForm.Get("status")
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"message": "updated"})
	})
	mux.HandleFunc("GET /profile/me", func(w http.ResponseWriter, r *http.Request) {
		if f.authorized(w, r) {
			writeJSON(w, http.StatusOK, apiclient.Profile{ID: "42", Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace"})
		}
	})
	mux.HandleFunc("GET /company/jobs", func(w http.ResponseWriter, r *http.Request) {
		if f.authorized(w, r) {
			writeJSON(w, http.StatusOK, f.jobs)
		}
	})
	mux.HandleFunc("GET /jobs/{id}/top-candidates", func(w http.ResponseWriter, r *http.Request) {
		if f.authorized(w, r) {
			writeJSON(w, http.StatusOK, f.applications)
		}
	})
	mux.HandleFunc("POST /extract-job-skills", func(w http.ResponseWriter, r *http.Request) {
		if f.authorized(w, r) {
			writeJSON(w, http.StatusOK, apiclient.ExtractedSkills{Standardized: []string{"Go"}, Raw: []string{"Docker"}})
		}
	})
	mux.HandleFunc("POST /upload-cv", func(w http.ResponseWriter, r *http.Request) {
		if f.authorized(w, r) {
			f.mu.Lock()
			f.uploads++
			f.mu.Unlock()
			writeJSON(w, http.StatusOK, apiclient.Profile{ID: "42", CVFilePath: "gs://bucket/cv.pdf"})
		}
	})
	return mux
}

func newTestHandler(t *testing.T, api *fakeAPI) *Handler {
	t.Helper()
	srv := httptest.NewServer(api.routes())
	t.Cleanup(srv.Close)

	client, err := apiclient.New(srv.URL, apiclient.Options{Timeout: 5 * time.Second})
	require.NoError(t, err)
	renderer, err := NewRenderer(jobmatch.HTMLFS)
	require.NoError(t, err)

	sessionManager := scs.New()
	sessionManager.Store = memstore.New()

	h := NewHandler()
	h.SessionManager = sessionManager
	h.Renderer = renderer
	h.StaticFS = jobmatch.StaticFS
	h.SessionTTL = time.Hour
	h.AuthService = services.NewAuthService(client)
	h.ProfileService = services.NewProfileService(client, services.UploadLimits{MaxCVSize: 1 << 20, MaxPictureSize: 1 << 20, PictureSize: 256})
	h.JobService = services.NewJobService(client)
	h.ApplicationService = services.NewApplicationService(client)
	h.RegisterRoutes()
	return h
}

var csrfPattern = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

type response struct {
	status int
	header http.Header
	body   string
}

// browser keeps cookies and the last CSRF token between requests.
type browser struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
	csrf    string
	lang    string
}

func newBrowser(t *testing.T, h http.Handler) *browser {
	return &browser{t: t, handler: h, cookies: make(map[string]*http.Cookie)}
}

func (b *browser) do(req *http.Request) response {
	b.t.Helper()
	for _, c := range b.cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	rec := httptest.NewRecorder()
	b.handler.ServeHTTP(rec, req)
	res := rec.Result()
	defer res.Body.Close()
	for _, c := range res.Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	body, err := io.ReadAll(res.Body)
	require.NoError(b.t, err)
	if m := csrfPattern.FindSubmatch(body); m != nil {
		b.csrf = html.UnescapeString(string(m[1]))
	}
	return response{status: res.StatusCode, header: res.Header, body: string(body)}
}

func (b *browser) get(path string) response {
	b.t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if b.lang != "" {
		req.Header.Set("Accept-Language", b.lang)
	}
	return b.do(req)
}

func (b *browser) post(path string, form url.Values) response {
	b.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf_token", b.csrf)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) upload(path, field, filename string, data []byte) response {
	b.t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	require.NoError(b.t, mw.WriteField("csrf_token", b.csrf))
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(b.t, err)
	fw.Write(data)
	require.NoError(b.t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, path, buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return b.do(req)
}

func (b *browser) login(role string) {
	b.t.Helper()
	b.get("/login")
	res := b.post("/login", url.Values{"role": {role}, "email": {"ada@example.com"}, "password": {"secret"}})
	require.Equal(b.t, http.StatusSeeOther, res.status, res.body)
}

func assertRedirect(t *testing.T, res response, target string) {
	t.Helper()
	assert.Equal(t, http.StatusSeeOther, res.status)
	assert.Equal(t, target, res.header.Get("Location"))
}

func TestGuards(t *testing.T) {
	b := newBrowser(t, newTestHandler(t, newFakeAPI()))

	assertRedirect(t, b.get("/"), "/login")
	assertRedirect(t, b.get("/candidate/home"), "/login")
	assertRedirect(t, b.get("/company/jobs"), "/login")
	assert.Equal(t, http.StatusOK, b.get("/login").status)

	b.login("candidate")
	assertRedirect(t, b.get("/"), "/candidate/home")
	assertRedirect(t, b.get("/login"), "/candidate/home")
	assertRedirect(t, b.get("/signup"), "/candidate/home")
	assertRedirect(t, b.get("/company/home"), "/candidate/home")
	assertRedirect(t, b.get("/company/jobs/1/candidates"), "/candidate/home")

	res := b.get("/candidate/home")
	assert.Equal(t, http.StatusOK, res.status)
	assert.Contains(t, res.body, `action="/logout"`)
}

func TestLogin(t *testing.T) {
	t.Run("redirects to requested page", func(t *testing.T) {
		b := newBrowser(t, newTestHandler(t, newFakeAPI()))
		assertRedirect(t, b.get("/candidate/jobs"), "/login")
		b.get("/login")
		res := b.post("/login", url.Values{"role": {"candidate"}, "email": {"ada@example.com"}, "password": {"secret"}})
		assertRedirect(t, res, "/candidate/jobs")
	})

	t.Run("ignores requested page of other role", func(t *testing.T) {
		b := newBrowser(t, newTestHandler(t, newFakeAPI()))
		assertRedirect(t, b.get("/candidate/jobs"), "/login")
		b.get("/login")
		res := b.post("/login", url.Values{"role": {"company"}, "email": {"ada@example.com"}, "password": {"secret"}})
		assertRedirect(t, res, "/company/home")
	})

	t.Run("invalid credentials", func(t *testing.T) {
		b := newBrowser(t, newTestHandler(t, newFakeAPI()))
		b.get("/login")
		res := b.post("/login", url.Values{"role": {"candidate"}, "email": {"ada@example.com"}, "password": {"wrong"}})
		assert.Equal(t, http.StatusUnauthorized, res.status)
		assert.Contains(t, res.body, "Invalid credentials.")
		assert.Contains(t, res.body, `value="ada@example.com"`)
		assertRedirect(t, b.get("/candidate/home"), "/login")
	})

	t.Run("invalid fields", func(t *testing.T) {
		b := newBrowser(t, newTestHandler(t, newFakeAPI()))
		b.get("/login")
		res := b.post("/login", url.Values{"role": {"candidate"}, "email": {"no-email"}, "password": {"secret"}})
		assert.Equal(t, http.StatusUnprocessableEntity, res.status)
		assert.Contains(t, res.body, "email must be a valid email address")
	})

	t.Run("missing csrf token", func(t *testing.T) {
		b := newBrowser(t, newTestHandler(t, newFakeAPI()))
		b.get("/login")
		b.csrf = ""
		res := b.post("/login", url.Values{"role": {"candidate"}, "email": {"ada@example.com"}, "password": {"secret"}})
		assert.Equal(t, http.StatusBadRequest, res.status)
	})

	t.Run("google without csrf cookie", func(t *testing.T) {
		b := newBrowser(t, newTestHandler(t, newFakeAPI()))
		res := b.post("/auth/google?role=company", url.Values{"credential": {"jwt"}, "g_csrf_token": {"abc"}})
		assert.Equal(t, http.StatusBadRequest, res.status)
	})
}

func TestLogout(t *testing.T) {
	b := newBrowser(t, newTestHandler(t, newFakeAPI()))
	b.login("company")
	assert.Equal(t, http.StatusOK, b.get("/company/home").status)

	assertRedirect(t, b.post("/logout", nil), "/")
	assertRedirect(t, b.get("/company/home"), "/login")
	assertRedirect(t, b.get("/"), "/login")
}

func TestSessionExpiry(t *testing.T) {
	h := newTestHandler(t, newFakeAPI())
	h.SessionTTL = 300 * time.Millisecond
	b := newBrowser(t, h)
	b.login("candidate")
	assert.Equal(t, http.StatusOK, b.get("/candidate/home").status)

	time.Sleep(400 * time.Millisecond)
	assertRedirect(t, b.get("/candidate/home"), "/login")
}

func TestRejectedTokenEndsSession(t *testing.T) {
	api := newFakeAPI()
	api.rejectToken = "tok-candidate"
	b := newBrowser(t, newTestHandler(t, api))
	b.login("candidate")

	assertRedirect(t, b.get("/candidate/profile"), "/login")
	res := b.get("/login")
	assert.Equal(t, http.StatusOK, res.status)
	assert.Contains(t, res.body, "Your session has expired.")
}

func TestSignupWithoutToken(t *testing.T) {
	b := newBrowser(t, newTestHandler(t, newFakeAPI()))
	b.get("/signup?role=company")
	res := b.post("/signup", url.Values{
		"role":            {"company"},
		"name":            {"Acme"},
		"email":           {"hr@acme.test"},
		"password":        {"secret1"},
		"repeat_password": {"secret1"},
	})
	assertRedirect(t, res, "/login?role=company")

	res = b.get("/login?role=company")
	assert.Contains(t, res.body, "Registration successful.")
	assert.Contains(t, res.body, `value="hr@acme.test"`)
	assertRedirect(t, b.get("/company/home"), "/login")
}

func TestSignupValidation(t *testing.T) {
	b := newBrowser(t, newTestHandler(t, newFakeAPI()))
	b.get("/signup")
	res := b.post("/signup", url.Values{
		"role":            {"candidate"},
		"email":           {"ada@example.com"},
		"password":        {"secret1"},
		"repeat_password": {"other"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, res.status)
	assert.Contains(t, res.body, "first_name is a required field")
	assert.Contains(t, res.body, "repeat_password must be equal to Password")
}

func TestCandidateHome(t *testing.T) {
	b := newBrowser(t, newTestHandler(t, newFakeAPI()))
	b.login("candidate")

	res := b.get("/candidate/home?status=APPROVED")
	assert.Equal(t, http.StatusOK, res.status)
	assert.Contains(t, res.body, "Product Designer")
	assert.NotContains(t, res.body, "Backend Engineer")

	res = b.get("/candidate/home?date=2024-05-02")
	assert.Contains(t, res.body, "Product Designer")
	assert.Contains(t, res.body, "Data Analyst")
	assert.NotContains(t, res.body, "Backend Engineer")

	res = b.get("/candidate/home?date=yesterday")
	assert.Equal(t, http.StatusOK, res.status)
	assert.Contains(t, res.body, "Backend Engineer")
	assert.Contains(t, res.body, "Please enter a date in the format YYYY-MM-DD.")

	b.lang = "de-DE,de;q=0.9"
	res = b.get("/candidate/home?date=yesterday")
	assert.Equal(t, http.StatusOK, res.status)
	assert.Contains(t, res.body, "Bitte gib ein Datum im Format JJJJ-MM-TT ein.")
}

func TestJobBoard(t *testing.T) {
	b := newBrowser(t, newTestHandler(t, newFakeAPI()))
	b.login("candidate")

	res := b.get("/candidate/jobs?q=backend")
	assert.Equal(t, http.StatusOK, res.status)
	assert.Contains(t, res.body, "Backend Engineer")
	assert.NotContains(t, res.body, "Product Designer")

	res = b.get("/candidate/jobs?employment_type=part-time")
	assert.Contains(t, res.body, "Product Designer")
	assert.NotContains(t, res.body, "Backend Engineer")

	res = b.get("/candidate/jobs/404")
	assert.Equal(t, http.StatusNotFound, res.status)
	assert.Contains(t, res.body, "Job not found")
}

func TestApply(t *testing.T) {
	api := newFakeAPI()
	b := newBrowser(t, newTestHandler(t, api))
	b.login("candidate")

	res := b.get("/candidate/jobs/1")
	require.Equal(t, http.StatusOK, res.status)
	assert.Contains(t, res.body, "Backend Engineer")

	res = b.post("/candidate/jobs/1/apply", url.Values{"cover_letter": {"  Hire me  "}})
	assertRedirect(t, res, "/candidate/home")
	assert.Equal(t, "Hire me", api.applied["1"])
	assert.Contains(t, api.tokens, "tok-candidate")

	res = b.get("/candidate/home")
	assert.Contains(t, res.body, "Application submitted successfully!")
}

func TestUploadCV(t *testing.T) {
	api := newFakeAPI()
	b := newBrowser(t, newTestHandler(t, api))
	b.login("candidate")
	b.get("/candidate/profile")

	res := b.upload("/candidate/profile/cv", "cv", "cv.txt", []byte("plain text"))
	assert.Equal(t, http.StatusUnprocessableEntity, res.status)
	assert.Contains(t, res.body, "The file type is not supported.")
	assert.Equal(t, 0, api.uploads)

	res = b.upload("/candidate/profile/cv", "cv", "cv.pdf", []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n<<>>\nendobj\n"))
	assertRedirect(t, res, "/candidate/profile")
	assert.Equal(t, 1, api.uploads)
}

func TestCompanyHome(t *testing.T) {
	b := newBrowser(t, newTestHandler(t, newFakeAPI()))
	b.login("company")

	res := b.get("/company/home")
	require.Equal(t, http.StatusOK, res.status)
	assert.Less(t, strings.Index(res.body, "Zoe"), strings.Index(res.body, "Eve"))
	assert.Less(t, strings.Index(res.body, "Eve"), strings.Index(res.body, "Adam"))

	res = b.get("/company/home?skill=Go&sort=name")
	assert.Contains(t, res.body, "Zoe")
	assert.NotContains(t, res.body, "Eve")
	assert.Less(t, strings.Index(res.body, "Adam"), strings.Index(res.body, "Zoe"))
}

func TestUpdateApplicationStatus(t *testing.T) {
	api := newFakeAPI()
	b := newBrowser(t, newTestHandler(t, api))
	b.login("company")
	b.get("/company/home")

	assertRedirect(t, b.post("/company/applications/7/status", url.Values{"status": {"approved"}}), "/company/home")
	assert.Equal(t, "approved", api.statuses["7"])

	res := b.post("/company/applications/7/status", url.Values{"status": {"hired"}})
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "approved", api.statuses["7"])
}

func TestCompanyJobs(t *testing.T) {
	b := newBrowser(t, newTestHandler(t, newFakeAPI()))
	b.login("company")

	res := b.get("/company/jobs")
	require.Equal(t, http.StatusOK, res.status)
	assert.Contains(t, res.body, "/company/jobs/1/candidates")
	assert.Contains(t, res.body, `id="stat-total">2<`)
	assert.Contains(t, res.body, `id="stat-active">1<`)
	assert.Contains(t, res.body, `id="stat-inactive">1<`)
	assert.Contains(t, res.body, `id="stat-applications">3<`)
	assert.Contains(t, res.body, `class="chip active"`)
	assert.Contains(t, res.body, `class="chip inactive"`)

	res = b.post("/company/jobs/skills", url.Values{"description": {"  "}})
	assert.Equal(t, http.StatusUnprocessableEntity, res.status)
	assert.Contains(t, res.body, "Please enter a description first.")

	res = b.post("/company/jobs/skills", url.Values{"description": {"We write Go services in containers"}, "skills": {"go"}})
	assert.Equal(t, http.StatusOK, res.status)
	assert.Contains(t, res.body, `value="go, Docker"`)

	res = b.post("/company/jobs", url.Values{"title": {"SRE"}, "description": {"Keep it running"}, "location": {"Berlin"},
		"employment_type": {"Full-time"}, "experience_level": {"Senior"}, "salary_min": {"90000"}, "salary_max": {"60000"}})
	assert.Equal(t, http.StatusUnprocessableEntity, res.status)
	assert.Contains(t, res.body, "The minimum salary must not exceed the maximum salary.")

	res = b.get("/company/jobs/1/candidates?sort=name")
	assert.Equal(t, http.StatusOK, res.status)
	assert.Less(t, strings.Index(res.body, "Adam"), strings.Index(res.body, "Zoe"))
	assert.Contains(t, res.body, "Kubernetes")
}

func TestTopCandidatesSkillFilter(t *testing.T) {
	b := newBrowser(t, newTestHandler(t, newFakeAPI()))
	b.login("company")

	res := b.get("/company/jobs/1/candidates")
	require.Equal(t, http.StatusOK, res.status)
	assert.Contains(t, res.body, `name="skill" value="Go"`)
	assert.NotContains(t, res.body, `name="skill" value="Golang"`)

	res = b.get("/company/jobs/1/candidates?skill=Go")
	require.Equal(t, http.StatusOK, res.status)
	assert.Contains(t, res.body, "Zoe</h2>")
	assert.Contains(t, res.body, "Adam</h2>")
	assert.NotContains(t, res.body, "Eve</h2>")

	res = b.get("/company/jobs/1/candidates?skill=Go&skill=SQL")
	require.Equal(t, http.StatusOK, res.status)
	assert.Contains(t, res.body, "Zoe</h2>")
	assert.NotContains(t, res.body, "Adam</h2>")
}

func TestSessionInfo(t *testing.T) {
	b := newBrowser(t, newTestHandler(t, newFakeAPI()))

	res := b.get("/session")
	require.Equal(t, http.StatusOK, res.status)
	assert.JSONEq(t, `{"error":false,"body":{"authenticated":false}}`, res.body)

	b.login("company")
	res = b.get("/session")
	var payload struct {
		Body sessionResponse `json:"body"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.body), &payload))
	assert.True(t, payload.Body.Authenticated)
	assert.Equal(t, "company", payload.Body.Role)
	assert.Equal(t, "42", payload.Body.IdentityID)
	assert.Equal(t, "/company/home", payload.Body.Home)
	assert.NotContains(t, res.body, "tok-company")
}

func TestStatic(t *testing.T) {
	b := newBrowser(t, newTestHandler(t, newFakeAPI()))
	res := b.get("/static/style.css")
	assert.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "max-age=86400", res.header.Get("Cache-Control"))
}
