package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/juho05/jobmatch/session"
)

func (c *Client) Login(ctx context.Context, role session.Role, creds Credentials) (Auth, error) {
	req, err := jsonRequest(http.MethodPost, "/login/"+role.String(), "", creds)
	if err != nil {
		return Auth{}, err
	}
	var resp authResponse
	if err = c.do(ctx, req, &resp); err != nil {
		return Auth{}, fmt.Errorf("login: %w", err)
	}
	return resp.authFor(role)
}

// Register creates an account. The returned Auth is nil when the API does not sign the new
// account in right away.
func (c *Client) Register(ctx context.Context, role session.Role, reg Registration) (*Auth, error) {
	req, err := jsonRequest(http.MethodPost, "/register/"+role.String(), "", reg)
	if err != nil {
		return nil, err
	}
	var resp authResponse
	if err = c.do(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, nil
	}
	auth, err := resp.authFor(role)
	if err != nil {
		return nil, err
	}
	return &auth, nil
}

// GoogleAuth exchanges a Google ID token credential for an API access token.
func (c *Client) GoogleAuth(ctx context.Context, credential string, role session.Role) (Auth, error) {
	type body struct {
		Token    string `json:"token"`
		UserType string `json:"user_type"`
	}
	req, err := jsonRequest(http.MethodPost, "/auth/google", "", body{
		Token:    credential,
		UserType: role.String(),
	})
	if err != nil {
		return Auth{}, err
	}
	var resp authResponse
	if err = c.do(ctx, req, &resp); err != nil {
		return Auth{}, fmt.Errorf("google auth: %w", err)
	}
	return resp.authFor(role)
}

// authFor fills in the requested role when the API omits it from the response.
func (a authResponse) authFor(role session.Role) (Auth, error) {
	if a.UserType == "" && a.Role == "" {
		a.UserType = role.String()
	}
	return a.auth()
}

func (c *Client) Profile(ctx context.Context, token string) (*Profile, error) {
	var profile Profile
	err := c.do(ctx, request{method: http.MethodGet, path: "/profile/me", token: token}, &profile)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &profile, nil
}

func (c *Client) UpdateProfile(ctx context.Context, token string, update ProfileUpdate) (*Profile, error) {
	req, err := jsonRequest(http.MethodPut, "/profile/me", token, update)
	if err != nil {
		return nil, err
	}
	var profile Profile
	if err = c.do(ctx, req, &profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &profile, nil
}

func (c *Client) Jobs(ctx context.Context) ([]Job, error) {
	var jobs []Job
	if err := c.do(ctx, request{method: http.MethodGet, path: "/jobs"}, &jobs); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

func (c *Client) Job(ctx context.Context, id string) (*Job, error) {
	var job Job
	err := c.do(ctx, request{method: http.MethodGet, path: "/jobs/" + url.PathEscape(id)}, &job)
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}
	return &job, nil
}

func (c *Client) CreateJob(ctx context.Context, token string, job NewJob) (*Job, error) {
	req, err := jsonRequest(http.MethodPost, "/jobs", token, job)
	if err != nil {
		return nil, err
	}
	var created Job
	if err = c.do(ctx, req, &created); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return &created, nil
}

func (c *Client) Apply(ctx context.Context, token, jobID, coverLetter string) (*Application, error) {
	type body struct {
		CoverLetter string `json:"cover_letter"`
	}
	req, err := jsonRequest(http.MethodPost, "/jobs/"+url.PathEscape(jobID)+"/apply", token, body{CoverLetter: coverLetter})
	if err != nil {
		return nil, err
	}
	var app Application
	if err = c.do(ctx, req, &app); err != nil {
		return nil, fmt.Errorf("apply to job %s: %w", jobID, err)
	}
	return &app, nil
}

func (c *Client) MyApplications(ctx context.Context, token string) ([]Application, error) {
	var apps []Application
	err := c.do(ctx, request{method: http.MethodGet, path: "/applications/my", token: token}, &apps)
	if err != nil {
		return nil, fmt.Errorf("list own applications: %w", err)
	}
	return apps, nil
}

func (c *Client) CompanyApplications(ctx context.Context, token string) ([]Application, error) {
	var apps []Application
	err := c.do(ctx, request{method: http.MethodGet, path: "/applications/company", token: token}, &apps)
	if err != nil {
		return nil, fmt.Errorf("list company applications: %w", err)
	}
	return apps, nil
}

// UpdateApplicationStatus sends the new status form-encoded.
func (c *Client) UpdateApplicationStatus(ctx context.Context, token, applicationID, status string) error {
	form := url.Values{}
	form.Set("status", status)
	err := c.do(ctx, request{
		method:      http.MethodPut,
		path:        "/applications/" + url.PathEscape(applicationID) + "/status",
		token:       token,
		body:        bytes.NewBufferString(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	}, nil)
	if err != nil {
		return fmt.Errorf("update application %s status: %w", applicationID, err)
	}
	return nil
}

func (c *Client) UploadCV(ctx context.Context, token string, cv Upload) (*Profile, error) {
	if cv.Field == "" {
		cv.Field = "file"
	}
	var profile Profile
	if err := c.upload(ctx, "/upload-cv", token, &profile, cv); err != nil {
		return nil, fmt.Errorf("upload cv: %w", err)
	}
	return &profile, nil
}

func (c *Client) UploadPictures(ctx context.Context, token string, pictures ...Upload) (*Profile, error) {
	if len(pictures) == 0 {
		return nil, errors.New("upload pictures: no files")
	}
	var profile Profile
	if err := c.upload(ctx, "/profile/upload-pictures", token, &profile, pictures...); err != nil {
		return nil, fmt.Errorf("upload pictures: %w", err)
	}
	return &profile, nil
}

func (c *Client) upload(ctx context.Context, path, token string, target any, files ...Upload) error {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.Filename))
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)
		part, err := mw.CreatePart(header)
		if err != nil {
			return fmt.Errorf("create part %s: %w", f.Field, err)
		}
		if _, err = part.Write(f.Data); err != nil {
			return fmt.Errorf("write part %s: %w", f.Field, err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart body: %w", err)
	}
	return c.do(ctx, request{
		method:      http.MethodPost,
		path:        path,
		token:       token,
		body:        body,
		contentType: mw.FormDataContentType(),
	}, target)
}

func (c *Client) CompanyJobs(ctx context.Context, token string) ([]Job, error) {
	var jobs []Job
	err := c.do(ctx, request{method: http.MethodGet, path: "/company/jobs", token: token}, &jobs)
	if err != nil {
		return nil, fmt.Errorf("list company jobs: %w", err)
	}
	return jobs, nil
}

// TopCandidates returns the best matching applicants of a job, as ranked by the API.
func (c *Client) TopCandidates(ctx context.Context, token, jobID string) ([]Application, error) {
	var candidates []Application
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/jobs/" + url.PathEscape(jobID) + "/top-candidates",
		token:  token,
	}, &candidates)
	if err != nil {
		return nil, fmt.Errorf("top candidates of job %s: %w", jobID, err)
	}
	return candidates, nil
}

func (c *Client) ExtractJobSkills(ctx context.Context, token, description string) (ExtractedSkills, error) {
	type body struct {
		JobDescription string `json:"job_description"`
	}
	req, err := jsonRequest(http.MethodPost, "/extract-job-skills", token, body{JobDescription: description})
	if err != nil {
		return ExtractedSkills{}, err
	}
	var skills ExtractedSkills
	if err = c.do(ctx, req, &skills); err != nil {
		return ExtractedSkills{}, fmt.Errorf("extract job skills: %w", err)
	}
	return skills, nil
}

// TokenExpiry reads the exp claim of a JWT access token. The signature is not verified; the
// result is informational only. ok is false for opaque tokens or tokens without exp.
func TokenExpiry(token string) (exp time.Time, ok bool) {
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return time.Time{}, false
	}
	switch v := claims["exp"].(type) {
	case float64:
		return time.Unix(int64(v), 0), true
	default:
		return time.Time{}, false
	}
}
