// Package apiclient talks to the remote job-matching REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/juho05/log"
	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"
)

var (
	ErrTransport    = errors.New("api-transport")
	ErrUnauthorized = errors.New("api-unauthorized")
	ErrNotFound     = errors.New("api-not-found")
)

// StatusError is returned for every non-2xx response.
type StatusError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.Status, http.StatusText(e.Status), e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

type Options struct {
	Timeout time.Duration
	// RequestsPerSecond limits outgoing calls. Zero disables the limiter.
	RequestsPerSecond float64
	UserAgent         string
	HTTPClient        *http.Client
}

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
}

func New(baseURL string, opts Options) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse API base URL: %w", err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("API base URL %q is not absolute", baseURL)
	}
	c := &Client{
		baseURL:    u,
		httpClient: opts.HTTPClient,
		userAgent:  opts.UserAgent,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout: opts.Timeout,
		}
	}
	if c.userAgent == "" {
		c.userAgent = "jobmatch"
	}
	if opts.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return c, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.String() + "/" + strings.TrimPrefix(path, "/")
}

type request struct {
	method      string
	path        string
	token       string
	body        io.Reader
	contentType string
}

func jsonRequest(method, path, token string, payload any) (request, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return request{}, fmt.Errorf("encode %s %s: %w", method, path, err)
	}
	return request{
		method:      method,
		path:        path,
		token:       token,
		body:        bytes.NewReader(data),
		contentType: "application/json",
	}, nil
}

// do sends req and decodes a JSON response body into target, if target is non-nil.
func (c *Client) do(ctx context.Context, req request, target any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %s %s: %w", ErrTransport, req.method, req.path, err)
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.endpoint(req.path), req.body)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("X-Request-ID", ulid.Make().String())
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrTransport, req.method, req.path, err)
	}
	defer resp.Body.Close()
	log.Tracef("API %s %s, status: %d, duration: %s", req.method, req.path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Method:  req.method,
			Path:    req.path,
			Status:  resp.StatusCode,
			Message: errorMessage(resp.Body),
		}
	}

	if target == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode %s %s: %w", req.method, req.path, err)
	}
	return nil
}

// errorMessage extracts the human readable part of an error body. The API answers with
// {"message": ...}, {"detail": ...} or {"detail": [{"msg": ...}]}.
func errorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Message string          `json:"message"`
		Error   string          `json:"error"`
		Detail  json.RawMessage `json:"detail"`
	}
	if err = json.Unmarshal(data, &payload); err != nil {
		return strings.TrimSpace(string(data))
	}
	if payload.Message != "" {
		return payload.Message
	}
	if len(payload.Detail) > 0 {
		var detail string
		if json.Unmarshal(payload.Detail, &detail) == nil {
			return detail
		}
		var details []struct {
			Msg string `json:"msg"`
		}
		if json.Unmarshal(payload.Detail, &details) == nil {
			msgs := make([]string, 0, len(details))
			for _, d := range details {
				if d.Msg != "" {
					msgs = append(msgs, d.Msg)
				}
			}
			return strings.Join(msgs, "; ")
		}
	}
	return payload.Error
}
