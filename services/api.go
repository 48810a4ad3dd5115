package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/juho05/jobmatch/apiclient"
	"github.com/juho05/jobmatch/session"
)

// API is the part of the remote job-matching API the services depend on.
type API interface {
	Login(ctx context.Context, role session.Role, creds apiclient.Credentials) (apiclient.Auth, error)
	Register(ctx context.Context, role session.Role, reg apiclient.Registration) (*apiclient.Auth, error)
	GoogleAuth(ctx context.Context, credential string, role session.Role) (apiclient.Auth, error)

	Profile(ctx context.Context, token string) (*apiclient.Profile, error)
	UpdateProfile(ctx context.Context, token string, update apiclient.ProfileUpdate) (*apiclient.Profile, error)
	UploadCV(ctx context.Context, token string, cv apiclient.Upload) (*apiclient.Profile, error)
	UploadPictures(ctx context.Context, token string, pictures ...apiclient.Upload) (*apiclient.Profile, error)

	Jobs(ctx context.Context) ([]apiclient.Job, error)
	Job(ctx context.Context, id string) (*apiclient.Job, error)
	CreateJob(ctx context.Context, token string, job apiclient.NewJob) (*apiclient.Job, error)
	Apply(ctx context.Context, token, jobID, coverLetter string) (*apiclient.Application, error)
	CompanyJobs(ctx context.Context, token string) ([]apiclient.Job, error)
	TopCandidates(ctx context.Context, token, jobID string) ([]apiclient.Application, error)
	ExtractJobSkills(ctx context.Context, token, description string) (apiclient.ExtractedSkills, error)

	MyApplications(ctx context.Context, token string) ([]apiclient.Application, error)
	CompanyApplications(ctx context.Context, token string) ([]apiclient.Application, error)
	UpdateApplicationStatus(ctx context.Context, token, applicationID, status string) error
}

// accessToken returns the token of the session bound to ctx if its role is role.
func accessToken(ctx context.Context, role session.Role) (string, error) {
	m := session.FromContext(ctx)
	if m == nil {
		return "", session.ErrNoManager
	}
	identity, ok := m.Identity()
	if !ok {
		return "", ErrNotAuthenticated
	}
	if m.Expired() {
		m.Logout(ctx)
		return "", ErrNotAuthenticated
	}
	if identity.Role != role {
		return "", fmt.Errorf("%w: %s session cannot act as %s", ErrWrongRole, identity.Role, role)
	}
	return m.AccessToken(), nil
}

// apiErr ends the local session when the API rejects its token.
func apiErr(ctx context.Context, op string, err error) error {
	if errors.Is(err, apiclient.ErrUnauthorized) {
		if m := session.FromContext(ctx); m != nil {
			m.Logout(ctx)
		}
		return fmt.Errorf("%s: %w: %w", op, ErrNotAuthenticated, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Message returns the API's explanation of a failed call, if there is one.
func Message(err error) string {
	var statusErr *apiclient.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Message
	}
	return ""
}
