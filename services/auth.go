package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/juho05/log"

	"github.com/juho05/jobmatch/apiclient"
	"github.com/juho05/jobmatch/session"
)

type AuthService interface {
	Login(ctx context.Context, role session.Role, email, password string) error
	// Register creates an account and signs it in if the API returns a token. loggedIn
	// reports whether a session was started.
	Register(ctx context.Context, role session.Role, reg apiclient.Registration) (loggedIn bool, err error)
	GoogleLogin(ctx context.Context, credential string, role session.Role) error
	Logout(ctx context.Context) error
}

type authService struct {
	api API
}

func NewAuthService(api API) AuthService {
	return &authService{
		api: api,
	}
}

func (a *authService) Login(ctx context.Context, role session.Role, email, password string) error {
	m := session.FromContext(ctx)
	if m == nil {
		return session.ErrNoManager
	}
	auth, err := a.api.Login(ctx, role, apiclient.Credentials{
		Email:    strings.TrimSpace(email),
		Password: password,
	})
	if err != nil {
		return credentialErr("login", err)
	}
	return a.start(ctx, m, auth)
}

func (a *authService) Register(ctx context.Context, role session.Role, reg apiclient.Registration) (bool, error) {
	m := session.FromContext(ctx)
	if m == nil {
		return false, session.ErrNoManager
	}
	reg.Email = strings.TrimSpace(reg.Email)
	auth, err := a.api.Register(ctx, role, reg)
	if err != nil {
		return false, fmt.Errorf("register: %w", err)
	}
	if auth == nil {
		log.Tracef("Registered %s account without automatic sign-in", role)
		return false, nil
	}
	if err = a.start(ctx, m, *auth); err != nil {
		return false, err
	}
	return true, nil
}

func (a *authService) GoogleLogin(ctx context.Context, credential string, role session.Role) error {
	m := session.FromContext(ctx)
	if m == nil {
		return session.ErrNoManager
	}
	if credential == "" {
		return fmt.Errorf("google login: %w", ErrInvalidCredentials)
	}
	auth, err := a.api.GoogleAuth(ctx, credential, role)
	if err != nil {
		return credentialErr("google login", err)
	}
	return a.start(ctx, m, auth)
}

func (a *authService) start(ctx context.Context, m *session.Manager, auth apiclient.Auth) error {
	m.Login(ctx, auth.Identity, auth.AccessToken)
	if !m.IsAuthenticated() {
		return errors.New("session could not be stored")
	}
	log.Tracef("Signed in %s %s", auth.Identity.Role, auth.Identity.IdentityID)
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	m := session.FromContext(ctx)
	if m == nil {
		return session.ErrNoManager
	}
	m.Logout(ctx)
	return nil
}

// credentialErr reports rejected credentials as ErrInvalidCredentials.
func credentialErr(op string, err error) error {
	var statusErr *apiclient.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.Status {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			return fmt.Errorf("%s: %w: %w", op, ErrInvalidCredentials, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
