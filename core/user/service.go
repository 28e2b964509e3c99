package user

import (
	"context"

	"github.com/pkg/errors"

	"github.com/gradegator/dashboard/core"
	"github.com/gradegator/dashboard/core/client"
)

var errInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	client *client.Client
}

func NewService(c *client.Client) *Service {
	return &Service{client: c}
}

// Client exposes the underlying HTTP client so callers can capture the
// session cookies established by Login.
func (svc *Service) Client() *client.Client { return svc.client }

// Login establishes a backend session for the given credentials and returns
// the canonical identity. Bad credentials come back as a ValidationError;
// everything else propagates as received.
func (svc *Service) Login(ctx context.Context, creds Credentials) (User, error) {
	if err := creds.Validate(); err != nil {
		return User{}, err
	}

	// prime the cookie jar with a CSRF token for the login POST; a failed
	// probe just means the POST goes out without the header
	_, _ = svc.AuthStatus(ctx)

	if err := svc.client.Post(ctx, "/api-auth/login/", creds, nil); err != nil {
		switch core.APIErrorKind(err) {
		case core.KindAuth, core.KindValidation, core.KindForbidden:
			detail := errInvalidCredentials
			if apiErr, ok := errors.Cause(err).(*core.APIError); ok && apiErr.Detail != "" {
				detail = errors.New(apiErr.Detail)
			}
			return User{}, core.NewValidationError(detail)
		}
		return User{}, errors.Wrap(err, "logging in")
	}

	usr, err := svc.CurrentUser(ctx)
	if err != nil {
		return User{}, errors.Wrap(err, "fetching user after login")
	}
	if usr == nil {
		return User{}, core.NewValidationError(errInvalidCredentials)
	}
	return *usr, nil
}

// Logout ends the backend session. Callers treat it as best-effort; local
// session state must be cleared whether or not this call succeeds.
func (svc *Service) Logout(ctx context.Context) error {
	return svc.client.Post(ctx, "/api-auth/logout/", nil, nil)
}

// CurrentUser fetches the canonical identity. An unauthenticated session is
// expected and returns (nil, nil); any other failure propagates.
func (svc *Service) CurrentUser(ctx context.Context) (*User, error) {
	var usr User
	if err := svc.client.Get(ctx, "/current-user/", &usr); err != nil {
		if core.IsAuthError(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "fetching current user")
	}
	return &usr, nil
}

// Register creates a new account and returns the server's canonical record.
func (svc *Service) Register(ctx context.Context, data NewUser) (User, error) {
	if err := data.Validate(); err != nil {
		return User{}, err
	}

	// same CSRF priming as Login; registration happens on a cold jar too
	_, _ = svc.AuthStatus(ctx)

	var usr User
	if err := svc.client.Post(ctx, "/register/", data, &usr); err != nil {
		return User{}, errors.Wrap(err, "registering user")
	}
	return usr, nil
}

// AuthStatus probes session validity.
func (svc *Service) AuthStatus(ctx context.Context) (AuthStatus, error) {
	var status AuthStatus
	if err := svc.client.Get(ctx, "/auth-status/", &status); err != nil {
		if core.IsAuthError(err) {
			return AuthStatus{IsAuthenticated: false}, nil
		}
		return AuthStatus{}, errors.Wrap(err, "checking auth status")
	}
	return status, nil
}
