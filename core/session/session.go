// Package session holds the app-wide record of who is logged in and with
// what role. A Session snapshots the backend identity plus the cookies that
// authenticate against the API; a Store persists sessions across requests
// and restarts.
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/gradegator/dashboard/core/user"
)

var ErrNotFound = errors.New("session not found")

// Cookie is the serializable subset of http.Cookie a backend session needs.
type Cookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Domain   string    `json:"domain,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HTTPOnly bool      `json:"http_only,omitempty"`
}

// Session ties a dashboard visitor to a backend identity. User is a cached
// snapshot; the server copy always wins on reconciliation.
type Session struct {
	ID          string     `json:"id"`
	User        *user.User `json:"user"`
	Cookies     []Cookie   `json:"cookies"`
	CreatedAt   time.Time  `json:"created_at"`
	RefreshedAt time.Time  `json:"refreshed_at"`
}

// New mints a session for a freshly authenticated user.
func New(usr *user.User, cookies []*http.Cookie) Session {
	now := time.Now().UTC()
	return Session{
		ID:          uuid.New().String(),
		User:        usr,
		Cookies:     fromHTTPCookies(cookies),
		CreatedAt:   now,
		RefreshedAt: now,
	}
}

func (s *Session) IsAuthenticated() bool { return s != nil && s.User != nil }

func (s *Session) IsStaff() bool {
	return s.IsAuthenticated() && s.User.IsStaff
}

func (s *Session) IsInstructor() bool {
	return s.IsAuthenticated() && s.User.HasInstructorRole()
}

func (s *Session) IsStudent() bool {
	return s.IsAuthenticated() && s.User.HasStudentRole()
}

// SetCookies replaces the captured backend cookies, typically after the
// backend rotates its csrf or session cookie mid-session.
func (s *Session) SetCookies(cookies []*http.Cookie) {
	s.Cookies = fromHTTPCookies(cookies)
	s.RefreshedAt = time.Now().UTC()
}

// HTTPCookies rebuilds the jar cookies for a new client.
func (s *Session) HTTPCookies() []*http.Cookie {
	cookies := make([]*http.Cookie, 0, len(s.Cookies))
	for _, ck := range s.Cookies {
		cookies = append(cookies, &http.Cookie{
			Name:     ck.Name,
			Value:    ck.Value,
			Path:     ck.Path,
			Domain:   ck.Domain,
			Expires:  ck.Expires,
			Secure:   ck.Secure,
			HttpOnly: ck.HTTPOnly,
		})
	}
	return cookies
}

func fromHTTPCookies(cookies []*http.Cookie) []Cookie {
	out := make([]Cookie, 0, len(cookies))
	for _, ck := range cookies {
		out = append(out, Cookie{
			Name:     ck.Name,
			Value:    ck.Value,
			Path:     ck.Path,
			Domain:   ck.Domain,
			Expires:  ck.Expires,
			Secure:   ck.Secure,
			HTTPOnly: ck.HttpOnly,
		})
	}
	return out
}

// Store persists sessions. Implementations live in storage/session.
type Store interface {
	// GetSession returns ErrNotFound for unknown or expired ids.
	GetSession(ctx context.Context, id string) (Session, error)
	SaveSession(ctx context.Context, sess Session) error
	DeleteSession(ctx context.Context, id string) error
}
