package testutil

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/gradegator/dashboard/core"
	"github.com/gradegator/dashboard/core/user"
)

// NewConfig returns a test configuration pointed at the given backend URL.
func NewConfig(apiBaseURL string) *core.Config {
	conf := &core.Config{
		Debug:     true,
		TestMode:  true,
		Env:       "TEST",
		AppName:   "Grade Gator",
		Build:     "test",
		SecretKey: "test-secret-key",
	}
	conf.Server.SessionName = "gator_session"
	conf.Server.SessionTTL = time.Hour
	conf.Server.TemplatesDir = filepath.Join("apps", "web", "templates")
	conf.API.BaseURL = apiBaseURL
	conf.Uploads.MaxSubmissionSize = 50 << 20
	conf.Uploads.MaxRubricSize = 10 << 20
	return conf
}

// NewUser builds a canonical identity record for tests.
func NewUser(id int, uname string, instructor, student bool) user.User {
	usr := user.User{
		ID:           id,
		Username:     uname,
		Email:        uname + "@test.cd",
		IsInstructor: instructor,
		IsStudent:    student,
	}
	if instructor {
		usr.Instructor = &user.Instructor{ID: id * 10, InstructorID: "I-" + uname, Name: uname, Department: "CS"}
	}
	if student {
		usr.Student = &user.Student{ID: id * 10, StudentID: "S-" + uname, Name: uname}
	}
	return usr
}

// AuthBackend fakes the upstream accounts API: session cookies, the CSRF
// cookie/header contract and the identity endpoints. Resource endpoints are
// added through Mux.
type AuthBackend struct {
	Mux *http.ServeMux

	mu       sync.Mutex
	users    map[string]user.User // username -> identity
	pwds     map[string]string    // username -> password
	sessions map[string]string    // session token -> username
	n        int
}

func NewAuthBackend() *AuthBackend {
	b := &AuthBackend{
		Mux:      http.NewServeMux(),
		users:    make(map[string]user.User),
		pwds:     make(map[string]string),
		sessions: make(map[string]string),
	}
	b.Mux.HandleFunc("/api/auth-status/", b.authStatus)
	b.Mux.HandleFunc("/api/api-auth/login/", b.login)
	b.Mux.HandleFunc("/api/api-auth/logout/", b.logout)
	b.Mux.HandleFunc("/api/current-user/", b.currentUser)
	return b
}

func (b *AuthBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.ensureCSRFCookie(w, r)
	if isMutating(r.Method) && !b.checkCSRF(r) {
		writeJSON(w, http.StatusForbidden, map[string]string{"detail": "CSRF Failed: CSRF token missing or incorrect."})
		return
	}
	b.Mux.ServeHTTP(w, r)
}

// AddUser registers an account the backend will authenticate.
func (b *AuthBackend) AddUser(usr user.User, pwd string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[usr.Username] = usr
	b.pwds[usr.Username] = pwd
}

// CurrentUser resolves the identity bound to the request's session cookie.
func (b *AuthBackend) CurrentUser(r *http.Request) (user.User, bool) {
	cookie, err := r.Cookie("sessionid")
	if err != nil {
		return user.User{}, false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	uname, ok := b.sessions[cookie.Value]
	if !ok {
		return user.User{}, false
	}
	return b.users[uname], true
}

func (b *AuthBackend) authStatus(w http.ResponseWriter, r *http.Request) {
	_, ok := b.CurrentUser(r)
	writeJSON(w, http.StatusOK, user.AuthStatus{IsAuthenticated: ok})
}

func (b *AuthBackend) login(w http.ResponseWriter, r *http.Request) {
	var creds user.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid body"})
		return
	}

	b.mu.Lock()
	pwd, ok := b.pwds[creds.Username]
	if !ok || pwd != creds.Password {
		b.mu.Unlock()
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Unable to log in with provided credentials."})
		return
	}
	b.n++
	token := "sess-" + creds.Username + "-" + strconv.Itoa(b.n)
	b.sessions[token] = creds.Username
	b.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: token, Path: "/"})
	writeJSON(w, http.StatusOK, map[string]string{"detail": "ok"})
}

func (b *AuthBackend) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("sessionid"); err == nil {
		b.mu.Lock()
		delete(b.sessions, cookie.Value)
		b.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "", Path: "/", MaxAge: -1})
	writeJSON(w, http.StatusOK, map[string]string{"detail": "ok"})
}

func (b *AuthBackend) currentUser(w http.ResponseWriter, r *http.Request) {
	usr, ok := b.CurrentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
		return
	}
	writeJSON(w, http.StatusOK, usr)
}

func (b *AuthBackend) ensureCSRFCookie(w http.ResponseWriter, r *http.Request) {
	if _, err := r.Cookie("csrftoken"); err != nil {
		http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "csrf-test-token", Path: "/"})
	}
}

func (b *AuthBackend) checkCSRF(r *http.Request) bool {
	cookie, err := r.Cookie("csrftoken")
	if err != nil {
		return false
	}
	return r.Header.Get("X-CSRFToken") == cookie.Value
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// WriteJSON writes v as a JSON response, for tests registering extra
// endpoints on Mux.
func WriteJSON(w http.ResponseWriter, code int, v interface{}) {
	writeJSON(w, code, v)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
