package echoweb

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	testutil "github.com/gradegator/dashboard/tests"
)

func TestAccount_loginFlow(t *testing.T) {
	app := newTestApp(t)
	app.backend.AddUser(testutil.NewUser(1, "student1", false, true), "s3cr3t")
	registerCourseEndpoints(app.backend)

	// the login page renders for anonymous visitors
	assertPage(t, app.get(t, "/login"), http.StatusOK, "Log in")

	// wrong password re-renders the form with the backend's message and the
	// username preserved
	res := app.postForm(t, "/login", url.Values{"username": {"student1"}, "password": {"nope"}})
	assertPage(t, res, http.StatusBadRequest, "Unable to log in with provided credentials.", `value="student1"`)

	// missing fields fail client-side
	res = app.postForm(t, "/login", url.Values{"username": {""}, "password": {""}})
	assertPage(t, res, http.StatusBadRequest, "required")

	app.login(t, "student1", "s3cr3t")

	// the session now resolves; the dashboard renders and the login page
	// bounces straight back to it
	assertPage(t, app.get(t, "/dashboard"), http.StatusOK, "Compilers", "Databases")
	assertRedirect(t, app.get(t, "/login"), dashboardPath)
}

func TestAccount_logout(t *testing.T) {
	app := newTestApp(t)
	app.backend.AddUser(testutil.NewUser(1, "student1", false, true), "s3cr3t")
	registerCourseEndpoints(app.backend)
	app.login(t, "student1", "s3cr3t")

	sessionID := app.sessionID(t)
	assertRedirect(t, app.postForm(t, "/logout", nil), loginPath)

	// the store record is gone and the visitor is anonymous again
	if _, err := app.store.GetSession(context.Background(), sessionID); err == nil {
		t.Error("session still in store after logout")
	}
	assertRedirect(t, app.get(t, "/dashboard"), loginPath)
}

func TestAccount_signup(t *testing.T) {
	app := newTestApp(t)
	app.backend.Mux.HandleFunc("/api/register/", func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteJSON(w, http.StatusCreated, testutil.NewUser(9, "newstudent", false, true))
	})

	assertPage(t, app.get(t, "/signup"), http.StatusOK, "Sign up")

	// client-side validation failures re-render with field messages
	res := app.postForm(t, "/signup", url.Values{
		"username":              {"new"},
		"email":                 {"bad"},
		"first_name":            {"New"},
		"last_name":             {"Student"},
		"password":              {"G0od#pass"},
		"password_confirmation": {"G0od#pass"},
		"is_student":            {"true"},
	})
	assertPage(t, res, http.StatusBadRequest, "username", "email")

	res = app.postForm(t, "/signup", url.Values{
		"username":              {"newstudent"},
		"email":                 {"new@test.cd"},
		"first_name":            {"New"},
		"last_name":             {"Student"},
		"password":              {"G0od#pass"},
		"password_confirmation": {"G0od#pass"},
		"is_student":            {"true"},
	})
	assertRedirect(t, res, loginPath)
}
