package echoweb

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gradegator/dashboard/core"
	"github.com/gradegator/dashboard/core/assignment"
	"github.com/gradegator/dashboard/core/course"
	"github.com/gradegator/dashboard/core/submission"
	logsvc "github.com/gradegator/dashboard/services/logger"
	inmemstore "github.com/gradegator/dashboard/storage/session/inmem"
	testutil "github.com/gradegator/dashboard/tests"
)

type testApp struct {
	srv     *httptest.Server
	backend *testutil.AuthBackend
	store   *inmemstore.Store
	conf    *core.Config
	client  *http.Client
}

func newTestApp(t *testing.T) *testApp {
	backend := testutil.NewAuthBackend()
	backendSrv := httptest.NewServer(backend)
	t.Cleanup(backendSrv.Close)

	conf := testutil.NewConfig(backendSrv.URL + "/api")
	store := inmemstore.NewStore(time.Hour)
	app := NewServer(&Options{
		DisableReqLogs: true,
		Conf:           conf,
		Logger:         logsvc.NewNopLogger(),
		SessionStore:   store,
	})
	srv := httptest.NewServer(app)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New() failed: %v", err)
	}
	return &testApp{
		srv:     srv,
		backend: backend,
		store:   store,
		conf:    conf,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse // assert on redirects, don't follow them
			},
		},
	}
}

func (a *testApp) get(t *testing.T, path string) *http.Response {
	res, err := a.client.Get(a.srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	return res
}

func (a *testApp) postForm(t *testing.T, path string, form url.Values) *http.Response {
	res, err := a.client.PostForm(a.srv.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s failed: %v", path, err)
	}
	return res
}

// login drives the real login flow so the test client ends up with a valid
// dashboard session cookie.
func (a *testApp) login(t *testing.T, username, password string) {
	res := a.postForm(t, "/login", url.Values{"username": {username}, "password": {password}})
	defer res.Body.Close()
	if res.StatusCode != http.StatusFound {
		t.Fatalf("login: status = %d, want %d (body: %s)", res.StatusCode, http.StatusFound, readBody(t, res))
	}
	if loc := res.Header.Get("Location"); loc != dashboardPath {
		t.Fatalf("login: redirected to %s, want %s", loc, dashboardPath)
	}
}

// sessionID extracts the store session id from the dashboard cookie the
// test client received on login.
func (a *testApp) sessionID(t *testing.T) string {
	srvURL, err := url.Parse(a.srv.URL)
	if err != nil {
		t.Fatalf("parsing server URL: %v", err)
	}
	for _, ck := range a.client.Jar.Cookies(srvURL) {
		if ck.Name != a.conf.Server.SessionName {
			continue
		}
		claims, err := parseToken(a.conf, ck.Value)
		if err != nil {
			t.Fatalf("parsing session cookie: %v", err)
		}
		return claims.SessionID
	}
	t.Fatal("no session cookie on the test client")
	return ""
}

// registerCourseEndpoints fakes the backend resource API with a small fixed
// data set.
func registerCourseEndpoints(backend *testutil.AuthBackend) {
	courses := []course.Course{
		{ID: 5, Name: "Compilers", Number: "CS 4120", Term: course.CurrentTerm(time.Now()), Department: "CS"},
		{ID: 6, Name: "Databases", Number: "CS 4320", Term: "Spring 2023", Department: "CS"},
	}
	assignments := []assignment.Assignment{
		{ID: 3, Title: "Parser", Course: 5, GradeMethod: assignment.GradePoints, DueDate: time.Now().Add(48 * time.Hour), IsVisibleToStudents: true},
		{ID: 4, Title: "Type Checker", Course: 5, GradeMethod: assignment.GradePoints, DueDate: time.Now().Add(96 * time.Hour)},
	}

	backend.Mux.HandleFunc("/api/courses/", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := backend.CurrentUser(r); !ok {
			testutil.WriteJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
			return
		}
		if r.URL.Path == "/api/courses/" {
			if r.Method == http.MethodPost {
				var data course.NewCourse
				if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
					testutil.WriteJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid body"})
					return
				}
				crs := course.Course{ID: 7, Name: data.Name, Number: data.Number, Term: data.Term, Department: data.Department}
				testutil.WriteJSON(w, http.StatusCreated, crs)
				return
			}
			testutil.WriteJSON(w, http.StatusOK, courses)
			return
		}
		for _, crs := range courses {
			if r.URL.Path != "/api/courses/"+strconv.Itoa(crs.ID)+"/" {
				continue
			}
			if r.Method == http.MethodPatch {
				var data course.UpdateCourse
				if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
					testutil.WriteJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid body"})
					return
				}
				// terms look like "Fall 2026"
				if data.Term != "" && !strings.Contains(data.Term, " ") {
					testutil.WriteJSON(w, http.StatusBadRequest, map[string][]string{"term": {"Enter a valid term."}})
					return
				}
				if data.Name != "" {
					crs.Name = data.Name
				}
				if data.Term != "" {
					crs.Term = data.Term
				}
				testutil.WriteJSON(w, http.StatusOK, crs)
				return
			}
			testutil.WriteJSON(w, http.StatusOK, crs)
			return
		}
		testutil.WriteJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
	})
	backend.Mux.HandleFunc("/api/assignments/", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := backend.CurrentUser(r); !ok {
			testutil.WriteJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
			return
		}
		if r.URL.Path == "/api/assignments/" {
			testutil.WriteJSON(w, http.StatusOK, assignments)
			return
		}
		for _, asg := range assignments {
			if r.URL.Path == "/api/assignments/"+strconv.Itoa(asg.ID)+"/" {
				testutil.WriteJSON(w, http.StatusOK, asg)
				return
			}
		}
		testutil.WriteJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
	})
	backend.Mux.HandleFunc("/api/submissions/", func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteJSON(w, http.StatusOK, []submission.Submission{})
	})
}

func readBody(t *testing.T, res *http.Response) string {
	body, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("reading response body: %v", err)
	}
	return string(body)
}

func assertRedirect(t *testing.T, res *http.Response, wantLocation string) {
	t.Helper()
	defer res.Body.Close()
	if res.StatusCode != http.StatusFound {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusFound)
	}
	if loc := res.Header.Get("Location"); loc != wantLocation {
		t.Errorf("redirected to %s, want %s", loc, wantLocation)
	}
}

func assertPage(t *testing.T, res *http.Response, wantCode int, wantContains ...string) string {
	t.Helper()
	defer res.Body.Close()
	body := readBody(t, res)
	if res.StatusCode != wantCode {
		t.Fatalf("status = %d, want %d (body: %s)", res.StatusCode, wantCode, body)
	}
	for _, want := range wantContains {
		if !strings.Contains(body, want) {
			t.Errorf("body does not contain %q", want)
		}
	}
	return body
}
