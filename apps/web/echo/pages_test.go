package echoweb

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/gradegator/dashboard/core/submission"
	testutil "github.com/gradegator/dashboard/tests"
)

func TestDashboard(t *testing.T) {
	app := newTestApp(t)
	app.backend.AddUser(testutil.NewUser(1, "student1", false, true), "s3cr3t")
	registerCourseEndpoints(app.backend)
	app.login(t, "student1", "s3cr3t")

	body := assertPage(t, app.get(t, "/dashboard"), http.StatusOK, "Compilers", "Databases")
	if strings.Index(body, "Compilers") > strings.Index(body, "Past courses") {
		t.Error("current-term course rendered in the past section")
	}

	// the search box filters the past list only
	body = assertPage(t, app.get(t, "/dashboard?search=data"), http.StatusOK, "Databases")
	if strings.Contains(body[strings.Index(body, "Past courses"):], "Compilers") {
		t.Error("past list ignored the search filter")
	}
}

func TestCourseDetail_studentVsInstructor(t *testing.T) {
	app := newTestApp(t)
	app.backend.AddUser(testutil.NewUser(1, "student1", false, true), "s3cr3t")
	registerCourseEndpoints(app.backend)
	app.login(t, "student1", "s3cr3t")

	// hidden assignments never render for students
	body := assertPage(t, app.get(t, "/courses/5"), http.StatusOK, "Parser")
	if strings.Contains(body, "Type Checker") {
		t.Error("unreleased assignment rendered for a student")
	}

	app2 := newTestApp(t)
	app2.backend.AddUser(testutil.NewUser(2, "prof1", true, false), "s3cr3t")
	registerCourseEndpoints(app2.backend)
	app2.login(t, "prof1", "s3cr3t")

	assertPage(t, app2.get(t, "/courses/5"), http.StatusOK, "Parser", "Type Checker", "Create assignment")
}

func TestCourseCreate(t *testing.T) {
	app := newTestApp(t)
	app.backend.AddUser(testutil.NewUser(2, "prof1", true, false), "s3cr3t")
	registerCourseEndpoints(app.backend)
	app.login(t, "prof1", "s3cr3t")

	// missing required fields re-render the form
	res := app.postForm(t, "/courses/new", url.Values{"name": {"Compilers"}})
	assertPage(t, res, http.StatusBadRequest, "required")

	res = app.postForm(t, "/courses/new", url.Values{
		"name":       {"Compilers"},
		"number":     {"CS 4120"},
		"term":       {"Fall 2026"},
		"department": {"CS"},
	})
	assertRedirect(t, res, "/courses/7")
}

func TestCourseUpdate_backendRejection(t *testing.T) {
	app := newTestApp(t)
	app.backend.AddUser(testutil.NewUser(2, "prof1", true, false), "s3cr3t")
	registerCourseEndpoints(app.backend)
	app.login(t, "prof1", "s3cr3t")

	// the server's field messages come back on a 400 page, not a 500
	res := app.postForm(t, "/courses/5/edit", url.Values{"term": {"nope"}})
	assertPage(t, res, http.StatusBadRequest, "Enter a valid term.")

	res = app.postForm(t, "/courses/5/edit", url.Values{"term": {"Spring 2027"}})
	assertRedirect(t, res, "/courses/5")
}

func TestAssignmentDetail(t *testing.T) {
	app := newTestApp(t)
	app.backend.AddUser(testutil.NewUser(1, "student1", false, true), "s3cr3t")
	registerCourseEndpoints(app.backend)
	app.login(t, "student1", "s3cr3t")

	assertPage(t, app.get(t, "/assignments/3"), http.StatusOK, "Parser", "Submit work")

	app2 := newTestApp(t)
	app2.backend.AddUser(testutil.NewUser(2, "prof1", true, false), "s3cr3t")
	registerCourseEndpoints(app2.backend)
	app2.login(t, "prof1", "s3cr3t")

	body := assertPage(t, app2.get(t, "/assignments/3"), http.StatusOK, "Upload rubric", "Submissions")
	if strings.Contains(body, "Submit work") {
		t.Error("instructor view offers the student submit action")
	}
}

func TestSubmitUpload(t *testing.T) {
	app := newTestApp(t)
	app.backend.AddUser(testutil.NewUser(1, "student1", false, true), "s3cr3t")
	registerCourseEndpoints(app.backend)

	uploads := 0
	app.backend.Mux.HandleFunc("/api/upload/submission/", func(w http.ResponseWriter, r *http.Request) {
		uploads++
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("backend could not parse upload: %v", err)
		}
		if got := r.FormValue("student"); got != "10" {
			t.Errorf("student field = %s, want 10", got)
		}
		if got := r.FormValue("assignment"); got != "3" {
			t.Errorf("assignment field = %s, want 3", got)
		}
		testutil.WriteJSON(w, http.StatusCreated, submission.Submission{ID: 77, SubmissionFile: "hw1.pdf", Student: 10, Assignment: 3})
	})
	app.login(t, "student1", "s3cr3t")

	assertPage(t, app.get(t, "/assignments/3/submit"), http.StatusOK, "Parser", `name="submission_file"`)

	res := app.postUpload(t, "/assignments/3/submit", "submission_file", "hw1.pdf", []byte("pdf bytes"))
	assertPage(t, res, http.StatusOK, "Submission received")
	if uploads != 1 {
		t.Errorf("backend uploads = %d, want 1", uploads)
	}

	// an empty file field re-renders the form
	res = app.postUpload(t, "/assignments/3/submit", "unrelated_field", "x.pdf", []byte("x"))
	assertPage(t, res, http.StatusBadRequest, "no file selected")
	if uploads != 1 {
		t.Error("rejected upload still reached the backend")
	}
}

func TestRubricUpload_requiresZip(t *testing.T) {
	app := newTestApp(t)
	app.backend.AddUser(testutil.NewUser(2, "prof1", true, false), "s3cr3t")
	registerCourseEndpoints(app.backend)

	uploads := 0
	app.backend.Mux.HandleFunc("/api/upload/rubric/", func(w http.ResponseWriter, r *http.Request) {
		uploads++
		testutil.WriteJSON(w, http.StatusCreated, submission.Rubric{ID: 5, Instructor: 20, Assignment: 3})
	})
	app.login(t, "prof1", "s3cr3t")

	res := app.postUpload(t, "/assignments/3/rubric", "rubric_file", "rubric.pdf", []byte("not a zip"))
	assertPage(t, res, http.StatusBadRequest, "ZIP")
	if uploads != 0 {
		t.Error("non-zip rubric reached the backend")
	}

	res = app.postUpload(t, "/assignments/3/rubric", "rubric_file", "rubric.zip", []byte("zip bytes"))
	assertRedirect(t, res, "/assignments/3")
	if uploads != 1 {
		t.Errorf("backend uploads = %d, want 1", uploads)
	}
}

// postUpload sends a browser-style multipart form with a single file field.
func (a *testApp) postUpload(t *testing.T, path, field, filename string, content []byte) *http.Response {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("building multipart form: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("building multipart form: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("building multipart form: %v", err)
	}

	res, err := a.client.Post(a.srv.URL+path, w.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("POST %s failed: %v", path, err)
	}
	return res
}
