package user_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gradegator/dashboard/core"
	"github.com/gradegator/dashboard/core/client"
	"github.com/gradegator/dashboard/core/user"
	testutil "github.com/gradegator/dashboard/tests"
)

func newTestService(t *testing.T) (*user.Service, *testutil.AuthBackend) {
	backend := testutil.NewAuthBackend()
	ts := httptest.NewServer(backend)
	t.Cleanup(ts.Close)

	c, err := client.New(testutil.NewConfig(ts.URL + "/api"))
	if err != nil {
		t.Fatalf("client.New() failed: %v", err)
	}
	return user.NewService(c), backend
}

func TestService_Login(t *testing.T) {
	svc, backend := newTestService(t)
	backend.AddUser(testutil.NewUser(1, "awesome1", false, true), "s3cr3t")

	// bad credentials come back as a validation error, not an API error
	_, err := svc.Login(context.Background(), user.Credentials{Username: "awesome1", Password: "nope"})
	var vErr *core.ValidationError
	if assert.ErrorAs(t, err, &vErr) {
		assert.Equal(t, "Unable to log in with provided credentials.", vErr.Error())
	}

	// empty form fails before any request
	_, err = svc.Login(context.Background(), user.Credentials{})
	assert.Error(t, err)

	usr, err := svc.Login(context.Background(), user.Credentials{Username: "awesome1", Password: "s3cr3t"})
	assert.NoError(t, err)
	assert.Equal(t, "awesome1", usr.Username)
	assert.True(t, usr.HasStudentRole())

	// the jar now carries the backend session; identity resolves directly
	got, err := svc.CurrentUser(context.Background())
	assert.NoError(t, err)
	if assert.NotNil(t, got) {
		assert.Equal(t, usr.ID, got.ID)
	}
}

func TestService_CurrentUser_unauthenticated(t *testing.T) {
	svc, _ := newTestService(t)

	usr, err := svc.CurrentUser(context.Background())
	assert.NoError(t, err, "a 401 is the expected logged-out answer, not an error")
	assert.Nil(t, usr)
}

func TestService_CurrentUser_serverError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(ts.Close)

	c, err := client.New(testutil.NewConfig(ts.URL + "/api"))
	if err != nil {
		t.Fatalf("client.New() failed: %v", err)
	}
	svc := user.NewService(c)

	_, err = svc.CurrentUser(context.Background())
	assert.Error(t, err, "non-auth failures must propagate")
	assert.Equal(t, core.KindServer, core.APIErrorKind(err))
}

func TestService_Logout(t *testing.T) {
	svc, backend := newTestService(t)
	backend.AddUser(testutil.NewUser(1, "awesome1", true, false), "s3cr3t")

	_, err := svc.Login(context.Background(), user.Credentials{Username: "awesome1", Password: "s3cr3t"})
	assert.NoError(t, err)

	assert.NoError(t, svc.Logout(context.Background()))

	usr, err := svc.CurrentUser(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, usr)
}

func TestService_AuthStatus(t *testing.T) {
	svc, backend := newTestService(t)
	backend.AddUser(testutil.NewUser(1, "awesome1", true, false), "s3cr3t")

	status, err := svc.AuthStatus(context.Background())
	assert.NoError(t, err)
	assert.False(t, status.IsAuthenticated)

	_, err = svc.Login(context.Background(), user.Credentials{Username: "awesome1", Password: "s3cr3t"})
	assert.NoError(t, err)

	status, err = svc.AuthStatus(context.Background())
	assert.NoError(t, err)
	assert.True(t, status.IsAuthenticated)
}
