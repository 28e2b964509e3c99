package assignment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gradegator/dashboard/core"
	"github.com/gradegator/dashboard/core/client"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	conf := &core.Config{}
	conf.API.BaseURL = ts.URL + "/api"
	c, err := client.New(conf)
	if err != nil {
		t.Fatalf("client.New() failed: %v", err)
	}
	return NewService(c)
}

func TestService_ListByCourse(t *testing.T) {
	var gotQuery string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("course")
		// a misbehaving deployment: the course filter is ignored
		json.NewEncoder(w).Encode([]Assignment{
			{ID: 1, Title: "HW 1", Course: 5},
			{ID: 2, Title: "Essay", Course: 9},
			{ID: 3, Title: "HW 2", Course: 5},
		})
	})

	assignments, err := svc.ListByCourse(context.Background(), 5)
	assert.NoError(t, err)
	assert.Equal(t, "5", gotQuery)

	// foreign rows never leak through, whatever the server returned
	if assert.Len(t, assignments, 2) {
		assert.Equal(t, 1, assignments[0].ID)
		assert.Equal(t, 3, assignments[1].ID)
	}
}

func TestService_Create_validates(t *testing.T) {
	requests := 0
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		json.NewEncoder(w).Encode(Assignment{ID: 1})
	})

	// invalid: missing title, bad grade method
	_, err := svc.Create(context.Background(), NewAssignment{GradeMethod: "CLOWN", Course: 5})
	assert.Error(t, err)
	assert.Equal(t, 0, requests, "invalid form must not reach the server")

	_, err = svc.Create(context.Background(), NewAssignment{
		Title:       "HW 1",
		GradeMethod: GradePoints,
		DueDate:     time.Now().Add(24 * time.Hour),
		Course:      5,
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, requests)
}

func TestService_Get_notFound(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "Not found."}`))
	})

	_, err := svc.Get(context.Background(), 42)
	assert.True(t, core.IsNotFoundError(err), "want not_found, got %v", err)
}
