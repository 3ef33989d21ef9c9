package xone

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/arctica-ti/xone-sync/internal/config"
	"github.com/arctica-ti/xone-sync/internal/transform"
)

func newTestClient(collabURL, deptURL string) *Client {
	c := NewClient(config.XoneConfig{
		APIToken:  "test-token",
		CollabURL: collabURL,
		DeptURL:   deptURL,
		Lang:      "pt-BR",
	})
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	return c
}

func makeCollabs(n int) []transform.Collaborator {
	out := make([]transform.Collaborator, n)
	for i := range out {
		out[i] = transform.Collaborator{
			Username:    fmt.Sprintf("user-%d", i),
			DisplayName: fmt.Sprintf("User %d", i),
			Status:      true,
			Department:  "TI",
			WorkingDay:  transform.WorkingDayDefault,
			Email:       fmt.Sprintf("user-%d@corp.com", i),
		}
	}
	return out
}

func TestSendCollaborators_SingleCall(t *testing.T) {
	var calls int
	var gotAuth string
	var gotBody []transform.Collaborator

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	result := c.SendCollaborators(context.Background(), makeCollabs(10), 5000, false)

	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, 10, result.Successful)
	assert.Zero(t, result.Failed)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "test-token", gotAuth)
	assert.Len(t, gotBody, 10)
	assert.Equal(t, "user-0", gotBody[0].Username)
}

func TestSendCollaborators_BatchSplit(t *testing.T) {
	var sizes []int
	var firstUsernames []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var batch []transform.Collaborator
		require.NoError(t, json.NewDecoder(r.Body).Decode(&batch))
		sizes = append(sizes, len(batch))
		firstUsernames = append(firstUsernames, batch[0].Username)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	result := c.SendCollaborators(context.Background(), makeCollabs(12000), 5000, false)

	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, 12000, result.Successful)
	require.Equal(t, []int{5000, 5000, 2000}, sizes)
	// Chunks arrive in original order.
	assert.Equal(t, []string{"user-0", "user-5000", "user-10000"}, firstUsernames)
}

func TestSendCollaborators_PartialFailureContinues(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 2 {
			http.Error(w, "boom", http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	result := c.SendCollaborators(context.Background(), makeCollabs(250), 100, false)

	assert.Equal(t, StatusPartialError, result.Status)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 150, result.Successful)
	assert.Equal(t, 100, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "batch 2")
	assert.Contains(t, result.Errors[0], "502")
}

func TestSendCollaborators_ErrorSamplesCapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	result := c.SendCollaborators(context.Background(), makeCollabs(500), 100, false)

	assert.Equal(t, StatusPartialError, result.Status)
	assert.Equal(t, 500, result.Failed)
	assert.Len(t, result.Errors, maxErrSamples)
}

func TestSendCollaborators_SingleCallError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	result := c.SendCollaborators(context.Background(), makeCollabs(3), 5000, false)

	assert.Equal(t, StatusError, result.Status)
	assert.Equal(t, 3, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "401")
}

func TestSendCollaborators_DryRunMakesNoCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("dry run must not hit the API")
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	result := c.SendCollaborators(context.Background(), makeCollabs(7), 5000, true)

	assert.Equal(t, StatusDryRun, result.Status)
	assert.Equal(t, 7, result.Total)
}

func TestSendCollaborators_EmptyIsNoop(t *testing.T) {
	c := newTestClient("http://unused.invalid", "http://unused.invalid")
	result := c.SendCollaborators(context.Background(), nil, 5000, false)
	assert.Equal(t, StatusNoop, result.Status)
}

func TestSendCollaboratorsOneByOne(t *testing.T) {
	var calls int
	var bodies []map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var batch []map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&batch))
		require.Len(t, batch, 1)
		bodies = append(bodies, batch[0])
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	result := c.SendCollaboratorsOneByOne(context.Background(), makeCollabs(4), false)

	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, 4, result.Successful)
	assert.Equal(t, 4, calls)
	// The per-user endpoint variant takes no email field.
	for _, body := range bodies {
		assert.NotContains(t, body, "email")
		assert.Contains(t, body, "username")
		assert.Contains(t, body, "workingday")
	}
}

func TestSendCollaboratorsOneByOne_TalliesFailures(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls%2 == 0 {
			http.Error(w, "flaky", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	result := c.SendCollaboratorsOneByOne(context.Background(), makeCollabs(4), false)

	assert.Equal(t, StatusPartialError, result.Status)
	assert.Equal(t, 2, result.Successful)
	assert.Equal(t, 2, result.Failed)
	assert.NotEmpty(t, result.Errors)
}
