package connectors

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
)

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient("Test", srv.Client()).WithRetry(3, time.Millisecond)

	var out struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, c.JSON(context.Background(), http.MethodGet, srv.URL, nil, nil, &out))
	assert.True(t, out.OK)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_GivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient("Test", srv.Client()).WithRetry(2, time.Millisecond)

	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, URL: srv.URL})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.Status)
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, domain.ErrUnauthorized},
		{http.StatusForbidden, domain.ErrUnauthorized},
		{http.StatusNotFound, domain.ErrNotFound},
		{http.StatusConflict, domain.ErrConflict},
		{http.StatusBadRequest, domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer srv.Close()

			_, err := NewClient("Test", srv.Client()).Do(context.Background(), Request{Method: http.MethodGet, URL: srv.URL})
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "Test API error")
		})
	}
}

func TestClient_JSONSendsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Basic abc", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	header := http.Header{}
	header.Set("Authorization", "Basic abc")
	err := NewClient("Test", srv.Client()).JSON(context.Background(), http.MethodPost, srv.URL, header, map[string]string{"a": "b"}, nil)
	assert.NoError(t, err)
}

func TestOAuthError(t *testing.T) {
	rejected := &oauth2.RetrieveError{
		Response:         &http.Response{StatusCode: http.StatusBadRequest},
		ErrorCode:        "invalid_grant",
		ErrorDescription: "authentication failure",
	}
	err := OAuthError("Salesforce", rejected)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Contains(t, err.Error(), "authentication failure")

	other := &oauth2.RetrieveError{Response: &http.Response{StatusCode: http.StatusInternalServerError}, Body: []byte("boom")}
	assert.ErrorIs(t, OAuthError("Salesforce", other), domain.ErrUpstream)

	assert.ErrorIs(t, OAuthError("Salesforce", errors.New("dial failed")), domain.ErrUpstream)
}
