package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(map[string]int{"total": 3})
	}))
	defer srv.Close()

	c := New(srv.URL+"/", "tok-1", 0)
	var out struct{ Total int }
	err := c.Get(context.Background(), "/api/product/stats", url.Values{"a": {"1"}}, &out)

	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.Equal(t, "a=1", gotQuery)
	assert.Equal(t, 3, out.Total)
}

func TestClientOmitsAuthorizationWithoutToken(t *testing.T) {
	var hadAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadAuth = r.Header["Authorization"]
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := New(srv.URL, "", 0).Do(context.Background(), http.MethodDelete, "/api/product/p1", nil, nil)

	require.NoError(t, err)
	assert.False(t, hadAuth)
}

func TestClientStatusErrors(t *testing.T) {
	tests := []struct {
		name         string
		code         int
		unauthorized bool
	}{
		{name: "server error", code: http.StatusInternalServerError},
		{name: "not found", code: http.StatusNotFound},
		{name: "expired session", code: http.StatusUnauthorized, unauthorized: true},
		{name: "forbidden", code: http.StatusForbidden, unauthorized: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
			}))
			defer srv.Close()

			err := New(srv.URL, "", 0).Get(context.Background(), "/x", nil, &struct{}{})

			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.code, se.Code)
			assert.Equal(t, tt.unauthorized, errors.Is(err, ErrUnauthorized))
		})
	}
}

func TestClientMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	defer srv.Close()

	var out map[string]any
	err := New(srv.URL, "", 0).Get(context.Background(), "/x", nil, &out)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode GET /x")
}
