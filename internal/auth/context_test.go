package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromHeaders(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-User-ID", "u-1")
	r.Header.Set("X-Role", "cashier")

	caller := FromHeaders(r)
	assert.Equal(t, "u-1", caller.UserID)
	assert.Equal(t, "cashier", caller.Role)
	assert.False(t, caller.CanCompleteTransfersImmediately)

	r.Header.Set("X-Role", "manager")
	assert.True(t, FromHeaders(r).CanCompleteTransfersImmediately)

	r.Header.Set("X-Role", "admin")
	assert.True(t, FromHeaders(r).CanCompleteTransfersImmediately)
}

func TestMiddlewareAttachesCaller(t *testing.T) {
	var got Caller
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = CallerFromContext(r.Context())
	})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-User-ID", "u-2")
	r.Header.Set("X-Role", "admin")
	Middleware(next).ServeHTTP(httptest.NewRecorder(), r)

	require.Equal(t, "u-2", got.UserID)
	assert.True(t, got.CanCompleteTransfersImmediately)
}

func TestCallerFromContextZeroValue(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, Caller{}, CallerFromContext(r.Context()))
}
