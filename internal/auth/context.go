package auth

import (
	"context"
	"net/http"
)

type ctxKey string

const callerKey ctxKey = "caller"

// Caller is the identity resolved by the upstream auth layer. The engine
// never re-derives permissions from role strings; workflows branch on the
// explicit capability flags instead.
type Caller struct {
	UserID string
	Role   string

	// CanCompleteTransfersImmediately marks callers allowed to push stock
	// to a destination without the destination confirming receipt.
	CanCompleteTransfersImmediately bool
}

// privileged roles as resolved upstream
var privilegedRoles = map[string]bool{
	"admin":   true,
	"manager": true,
}

// FromHeaders builds a Caller from the identity headers set by the
// gateway (X-User-ID, X-Role).
func FromHeaders(r *http.Request) Caller {
	role := r.Header.Get("X-Role")
	return Caller{
		UserID:                          r.Header.Get("X-User-ID"),
		Role:                            role,
		CanCompleteTransfersImmediately: privilegedRoles[role],
	}
}

// Middleware attaches the resolved Caller to the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), callerKey, FromHeaders(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CallerFromContext returns the Caller attached by Middleware, or the
// zero Caller if none was set.
func CallerFromContext(ctx context.Context) Caller {
	if c, ok := ctx.Value(callerKey).(Caller); ok {
		return c
	}
	return Caller{}
}
