package httpx

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/doorman/pkg/slogx"
)

// SessionLookup resolves a session token. It returns (nil, nil) when the token
// names no live session.
type SessionLookup[T any] func(ctx context.Context, token string) (*T, error)

// SessionMiddleware reads the session cookie and attaches the resolved session
// to the request context. Anonymous requests pass through untouched; deciding
// whether a session is required is left to the handler.
func SessionMiddleware[T any](cookie SessionCookie, lookup SessionLookup[T]) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := cookie.Read(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := lookup(r.Context(), token)
			if err != nil {
				slogx.FromContext(r.Context()).Error("session lookup failed", "error", err)
				WriteMessage(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			if sess == nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), sess)))
		})
	}
}
