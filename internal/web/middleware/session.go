// Package middleware provides HTTP middleware for the web server.
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/propdesk/leadbook/internal/lead"
)

type contextKey string

const userKey contextKey = "user"

// Session resolves the acting user from the session cookie and stores it
// in the request context. Requests without a valid cookie pass through
// with no user; handlers that require one reject them downstream.
func Session(cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err == nil {
				if id, perr := uuid.Parse(cookie.Value); perr == nil {
					ctx := context.WithValue(r.Context(), userKey, &lead.User{ID: id})
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFromContext returns the acting user, or nil when the request
// carried no valid session.
func UserFromContext(ctx context.Context) *lead.User {
	u, _ := ctx.Value(userKey).(*lead.User)
	return u
}
