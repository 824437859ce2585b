package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/hopitalsej/sejour/internal/common"
	"github.com/hopitalsej/sejour/internal/server/auth"
)

type ctxKey string

const sessionKey ctxKey = "session"

// SessionFromContext returns the identity the session guard attached to the
// request, or nil when the request did not pass through the guard.
func SessionFromContext(ctx context.Context) *auth.Session {
	s, _ := ctx.Value(sessionKey).(*auth.Session)
	return s
}

// sessionGuard wraps every protected route. A missing or garbled
// Authorization header yields 401 (no identity asserted); a present but
// invalid or expired token yields 403, which tells the client to clear its
// stored session rather than retry. The decision is terminal per request.
func (s *Server) sessionGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		if header == "" {
			s.writeError(w, r, common.ErrUnauthenticated)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != common.BearerPrefix {
			s.writeError(w, r, common.ErrUnauthenticated)
			return
		}

		session, err := auth.ParseToken(parts[1], s.secretKey)
		if err != nil {
			s.metrics.TokenRejected.Inc()
			s.writeError(w, r, common.ErrForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole gates a route on membership in the session's role set. The
// guard must run first; a request without a session is rejected outright.
func (s *Server) requireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := SessionFromContext(r.Context())
			if session == nil {
				s.writeError(w, r, common.ErrUnauthenticated)
				return
			}
			if !session.Roles.Has(role) {
				s.writeError(w, r, common.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
