package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-session-server/auth"
	autherrors "github.com/jrsteele09/go-session-server/internal/errors"
	"github.com/jrsteele09/go-session-server/internal/obs"
	"github.com/jrsteele09/go-session-server/principals"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeySession stores the validated auth.Session
const ContextKeySession ContextKey = "session"

// SessionFromContext returns the session stored by RequireAuth or RequireAdmin
func SessionFromContext(ctx context.Context) (auth.Session, bool) {
	session, ok := ctx.Value(ContextKeySession).(auth.Session)
	return session, ok
}

// RequireAuth admits requests carrying the live, unexpired access token of a principal of the given role
func (s *Server) RequireAuth(role principals.RoleType) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			cred := auth.IncomingCredential{AccessToken: BearerToken(r)}
			session, err := s.auth.Authenticate(r.Context(), role, cred)
			if err != nil {
				s.writeAuthError(w, r, err)
				return
			}
			next(w, r.WithContext(context.WithValue(r.Context(), ContextKeySession, session)))
		}
	}
}

// RequireAdmin admits only valid admin sessions whose claims carry the admin role
func (s *Server) RequireAdmin() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			cred := auth.IncomingCredential{AccessToken: BearerToken(r)}
			session, err := s.auth.AuthenticateAdmin(r.Context(), cred)
			if err != nil {
				s.writeAuthError(w, r, err)
				return
			}
			next(w, r.WithContext(context.WithValue(r.Context(), ContextKeySession, session)))
		}
	}
}

func (s *Server) writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case autherrors.Is(err, autherrors.ErrTokenExpired):
		writeMessage(w, http.StatusBadRequest, MessageAccessTokenExpired)
	case autherrors.Is(err, autherrors.ErrUnauthenticated):
		writeMessage(w, http.StatusForbidden, MessageUnauthorized)
	case autherrors.Is(err, autherrors.ErrAccessDenied):
		writeMessage(w, http.StatusForbidden, MessageAdminResource)
	default:
		obs.WithTrace(r.Context(), s.logger).Error().Err(err).Str("path", r.URL.Path).Msg("authentication failed")
		writeMessage(w, http.StatusInternalServerError, MessageFailed)
	}
}
