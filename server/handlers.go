package server

import (
	"errors"
	"net/http"

	"github.com/jrsteele09/go-session-server/auth"
	autherrors "github.com/jrsteele09/go-session-server/internal/errors"
	"github.com/jrsteele09/go-session-server/internal/obs"
	"github.com/jrsteele09/go-session-server/internal/utils"
	"github.com/jrsteele09/go-session-server/principals"
)

// SignupHandler creates a user account. Admin accounts are only seeded from configuration.
func (s *Server) SignupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := decodeBody(r)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, MessageInvalidRequest)
			return
		}

		_, err = s.auth.SignUp(r.Context(), principals.RoleUser, body.Username, body.Password)
		switch {
		case err == nil:
			writeMessage(w, http.StatusOK, MessageSuccessfully)
		case errors.Is(err, auth.PrincipalExistsErr):
			writeMessage(w, http.StatusBadRequest, MessageUsernameExisted)
		case errors.Is(err, principals.ErrInvalidCredentialInput):
			writeMessage(w, http.StatusBadRequest, MessageInvalidRequest)
		default:
			s.internalError(w, r, err, "signup failed")
		}
	}
}

// SigninHandler verifies the password and returns the principal with a fresh pair
func (s *Server) SigninHandler(role principals.RoleType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := decodeBody(r)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, MessageInvalidRequest)
			return
		}

		result, err := s.auth.SignIn(r.Context(), role, body.Username, body.Password)
		if err != nil {
			if errors.Is(err, auth.InvalidCredentialsErr) {
				writeMessage(w, http.StatusBadRequest, MessageIncorrectCredentials)
				return
			}
			s.internalError(w, r, err, "signin failed")
			return
		}

		writeJSON(w, http.StatusOK, apiResponse{
			Message: MessageSuccessfully,
			User: &userPayload{
				Role:               result.Principal.Role.String(),
				Username:           result.Principal.Username,
				UserID:             result.Principal.ID,
				AccessToken:        result.Tokens.AccessToken,
				RefreshAccessToken: result.Tokens.RefreshToken,
			},
		})
	}
}

// SignoutHandler clears the stored pair when the presented access token is the live one.
// It always answers successfully unless the store fails.
func (s *Server) SignoutHandler(role principals.RoleType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cred, err := CredentialFromRequest(r)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, MessageInvalidRequest)
			return
		}
		if err := s.auth.SignOut(r.Context(), role, cred); err != nil {
			s.internalError(w, r, err, "signout failed")
			return
		}
		writeMessage(w, http.StatusOK, MessageSuccessfully)
	}
}

// RefreshTokenHandler exchanges the live refresh token for a new pair
func (s *Server) RefreshTokenHandler(role principals.RoleType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cred, err := CredentialFromRequest(r)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, MessageInvalidRequest)
			return
		}

		pair, err := s.auth.Refresh(r.Context(), role, cred)
		if err != nil {
			if autherrors.Is(err, autherrors.ErrRotationDenied) {
				writeMessage(w, http.StatusBadRequest, MessageRefreshDenied)
				return
			}
			s.internalError(w, r, err, "refresh failed")
			return
		}

		writeJSON(w, http.StatusOK, apiResponse{
			Message:               MessageSuccessfully,
			NewAccessToken:        utils.Ptr(pair.AccessToken),
			NewRefreshAccessToken: utils.Ptr(pair.RefreshToken),
		})
	}
}

// MeHandler returns the principal behind the session placed in the context by RequireAuth or RequireAdmin
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFromContext(r.Context())
		if !ok {
			writeMessage(w, http.StatusForbidden, MessageUnauthorized)
			return
		}

		p, err := s.auth.GetPrincipal(r.Context(), session)
		if err != nil {
			if autherrors.Is(err, autherrors.ErrNotFound) {
				writeMessage(w, http.StatusForbidden, MessageUnauthorized)
				return
			}
			s.internalError(w, r, err, "load principal failed")
			return
		}

		writeJSON(w, http.StatusOK, apiResponse{
			Message: MessageSuccessfully,
			User: &userPayload{
				Role:     p.Role.String(),
				Username: p.Username,
				UserID:   p.ID,
			},
		})
	}
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	obs.WithTrace(r.Context(), s.logger).Error().Err(err).Str("path", r.URL.Path).Msg(msg)
	writeMessage(w, http.StatusInternalServerError, MessageFailed)
}
