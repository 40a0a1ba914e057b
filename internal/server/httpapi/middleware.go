package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmkoval/metools/internal/common"
	"github.com/dmkoval/metools/internal/server/auth"
)

// authedHandler is a handler for endpoints behind the request gate. The
// resolved user id is passed explicitly rather than smuggled through the
// request context.
type authedHandler func(w http.ResponseWriter, r *http.Request, userID string)

// requestToken extracts the session token, preferring the auth header over
// the cookie set at login.
func requestToken(r *http.Request) string {
	if token := r.Header.Get(common.AccessTokenHeaderName); token != "" {
		return token
	}
	if c, err := r.Cookie(common.TokenCookieName); err == nil {
		return c.Value
	}
	return ""
}

// authenticated is the request gate. It validates the session token, resolves
// the subject against the store, and rejects unverified accounts. Exactly one
// token validation and one user lookup happen per request.
func (s *Server) authenticated(next authedHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := requestToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, statusUnauthorized, "Unauthorized")
			return
		}

		userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			writeError(w, http.StatusUnauthorized, statusUnauthorized, "Unauthorized")
			return
		}

		user, err := s.users.GetUserByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				writeError(w, http.StatusUnauthorized, statusUnauthorized, "Unauthorized")
				return
			}
			writeError(w, http.StatusInternalServerError, statusUnknownError, "Unknown error")
			return
		}

		if !user.IsVerified {
			writeError(w, http.StatusForbidden, statusNotVerified, "User is not verified")
			return
		}

		next(w, r, user.ID)
	})
}
