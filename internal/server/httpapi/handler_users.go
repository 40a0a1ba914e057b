package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"net/url"
	"time"

	"github.com/dmkoval/metools/internal/common"
	"github.com/dmkoval/metools/internal/server/auth"
	"github.com/dmkoval/metools/internal/server/models"
)

const (
	passwordMinLen = 8
	passwordMaxLen = 512
)

type signupRequest struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	RepeatPassword string `json:"repeat_password"`
}

func (req *signupRequest) validate() error {
	if req.Username == "" {
		return errors.New("username is required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return errors.New("email is invalid")
	}
	if len(req.Password) < passwordMinLen || len(req.Password) > passwordMaxLen {
		return errors.New("password length out of range")
	}
	if req.RepeatPassword != req.Password {
		return errors.New("passwords do not match")
	}
	return nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (req *loginRequest) validate() error {
	if len(req.Password) < passwordMinLen || len(req.Password) > passwordMaxLen {
		return errors.New("password length out of range")
	}
	return nil
}

// userPayload is the public projection of a user row. The password hash
// never appears in a response.
type userPayload struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

func toUserPayload(u *models.User) userPayload {
	return userPayload{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, statusInvalidData, "Invalid input data")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, statusInvalidData, "Invalid input data")
		return
	}

	user, err := s.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		s.logger.Error(r.Context(), "signup failed", "username", req.Username, "error", err.Error())
		writeError(w, http.StatusInternalServerError, statusUnknownError, "Unknown error")
		return
	}

	s.logger.Info(r.Context(), "user registered", "user_id", user.ID, "username", user.Username)
	writeData(w, toUserPayload(user))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, statusInvalidData, "Invalid input data")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, statusInvalidData, "Invalid input data")
		return
	}

	user, err := s.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, statusInvalidCredentials, "Invalid credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, statusUnknownError, "Unknown error")
		return
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.sessionTTL)
	if err != nil {
		s.logger.Error(r.Context(), "error signing session token", "error", err.Error())
		writeError(w, http.StatusInternalServerError, statusUnknownError, "Unknown error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     common.TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.sessionTTL.Seconds()),
		HttpOnly: true,
	})

	writeData(w, map[string]string{"token": token})
}

// handleVerify redeems an email-verification token. Success redirects the
// browser to the address the mail link carries; an unknown, expired, or
// already used token is a 404.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	verifyKey := r.URL.Query().Get("verify_key")
	if verifyKey == "" {
		writeError(w, http.StatusBadRequest, statusInvalidData, "Invalid input data")
		return
	}

	userID, err := s.verification.Redeem(r.Context(), verifyKey)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, statusTokenNotFound, "Token not found")
			return
		}
		s.logger.Error(r.Context(), "verification failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, statusUnknownError, "Unknown error")
		return
	}

	s.logger.Info(r.Context(), "user verified", "user_id", userID)

	redirect := r.URL.Query().Get("redirect")
	if _, err := url.ParseRequestURI(redirect); err != nil {
		writeData(w, nil)
		return
	}
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, userID string) {
	user, err := s.users.GetUserByID(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, statusUnknownError, "Unknown error")
		return
	}
	writeData(w, toUserPayload(user))
}

// handleLogout expires the token cookie. The token itself stays valid until
// its expiry; sessions are stateless.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, _ string) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, response{Status: statusSuccess})
}
