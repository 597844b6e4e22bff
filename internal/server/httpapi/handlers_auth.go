package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/common"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetPasswordRequest struct {
	Email string `json:"email"`
}

type confirmResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// setSessionCookie attaches the session token as an HTTP-only cookie whose
// expiry matches the token's own.
func setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "user registered", "user_id", result.User.ID)

	setSessionCookie(w, result.Token, result.ExpiresAt)
	s.writeJSON(w, http.StatusOK, messageResponse{Message: "Login successful"})
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	setSessionCookie(w, result.Token, result.ExpiresAt)
	s.writeJSON(w, http.StatusOK, messageResponse{Message: "Login successful"})
}

// handleLogout only instructs the client to drop the cookie; sessions are
// stateless and the token stays valid until its natural expiry.
func (s *HTTPServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w)
	s.writeJSON(w, http.StatusOK, messageResponse{Message: "Logout successful"})
}

func (s *HTTPServer) handleRequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.auth.RequestPasswordReset(r.Context(), req.Email); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, messageResponse{Message: "Password reset email sent"})
}

func (s *HTTPServer) handleConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req confirmResetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.auth.ConfirmPasswordReset(r.Context(), req.Token, req.NewPassword); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, messageResponse{Message: "Password updated"})
}
