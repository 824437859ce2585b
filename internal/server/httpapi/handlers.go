package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/hopitalsej/sejour/internal/common"
	"github.com/hopitalsej/sejour/internal/server/patients"
)

type errorResponse struct {
	Error string `json:"error"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// errorStatus maps the sentinel taxonomy to HTTP statuses and user-facing
// messages. Internal detail never reaches the body: anything unmapped is a
// generic 500.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, common.ErrAccountNotVerified):
		return http.StatusForbidden, "Compte non vérifié"
	case errors.Is(err, common.ErrUnauthenticated):
		return http.StatusUnauthorized, "missing token"
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden, "invalid token"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "not found"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := errorStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	s.writeJSON(w, status, errorResponse{Error: message})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// POST /login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: bad body", common.ErrValidation))
		return
	}

	token, err := s.accountService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.metrics.LoginFailure.Inc()
		s.writeError(w, r, err)
		return
	}

	s.metrics.LoginSuccess.Inc()
	s.writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// GET /profile
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())
	if session == nil {
		s.writeError(w, r, common.ErrUnauthenticated)
		return
	}

	// The account may have been removed since the token was issued.
	profile, err := s.accountService.Profile(r.Context(), session.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, profile)
}

// GET /users?search= (admin only)
func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.accountService.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, profiles)
}

// GET /patients?search=
func (s *Server) handlePatients(w http.ResponseWriter, r *http.Request) {
	list, err := s.patientRepo.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []*patients.Patient{}
	}

	s.writeJSON(w, http.StatusOK, list)
}

// GET /ping
func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}
