package internal

import (
	"encoding/json"
	"errors"
	"net/http"

	"itassets-dashboard/internal/auth"
	"itassets-dashboard/internal/models"
	"itassets-dashboard/internal/store"
)

// loginUser exchanges e-mail and password for a bearer token.
func (s *Server) loginUser(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.SendError(w, "Invalid request body", "INVALID_BODY", http.StatusBadRequest)
		return
	}

	resp, err := s.Auth.Login(r.Context(), req)
	if err != nil {
		s.sendAccountError(w, r, err)
		return
	}
	s.Log.WithField("user_id", resp.Profile.UserID).Info("login")
	writeJSON(w, http.StatusOK, resp)
}

// registerUser creates an account with the user role.
func (s *Server) registerUser(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.SendError(w, "Invalid request body", "INVALID_BODY", http.StatusBadRequest)
		return
	}

	resp, err := s.Auth.Register(r.Context(), req)
	if err != nil {
		s.sendAccountError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// getUserProfile returns the caller's profile.
func (s *Server) getUserProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		auth.SendError(w, "Authentication required", "AUTHENTICATION_REQUIRED", http.StatusUnauthorized)
		return
	}

	p, err := s.Auth.Profile(r.Context(), userID)
	if err != nil {
		s.sendAccountError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": p.Redacted()})
}

// updateUserProfile changes the caller's full name and returns a fresh token
// carrying it.
func (s *Server) updateUserProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		auth.SendError(w, "Authentication required", "AUTHENTICATION_REQUIRED", http.StatusUnauthorized)
		return
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.SendError(w, "Invalid request body", "INVALID_BODY", http.StatusBadRequest)
		return
	}

	resp, err := s.Auth.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		s.sendAccountError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) sendAccountError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidInput):
		auth.SendError(w, err.Error(), "INVALID_INPUT", http.StatusBadRequest)
	case errors.Is(err, auth.ErrInvalidCredentials):
		auth.SendError(w, "Invalid credentials", "INVALID_CREDENTIALS", http.StatusUnauthorized)
	case errors.Is(err, auth.ErrEmailTaken):
		auth.SendError(w, "Email already registered", "EMAIL_TAKEN", http.StatusConflict)
	case errors.Is(err, store.ErrNotFound):
		auth.SendError(w, "Profile not found", "NOT_FOUND", http.StatusNotFound)
	default:
		s.Log.WithError(err).WithField("path", r.URL.Path).Error("account request failed")
		auth.SendError(w, "Internal error", "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}
