package http

import (
	"net/http"
	"strings"

	"tally/internal/core"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// accountResponse never carries the password hash.
type accountResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid request body"})
		return
	}
	if msg, ok := validateCredentials(req); !ok {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid_input", Message: msg})
		return
	}

	account, err := s.directory.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Registration failed", "error", err)
		writeError(w, err)
		return
	}

	// A registration starts a session, so prime the ledger for the account.
	if _, err := s.ledger.Load(r.Context(), account.ID); err != nil {
		s.logger.ErrorContext(r.Context(), "Ledger load after register failed", "error", err, "account_id", account.ID)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, accountResponse{ID: account.ID, Email: account.Email})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid request body"})
		return
	}

	account, err := s.directory.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	if _, err := s.ledger.Load(r.Context(), account.ID); err != nil {
		s.logger.ErrorContext(r.Context(), "Ledger load after login failed", "error", err, "account_id", account.ID)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, accountResponse{ID: account.ID, Email: account.Email})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.directory.Logout(r.Context()); err != nil {
		s.logger.ErrorContext(r.Context(), "Logout failed", "error", err)
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	session, ok, err := s.directory.Current(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeError(w, core.ErrNoSession)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, core.Categories())
}

// validateCredentials performs the form-level checks the UI used to do.
func validateCredentials(req credentialsRequest) (string, bool) {
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return "please enter a valid email address", false
	}
	if len(req.Password) < 6 {
		return "password must be at least 6 characters", false
	}
	return "", true
}

// currentSession is the access guard shared by the ledger and stats handlers.
func (s *Server) currentSession(r *http.Request) (core.Session, error) {
	session, ok, err := s.directory.Current(r.Context())
	if err != nil {
		return core.Session{}, err
	}
	if !ok {
		return core.Session{}, core.ErrNoSession
	}
	return session, nil
}
