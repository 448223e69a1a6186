package http

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"tally/internal/core"
)

type expenseRequest struct {
	Title    string     `json:"title"`
	Amount   core.Money `json:"amount"`
	Category string     `json:"category"`
	Date     core.Date  `json:"date"`
	Notes    string     `json:"notes"`
}

func (req expenseRequest) toExpense(id string) core.Expense {
	return core.Expense{
		ID:       id,
		Title:    strings.TrimSpace(req.Title),
		Amount:   req.Amount,
		Category: req.Category,
		Date:     req.Date,
		Notes:    strings.TrimSpace(req.Notes),
	}
}

// handleListExpenses returns the account's expenses in insertion order. An
// optional q parameter filters by case-insensitive substring match on title
// and notes.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	session, err := s.currentSession(r)
	if err != nil {
		writeError(w, err)
		return
	}

	expenses, err := s.ledger.List(r.Context(), session.ID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "List expenses failed", "error", err, "account_id", session.ID)
		writeError(w, err)
		return
	}

	if q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q"))); q != "" {
		filtered := make([]core.Expense, 0, len(expenses))
		for _, e := range expenses {
			if strings.Contains(strings.ToLower(e.Title), q) ||
				strings.Contains(strings.ToLower(e.Notes), q) {
				filtered = append(filtered, e)
			}
		}
		expenses = filtered
	}

	if expenses == nil {
		expenses = []core.Expense{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	session, err := s.currentSession(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid request body"})
		return
	}

	expense := req.toExpense(uuid.NewString())
	if err := s.ledger.Add(r.Context(), session.ID, expense); err != nil {
		writeError(w, err)
		return
	}

	s.invalidateStats(session.ID)
	writeJSON(w, http.StatusCreated, expense)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	session, err := s.currentSession(r)
	if err != nil {
		writeError(w, err)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "missing expense id"})
		return
	}

	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid request body"})
		return
	}

	expense := req.toExpense(id)
	if err := s.ledger.Update(r.Context(), session.ID, expense); err != nil {
		writeError(w, err)
		return
	}

	s.invalidateStats(session.ID)
	writeJSON(w, http.StatusOK, expense)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	session, err := s.currentSession(r)
	if err != nil {
		writeError(w, err)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "missing expense id"})
		return
	}

	if err := s.ledger.Delete(r.Context(), session.ID, id); err != nil {
		writeError(w, err)
		return
	}

	s.invalidateStats(session.ID)
	w.WriteHeader(http.StatusNoContent)
}
