package http

import (
	"log/slog"
	"net/http"
	"strings"
)

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	filter := strings.TrimSpace(r.URL.Query().Get("category"))

	expenses, err := s.svc.ListExpenses(r.Context(), filter)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeData(w, http.StatusOK, toExpenseListJSON(expenses))
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(r.Context(), w, err)
		return
	}

	candidate, err := req.toExpense()
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	created, err := s.svc.CreateExpense(r.Context(), candidate)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	slog.InfoContext(r.Context(), "Expense created",
		"id", created.ID,
		"category", created.Category,
		"amount", created.Amount)

	writeData(w, http.StatusCreated, toExpenseJSON(created))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateExpenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(r.Context(), w, err)
		return
	}

	updated, err := s.svc.UpdateExpense(r.Context(), id, req.toPatch())
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeData(w, http.StatusOK, toExpenseJSON(updated))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	removed, err := s.svc.DeleteExpense(r.Context(), id)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	slog.InfoContext(r.Context(), "Expense deleted", "id", id)

	writeData(w, http.StatusOK, toExpenseJSON(removed))
}
