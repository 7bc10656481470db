package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"spendlog/internal/core"
)

type (
	dataEnvelope struct {
		Data any `json:"data"`
	}

	errorEnvelope struct {
		Error string `json:"error"`
	}

	expenseJSON struct {
		ID          string  `json:"id"`
		Amount      float64 `json:"amount"`
		Category    string  `json:"category"`
		Date        string  `json:"date"`
		Description string  `json:"description"`
	}

	summaryRowJSON struct {
		Category   string  `json:"category"`
		Total      float64 `json:"total"`
		Percentage float64 `json:"percentage"`
	}

	summaryJSON struct {
		Categories []summaryRowJSON `json:"categories"`
		GrandTotal float64          `json:"grandTotal"`
	}
)

func toExpenseJSON(e core.Expense) expenseJSON {
	return expenseJSON{
		ID:          e.ID,
		Amount:      e.Amount,
		Category:    e.Category,
		Date:        e.Date,
		Description: e.Description,
	}
}

func toExpenseListJSON(expenses []core.Expense) []expenseJSON {
	out := make([]expenseJSON, len(expenses))
	for i, e := range expenses {
		out[i] = toExpenseJSON(e)
	}
	return out
}

// toSummaryJSON derives the percentage column from the engine's totals,
// one decimal place, 0 for every row when the grand total is 0.
func toSummaryJSON(s core.Summary) summaryJSON {
	out := summaryJSON{
		Categories: make([]summaryRowJSON, len(s.Categories)),
		GrandTotal: s.GrandTotal,
	}
	for i, row := range s.Categories {
		out.Categories[i] = summaryRowJSON{
			Category:   row.Category,
			Total:      row.Total,
			Percentage: core.Percentage(row.Total, s.GrandTotal),
		}
	}
	return out
}

func writeData(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dataEnvelope{Data: v})
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Error: msg})
}

// writeError maps the core error taxonomy to status classes: validation to
// 422, not-found to 404, conflict to 409. Anything else is an internal
// fault, logged and masked with a generic message.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrValidation):
		writeErrorMessage(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, core.ErrNotFound):
		writeErrorMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrConflict):
		writeErrorMessage(w, http.StatusConflict, err.Error())
	default:
		slog.ErrorContext(ctx, "Internal error", "error", err)
		writeErrorMessage(w, http.StatusInternalServerError, "internal error")
	}
}

// writeDecodeError distinguishes malformed bodies (400) from well-formed
// bodies carrying invalid values (422).
func writeDecodeError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, core.ErrValidation) {
		writeErrorMessage(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	slog.WarnContext(ctx, "Malformed request body", "error", err)
	writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
}
