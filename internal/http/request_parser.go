// Package http exposes the JSON API over the expense service.
//
// This file implements utilities for parsing and validating request bodies:
// presence-aware decoding for partial updates, amount coercion, and input
// sanitization.
package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"spendlog/internal/core"
)

const maxBodyBytes = 1 << 20 // 1MB

// amountField accepts JSON numbers and numeric strings. Form-origin clients
// send amounts as strings, so decoding coerces both to float64.
type amountField struct {
	set   bool
	value float64
}

func (a *amountField) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		return nil
	}
	a.set = true

	if strings.HasPrefix(trimmed, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			return fmt.Errorf("%w: amount must be numeric", core.ErrValidation)
		}
		a.value = v
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("%w: amount must be numeric", core.ErrValidation)
	}
	a.value = v
	return nil
}

type createExpenseRequest struct {
	Amount      amountField `json:"amount"`
	Category    *string     `json:"category"`
	Date        *string     `json:"date"`
	Description *string     `json:"description"`
}

// toExpense validates field presence and builds the candidate record. The
// store re-validates values; this layer only rejects missing fields.
func (req createExpenseRequest) toExpense() (core.Expense, error) {
	if !req.Amount.set {
		return core.Expense{}, fmt.Errorf("%w: amount is required", core.ErrValidation)
	}
	if req.Category == nil || strings.TrimSpace(*req.Category) == "" {
		return core.Expense{}, fmt.Errorf("%w: category is required", core.ErrValidation)
	}
	if req.Date == nil || strings.TrimSpace(*req.Date) == "" {
		return core.Expense{}, fmt.Errorf("%w: date is required", core.ErrValidation)
	}

	e := core.Expense{
		Amount:   req.Amount.value,
		Category: sanitizeInput(*req.Category),
		Date:     strings.TrimSpace(*req.Date),
	}
	if req.Description != nil {
		e.Description = sanitizeInput(*req.Description)
	}
	return e, nil
}

type updateExpenseRequest struct {
	Amount      amountField `json:"amount"`
	Category    *string     `json:"category"`
	Date        *string     `json:"date"`
	Description *string     `json:"description"`
}

// toPatch maps supplied fields to a patch; absent fields stay nil so the
// store keeps their prior values.
func (req updateExpenseRequest) toPatch() core.ExpensePatch {
	var patch core.ExpensePatch
	if req.Amount.set {
		v := req.Amount.value
		patch.Amount = &v
	}
	if req.Category != nil {
		v := sanitizeInput(*req.Category)
		patch.Category = &v
	}
	if req.Date != nil {
		v := strings.TrimSpace(*req.Date)
		patch.Date = &v
	}
	if req.Description != nil {
		v := sanitizeInput(*req.Description)
		patch.Description = &v
	}
	return patch
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

// decodeJSON decodes a request body into dst, bounding the body size.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
