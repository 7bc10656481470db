package core

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// DateLayout is the canonical calendar-date representation for expenses.
const DateLayout = "2006-01-02"

// FilterAll is the sentinel category filter meaning "no filter".
const FilterAll = "All"

// Sentinel errors forming the failure taxonomy. Callers dispatch on them
// with errors.Is; detail is attached by wrapping.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

type (
	// Expense is one recorded spending event. ID is assigned by the store
	// at creation time and never changes afterwards.
	Expense struct {
		ID          string
		Amount      float64
		Category    string
		Date        string // YYYY-MM-DD
		Description string
	}

	// ExpensePatch carries the fields of a partial update. A nil field
	// means "not supplied": the prior value is kept. A pointer to the
	// empty string is "supplied as empty", which clears the description
	// and fails validation for category and date.
	ExpensePatch struct {
		Amount      *float64
		Category    *string
		Date        *string
		Description *string
	}
)

// ValidateAmount rejects non-finite and non-positive amounts.
func ValidateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("%w: amount must be a finite number", ErrValidation)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	return nil
}

// ValidateCategory rejects empty or all-whitespace category labels.
func ValidateCategory(category string) error {
	if strings.TrimSpace(category) == "" {
		return fmt.Errorf("%w: category is required", ErrValidation)
	}
	return nil
}

// ValidateDate rejects empty dates and dates not in YYYY-MM-DD form.
func ValidateDate(date string) error {
	if strings.TrimSpace(date) == "" {
		return fmt.Errorf("%w: date is required", ErrValidation)
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("%w: date must be formatted as YYYY-MM-DD", ErrValidation)
	}
	return nil
}

func (e Expense) Validate() error {
	if err := ValidateAmount(e.Amount); err != nil {
		return err
	}
	if err := ValidateCategory(e.Category); err != nil {
		return err
	}
	return ValidateDate(e.Date)
}

// Apply returns a copy of e with the supplied patch fields applied.
// Fields left nil retain their prior values, so an empty patch is a no-op.
// Supplied fields are validated before any of them take effect.
func (p ExpensePatch) Apply(e Expense) (Expense, error) {
	if p.Amount != nil {
		if err := ValidateAmount(*p.Amount); err != nil {
			return Expense{}, err
		}
	}
	if p.Category != nil {
		if err := ValidateCategory(*p.Category); err != nil {
			return Expense{}, err
		}
	}
	if p.Date != nil {
		if err := ValidateDate(*p.Date); err != nil {
			return Expense{}, err
		}
	}

	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	return e, nil
}

// NormalizeCategoryName trims a category name and rejects names that are
// empty after trimming. Registry uniqueness is case-insensitive but the
// stored form keeps the caller's casing.
func NormalizeCategoryName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("%w: category name is required", ErrValidation)
	}
	return trimmed, nil
}

// MatchesFilter reports whether an expense category passes the list filter.
// The empty filter and the "All" sentinel match everything; anything else
// matches case-insensitively.
func MatchesFilter(category, filter string) bool {
	if filter == "" || strings.EqualFold(filter, FilterAll) {
		return true
	}
	return strings.EqualFold(category, filter)
}
