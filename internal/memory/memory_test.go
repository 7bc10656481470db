package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"spendlog/internal/core"
)

func mustCreate(t *testing.T, s *Store, amount float64, category, date string) core.Expense {
	t.Helper()
	e, err := s.CreateExpense(context.Background(), core.Expense{
		Amount:   amount,
		Category: category,
		Date:     date,
	})
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}
	return e
}

func TestCreateExpenseAssignsUniqueIDs(t *testing.T) {
	s := New(DefaultCategories())
	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		e := mustCreate(t, s, 10, "Food", "2024-01-01")
		if e.ID == "" {
			t.Fatalf("expected assigned id")
		}
		if seen[e.ID] {
			t.Fatalf("duplicate id %q", e.ID)
		}
		seen[e.ID] = true
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	s := New(DefaultCategories())

	if _, err := s.CreateExpense(context.Background(), core.Expense{Amount: 10, Category: "", Date: "2024-01-01"}); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	// The failed create must not grow the store.
	items, _ := s.ListExpenses(context.Background(), "")
	if len(items) != 0 {
		t.Fatalf("store changed size after failed create: %v", items)
	}
}

func TestListExpensesInsertionOrder(t *testing.T) {
	s := New(DefaultCategories())
	first := mustCreate(t, s, 10, "Food", "2024-01-01")
	second := mustCreate(t, s, 20, "Transport", "2024-01-02")
	third := mustCreate(t, s, 30, "Food", "2024-01-03")

	items, err := s.ListExpenses(context.Background(), "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, want := range []string{first.ID, second.ID, third.ID} {
		if items[i].ID != want {
			t.Fatalf("item %d out of order: got %q want %q", i, items[i].ID, want)
		}
	}
}

func TestListExpensesFilter(t *testing.T) {
	s := New(DefaultCategories())
	mustCreate(t, s, 10, "Food", "2024-01-01")
	mustCreate(t, s, 20, "Transport", "2024-01-02")
	mustCreate(t, s, 30, "FOOD", "2024-01-03")

	// Case-insensitive match
	items, _ := s.ListExpenses(context.Background(), "food")
	if len(items) != 2 {
		t.Fatalf("expected 2 food items, got %v", items)
	}
	for _, e := range items {
		if !core.MatchesFilter(e.Category, "food") {
			t.Fatalf("filter leaked %q", e.Category)
		}
	}

	// "All" sentinel disables filtering
	items, _ = s.ListExpenses(context.Background(), "All")
	if len(items) != 3 {
		t.Fatalf("expected 3 items for All, got %d", len(items))
	}

	items, _ = s.ListExpenses(context.Background(), "Healthcare")
	if len(items) != 0 {
		t.Fatalf("expected no Healthcare items, got %v", items)
	}
}

func TestUpdateExpense(t *testing.T) {
	s := New(DefaultCategories())
	e := mustCreate(t, s, 20, "Food", "2024-01-01")
	mustCreate(t, s, 30, "Transport", "2024-01-02")

	amount := 25.0
	updated, err := s.UpdateExpense(context.Background(), e.ID, core.ExpensePatch{Amount: &amount})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Amount != 25 || updated.Category != "Food" || updated.ID != e.ID {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	// Update must not move the record.
	items, _ := s.ListExpenses(context.Background(), "")
	if items[0].ID != e.ID {
		t.Fatalf("update changed record position")
	}

	// Empty patch is a no-op.
	same, err := s.UpdateExpense(context.Background(), e.ID, core.ExpensePatch{})
	if err != nil || same != updated {
		t.Fatalf("empty patch changed record: %+v err=%v", same, err)
	}

	if _, err := s.UpdateExpense(context.Background(), "missing", core.ExpensePatch{}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteExpense(t *testing.T) {
	s := New(DefaultCategories())
	first := mustCreate(t, s, 10, "Food", "2024-01-01")
	second := mustCreate(t, s, 20, "Transport", "2024-01-02")
	third := mustCreate(t, s, 30, "Shopping", "2024-01-03")

	removed, err := s.DeleteExpense(context.Background(), second.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed.ID != second.ID {
		t.Fatalf("expected removed %q, got %q", second.ID, removed.ID)
	}

	// Remaining order is preserved and the deleted id is gone.
	items, _ := s.ListExpenses(context.Background(), "")
	if len(items) != 2 || items[0].ID != first.ID || items[1].ID != third.ID {
		t.Fatalf("unexpected items after delete: %+v", items)
	}

	// Second delete of the same id fails.
	if _, err := s.DeleteExpense(context.Background(), second.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}

	// Ids are never reused.
	fresh := mustCreate(t, s, 40, "Food", "2024-01-04")
	if fresh.ID == second.ID {
		t.Fatalf("id %q was reused", second.ID)
	}
}

func TestCategoryRegistry(t *testing.T) {
	s := New(DefaultCategories())

	cats, err := s.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(cats) != 6 || cats[0] != "Food" || cats[5] != "Shopping" {
		t.Fatalf("unexpected seed: %v", cats)
	}

	// New name is trimmed and appended.
	name, err := s.CreateCategory(context.Background(), "  Travel ")
	if err != nil || name != "Travel" {
		t.Fatalf("unexpected create: name=%q err=%v", name, err)
	}
	cats, _ = s.ListCategories(context.Background())
	if cats[len(cats)-1] != "Travel" {
		t.Fatalf("new category not appended: %v", cats)
	}

	// Case-insensitive duplicates are rejected, not merged.
	if _, err := s.CreateCategory(context.Background(), "travel"); !errors.Is(err, core.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if _, err := s.CreateCategory(context.Background(), "FOOD"); !errors.Is(err, core.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// Empty names are rejected.
	if _, err := s.CreateCategory(context.Background(), "   "); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestNewFromFilesSeedsAndDedupe(t *testing.T) {
	dir := t.TempDir()

	// No file -> default seed
	s := NewFromFiles(dir)
	cats, _ := s.ListCategories(context.Background())
	if len(cats) != 6 || cats[0] != "Food" {
		t.Fatalf("expected default seed when file missing, got %v", cats)
	}

	// File with duplicates, blanks and comments
	path := filepath.Join(dir, "seed_categories.txt")
	if err := os.WriteFile(path, []byte("# header\nRent\nGroceries\nrent\n\nGroceries\n"), 0o644); err != nil {
		t.Fatalf("write seed file: %v", err)
	}

	s = NewFromFiles(dir)
	cats, _ = s.ListCategories(context.Background())
	if len(cats) != 2 || cats[0] != "Rent" || cats[1] != "Groceries" {
		t.Fatalf("unexpected cats: %v", cats)
	}
}
