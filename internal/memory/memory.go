package memory

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"spendlog/internal/core"
)

// Store is the in-memory expense store and category registry. It is the
// reference implementation of the core contract: a flat slice per
// collection, each guarded by its own mutex held for the duration of an
// operation.
type Store struct {
	mu    sync.Mutex
	items []core.Expense

	catMu sync.Mutex
	cats  []string
}

// DefaultCategories is the cold-start registry seed clients depend on.
func DefaultCategories() []string {
	return []string{"Food", "Transport", "Entertainment", "Utilities", "Healthcare", "Shopping"}
}

func New(cats []string) *Store {
	return &Store{cats: dedupe(cats)}
}

// NewFromFiles seeds categories from <base>/seed_categories.txt, falling
// back to the default seed when the file is missing or empty.
func NewFromFiles(base string) *Store {
	cats := readLines(filepath.Join(base, "seed_categories.txt"))
	if len(cats) == 0 {
		cats = DefaultCategories()
	}
	return New(cats)
}

func (s *Store) ListExpenses(_ context.Context, categoryFilter string) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, 0, len(s.items))
	for _, e := range s.items {
		if core.MatchesFilter(e.Category, categoryFilter) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) CreateExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	e.ID = ""
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	e.ID = uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, e)
	return e, nil
}

func (s *Store) UpdateExpense(_ context.Context, id string, patch core.ExpensePatch) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.items {
		if e.ID != id {
			continue
		}
		updated, err := patch.Apply(e)
		if err != nil {
			return core.Expense{}, err
		}
		s.items[i] = updated
		return updated, nil
	}
	return core.Expense{}, fmt.Errorf("expense %q: %w", id, core.ErrNotFound)
}

func (s *Store) DeleteExpense(_ context.Context, id string) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.items {
		if e.ID != id {
			continue
		}
		s.items = append(s.items[:i], s.items[i+1:]...)
		return e, nil
	}
	return core.Expense{}, fmt.Errorf("expense %q: %w", id, core.ErrNotFound)
}

func (s *Store) ListCategories(_ context.Context) ([]string, error) {
	s.catMu.Lock()
	defer s.catMu.Unlock()
	return append([]string(nil), s.cats...), nil
}

func (s *Store) CreateCategory(_ context.Context, name string) (string, error) {
	trimmed, err := core.NormalizeCategoryName(name)
	if err != nil {
		return "", err
	}
	s.catMu.Lock()
	defer s.catMu.Unlock()
	for _, existing := range s.cats {
		if strings.EqualFold(existing, trimmed) {
			return "", fmt.Errorf("category %q: %w", trimmed, core.ErrConflict)
		}
	}
	s.cats = append(s.cats, trimmed)
	return trimmed, nil
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return dedupe(out)
}

// dedupe drops blanks and case-insensitive duplicates, preserving the order
// of first occurrence.
func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}
