package core

import "math"

// CategoryTotal is one summary row: a category as literally stored on the
// expenses carrying it, and the sum of their amounts.
type CategoryTotal struct {
	Category string
	Total    float64
}

// Summary is the per-category breakdown plus grand total over the full
// expense collection.
type Summary struct {
	Categories []CategoryTotal
	GrandTotal float64
}

// Summarize derives a summary from the current expense collection. Rows are
// keyed by exact category string and ordered by first encounter in stored
// order. Grouping is deliberately NOT case-insensitive even though the list
// filter is: "Food" and "food" produce two separate rows. Summation is plain
// float64 addition with no rounding; rounding is a presentation concern.
func Summarize(expenses []Expense) Summary {
	var s Summary
	index := make(map[string]int, len(expenses))
	for _, e := range expenses {
		i, ok := index[e.Category]
		if !ok {
			i = len(s.Categories)
			index[e.Category] = i
			s.Categories = append(s.Categories, CategoryTotal{Category: e.Category})
		}
		s.Categories[i].Total += e.Amount
		s.GrandTotal += e.Amount
	}
	return s
}

// Totals returns the summary rows as a category-to-total map.
func (s Summary) Totals() map[string]float64 {
	m := make(map[string]float64, len(s.Categories))
	for _, row := range s.Categories {
		m[row.Category] = row.Total
	}
	return m
}

// Percentage returns total's share of grand in percent, rounded to one
// decimal place. Defined as 0 when grand is 0 so callers never divide by
// zero on an empty store.
func Percentage(total, grand float64) float64 {
	if grand == 0 {
		return 0
	}
	return math.Round(total/grand*1000) / 10
}
