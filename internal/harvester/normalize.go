package harvester

import (
	"slices"
	"strings"

	"github.com/Adda-Baaj/tour-sosik/internal/domain"
)

// NormalizeOptions controls Normalize.
type NormalizeOptions struct {
	// RequireDate drops items whose date is not YYYY-MM-DD.
	RequireDate bool
}

// Normalize merges per-source batches into one list ordered by date,
// newest first. Items with equal dates keep their input order. Titles are
// not deduplicated across sources.
func Normalize(batches [][]domain.NewsItem, opts NormalizeOptions) []domain.NewsItem {
	total := 0
	for _, b := range batches {
		total += len(b)
	}

	out := make([]domain.NewsItem, 0, total)
	for _, b := range batches {
		for _, item := range b {
			if opts.RequireDate && !item.HasDate() {
				continue
			}
			out = append(out, item)
		}
	}

	slices.SortStableFunc(out, func(a, b domain.NewsItem) int {
		return strings.Compare(b.Date, a.Date)
	})
	return out
}
