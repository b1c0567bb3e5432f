package storage

import (
	"sort"

	"github.com/itobot/scout/internal/model"
)

// SortNewestFirst orders entries by CreatedAt descending, breaking ties by id.
// It is the order OrderCreatedDesc promises on every backend.
func SortNewestFirst(entries []*model.ScoutEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
