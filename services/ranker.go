package services

import (
	"sort"

	"rental-market/models"
)

// Rank orders listings for display in place: premium owners first, then
// newest first. The sort is stable, so equal timestamps keep fetch order.
func Rank(listings []models.NormalizedListing) {
	sort.SliceStable(listings, func(i, j int) bool {
		a, b := listings[i], listings[j]
		if a.Owner.IsSubscribed != b.Owner.IsSubscribed {
			return a.Owner.IsSubscribed
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}
