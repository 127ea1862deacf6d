package services

import (
	"github.com/google/uuid"

	"rental-market/models"
)

// DefaultPriceCeiling is the max-price value the search screen starts at. A
// MaxPrice at or above the ceiling means "no upper bound".
const DefaultPriceCeiling = 1000

// QueryBuilder turns a ListingFilter into the constraints sent to a ListingSource.
type QueryBuilder struct {
	PriceCeiling float64
}

// NewQueryBuilder returns a builder using ceiling as the "no upper bound"
// value; non-positive ceilings fall back to DefaultPriceCeiling.
func NewQueryBuilder(ceiling float64) *QueryBuilder {
	if ceiling <= 0 {
		ceiling = DefaultPriceCeiling
	}
	return &QueryBuilder{PriceCeiling: ceiling}
}

// Build maps f to constraints. Only available listings are ever requested.
// Default values (0 prices and bedrooms, 1 guest, max price at the ceiling)
// add no constraint. Values are not validated.
func (b *QueryBuilder) Build(f models.ListingFilter) models.Constraints {
	c := models.Constraints{
		AvailableOnly: true,
		Location:      f.Location,
		PropertyType:  f.PropertyType,
	}
	if f.MinPrice > 0 {
		v := f.MinPrice
		c.MinPrice = &v
	}
	if f.MaxPrice < b.PriceCeiling {
		v := f.MaxPrice
		c.MaxPrice = &v
	}
	if f.MinBedrooms > 0 {
		v := f.MinBedrooms
		c.MinBedrooms = &v
	}
	if f.MinGuests > 1 {
		v := f.MinGuests
		c.MinGuests = &v
	}
	return c
}

// OwnerConstraints selects every listing of one owner, available or not.
func OwnerConstraints(ownerID uuid.UUID) models.Constraints {
	return models.Constraints{OwnerID: ownerID}
}
