package services

import (
	"testing"

	"github.com/google/uuid"

	"rental-market/models"
)

func TestBuildDefaultFilterAddsOnlyAvailability(t *testing.T) {
	b := NewQueryBuilder(DefaultPriceCeiling)
	c := b.Build(models.DefaultFilter())

	if !c.AvailableOnly {
		t.Error("AvailableOnly: got false, want true")
	}
	if c.MinPrice != nil || c.MaxPrice != nil {
		t.Errorf("price constraints: got min=%v max=%v, want none", c.MinPrice, c.MaxPrice)
	}
	if c.MinBedrooms != nil || c.MinGuests != nil {
		t.Errorf("size constraints: got bedrooms=%v guests=%v, want none", c.MinBedrooms, c.MinGuests)
	}
	if c.Location != "" || c.PropertyType != "" || c.OwnerID != uuid.Nil {
		t.Errorf("unexpected constraints: %+v", c)
	}
}

func TestBuildFields(t *testing.T) {
	b := NewQueryBuilder(DefaultPriceCeiling)

	tests := []struct {
		name  string
		apply func(*models.ListingFilter)
		check func(models.Constraints) bool
	}{
		{"location", func(f *models.ListingFilter) { f.Location = "Mal" }, func(c models.Constraints) bool { return c.Location == "Mal" }},
		{"type", func(f *models.ListingFilter) { f.PropertyType = models.TypeVilla }, func(c models.Constraints) bool { return c.PropertyType == models.TypeVilla }},
		{"min price", func(f *models.ListingFilter) { f.MinPrice = 100 }, func(c models.Constraints) bool { return c.MinPrice != nil && *c.MinPrice == 100 }},
		{"max price below ceiling", func(f *models.ListingFilter) { f.MaxPrice = 300 }, func(c models.Constraints) bool { return c.MaxPrice != nil && *c.MaxPrice == 300 }},
		{"max price above ceiling", func(f *models.ListingFilter) { f.MaxPrice = 5000 }, func(c models.Constraints) bool { return c.MaxPrice == nil }},
		{"bedrooms", func(f *models.ListingFilter) { f.MinBedrooms = 2 }, func(c models.Constraints) bool { return c.MinBedrooms != nil && *c.MinBedrooms == 2 }},
		{"one guest is no constraint", func(f *models.ListingFilter) { f.MinGuests = 1 }, func(c models.Constraints) bool { return c.MinGuests == nil }},
		{"guests", func(f *models.ListingFilter) { f.MinGuests = 4 }, func(c models.Constraints) bool { return c.MinGuests != nil && *c.MinGuests == 4 }},
		{"inverted range passes through", func(f *models.ListingFilter) { f.MinPrice, f.MaxPrice = 500, 100 }, func(c models.Constraints) bool {
			return c.MinPrice != nil && c.MaxPrice != nil && *c.MinPrice == 500 && *c.MaxPrice == 100
		}},
	}

	for _, tt := range tests {
		f := models.DefaultFilter()
		tt.apply(&f)
		if c := b.Build(f); !tt.check(c) {
			t.Errorf("%s: unexpected constraints %+v", tt.name, c)
		}
	}
}

func TestBuildCustomCeiling(t *testing.T) {
	b := NewQueryBuilder(500)
	f := models.DefaultFilter()

	f.MaxPrice = 500
	if c := b.Build(f); c.MaxPrice != nil {
		t.Errorf("max at ceiling: got %v, want no constraint", *c.MaxPrice)
	}

	// The stock default is now a real bound.
	f.MaxPrice = 400
	if c := b.Build(f); c.MaxPrice == nil || *c.MaxPrice != 400 {
		t.Errorf("max below ceiling: got %v, want 400", c.MaxPrice)
	}

	if got := NewQueryBuilder(0).PriceCeiling; got != DefaultPriceCeiling {
		t.Errorf("zero ceiling: got %v, want %v", got, DefaultPriceCeiling)
	}
}

func TestOwnerConstraintsIncludeUnavailable(t *testing.T) {
	id := uuid.New()
	c := OwnerConstraints(id)
	if c.AvailableOnly {
		t.Error("owner constraints should not restrict to available listings")
	}
	if c.OwnerID != id {
		t.Errorf("OwnerID: got %v, want %v", c.OwnerID, id)
	}
}
