package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PropertyType is the kind of dwelling a listing offers.
type PropertyType string

const (
	TypeApartment PropertyType = "apartment"
	TypeHouse     PropertyType = "house"
	TypeVilla     PropertyType = "villa"
	TypeStudio    PropertyType = "studio"
	TypeLoft      PropertyType = "loft"
)

// Valid reports whether t is one of the known property types.
func (t PropertyType) Valid() bool {
	switch t {
	case TypeApartment, TypeHouse, TypeVilla, TypeStudio, TypeLoft:
		return true
	}
	return false
}

// SubscriptionStatus mirrors the backend's subscription_status enum.
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionInactive  SubscriptionStatus = "inactive"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionExpired   SubscriptionStatus = "expired"
)

// ListingFilter is what a user asks for on the search screen.
// MinPrice > MaxPrice is allowed and simply matches nothing.
type ListingFilter struct {
	Location     string       `json:"location"`
	PropertyType PropertyType `json:"propertyType"`
	MinPrice     float64      `json:"minPrice"`
	MaxPrice     float64      `json:"maxPrice"`
	MinBedrooms  int          `json:"bedrooms"`
	MinGuests    int          `json:"maxGuests"`
}

// DefaultFilter returns the filter the search screen starts with.
func DefaultFilter() ListingFilter {
	return ListingFilter{
		MaxPrice:  1000,
		MinGuests: 1,
	}
}

// Constraints is the backend-neutral constraint set sent to a ListingSource.
// Nil pointers mean "no constraint".
type Constraints struct {
	AvailableOnly bool
	Location      string
	PropertyType  PropertyType
	MinPrice      *float64
	MaxPrice      *float64
	MinBedrooms   *int
	MinGuests     *int
	OwnerID       uuid.UUID
}

// Matches evaluates the constraints against a raw record in memory. It follows
// the same rules a SQL source applies: case-insensitive substring location
// match on city or country, inclusive ranges.
func (c Constraints) Matches(r RawListingRecord) bool {
	if c.AvailableOnly && !r.IsAvailable {
		return false
	}
	if c.OwnerID != uuid.Nil && (r.Owner == nil || r.Owner.ID != c.OwnerID) {
		return false
	}
	if c.Location != "" {
		loc := strings.ToLower(c.Location)
		if !strings.Contains(strings.ToLower(r.City), loc) &&
			!strings.Contains(strings.ToLower(r.Country), loc) {
			return false
		}
	}
	if c.PropertyType != "" && r.PropertyType != c.PropertyType {
		return false
	}
	if c.MinPrice != nil || c.MaxPrice != nil {
		if r.PricePerNight == nil {
			return false
		}
		if c.MinPrice != nil && *r.PricePerNight < *c.MinPrice {
			return false
		}
		if c.MaxPrice != nil && *r.PricePerNight > *c.MaxPrice {
			return false
		}
	}
	if c.MinBedrooms != nil && r.Bedrooms < *c.MinBedrooms {
		return false
	}
	if c.MinGuests != nil && r.MaxGuests < *c.MinGuests {
		return false
	}
	return true
}

// ImageDescriptor is one row of property_images.
type ImageDescriptor struct {
	URL          string
	IsPrimary    bool
	DisplayOrder int
}

// OwnerProfile is the owner's profile as joined onto a property.
type OwnerProfile struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Phone     *string
	AvatarURL *string
}

// SubscriptionRecord is one of the owner's subscription rows.
type SubscriptionRecord struct {
	Status           SubscriptionStatus
	CreatedAt        time.Time
	CurrentPeriodEnd *time.Time
}

// ReviewAggregate summarises the reviews left on a property.
type ReviewAggregate struct {
	Average float64
	Count   int
}

// RawListingRecord is a property row joined with its images, amenities,
// owner profile, the owner's subscriptions and a reviews aggregate.
// Nil slices and pointers mean the backend returned nothing for that part.
type RawListingRecord struct {
	ID            uuid.UUID
	Title         string
	Description   string
	PricePerNight *float64
	PropertyType  PropertyType
	Address       string
	City          string
	Country       string
	Latitude      *float64
	Longitude     *float64
	Bedrooms      int
	Bathrooms     int
	MaxGuests     int
	IsAvailable   bool
	CreatedAt     time.Time

	Images        []ImageDescriptor
	Amenities     []string
	Owner         *OwnerProfile
	Subscriptions []SubscriptionRecord
	Reviews       *ReviewAggregate
}

// Coordinates is a lat/lng pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Location is where a listing is.
type Location struct {
	City        string      `json:"city"`
	Country     string      `json:"country"`
	Address     string      `json:"address"`
	Coordinates Coordinates `json:"coordinates"`
}

// OwnerSummary is the owner block shown on a listing card.
type OwnerSummary struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Avatar       string    `json:"avatar"`
	IsSubscribed bool      `json:"isSubscribed"`
}

// NormalizedListing is the display model built fresh from a RawListingRecord
// on every fetch. Rating is nil when the property has no reviews yet.
type NormalizedListing struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Price       float64      `json:"price"`
	Type        PropertyType `json:"type"`
	Location    Location     `json:"location"`
	Images      []string     `json:"images"`
	Amenities   []string     `json:"amenities"`
	Bedrooms    int          `json:"bedrooms"`
	Bathrooms   int          `json:"bathrooms"`
	MaxGuests   int          `json:"maxGuests"`
	Owner       OwnerSummary `json:"owner"`
	Rating      *float64     `json:"rating"`
	ReviewCount int          `json:"reviewCount"`
	IsAvailable bool         `json:"isAvailable"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// InsightReport holds analytics computed over a set of listings.
type InsightReport struct {
	TotalListings     int
	AvailableListings int
	PremiumListings   int
	AveragePrice      float64
	MinPrice          float64
	MaxPrice          float64
	MostExpensive     *NormalizedListing
	TopRated          []NormalizedListing
	UnratedListings   int
	ListingsByCity    map[string]int
	ListingsByType    map[PropertyType]int
}
