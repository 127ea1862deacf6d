package services

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"rental-market/models"
)

// DefaultAvatarURL is shown for owners without a profile picture.
const DefaultAvatarURL = "https://images.pexels.com/photos/774909/pexels-photo-774909.jpeg"

// ErrMalformedRecord marks a backend row missing a required field.
var ErrMalformedRecord = errors.New("malformed listing record")

// Transform maps one raw backend record to the display model. It is pure: no
// I/O, no clock, no randomness. A record missing a required field yields
// ErrMalformedRecord and no listing.
func Transform(r models.RawListingRecord) (models.NormalizedListing, error) {
	if err := validate(r); err != nil {
		return models.NormalizedListing{}, err
	}

	l := models.NormalizedListing{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Price:       *r.PricePerNight,
		Type:        r.PropertyType,
		Location: models.Location{
			City:    r.City,
			Country: r.Country,
			Address: r.Address,
			Coordinates: models.Coordinates{
				Lat: deref(r.Latitude),
				Lng: deref(r.Longitude),
			},
		},
		Images:      orderedImages(r.Images),
		Amenities:   amenitySet(r.Amenities),
		Bedrooms:    r.Bedrooms,
		Bathrooms:   r.Bathrooms,
		MaxGuests:   r.MaxGuests,
		Owner:       ownerSummary(r.Owner, r.Subscriptions),
		IsAvailable: r.IsAvailable,
		CreatedAt:   r.CreatedAt,
	}

	if r.Reviews != nil && r.Reviews.Count > 0 {
		avg := r.Reviews.Average
		l.Rating = &avg
		l.ReviewCount = r.Reviews.Count
	}
	return l, nil
}

func validate(r models.RawListingRecord) error {
	missing := ""
	switch {
	case r.ID == uuid.Nil:
		missing = "id"
	case r.Title == "":
		missing = "title"
	case r.PricePerNight == nil:
		missing = "price_per_night"
	case !r.PropertyType.Valid():
		missing = "property_type"
	case r.CreatedAt.IsZero():
		missing = "created_at"
	case r.Owner == nil || r.Owner.ID == uuid.Nil:
		missing = "owner"
	}
	if missing != "" {
		return fmt.Errorf("%w: property %s: %s", ErrMalformedRecord, r.ID, missing)
	}
	return nil
}

// orderedImages sorts by display order, keeping backend order for ties, and
// drops everything but the URL.
func orderedImages(imgs []models.ImageDescriptor) []string {
	sorted := make([]models.ImageDescriptor, len(imgs))
	copy(sorted, imgs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DisplayOrder < sorted[j].DisplayOrder
	})

	urls := make([]string, 0, len(sorted))
	for _, img := range sorted {
		urls = append(urls, img.URL)
	}
	return urls
}

func amenitySet(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func ownerSummary(o *models.OwnerProfile, subs []models.SubscriptionRecord) models.OwnerSummary {
	avatar := DefaultAvatarURL
	if o.AvatarURL != nil && *o.AvatarURL != "" {
		avatar = *o.AvatarURL
	}
	phone := ""
	if o.Phone != nil {
		phone = *o.Phone
	}
	return models.OwnerSummary{
		ID:           o.ID,
		Name:         o.Name,
		Email:        o.Email,
		Phone:        phone,
		Avatar:       avatar,
		IsSubscribed: isSubscribed(subs),
	}
}

// isSubscribed looks only at the owner's most recent subscription record;
// on equal timestamps the earlier entry in the list wins.
func isSubscribed(subs []models.SubscriptionRecord) bool {
	if len(subs) == 0 {
		return false
	}
	latest := subs[0]
	for _, s := range subs[1:] {
		if s.CreatedAt.After(latest.CreatedAt) {
			latest = s
		}
	}
	return latest.Status == models.SubscriptionActive
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
