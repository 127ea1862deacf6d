package storage

import (
	"time"

	"github.com/google/uuid"

	"rental-market/models"
)

// Sample IDs are fixed so demo output and tests are reproducible.
var (
	SampleApartmentID = uuid.MustParse("6f1c3a52-1b7e-4f0e-9a43-0c1d2b3e4f01")
	SampleVillaID     = uuid.MustParse("6f1c3a52-1b7e-4f0e-9a43-0c1d2b3e4f02")
	SampleLoftID      = uuid.MustParse("6f1c3a52-1b7e-4f0e-9a43-0c1d2b3e4f03")
	SampleCabinID     = uuid.MustParse("6f1c3a52-1b7e-4f0e-9a43-0c1d2b3e4f04")

	SampleOwnerSarah   = uuid.MustParse("a0000000-0000-4000-8000-000000000001")
	SampleOwnerMichael = uuid.MustParse("a0000000-0000-4000-8000-000000000002")
	SampleOwnerEmma    = uuid.MustParse("a0000000-0000-4000-8000-000000000003")
	SampleOwnerDavid   = uuid.MustParse("a0000000-0000-4000-8000-000000000004")
)

func ptr[T any](v T) *T { return &v }

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func activeSince(s string) []models.SubscriptionRecord {
	return []models.SubscriptionRecord{{Status: models.SubscriptionActive, CreatedAt: day(s)}}
}

// SampleListings returns the four sample properties the marketplace ships with.
// Every call returns fresh values.
func SampleListings() []models.RawListingRecord {
	return []models.RawListingRecord{
		{
			ID:            SampleApartmentID,
			Title:         "Modern Downtown Apartment",
			Description:   "Stunning modern apartment in the heart of downtown with panoramic city views.",
			PricePerNight: ptr(120.0),
			PropertyType:  models.TypeApartment,
			Address:       "123 Main St, Manhattan, NY 10001",
			City:          "New York",
			Country:       "USA",
			Latitude:      ptr(40.7128),
			Longitude:     ptr(-74.0060),
			Bedrooms:      2,
			Bathrooms:     2,
			MaxGuests:     4,
			IsAvailable:   true,
			CreatedAt:     day("2024-01-15"),
			Images: []models.ImageDescriptor{
				{URL: "https://images.pexels.com/photos/1571460/pexels-photo-1571460.jpeg", IsPrimary: true, DisplayOrder: 0},
				{URL: "https://images.pexels.com/photos/1571468/pexels-photo-1571468.jpeg", DisplayOrder: 1},
				{URL: "https://images.pexels.com/photos/1648776/pexels-photo-1648776.jpeg", DisplayOrder: 2},
			},
			Amenities: []string{"WiFi", "Air Conditioning", "Kitchen", "Parking", "Gym"},
			Owner: &models.OwnerProfile{
				ID:        SampleOwnerSarah,
				Name:      "Sarah Johnson",
				Email:     "sarah@example.com",
				Phone:     ptr("+1 (555) 123-4567"),
				AvatarURL: ptr("https://images.pexels.com/photos/774909/pexels-photo-774909.jpeg"),
			},
			Subscriptions: activeSince("2023-12-01"),
			Reviews:       &models.ReviewAggregate{Average: 4.8, Count: 127},
		},
		{
			ID:            SampleVillaID,
			Title:         "Cozy Beach Villa",
			Description:   "Escape to this beautiful beachfront villa with private beach access.",
			PricePerNight: ptr(280.0),
			PropertyType:  models.TypeVilla,
			Address:       "456 Ocean Drive, Malibu, CA 90265",
			City:          "Malibu",
			Country:       "USA",
			Latitude:      ptr(34.0259),
			Longitude:     ptr(-118.7798),
			Bedrooms:      4,
			Bathrooms:     3,
			MaxGuests:     8,
			IsAvailable:   true,
			CreatedAt:     day("2024-01-10"),
			Images: []models.ImageDescriptor{
				{URL: "https://images.pexels.com/photos/1029599/pexels-photo-1029599.jpeg", DisplayOrder: 2},
				{URL: "https://images.pexels.com/photos/1396122/pexels-photo-1396122.jpeg", IsPrimary: true, DisplayOrder: 0},
				{URL: "https://images.pexels.com/photos/1643383/pexels-photo-1643383.jpeg", DisplayOrder: 1},
			},
			Amenities: []string{"WiFi", "Pool", "Beach Access", "Kitchen", "Parking", "Hot Tub"},
			Owner: &models.OwnerProfile{
				ID:        SampleOwnerMichael,
				Name:      "Michael Chen",
				Email:     "michael@example.com",
				Phone:     ptr("+1 (555) 987-6543"),
				AvatarURL: ptr("https://images.pexels.com/photos/1222271/pexels-photo-1222271.jpeg"),
			},
			Subscriptions: activeSince("2023-11-20"),
			Reviews:       &models.ReviewAggregate{Average: 4.9, Count: 89},
		},
		{
			ID:            SampleLoftID,
			Title:         "Historic City Center Loft",
			Description:   "Unique loft in a converted historic building with exposed brick walls.",
			PricePerNight: ptr(95.0),
			PropertyType:  models.TypeLoft,
			Address:       "789 Historic Ave, Boston, MA 02101",
			City:          "Boston",
			Country:       "USA",
			Latitude:      ptr(42.3601),
			Longitude:     ptr(-71.0589),
			Bedrooms:      1,
			Bathrooms:     1,
			MaxGuests:     2,
			IsAvailable:   true,
			CreatedAt:     day("2024-01-08"),
			Images: []models.ImageDescriptor{
				{URL: "https://images.pexels.com/photos/1457842/pexels-photo-1457842.jpeg", IsPrimary: true, DisplayOrder: 0},
				{URL: "https://images.pexels.com/photos/1454806/pexels-photo-1454806.jpeg", DisplayOrder: 1},
				{URL: "https://images.pexels.com/photos/1080721/pexels-photo-1080721.jpeg", DisplayOrder: 2},
			},
			Amenities: []string{"WiFi", "Kitchen", "Laundry", "Historic Building"},
			Owner: &models.OwnerProfile{
				ID:    SampleOwnerEmma,
				Name:  "Emma Davis",
				Email: "emma@example.com",
				Phone: ptr("+1 (555) 456-7890"),
			},
			Reviews: &models.ReviewAggregate{Average: 4.6, Count: 54},
		},
		{
			ID:            SampleCabinID,
			Title:         "Mountain Cabin Retreat",
			Description:   "Peaceful mountain cabin surrounded by nature.",
			PricePerNight: ptr(150.0),
			PropertyType:  models.TypeHouse,
			Address:       "321 Mountain View Rd, Aspen, CO 81611",
			City:          "Aspen",
			Country:       "USA",
			Latitude:      ptr(39.1911),
			Longitude:     ptr(-106.8175),
			Bedrooms:      3,
			Bathrooms:     2,
			MaxGuests:     6,
			IsAvailable:   true,
			CreatedAt:     day("2024-01-05"),
			Images: []models.ImageDescriptor{
				{URL: "https://images.pexels.com/photos/1029604/pexels-photo-1029604.jpeg", IsPrimary: true, DisplayOrder: 0},
				{URL: "https://images.pexels.com/photos/1438832/pexels-photo-1438832.jpeg", DisplayOrder: 1},
				{URL: "https://images.pexels.com/photos/1115804/pexels-photo-1115804.jpeg", DisplayOrder: 2},
			},
			Amenities: []string{"WiFi", "Fireplace", "Kitchen", "Parking", "Mountain View"},
			Owner: &models.OwnerProfile{
				ID:        SampleOwnerDavid,
				Name:      "David Wilson",
				Email:     "david@example.com",
				Phone:     ptr("+1 (555) 234-5678"),
				AvatarURL: ptr("https://images.pexels.com/photos/1121796/pexels-photo-1121796.jpeg"),
			},
			Subscriptions: activeSince("2023-10-02"),
			Reviews:       &models.ReviewAggregate{Average: 4.7, Count: 92},
		},
	}
}
