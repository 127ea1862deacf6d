package services

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"

	"rental-market/models"
	"rental-market/storage"
	"rental-market/utils"
)

func newTestSearch(src storage.ListingSource) *SearchService {
	return NewSearchService(src, NewQueryBuilder(DefaultPriceCeiling), utils.Discard(), 4)
}

func ids(ls []models.NormalizedListing) []uuid.UUID {
	out := make([]uuid.UUID, len(ls))
	for i, l := range ls {
		out[i] = l.ID
	}
	return out
}

func TestSearchDefaultFilterRanksSampleListings(t *testing.T) {
	svc := newTestSearch(storage.NewMemorySource(storage.SampleListings()))

	got, err := svc.Search(context.Background(), models.DefaultFilter())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	// Subscribed owners newest first, then the loft whose owner has no subscription.
	want := []uuid.UUID{storage.SampleApartmentID, storage.SampleVillaID, storage.SampleCabinID, storage.SampleLoftID}
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("count: got %d, want %d", len(gotIDs), len(want))
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Errorf("position %d: got %v, want %v", i, gotIDs[i], want[i])
		}
	}
}

func TestSearchVillaScenario(t *testing.T) {
	svc := newTestSearch(storage.NewMemorySource(storage.SampleListings()))

	f := models.ListingFilter{
		PropertyType: models.TypeVilla,
		MinPrice:     100,
		MaxPrice:     300,
		MinBedrooms:  2,
		MinGuests:    4,
	}
	got, err := svc.Search(context.Background(), f)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].ID != storage.SampleVillaID {
		t.Fatalf("got %v, want only the villa", ids(got))
	}
	if got[0].Images[0] != "https://images.pexels.com/photos/1396122/pexels-photo-1396122.jpeg" {
		t.Errorf("images not in display order: %v", got[0].Images)
	}
}

func TestSearchLocationMatchesCityOrCountry(t *testing.T) {
	svc := newTestSearch(storage.NewMemorySource(storage.SampleListings()))

	tests := []struct {
		location string
		want     int
	}{
		{"mal", 1},
		{"BOSTON", 1},
		{"usa", 4},
		{"Paris", 0},
	}

	for _, tt := range tests {
		f := models.DefaultFilter()
		f.Location = tt.location
		got, err := svc.Search(context.Background(), f)
		if err != nil {
			t.Fatalf("%s: Search: %v", tt.location, err)
		}
		if len(got) != tt.want {
			t.Errorf("%s: got %d listings, want %d", tt.location, len(got), tt.want)
		}
		needle := strings.ToLower(tt.location)
		for _, l := range got {
			if !strings.Contains(strings.ToLower(l.Location.City), needle) &&
				!strings.Contains(strings.ToLower(l.Location.Country), needle) {
				t.Errorf("%s: %s in %s, %s does not match", tt.location, l.Title, l.Location.City, l.Location.Country)
			}
		}
	}
}

func TestSearchIsIdempotent(t *testing.T) {
	svc := newTestSearch(storage.NewMemorySource(storage.SampleListings()))
	f := models.DefaultFilter()
	f.MaxPrice = 200

	first, err := svc.Search(context.Background(), f)
	if err != nil {
		t.Fatalf("first Search: %v", err)
	}
	second, err := svc.Search(context.Background(), f)
	if err != nil {
		t.Fatalf("second Search: %v", err)
	}

	a, b := ids(first), ids(second)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("position %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestSearchExcludesUnavailable(t *testing.T) {
	records := storage.SampleListings()
	records[0].IsAvailable = false
	svc := newTestSearch(storage.NewMemorySource(records))

	got, err := svc.Search(context.Background(), models.DefaultFilter())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, l := range got {
		if l.ID == records[0].ID {
			t.Errorf("unavailable listing %s returned", l.Title)
		}
	}
}

func TestSearchDataAccessError(t *testing.T) {
	src := storage.NewMemorySource(storage.SampleListings())
	cause := errors.New("connection refused")
	src.FailWith(cause)

	_, err := newTestSearch(src).Search(context.Background(), models.DefaultFilter())
	if !errors.Is(err, ErrDataAccess) {
		t.Fatalf("got %v, want ErrDataAccess", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("cause lost: %v", err)
	}
}

func TestSearchMalformedRecordFailsBatch(t *testing.T) {
	src := storage.NewMemorySource(storage.SampleListings())

	noTitle := storage.SampleListings()[0]
	noTitle.ID = uuid.New()
	noTitle.Title = ""
	src.Add(noTitle)

	noPrice := storage.SampleListings()[1]
	noPrice.ID = uuid.New()
	noPrice.PricePerNight = nil
	src.Add(noPrice)

	// Price filter off so both bad rows reach the transformer.
	got, err := newTestSearch(src).Search(context.Background(), models.DefaultFilter())
	if !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("got %v, want ErrMalformedRecord", err)
	}
	if got != nil {
		t.Errorf("partial results returned: %d", len(got))
	}
	if !strings.Contains(err.Error(), "title") {
		t.Errorf("want the first bad record's error, got %v", err)
	}
}

func TestOwnerListings(t *testing.T) {
	records := storage.SampleListings()
	records[1].IsAvailable = false // Michael's villa
	svc := newTestSearch(storage.NewMemorySource(records))
	ctx := context.Background()

	owner := &models.Session{UserID: storage.SampleOwnerMichael, Role: models.RoleOwner}
	got, err := svc.OwnerListings(ctx, owner)
	if err != nil {
		t.Fatalf("OwnerListings: %v", err)
	}
	if len(got) != 1 || got[0].ID != storage.SampleVillaID {
		t.Errorf("got %v, want the villa even though it is hidden", ids(got))
	}

	for _, sess := range []*models.Session{
		nil,
		{UserID: storage.SampleOwnerMichael, Role: models.RoleGuest},
		{UserID: storage.SampleOwnerMichael, Role: models.RoleAdmin},
	} {
		if _, err := svc.OwnerListings(ctx, sess); !errors.Is(err, ErrForbidden) {
			t.Errorf("role %s: got %v, want ErrForbidden", sess.EffectiveRole(), err)
		}
	}
}

// gatedSource blocks its first fetch until release is closed.
type gatedSource struct {
	inner   storage.ListingSource
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func (g *gatedSource) FetchAvailableListings(ctx context.Context, c models.Constraints) ([]models.RawListingRecord, error) {
	if g.calls.Add(1) == 1 {
		close(g.started)
		<-g.release
	}
	return g.inner.FetchAvailableListings(ctx, c)
}

func TestSearchIntoDropsStaleResults(t *testing.T) {
	src := &gatedSource{
		inner:   storage.NewMemorySource(storage.SampleListings()),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := newTestSearch(src)
	latest := &Latest{}
	ctx := context.Background()

	slow := models.DefaultFilter()
	slowTicket := latest.Begin()
	done := make(chan bool)
	go func() { done <- svc.SearchInto(ctx, latest, slowTicket, slow) }()
	<-src.started

	fast := models.DefaultFilter()
	fast.Location = "Boston"
	if !svc.SearchInto(ctx, latest, latest.Begin(), fast) {
		t.Fatal("newest search was not published")
	}

	close(src.release)
	if <-done {
		t.Error("stale search was published")
	}

	snap := latest.Current()
	if snap.Ticket != 2 {
		t.Errorf("ticket: got %d, want 2", snap.Ticket)
	}
	if len(snap.Results) != 1 || snap.Results[0].ID != storage.SampleLoftID {
		t.Errorf("results: got %v, want the Boston loft", ids(snap.Results))
	}
}

func TestSearchInvertedPriceRangeFindsNothing(t *testing.T) {
	svc := newTestSearch(storage.NewMemorySource(storage.SampleListings()))

	f := models.DefaultFilter()
	f.MinPrice = 500
	f.MaxPrice = 100
	got, err := svc.Search(context.Background(), f)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want no listings", ids(got))
	}
}
