package services

import (
	"bytes"
	"strings"
	"testing"

	"rental-market/models"
	"rental-market/utils"
)

func rated(v float64) *float64 { return &v }

func sampleInsightListings() []models.NormalizedListing {
	return []models.NormalizedListing{
		{Title: "Villa A", Type: models.TypeVilla, Price: 200, Location: models.Location{City: "Bangkok"}, Rating: rated(4.9), ReviewCount: 10, IsAvailable: true, Owner: models.OwnerSummary{IsSubscribed: true}},
		{Title: "Studio B", Type: models.TypeStudio, Price: 50, Location: models.Location{City: "Bangkok"}, Rating: rated(4.5), ReviewCount: 3, IsAvailable: true},
		{Title: "Loft C", Type: models.TypeLoft, Price: 120, Location: models.Location{City: "Tokyo"}, Rating: rated(4.8), ReviewCount: 7, IsAvailable: false, Owner: models.OwnerSummary{IsSubscribed: true}},
		{Title: "Cabin D", Type: models.TypeHouse, Price: 300, Location: models.Location{City: "Bali"}, IsAvailable: true},
		{Title: "Flat E", Type: models.TypeApartment, Price: 0, Location: models.Location{City: "Tokyo"}, Rating: rated(4.7), ReviewCount: 1, IsAvailable: true},
	}
}

func TestInsightCounts(t *testing.T) {
	svc := NewInsightService(utils.Discard())
	r := svc.Generate(sampleInsightListings())
	if r.TotalListings != 5 {
		t.Errorf("TotalListings: got %d, want 5", r.TotalListings)
	}
	if r.AvailableListings != 4 {
		t.Errorf("AvailableListings: got %d, want 4", r.AvailableListings)
	}
	if r.PremiumListings != 2 {
		t.Errorf("PremiumListings: got %d, want 2", r.PremiumListings)
	}
	if r.UnratedListings != 1 {
		t.Errorf("UnratedListings: got %d, want 1", r.UnratedListings)
	}
}

func TestInsightPrices(t *testing.T) {
	svc := NewInsightService(utils.Discard())
	r := svc.Generate(sampleInsightListings())
	wantAvg := 167.50
	if r.AveragePrice != wantAvg {
		t.Errorf("AveragePrice: got %.2f, want %.2f", r.AveragePrice, wantAvg)
	}
	if r.MinPrice != 50 {
		t.Errorf("MinPrice: got %.2f, want 50", r.MinPrice)
	}
	if r.MaxPrice != 300 {
		t.Errorf("MaxPrice: got %.2f, want 300", r.MaxPrice)
	}
}

func TestInsightMostExpensive(t *testing.T) {
	svc := NewInsightService(utils.Discard())
	r := svc.Generate(sampleInsightListings())
	if r.MostExpensive == nil {
		t.Fatal("MostExpensive should not be nil")
	}
	if r.MostExpensive.Title != "Cabin D" {
		t.Errorf("MostExpensive: got %q, want %q", r.MostExpensive.Title, "Cabin D")
	}
}

func TestInsightMostExpensiveFirstListing(t *testing.T) {
	svc := NewInsightService(utils.Discard())
	r := svc.Generate([]models.NormalizedListing{
		{Title: "Pricey", Price: 500},
		{Title: "Cheap", Price: 50},
	})
	if r.MostExpensive == nil || r.MostExpensive.Title != "Pricey" {
		t.Errorf("MostExpensive: got %+v, want Pricey", r.MostExpensive)
	}
}

func TestInsightTopRated(t *testing.T) {
	svc := NewInsightService(utils.Discard())
	r := svc.Generate(sampleInsightListings())
	if len(r.TopRated) != 4 {
		t.Fatalf("TopRated len: got %d, want 4", len(r.TopRated))
	}
	if *r.TopRated[0].Rating != 4.9 {
		t.Errorf("TopRated[0].Rating: got %.2f, want 4.9", *r.TopRated[0].Rating)
	}
	for _, l := range r.TopRated {
		if l.Rating == nil {
			t.Errorf("unrated listing %q in TopRated", l.Title)
		}
	}
}

func TestInsightGrouping(t *testing.T) {
	svc := NewInsightService(utils.Discard())
	r := svc.Generate(sampleInsightListings())
	if r.ListingsByCity["Bangkok"] != 2 {
		t.Errorf("Bangkok count: got %d, want 2", r.ListingsByCity["Bangkok"])
	}
	if r.ListingsByCity["Tokyo"] != 2 {
		t.Errorf("Tokyo count: got %d, want 2", r.ListingsByCity["Tokyo"])
	}
	if r.ListingsByType[models.TypeVilla] != 1 {
		t.Errorf("villa count: got %d, want 1", r.ListingsByType[models.TypeVilla])
	}
}

func TestInsightEmptyInput(t *testing.T) {
	svc := NewInsightService(utils.Discard())
	r := svc.Generate(nil)
	if r.TotalListings != 0 {
		t.Errorf("TotalListings: got %d, want 0", r.TotalListings)
	}
	if r.MostExpensive != nil {
		t.Error("MostExpensive should be nil for empty input")
	}
}

func TestInsightPrint(t *testing.T) {
	svc := NewInsightService(utils.Discard())
	var buf bytes.Buffer
	svc.Print(&buf, svc.Generate(sampleInsightListings()))

	out := buf.String()
	for _, want := range []string{"LISTING INSIGHTS", "Cabin D", "Villa A", "Bangkok", "villa"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("colour codes written although the logger has colour off")
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{12.3456, 12.35},
		{167.5, 167.5},
		{0, 0},
	}
	for _, tt := range tests {
		if got := round2(tt.in); got != tt.want {
			t.Errorf("round2(%v): got %v, want %v", tt.in, got, tt.want)
		}
	}
}
