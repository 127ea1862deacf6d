package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"

	"rental-market/models"
	"rental-market/pages"
	"rental-market/storage"
)

func TestParseFilterUpdateMergesOntoPrevious(t *testing.T) {
	prev := defaultFilter(1000)

	f, err := parseFilterUpdate(`{"location":"malibu","bedrooms":2}`, prev)
	if err != nil {
		t.Fatalf("first update: %v", err)
	}
	f, err = parseFilterUpdate(`{"propertyType":"villa"}`, f)
	if err != nil {
		t.Fatalf("second update: %v", err)
	}

	want := models.ListingFilter{Location: "malibu", PropertyType: models.TypeVilla, MaxPrice: 1000, MinBedrooms: 2, MinGuests: 1}
	if f != want {
		t.Errorf("got %+v, want %+v", f, want)
	}
}

func TestParseFilterUpdateRejects(t *testing.T) {
	prev := defaultFilter(1000)
	for _, line := range []string{
		`not json`,
		`{"propertyType":"castle"}`,
		`{"colour":"blue"}`,
	} {
		got, err := parseFilterUpdate(line, prev)
		if err == nil {
			t.Errorf("%s: expected an error", line)
		}
		if got != prev {
			t.Errorf("%s: filter changed on error: %+v", line, got)
		}
	}
}

func TestFormatRating(t *testing.T) {
	r := 4.8
	if got := formatRating(&r, 127); got != "4.8 (127)" {
		t.Errorf("rated: got %q", got)
	}
	if got := formatRating(nil, 0); got != "new" {
		t.Errorf("unrated: got %q, want new", got)
	}
}

func TestDescribePage(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		page pages.Page
		want string
	}{
		{pages.Home{}, "home"},
		{pages.OwnerDashboard{OwnerID: id}, id.String()},
		{pages.AdminPanel{AdminID: id}, "admin-panel"},
		{pages.AccessDenied{Route: pages.RouteAdmin, Role: models.RoleGuest}, "guest cannot open"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		describePage(&buf, tt.page)
		if !strings.Contains(buf.String(), tt.want) {
			t.Errorf("%s: got %q, want it to contain %q", tt.page.Name(), buf.String(), tt.want)
		}
	}
}

func TestSearchCommandDemoJSON(t *testing.T) {
	cmd := SearchCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--demo", "--json", "--type", "villa", "--min-price", "100", "--max-price", "300", "--bedrooms", "2", "--guests", "4"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	var got []models.NormalizedListing
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out.String())
	}
	if len(got) != 1 || got[0].ID != storage.SampleVillaID {
		t.Errorf("got %d listings, want only the villa", len(got))
	}
}

func TestSearchCommandRejectsUnknownType(t *testing.T) {
	cmd := SearchCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--demo", "--type", "castle"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected an error for an unknown property type")
	}
}

func TestBrowseCommandKeepsLastFilter(t *testing.T) {
	cmd := BrowseCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(strings.Join([]string{
		`{"location":"malibu"}`,
		``,
		`{"bad json`,
		`{"location":"boston"}`,
	}, "\n")))
	cmd.SetArgs([]string{"--demo"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out.String(), "Historic City Center Loft") {
		t.Errorf("want the Boston loft, got:\n%s", out.String())
	}
	if strings.Contains(out.String(), "Cozy Beach Villa") {
		t.Errorf("superseded Malibu results printed:\n%s", out.String())
	}
}

func TestBrowseCommandNoInput(t *testing.T) {
	cmd := BrowseCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs([]string{"--demo"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out.String(), "No filters given") {
		t.Errorf("got %q", out.String())
	}
}
