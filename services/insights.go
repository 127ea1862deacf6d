package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"rental-market/models"
	"rental-market/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(listings []models.NormalizedListing) *models.InsightReport {
	report := &models.InsightReport{
		ListingsByCity: make(map[string]int),
		ListingsByType: make(map[models.PropertyType]int),
	}

	if len(listings) == 0 {
		return report
	}

	report.TotalListings = len(listings)

	var priced []models.NormalizedListing
	var rated []models.NormalizedListing

	for _, l := range listings {
		if l.IsAvailable {
			report.AvailableListings++
		}
		if l.Owner.IsSubscribed {
			report.PremiumListings++
		}
		if l.Price > 0 {
			priced = append(priced, l)
		}
		if l.Rating != nil {
			rated = append(rated, l)
		} else {
			report.UnratedListings++
		}
		if l.Location.City != "" {
			report.ListingsByCity[l.Location.City]++
		}
		report.ListingsByType[l.Type]++
	}

	// Price stats (only listings with price > 0)
	if len(priced) > 0 {
		report.MinPrice = priced[0].Price
		report.MaxPrice = priced[0].Price
		mostExpensive := priced[0]
		var total float64
		for _, l := range priced {
			total += l.Price
			if l.Price < report.MinPrice {
				report.MinPrice = l.Price
			}
			if l.Price > report.MaxPrice {
				report.MaxPrice = l.Price
				mostExpensive = l
			}
		}
		report.MostExpensive = &mostExpensive
		report.AveragePrice = round2(total / float64(len(priced)))
		report.MinPrice = round2(report.MinPrice)
		report.MaxPrice = round2(report.MaxPrice)
	}

	// Top 5 by rating, more reviews first on equal ratings
	sort.SliceStable(rated, func(i, j int) bool {
		if *rated[i].Rating != *rated[j].Rating {
			return *rated[i].Rating > *rated[j].Rating
		}
		return rated[i].ReviewCount > rated[j].ReviewCount
	})
	if len(rated) > 5 {
		rated = rated[:5]
	}
	report.TopRated = rated

	s.logger.Debug("[insights] %d listings, %d rated, %d premium",
		report.TotalListings, len(report.TopRated), report.PremiumListings)
	return report
}

// Print writes the report to w. ANSI colours are used only when the logger
// has them on, so piped output stays plain.
func (s *InsightService) Print(w io.Writer, r *models.InsightReport) {
	paint := func(code, text string) string {
		if !s.logger.Colour() {
			return text
		}
		return "\033[" + code + "m" + text + "\033[0m"
	}
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n%s\n", paint("1;35", sep))
	fmt.Fprintf(w, "%s\n", paint("1;35", "  📊 LISTING INSIGHTS"))
	fmt.Fprintf(w, "%s\n\n", paint("1;35", sep))

	// Overview
	fmt.Fprintf(w, "%s\n", paint("1;33", "  Overview"))
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total listings     : %s\n", paint("1", fmt.Sprint(r.TotalListings)))
	fmt.Fprintf(w, "  Available          : %s\n", paint("1", fmt.Sprint(r.AvailableListings)))
	fmt.Fprintf(w, "  Premium owners     : %s\n", paint("1", fmt.Sprint(r.PremiumListings)))
	fmt.Fprintf(w, "  Not yet reviewed   : %s\n", paint("1", fmt.Sprint(r.UnratedListings)))
	fmt.Fprintln(w)

	// Price Stats
	fmt.Fprintf(w, "%s\n", paint("1;33", "  Price Statistics (per night)"))
	fmt.Fprintf(w, "  %s\n", thin)
	if r.AveragePrice > 0 {
		fmt.Fprintf(w, "  Average price : %s\n", paint("1;32", fmt.Sprintf("$%.2f", r.AveragePrice)))
		fmt.Fprintf(w, "  Minimum price : %s\n", paint("1;32", fmt.Sprintf("$%.2f", r.MinPrice)))
		fmt.Fprintf(w, "  Maximum price : %s\n", paint("1;32", fmt.Sprintf("$%.2f", r.MaxPrice)))
	} else {
		fmt.Fprintf(w, "  No price data available\n")
	}
	fmt.Fprintln(w)

	// Most Expensive
	if r.MostExpensive != nil {
		fmt.Fprintf(w, "%s\n", paint("1;33", "  Most Expensive Listing"))
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  %s\n", truncate(r.MostExpensive.Title, 50))
		fmt.Fprintf(w, "  Location : %s, %s\n", r.MostExpensive.Location.City, r.MostExpensive.Location.Country)
		fmt.Fprintf(w, "  Price    : %s\n", paint("1;31", fmt.Sprintf("$%.2f/night", r.MostExpensive.Price)))
		fmt.Fprintln(w)
	}

	// ── TOP 5 HIGHEST RATED ──────────────────────────────────────────────
	fmt.Fprintf(w, "%s\n", paint("1;33", "  Top 5 Highest Rated Properties"))
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.TopRated) == 0 {
		fmt.Fprintf(w, "  No rated listings found\n")
	} else {
		for i, l := range r.TopRated {
			title := truncate(l.Title, 38)
			fmt.Fprintf(w, "  %s %-40s %s (%d)\n",
				paint("1", fmt.Sprintf("%d.", i+1)), title, paint("1;32", fmt.Sprintf("%.2f ★", *l.Rating)), l.ReviewCount)
		}
	}
	fmt.Fprintln(w)

	printCounts(w, paint("1;33", "  Listings by City"), thin, r.ListingsByCity)

	byType := make(map[string]int, len(r.ListingsByType))
	for t, n := range r.ListingsByType {
		byType[string(t)] = n
	}
	printCounts(w, paint("1;33", "  Listings by Type"), thin, byType)

	fmt.Fprintf(w, "\n%s\n\n", paint("1;35", sep))
}

func printCounts(w io.Writer, heading, thin string, counts map[string]int) {
	fmt.Fprintf(w, "%s\n", heading)
	fmt.Fprintf(w, "  %s\n", thin)
	if len(counts) == 0 {
		fmt.Fprintf(w, "  No data\n\n")
		return
	}

	type keyCount struct {
		key   string
		count int
	}
	var rows []keyCount
	for k, n := range counts {
		rows = append(rows, keyCount{k, n})
	}
	// Count descending, then name so output is stable.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].key < rows[j].key
	})
	for _, kc := range rows {
		bar := strings.Repeat("█", kc.count)
		fmt.Fprintf(w, "  %-30s %s (%d)\n", truncate(kc.key, 28), bar, kc.count)
	}
	fmt.Fprintln(w)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
