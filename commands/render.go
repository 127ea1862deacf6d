package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"golang.org/x/term"

	"rental-market/models"
)

func printListings(w io.Writer, listings []models.NormalizedListing) {
	if len(listings) == 0 {
		fmt.Fprintln(w, "No properties found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTITLE\tTYPE\tPRICE\tLOCATION\tBEDS\tGUESTS\tRATING\tHOST")
	for i, l := range listings {
		host := l.Owner.Name
		if l.Owner.IsSubscribed {
			host += " ★"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t$%.0f/night\t%s, %s\t%d\t%d\t%s\t%s\n",
			i+1, l.Title, l.Type, l.Price, l.Location.City, l.Location.Country,
			l.Bedrooms, l.MaxGuests, formatRating(l.Rating, l.ReviewCount), host)
	}
	tw.Flush()
}

// formatRating shows unreviewed listings as "new" rather than a made-up score.
func formatRating(r *float64, reviews int) string {
	if r == nil {
		return "new"
	}
	return fmt.Sprintf("%.1f (%d)", *r, reviews)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
