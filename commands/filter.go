package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"rental-market/models"
	"rental-market/services"
)

func addFilterFlags(cmd *cobra.Command) {
	f := models.DefaultFilter()
	cmd.Flags().String("location", "", "City or country (case-insensitive substring)")
	cmd.Flags().String("type", "", "Property type: apartment, house, villa, studio or loft")
	cmd.Flags().Float64("min-price", f.MinPrice, "Minimum price per night")
	cmd.Flags().Float64("max-price", services.DefaultPriceCeiling, "Maximum price per night (the price ceiling means no limit)")
	cmd.Flags().Int("bedrooms", f.MinBedrooms, "Minimum number of bedrooms")
	cmd.Flags().Int("guests", f.MinGuests, "Minimum number of guests the property must sleep")
}

// filterFromFlags reads the filter flags. An unset --max-price means the
// configured ceiling.
func filterFromFlags(cmd *cobra.Command, ceiling float64) (models.ListingFilter, error) {
	flags := cmd.Flags()
	f := defaultFilter(ceiling)

	f.Location, _ = flags.GetString("location")
	typ, _ := flags.GetString("type")
	f.PropertyType = models.PropertyType(strings.ToLower(typ))
	f.MinPrice, _ = flags.GetFloat64("min-price")
	if flags.Changed("max-price") {
		f.MaxPrice, _ = flags.GetFloat64("max-price")
	}
	f.MinBedrooms, _ = flags.GetInt("bedrooms")
	f.MinGuests, _ = flags.GetInt("guests")

	return f, checkFilter(f)
}

func defaultFilter(ceiling float64) models.ListingFilter {
	f := models.DefaultFilter()
	f.MaxPrice = ceiling
	return f
}

// parseFilterUpdate applies one JSON filter update on top of prev. Fields
// missing from the update keep their previous value.
func parseFilterUpdate(line string, prev models.ListingFilter) (models.ListingFilter, error) {
	next := prev
	dec := json.NewDecoder(strings.NewReader(line))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&next); err != nil {
		return prev, fmt.Errorf("parse filter: %w", err)
	}
	if err := checkFilter(next); err != nil {
		return prev, err
	}
	return next, nil
}

func checkFilter(f models.ListingFilter) error {
	if f.PropertyType != "" && !f.PropertyType.Valid() {
		return fmt.Errorf("unknown property type %q", f.PropertyType)
	}
	return nil
}
