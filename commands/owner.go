package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"rental-market/models"
	"rental-market/services"
)

func OwnerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "owner",
		Short: "Owner dashboard: your listings, analytics and availability",
	}
	cmd.AddCommand(ownerListingsCmd(), ownerAnalyticsCmd(), ownerToggleCmd(), ownerDeleteCmd())
	return cmd
}

// ownerListings loads every listing of the signed-in owner, hidden ones included.
func ownerListings(cmd *cobra.Command, a *app) ([]models.NormalizedListing, error) {
	sess, err := a.session(cmd)
	if err != nil {
		return nil, err
	}
	demo, _ := cmd.Flags().GetBool("demo")
	src, release, err := a.listingSource(demo)
	if err != nil {
		return nil, err
	}
	defer release()

	svc := a.searchService(src)
	var listings []models.NormalizedListing
	err = a.retry().Do(cmd.Context(), "owner listings", func(ctx context.Context) error {
		var err error
		listings, err = svc.OwnerListings(ctx, sess)
		return err
	})
	return listings, err
}

func ownerListingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listings",
		Short: "List your properties, including hidden ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			listings, err := ownerListings(cmd, a)
			if err != nil {
				return err
			}
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return printJSON(cmd.OutOrStdout(), listings)
			}
			printListings(cmd.OutOrStdout(), listings)
			return nil
		},
	}
	cmd.Flags().Bool("demo", false, "Use the built-in sample listings")
	cmd.Flags().Bool("json", false, "Print as JSON")
	return cmd
}

func ownerAnalyticsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Price and rating insights over your properties",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			listings, err := ownerListings(cmd, a)
			if err != nil {
				return err
			}
			ins := services.NewInsightService(a.logger)
			ins.Print(cmd.OutOrStdout(), ins.Generate(listings))
			return nil
		},
	}
	cmd.Flags().Bool("demo", false, "Use the built-in sample listings")
	return cmd
}

func ownerToggleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle <property-id>",
		Short: "Show or hide one of your properties",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setAvailability(cmd, args[0])
		},
	}
	addAvailabilityFlags(cmd)
	return cmd
}

func ownerDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <property-id>",
		Short: "Delete one of your properties",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deleteProperty(cmd, args[0])
		},
	}
	addVersionFlag(cmd)
	return cmd
}

// The handlers below are shared with the admin commands; the moderation
// service decides whether the session may act on the property.

func addVersionFlag(cmd *cobra.Command) {
	cmd.Flags().Int("version", 0, "Version of the row you last saw (required)")
	_ = cmd.MarkFlagRequired("version")
}

func addAvailabilityFlags(cmd *cobra.Command) {
	addVersionFlag(cmd)
	cmd.Flags().Bool("available", true, "Whether guests can find the property")
}

func setAvailability(cmd *cobra.Command, rawID string) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("invalid property id: %w", err)
	}
	available, _ := cmd.Flags().GetBool("available")
	version, _ := cmd.Flags().GetInt("version")

	a := newApp()
	sess, err := a.session(cmd)
	if err != nil {
		return err
	}
	svc, release, err := a.moderation()
	if err != nil {
		return err
	}
	defer release()

	prop, err := svc.SetAvailability(cmd.Context(), sess, id, available, version)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s (version %d)\n", prop.Title, availabilityLabel(prop.IsAvailable), prop.Version)
	return nil
}

func deleteProperty(cmd *cobra.Command, rawID string) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("invalid property id: %w", err)
	}
	version, _ := cmd.Flags().GetInt("version")

	a := newApp()
	sess, err := a.session(cmd)
	if err != nil {
		return err
	}
	svc, release, err := a.moderation()
	if err != nil {
		return err
	}
	defer release()

	if err := svc.DeleteProperty(cmd.Context(), sess, id, version); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
	return nil
}

func availabilityLabel(available bool) string {
	if available {
		return "available"
	}
	return "hidden"
}
