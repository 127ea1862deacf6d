package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"rental-market/models"
	"rental-market/storage"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the local database schema",
		Long:  `Creates or updates the tables of a local Postgres database. With --seed, loads the sample listings and one admin profile into it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			seed, _ := cmd.Flags().GetBool("seed")
			adminEmail, _ := cmd.Flags().GetString("admin-email")
			adminName, _ := cmd.Flags().GetString("admin-name")

			store, err := storage.OpenModerationStore(a.cfg.DSN(), a.logger)
			if err != nil {
				a.logger.Error("Make sure Docker is running: docker compose up -d")
				return err
			}
			defer store.Close()

			if err := store.Migrate(); err != nil {
				return err
			}
			a.logger.Info("Schema is up to date")

			if !seed {
				return nil
			}
			admin := storage.Profile{
				ID:    uuid.New(),
				Name:  adminName,
				Email: adminEmail,
				Role:  models.RoleAdmin,
			}
			if err := store.Seed(cmd.Context(), storage.SampleListings(), admin); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Admin profile: %s\n", admin.ID)
			return nil
		},
	}

	cmd.Flags().Bool("seed", false, "Load the sample listings and an admin profile")
	cmd.Flags().String("admin-email", "admin@example.com", "Email of the seeded admin")
	cmd.Flags().String("admin-name", "Admin", "Name of the seeded admin")
	return cmd
}
