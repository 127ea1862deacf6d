package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"rental-market/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "rental-market",
		Short:         "Property rental marketplace: search, owner dashboard and admin panel",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("token", "", "Session token (defaults to $"+commands.TokenEnv+")")

	rootCmd.AddCommand(
		commands.SearchCmd(),
		commands.BrowseCmd(),
		commands.SessionCmd(),
		commands.PageCmd(),
		commands.OwnerCmd(),
		commands.AdminCmd(),
		commands.MigrateCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
