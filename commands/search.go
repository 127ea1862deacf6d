package commands

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"rental-market/models"
	"rental-market/services"
	"rental-market/storage"
)

func SearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search available listings",
		Long:  `Searches available properties matching the filter flags and prints them ranked: premium hosts first, then newest.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()

			f, err := filterFromFlags(cmd, a.cfg.PriceCeiling)
			if err != nil {
				return err
			}
			demo, _ := cmd.Flags().GetBool("demo")
			asJSON, _ := cmd.Flags().GetBool("json")
			toCSV, _ := cmd.Flags().GetBool("csv")
			insights, _ := cmd.Flags().GetBool("insights")

			src, release, err := a.listingSource(demo)
			if err != nil {
				return err
			}
			defer release()

			svc := a.searchService(src)
			var results []models.NormalizedListing
			err = a.retry().Do(cmd.Context(), "search", func(ctx context.Context) error {
				var err error
				results, err = svc.Search(ctx, f)
				return err
			})
			if err != nil {
				return err
			}
			a.logger.Info("Found %d listings", len(results))

			if toCSV {
				if err := exportCSV(a.cfg.CSVOutputPath, results); err != nil {
					return err
				}
				a.logger.Info("Results saved to %s", a.cfg.CSVOutputPath)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, results)
			}
			printListings(out, results)
			if insights {
				ins := services.NewInsightService(a.logger)
				ins.Print(out, ins.Generate(results))
			}
			return nil
		},
	}

	addFilterFlags(cmd)
	cmd.Flags().Bool("demo", false, "Search the built-in sample listings instead of Postgres")
	cmd.Flags().Bool("json", false, "Print results as JSON")
	cmd.Flags().Bool("csv", false, "Also export results to CSV_OUTPUT_PATH")
	cmd.Flags().Bool("insights", false, "Print price and rating insights after the results")

	return cmd
}

func exportCSV(path string, results []models.NormalizedListing) error {
	w, err := storage.NewCSVWriter(path)
	if err != nil {
		return err
	}
	return export(w, results)
}

func export(exp storage.ListingExporter, results []models.NormalizedListing) error {
	if err := exp.Export(results); err != nil {
		_ = exp.Close()
		return err
	}
	return exp.Close()
}

// BrowseCmd reads filter updates from stdin, one JSON object per line, and
// searches for each as it arrives. Searches overlap; only the result of the
// newest filter is kept and printed at the end.
func BrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Search interactively, one JSON filter update per line",
		Long: `Reads filter updates such as {"location":"malibu"} or {"propertyType":"villa","bedrooms":2}
from stdin. Each update is applied on top of the previous filter and starts a new search.
When input ends, the results of the last filter are printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			demo, _ := cmd.Flags().GetBool("demo")

			src, release, err := a.listingSource(demo)
			if err != nil {
				return err
			}
			defer release()

			svc := a.searchService(src)
			latest := &services.Latest{}
			ctx := cmd.Context()
			in, out := cmd.InOrStdin(), cmd.OutOrStdout()

			interactive := isTerminal(in)
			prompt := func() {
				if interactive {
					fmt.Fprint(out, "filter> ")
				}
			}

			var g errgroup.Group
			f := defaultFilter(a.cfg.PriceCeiling)
			scanner := bufio.NewScanner(in)
			prompt()
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					prompt()
					continue
				}
				next, err := parseFilterUpdate(line, f)
				if err != nil {
					a.logger.Warn("Ignoring update %q: %v", line, err)
					prompt()
					continue
				}
				f = next
				ticket := latest.Begin()
				g.Go(func() error {
					if svc.SearchInto(ctx, latest, ticket, next) {
						snap := latest.Current()
						a.logger.Info("Filter #%d: %d listings", snap.Ticket, len(snap.Results))
					}
					return nil
				})
				prompt()
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read filters: %w", err)
			}
			_ = g.Wait()

			snap := latest.Current()
			if snap.Ticket == 0 {
				fmt.Fprintln(out, "No filters given.")
				return nil
			}
			if snap.Err != nil {
				return snap.Err
			}
			printListings(out, snap.Results)
			return nil
		},
	}

	cmd.Flags().Bool("demo", false, "Browse the built-in sample listings instead of Postgres")
	return cmd
}
