package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yanqian/prayer-api/internal/domain/location"
)

func newRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "prayer-api",
		Short:         "Serve Islamic prayer times over HTTP",
		Long:          "prayer-api serves daily prayer times, the Hijri date and the Qiblah bearing for configured cities or raw coordinates.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.AddCommand(newServeCmd(), newLocationsCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long:  "Run the HTTP server until SIGINT or SIGTERM. This is the default command.",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func newLocationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locations",
		Short: "Print the configured location dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			registry, cleanup, err := initializeRegistry()
			if err != nil {
				return err
			}
			defer cleanup()
			return printLocations(cmd.OutOrStdout(), registry.All(), asJSON)
		},
	}
	cmd.Flags().Bool("json", false, "Print the dataset as JSON")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := initializeApp()
	if err != nil {
		return fmt.Errorf("failed to wire application: %w", err)
	}
	defer cleanup()

	if err := app.Run(ctx); err != nil {
		return fmt.Errorf("application stopped with error: %w", err)
	}
	return nil
}

func printLocations(w io.Writer, locations []location.Location, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"locations": locations, "count": len(locations)})
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CITY\tLATITUDE\tLONGITUDE")
	for _, loc := range locations {
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\n", loc.City, loc.Latitude, loc.Longitude)
	}
	fmt.Fprintf(tw, "\n%d locations\n", len(locations))
	return tw.Flush()
}
