package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"mazflix/internal/catalog"
	"mazflix/internal/media"
	"mazflix/internal/streaming"
	"mazflix/internal/ui"
)

var streamingCmd = &cobra.Command{
	Use:   "streaming [service]",
	Short: "Show what is streaming on a platform",
	Long: `Show what is streaming on a platform. Run "mazflix platforms" for the
service IDs; unknown services fall back to ` + streaming.DefaultService + `.`,
	Args: cobra.MaximumNArgs(1),
	RunE: streamingRun,
}

func streamingRun(cmd *cobra.Command, args []string) error {
	service := streaming.DefaultService
	if len(args) == 1 {
		service = strings.ToLower(args[0])
	}

	if interactive() {
		return runStreamingUI(service)
	}

	listing := streaming.Currently(service)
	listing.Timestamp = time.Now().UTC()
	if listing.Fallback {
		debugf("unknown service %q, showing %s", service, streaming.DefaultService)
	}
	return printListing(cmd.OutOrStdout(), listing)
}

// runStreamingUI opens the TUI on the streaming view. Browsing movies
// from there needs an API key; without one the browser shows the error.
func runStreamingUI(service string) error {
	var c *catalog.Client
	if cfg.TMDBAPIKey != "" {
		c, _ = newCatalog()
	}
	opts, err := appOptions(c)
	if err != nil {
		// The listings themselves need neither a player nor an API key.
		debugf("streaming view without playback: %v", err)
		opts = ui.Options{Logger: logger}
		if c != nil {
			opts.Catalog = c
		}
	}
	opts.Service = service
	return ui.Run(opts)
}

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Show titles trending across platforms",
	Args:  cobra.NoArgs,
	RunE:  trendingRun,
}

func trendingRun(cmd *cobra.Command, args []string) error {
	if interactive() {
		return runStreamingUI(ui.TrendingTab)
	}
	return printListing(cmd.OutOrStdout(), streaming.Trending(time.Now()))
}

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "List the known streaming platforms",
	Args:  cobra.NoArgs,
	RunE:  platformsRun,
}

func platformsRun(cmd *cobra.Command, args []string) error {
	platforms := streaming.Platforms()
	if flagJSON {
		return printJSON(cmd.OutOrStdout(), platforms)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tWATCHMODE")
	for _, p := range platforms {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.Name, streaming.ServiceID(p.ID))
	}
	return tw.Flush()
}

func printListing(w io.Writer, listing streaming.Listing) error {
	if flagJSON {
		return printJSON(w, listing)
	}
	if len(listing.Titles) == 0 {
		fmt.Fprintln(w, "Nothing streaming here right now.")
		return nil
	}

	name := listing.Service
	if p, ok := streaming.Platform(listing.Service); ok {
		name = p.Name
	}
	fmt.Fprintf(w, "%s (%d titles, demo data)\n", name, listing.Count)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, t := range listing.Titles {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%.1f\t%s\n", t.Title, t.Year, t.Genre, t.Rating, platformList(t))
	}
	return tw.Flush()
}

func platformList(t media.StreamingTitle) string {
	if len(t.Platforms) == 0 {
		return "-"
	}
	return strings.Join(t.Platforms, ", ")
}
