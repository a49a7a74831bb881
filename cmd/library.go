package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mazflix/internal/httputil"
	"mazflix/internal/videosrc"
)

var libraryCmd = &cobra.Command{
	Use:   "library [collection]",
	Short: "List the public-domain films in an archive.org collection",
	Long: `List the video files of an archive.org collection (default: the
"collection" config value). Play one with "mazflix play <url>".`,
	Args: cobra.MaximumNArgs(1),
	RunE: libraryRun,
}

func libraryRun(cmd *cobra.Command, args []string) error {
	collection := cfg.Collection
	if len(args) == 1 {
		collection = args[0]
	}

	archive := videosrc.NewArchive(httputil.NewClient(cfg.HTTPTimeout), "")
	files, err := archive.List(cmd.Context(), collection)
	if err != nil {
		return err
	}
	debugf("collection %s: %d files", collection, len(files))

	if flagJSON {
		return printJSON(cmd.OutOrStdout(), files)
	}
	if len(files) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No videos found.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, f := range files {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Title, f.Size, f.URL)
	}
	return tw.Flush()
}
