package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mazflix/internal/catalog"
	"mazflix/internal/config"
	"mazflix/internal/httputil"
	"mazflix/internal/media"
	"mazflix/internal/playback"
	"mazflix/internal/player"
	"mazflix/internal/streaming"
	"mazflix/internal/ui"
	"mazflix/internal/videosrc"
)

// browseRun is the default command: mazflix [query]
func browseRun(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	c, err := newCatalog()
	if err != nil {
		return err
	}

	if interactive() {
		opts, err := appOptions(c)
		if err != nil {
			return err
		}
		opts.Query = query
		return ui.Run(opts)
	}

	debugf("searching for: %q", query)
	page, err := c.Search(cmd.Context(), query, 1)
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(cmd.OutOrStdout(), page)
	}
	return printMovies(cmd.OutOrStdout(), page.Results)
}

var watchCmd = &cobra.Command{
	Use:   "watch <movie-id>",
	Short: "Show one movie and play it",
	Args:  cobra.ExactArgs(1),
	RunE:  watchRun,
}

func watchRun(cmd *cobra.Command, args []string) error {
	if err := httputil.ValidateNumericID(args[0]); err != nil {
		return err
	}
	id, _ := strconv.Atoi(args[0])

	c, err := newCatalog()
	if err != nil {
		return err
	}

	if interactive() {
		opts, err := appOptions(c)
		if err != nil {
			return err
		}
		opts.Movie = id
		return ui.Run(opts)
	}

	detail, err := c.Movie(cmd.Context(), id)
	if err != nil {
		return err
	}
	resolver, err := newResolver()
	if err != nil {
		return err
	}
	src := resolver.Resolve(id)

	if flagJSON {
		return printJSON(cmd.OutOrStdout(), struct {
			Movie   *media.MovieDetail   `json:"movie"`
			Video   media.VideoSource    `json:"video"`
			Sources []media.Availability `json:"sources"`
		}{detail, src, streaming.Sources(id)})
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s (%s)\n", detail.Title, detail.Year())
	if detail.Overview != "" {
		fmt.Fprintf(w, "%s\n", detail.Overview)
	}
	if src.Available {
		fmt.Fprintf(w, "video: %s\n", src.URL)
	} else {
		fmt.Fprintln(w, "video: not available")
	}
	return nil
}

var flagTitle string

var playCmd = &cobra.Command{
	Use:   "play <url>",
	Short: "Play a media URL with the playback controls",
	Args:  cobra.ExactArgs(1),
	RunE:  playRun,
}

func init() {
	playCmd.Flags().StringVarP(&flagTitle, "title", "t", "", "Title shown in the player (default: derived from the URL)")
}

func playRun(cmd *cobra.Command, args []string) error {
	mediaURL := args[0]
	if err := httputil.ValidateMediaURL(mediaURL); err != nil {
		return err
	}
	if !videosrc.IsPlayableURL(mediaURL) {
		return fmt.Errorf("%s does not look like a video file or stream", httputil.RedactURL(mediaURL))
	}
	title := flagTitle
	if title == "" {
		title = titleFromURL(mediaURL)
	}

	if !interactive() {
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), map[string]string{"title": title, "url": mediaURL})
		}
		return launchExternal(cmd.Context(), mediaURL, title)
	}

	opts, err := appOptions(nil)
	if err != nil {
		return err
	}
	opts.URL = mediaURL
	opts.Title = title
	return ui.Run(opts)
}

// launchExternal plays without the TUI, in the foreground.
func launchExternal(ctx context.Context, mediaURL, title string) error {
	// Without a terminal to draw controls on, mpv runs standalone too.
	p := player.NewExternal(cfg.Player, player.Options{Args: cfg.PlayerArgs, Logger: logger})
	if !p.Available() {
		return fmt.Errorf("player %q not found in PATH", cfg.Player)
	}
	return p.Launch(ctx, mediaURL, title)
}

func titleFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if t := videosrc.TitleFromFile(u.Path); t != "" && t != "." && t != "/" {
		return t
	}
	return u.Host
}

func newCatalog() (*catalog.Client, error) {
	if cfg.TMDBAPIKey == "" {
		return nil, fmt.Errorf("%w: set tmdb_api_key in the config file, $%s or --api-key", catalog.ErrNoAPIKey, config.APIKeyEnv)
	}
	return catalog.New(cfg.TMDBAPIKey,
		catalog.WithBaseURL(cfg.TMDBBaseURL),
		catalog.WithImageBaseURL(cfg.ImageBaseURL),
		catalog.WithHTTPClient(httputil.NewClient(cfg.HTTPTimeout)),
		catalog.WithLogger(logger),
		catalog.WithDetailCache(cfg.DetailCache),
	), nil
}

func newResolver() (*videosrc.Resolver, error) {
	overrides, err := cfg.VideoOverrides()
	if err != nil {
		return nil, err
	}
	if !cfg.FallbackVideo {
		return videosrc.NewResolver("", overrides), nil
	}
	r := videosrc.Default()
	for id, u := range overrides {
		r.Add(id, u)
	}
	return r, nil
}

// appOptions wires the configured player and catalog into the TUI. c may
// be nil when only direct playback is needed.
func appOptions(c *catalog.Client) (ui.Options, error) {
	resolver, err := newResolver()
	if err != nil {
		return ui.Options{}, err
	}

	popts := player.Options{Args: cfg.PlayerArgs, Logger: logger}
	p := player.New(cfg.Player, popts)
	if !p.Available() {
		return ui.Options{}, fmt.Errorf("player %q not found in PATH", cfg.Player)
	}

	opts := ui.Options{
		Videos: resolver,
		Playback: playback.Options{
			ControlsTimeout: cfg.ControlsTimeout,
			SkipStep:        cfg.SkipStep(),
			VolumeStep:      cfg.VolumeStep,
			Volume:          cfg.Volume,
			Logger:          logger,
		},
		Logger: logger,
	}
	if c != nil {
		opts.Catalog = c
	}

	switch p := p.(type) {
	case *player.MPV:
		opts.NewPrimitive = func(title string) playback.Primitive {
			o := popts
			o.Title = title
			return player.NewMPV(o)
		}
	case *player.External:
		opts.Launcher = p
	}
	return opts, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printMovies(w io.Writer, movies []media.Movie) error {
	if len(movies) == 0 {
		fmt.Fprintln(w, "No movies found.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, m := range movies {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.1f\n", m.ID, m.Title, m.Year(), m.VoteAverage)
	}
	return tw.Flush()
}
