package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"mazflix/internal/config"
)

type faqEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

var faqEntries = []faqEntry{
	{
		"What is MazFlix?",
		"A classic movie player for public domain films from the golden age of cinema. Everything it plays is legally free to watch.",
	},
	{
		"Are the movies really free?",
		"Yes. The films are in the public domain, so they are free to watch, download and share. No subscription needed.",
	},
	{
		"What genres are available?",
		"Film noir, horror, comedy, drama, adventure and more, from the early 1900s to the 1970s.",
	},
	{
		"What video quality can I expect?",
		"HD when the source has it. Many of the films have been digitally restored.",
	},
	{
		"Can I download movies?",
		`MazFlix streams. The files come from Archive.org; run "mazflix library" to list them with their download URLs.`,
	},
	{
		"Do I need an API key?",
		"Browsing and searching need a TMDB API key (tmdb_api_key, $" + config.APIKeyEnv + " or --api-key). Playing a URL and the streaming listings do not.",
	},
}

var faqCmd = &cobra.Command{
	Use:   "faq [topic]",
	Short: "Answer common questions about MazFlix",
	Args:  cobra.MaximumNArgs(1),
	RunE:  faqRun,
}

func faqRun(cmd *cobra.Command, args []string) error {
	entries := faqEntries
	if len(args) == 1 {
		entries = searchFAQ(args[0])
		if len(entries) == 0 {
			return fmt.Errorf("no FAQ entry mentions %q", args[0])
		}
	}
	if flagJSON {
		return printJSON(cmd.OutOrStdout(), entries)
	}
	printFAQ(cmd.OutOrStdout(), entries)
	return nil
}

// searchFAQ returns the entries whose question or answer mentions topic.
func searchFAQ(topic string) []faqEntry {
	topic = strings.ToLower(strings.TrimSpace(topic))
	var out []faqEntry
	for _, e := range faqEntries {
		if strings.Contains(strings.ToLower(e.Question), topic) || strings.Contains(strings.ToLower(e.Answer), topic) {
			out = append(out, e)
		}
	}
	return out
}

func printFAQ(w io.Writer, entries []faqEntry) {
	for i, e := range entries {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s\n  %s\n", e.Question, e.Answer)
	}
}
