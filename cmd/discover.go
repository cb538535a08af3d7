package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/clipharbor/clipharbor/color"
	"github.com/clipharbor/clipharbor/icon"
	"github.com/clipharbor/clipharbor/media"
	"github.com/clipharbor/clipharbor/pipeline"
	"github.com/clipharbor/clipharbor/selector"
	"github.com/clipharbor/clipharbor/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(discoverCmd)

	discoverCmd.Flags().BoolP("json", "j", false, "Print the ranked candidates as JSON")
	discoverCmd.Flags().BoolP("verbose", "V", false, "Print what each collector found")
}

var discoverCmd = &cobra.Command{
	Use:     "discover <url>",
	Short:   "List the media candidates found on a page, best first",
	Example: "  clipharbor discover https://example.com/watch/42",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var sink pipeline.Sink = pipeline.Discard
		if lo.Must(cmd.Flags().GetBool("verbose")) {
			sink = plainSink(cmd)
		}

		candidates, err := pipeline.Discover(cmd.Context(), args[0], pipeline.DepsFromConfig(), sink)
		handleErr(err)

		ranked := selector.Rank(candidates)

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(ranked))
			return
		}

		if len(ranked) == 0 {
			cmd.Printf("%s %s\n", icon.Get(icon.Fail), style.Fg(color.Yellow)(pipeline.ErrDiscoveryExhausted.Error()))
			return
		}

		for i, r := range ranked {
			marker := "  "
			if i == 0 {
				marker = style.Fg(color.Green)("> ")
			}

			cmd.Printf("%s%s %s %s\n",
				marker,
				style.Fg(color.Purple)(fmt.Sprintf("%3d", r.Score)),
				style.Fg(color.ForKind(media.KindOf(r.URL)))(fmt.Sprintf("%-8s", r.Kind)),
				r.URL,
			)
		}
	},
}
