package cmd

import (
	"encoding/json"

	"github.com/clipharbor/clipharbor/icon"
	"github.com/clipharbor/clipharbor/key"
	"github.com/clipharbor/clipharbor/log"
	"github.com/clipharbor/clipharbor/network"
	"github.com/clipharbor/clipharbor/playlist"
	"github.com/clipharbor/clipharbor/style"
	"github.com/clipharbor/clipharbor/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().BoolP("json", "j", false, "Print the segment list as a JSON array")
}

var resolveCmd = &cobra.Command{
	Use:     "resolve <playlist-url>",
	Short:   "Print the flattened segment list of an HLS playlist",
	Example: "  clipharbor resolve https://cdn.example.com/hls/master.m3u8",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		resolver := &playlist.Resolver{
			Client:   network.New(network.OptionsFromConfig()),
			MaxDepth: viper.GetInt(key.PlaylistMaxDepth),
			OnPlaylist: func(url string, depth int) {
				log.Job("", "resolve").Debugf("fetching playlist %s (depth %d)", url, depth)
			},
		}

		erase := util.PrintErasable(icon.Get(icon.Playlist) + " Resolving playlist...")
		segments, err := resolver.Resolve(cmd.Context(), args[0])
		erase()
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(segments))
			return
		}

		for _, s := range segments {
			cmd.Println(s)
		}
		cmd.Println(style.Faint(util.Quantify(len(segments), "segment", "segments")))
	},
}
