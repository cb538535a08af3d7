package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/clipharbor/clipharbor/color"
	"github.com/clipharbor/clipharbor/icon"
	"github.com/clipharbor/clipharbor/key"
	"github.com/clipharbor/clipharbor/log"
	"github.com/clipharbor/clipharbor/open"
	"github.com/clipharbor/clipharbor/pipeline"
	"github.com/clipharbor/clipharbor/style"
	"github.com/clipharbor/clipharbor/tui"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

func addJobFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("plain", "p", false, "Print log lines instead of the progress view")
	cmd.Flags().BoolP("json", "j", false, "Print a JSON report of the finished job")
	cmd.MarkFlagsMutuallyExclusive("plain", "json")
	cmd.Flags().Bool("open", false, "Open the downloaded file when the job completes")
	cmd.Flags().String("open-with", "", "Application to open the downloaded file with")
}

func init() {
	rootCmd.AddCommand(getCmd)
	addJobFlags(getCmd)
}

var getCmd = &cobra.Command{
	Use:     "get <url> [directory]",
	Short:   "Download the best video found on a page",
	Long:    "Discover the media on a page, pick the best stream, resolve HLS playlists and write one output file.",
	Example: "  clipharbor get https://example.com/watch/42 ~/Videos",
	Args:    cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		pageURL, dir := argsOrPrompt(args)
		runJob(cmd, pageURL, dir)
	},
}

// runJob runs one download job with the presentation picked by the command flags.
func runJob(cmd *cobra.Command, pageURL, dir string) {
	job, err := pipeline.NewJob(pageURL, dir)
	handleErr(err)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	deps := pipeline.DepsFromConfig()
	if viper.GetBool(key.HeadlessEnabled) {
		warnMissingBrowser()
	}

	var res pipeline.Result

	switch {
	case lo.Must(cmd.Flags().GetBool("json")):
		res, err = pipeline.Run(ctx, job, deps, pipeline.Discard)
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(res))
		exitOn(err)
		return
	case lo.Must(cmd.Flags().GetBool("plain")) || !term.IsTerminal(int(os.Stdout.Fd())):
		res, err = pipeline.Run(ctx, job, deps, plainSink(cmd))
	default:
		res, err = runWithView(ctx, job, deps)
	}

	printResult(cmd, res)
	openOutput(cmd, res)
	exitOn(err)
}

// openOutput hands a completed download to the requested application.
func openOutput(cmd *cobra.Command, res pipeline.Result) {
	app := lo.Must(cmd.Flags().GetString("open-with"))
	if res.Status != pipeline.StatusCompleted || (!lo.Must(cmd.Flags().GetBool("open")) && app == "") {
		return
	}

	if err := open.Start(res.Output, app); err != nil {
		log.Warn(err)
		cmd.PrintErrln(style.Fg(color.Yellow)("could not open " + res.Output + ": " + err.Error()))
	}
}

// runWithView runs the job on its own goroutine and shows the progress view until it ends.
func runWithView(ctx context.Context, job pipeline.Job, deps pipeline.Deps) (pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sink := pipeline.NewChannelSink(64)

	type outcome struct {
		res pipeline.Result
		err error
	}
	done := make(chan outcome, 1)

	go func() {
		defer sink.Close()
		res, err := pipeline.Run(ctx, job, deps, sink)
		done <- outcome{res, err}
	}()

	viewErr := tui.Run(&tui.Options{
		PageURL: job.PageURL,
		Events:  sink.Events(),
		Cancel:  cancel,
	})
	if viewErr != nil {
		cancel()
	}

	// Keep draining so the job never blocks on a full channel.
	go func() {
		for range sink.Events() {
		}
	}()

	o := <-done
	return o.res, o.err
}

func plainSink(cmd *cobra.Command) pipeline.Sink {
	return pipeline.SinkFunc(func(e pipeline.Event) {
		if e.Kind == pipeline.EventLog {
			cmd.Println(style.Faint(e.Time.Format("15:04:05")) + " " + e.Message)
		}
	})
}

func printResult(cmd *cobra.Command, res pipeline.Result) {
	switch res.Status {
	case pipeline.StatusCompleted:
		cmd.Printf("%s %s\n", icon.Get(icon.Success), style.Fg(color.Green)(res.Line()))
	case pipeline.StatusNoStream:
		cmd.Printf("%s %s\n", icon.Get(icon.Fail), style.Fg(color.Yellow)(res.Line()))
	}
}

// exitOn fails the process for job errors. Finding no stream is not a failure.
func exitOn(err error) {
	if err == nil || errors.Is(err, pipeline.ErrDiscoveryExhausted) {
		return
	}

	if errors.Is(err, context.Canceled) {
		handleErr(fmt.Errorf("cancelled"))
	}

	handleErr(err)
}
