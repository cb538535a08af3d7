// Package cmd implements the command-line interface for clipharbor.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/AlecAivazis/survey/v2"
	"github.com/clipharbor/clipharbor/color"
	"github.com/clipharbor/clipharbor/config"
	"github.com/clipharbor/clipharbor/constant"
	"github.com/clipharbor/clipharbor/icon"
	"github.com/clipharbor/clipharbor/key"
	"github.com/clipharbor/clipharbor/log"
	"github.com/clipharbor/clipharbor/style"
	"github.com/clipharbor/clipharbor/util"
	"github.com/clipharbor/clipharbor/version"
	"github.com/clipharbor/clipharbor/where"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().StringP("output", "o", "", "Directory the video is written to")
	lo.Must0(viper.BindPFlag(key.DownloadDir, rootCmd.PersistentFlags().Lookup("output")))

	rootCmd.PersistentFlags().Bool("headful", false, "Show the browser window when the render fallback runs")
	lo.Must0(viper.BindPFlag(key.HeadlessHeadful, rootCmd.PersistentFlags().Lookup("headful")))

	rootCmd.PersistentFlags().Bool("tls-fingerprint", false, "Fetch pages with a Chrome TLS fingerprint")
	lo.Must0(viper.BindPFlag(key.NetworkTLSFingerprint, rootCmd.PersistentFlags().Lookup("tls-fingerprint")))

	addJobFlags(rootCmd)
	rootCmd.SetOut(os.Stdout)

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})

	// Leftovers of interrupted runs.
	go func() {
		_ = util.Delete(where.Temp())
	}()
}

// rootCmd defines the entry point for the clipharbor application.
var rootCmd = &cobra.Command{
	Use:   constant.App + " [url] [directory]",
	Short: "Find the video on a web page and save it to disk",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Find the video on a web page and save it to disk"),
	Args: cobra.MaximumNArgs(2),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.Validate()
	},
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		pageURL, dir := argsOrPrompt(args)
		runJob(cmd, pageURL, dir)
	},
}

// argsOrPrompt asks for whatever the command line left out.
func argsOrPrompt(args []string) (pageURL, dir string) {
	if len(args) > 0 {
		pageURL = args[0]
	}
	if len(args) > 1 {
		dir = args[1]
	}

	if pageURL == "" {
		handleErr(survey.AskOne(&survey.Input{
			Message: "Page URL:",
			Help:    "A web page with a video on it, or a direct .mp4 or .m3u8 link",
		}, &pageURL, survey.WithValidator(survey.Required)))
	}

	if dir == "" {
		dir = where.Downloads(viper.GetString(key.DownloadDir))
		if len(args) == 0 {
			handleErr(survey.AskOne(&survey.Input{
				Message: "Save to:",
				Default: dir,
			}, &dir, survey.WithValidator(survey.Required)))
		}
	}

	return strings.TrimSpace(pageURL), strings.TrimSpace(dir)
}

// Execute initializes child command routing and processes the CLI entry point.
// An interrupt cancels the running job; a second one kills the process.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		stop()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
