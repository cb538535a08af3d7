package cmd

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/clipharbor/clipharbor/blocklist"
	"github.com/clipharbor/clipharbor/color"
	"github.com/clipharbor/clipharbor/constant"
	"github.com/clipharbor/clipharbor/filesystem"
	"github.com/clipharbor/clipharbor/icon"
	"github.com/clipharbor/clipharbor/network"
	"github.com/clipharbor/clipharbor/provider"
	"github.com/clipharbor/clipharbor/provider/custom"
	"github.com/clipharbor/clipharbor/style"
	"github.com/clipharbor/clipharbor/util"
	"github.com/clipharbor/clipharbor/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

// sourcesCmd groups the commands that manage custom Lua collectors.
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage custom Lua collectors",
	Long: `Custom collectors are Lua scripts in the sources directory that define
ExtractMedia(pageURL) and return a table of media URLs. They run on every page
after the built-in collectors.`,
}

func init() {
	sourcesCmd.AddCommand(sourcesListCmd)

	sourcesListCmd.Flags().BoolP("raw", "r", false, "Suppress the header and print names only")
	sourcesListCmd.Flags().BoolP("path", "p", false, "Print the script path next to each name")
}

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed collectors",
	Run: func(cmd *cobra.Command, args []string) {
		providers, err := provider.CustomProviders()
		handleErr(err)

		if !lo.Must(cmd.Flags().GetBool("raw")) {
			cmd.Println(style.New().Foreground(color.HiBlue).Bold(true).Render("Custom:"))
		}

		withPath := lo.Must(cmd.Flags().GetBool("path"))
		for _, p := range providers {
			if withPath {
				cmd.Printf("%s %s\n", p.Name, style.Faint(p.Path))
				continue
			}
			cmd.Println(p.Name)
		}
	},
}

func completionSourceNames(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Map(provider.Customs(), func(p *provider.Provider, _ int) string {
		return p.Name
	}), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	sourcesCmd.AddCommand(sourcesRemoveCmd)

	sourcesRemoveCmd.Flags().StringArrayP("name", "n", []string{}, "Name of the collector(s) to remove")
	lo.Must0(sourcesRemoveCmd.RegisterFlagCompletionFunc("name", completionSourceNames))
}

var sourcesRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove installed collectors",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range lo.Must(cmd.Flags().GetStringArray("name")) {
			p, ok := provider.Get(name)
			if !ok {
				handleErr(fmt.Errorf("collector %s is not installed", name))
			}

			handleErr(filesystem.API().Remove(p.Path))
			cmd.Printf("%s removed %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(name))
		}
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesInstallCmd)
}

var sourcesInstallCmd = &cobra.Command{
	Use:     "install <url>",
	Short:   "Install a collector script from a URL",
	Example: "  clipharbor sources install https://example.com/collectors/mysite.lua",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := network.New(network.OptionsFromConfig())

		target, updated, err := provider.Install(cmd.Context(), client, args[0])
		handleErr(err)

		if !updated {
			cmd.Printf("%s %s is up to date\n", icon.Get(icon.Success), target)
			return
		}
		cmd.Printf("%s installed %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(target))
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesRunCmd)
}

var sourcesRunCmd = &cobra.Command{
	Use:   "run <script> <page-url>",
	Short: "Run a collector script against a page and print what it returns",
	Long: `Load a Lua collector from any path and call its ExtractMedia function once.
Useful while writing a collector; the blocklist is applied as usual.`,
	Example: "  clipharbor sources run ./mysite.lua https://mysite.example/watch/1",
	Args:    cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		path, err := filepath.Abs(args[0])
		handleErr(err)

		collector, err := custom.Load(path, network.New(network.OptionsFromConfig()), blocklist.FromConfig())
		handleErr(err)
		defer collector.Close()

		urls, err := collector.Extract(cmd.Context(), args[1])
		handleErr(err)

		for _, u := range urls {
			cmd.Println(u)
		}
		cmd.Println(style.Faint(util.Quantify(len(urls), "candidate", "candidates")))
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesGenCmd)

	sourcesGenCmd.Flags().StringP("name", "n", "", "Name of the new collector")
	sourcesGenCmd.Flags().StringP("url", "u", "", "Base URL of the site it handles")

	lo.Must0(sourcesGenCmd.MarkFlagRequired("name"))
	lo.Must0(sourcesGenCmd.MarkFlagRequired("url"))
}

var sourcesGenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Scaffold a new collector script",
	Run: func(cmd *cobra.Command, args []string) {
		author := "Anonymous"
		if usr, err := user.Current(); err == nil {
			author = usr.Username
		}

		s := struct {
			Name           string
			URL            string
			ExtractMediaFn string
			Author         string
		}{
			Name:           lo.Must(cmd.Flags().GetString("name")),
			URL:            lo.Must(cmd.Flags().GetString("url")),
			ExtractMediaFn: constant.ExtractMediaFn,
			Author:         author,
		}

		funcMap := template.FuncMap{
			"repeat": strings.Repeat,
			"plus":   func(a, b int) int { return a + b },
			"max":    util.Max[int],
		}

		tmpl, err := template.New("collector").Funcs(funcMap).Parse(constant.CollectorTemplate)
		handleErr(err)

		target := filepath.Join(where.Sources(), util.SanitizeFilename(s.Name)+provider.CustomProviderExtension)
		if exists, _ := filesystem.API().Exists(target); exists {
			handleErr(fmt.Errorf("%s already exists", target))
		}

		f, err := filesystem.API().Create(target)
		handleErr(err)
		defer util.Ignore(f.Close)

		handleErr(tmpl.Execute(f, s))
		cmd.SetOut(os.Stdout)
		cmd.Println(target)
	},
}
