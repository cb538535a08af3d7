package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/clipharbor/clipharbor/headless"
	"github.com/clipharbor/clipharbor/icon"
	"github.com/clipharbor/clipharbor/key"
	"github.com/clipharbor/clipharbor/style"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"
)

// warnMissingBrowser tells the user that the render fallback will have to download
// a browser first. The job still runs.
func warnMissingBrowser() {
	if _, ok := headless.LookupBrowser(viper.GetString(key.HeadlessBrowserPath)); ok {
		return
	}

	var installCmd string
	switch runtime.GOOS {
	case "darwin":
		installCmd = "brew install --cask chromium"
	case "linux":
		installCmd = "sudo apt install chromium"
	case "windows":
		installCmd = "scoop install chromium"
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.WarningColor).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.WarningColor).Render(fmt.Sprintf("%s No browser found", icon.Get(icon.Browser)))
	body := style.New().Foreground(style.Text).Render(
		"Pages that build their player with scripts are rendered in a Chromium-based browser.\n" +
			"None was found in PATH, so one will be downloaded when it is first needed.",
	)

	suggestion := fmt.Sprintf("\n\nSet %s, or install one with:\n  %s",
		style.New().Foreground(style.AccentColor).Render(key.HeadlessBrowserPath),
		style.New().Foreground(style.AccentColor).Bold(true).Render(installCmd),
	)

	_, _ = fmt.Fprintln(os.Stderr, box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
