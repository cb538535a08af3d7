// Package open hands a finished download to the system's default handler or a named application.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// runtime.GOOS values with a known opener.
const (
	windows = "windows"
	darwin  = "darwin"
	linux   = "linux"
	android = "android"
)

// Start opens path asynchronously, with app when it is not empty.
func Start(path, app string) error {
	cmd, ok := command(runtime.GOOS, path, app)
	if !ok {
		return fmt.Errorf("opening files is not supported on %s", runtime.GOOS)
	}
	return cmd.Start()
}

func command(goos, path, app string) (*exec.Cmd, bool) {
	if app != "" {
		switch goos {
		case windows:
			return exec.Command("cmd", "/C", "start", "", app, path), true
		case darwin:
			return exec.Command("open", "-a", app, path), true
		case linux, android:
			return exec.Command(app, path), true
		default:
			return nil, false
		}
	}

	switch goos {
	case windows:
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", path), true
	case darwin:
		return exec.Command("open", path), true
	case linux:
		return exec.Command("xdg-open", path), true
	case android:
		return exec.Command("termux-open", path), true
	default:
		return nil, false
	}
}
