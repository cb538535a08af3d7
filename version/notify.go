package version

import (
	"context"
	"fmt"
	"time"

	"github.com/clipharbor/clipharbor/color"
	"github.com/clipharbor/clipharbor/constant"
	"github.com/clipharbor/clipharbor/icon"
	"github.com/clipharbor/clipharbor/key"
	"github.com/clipharbor/clipharbor/style"
	"github.com/clipharbor/clipharbor/util"
	"github.com/spf13/viper"
)

// Notify displays a terminal alert if a more recent stable application version is available.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Checking if new version is available...", icon.Get(icon.Progress)))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	version, err := Latest(ctx, false)
	erase()
	if err != nil {
		return
	}

	if comp, err := Compare(version, constant.Version); err != nil || comp <= 0 {
		return
	}

	fmt.Printf(`
%s New version is available %s %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(version),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint("https://github.com/clipharbor/clipharbor/releases/tag/v"+version),
	)

}
