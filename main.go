// Package main is the entry point for clipharbor.
package main

import (
	"github.com/clipharbor/clipharbor/cmd"
	"github.com/clipharbor/clipharbor/config"
	"github.com/clipharbor/clipharbor/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
