// Package custom runs user-written Lua collectors.
//
// A collector is a Lua file defining a global ExtractMedia(pageURL) function that
// returns a table of media URLs, either as plain strings or as tables with a url field.
package custom

import (
	"fmt"

	"github.com/clipharbor/clipharbor/blocklist"
	"github.com/clipharbor/clipharbor/constant"
	"github.com/clipharbor/clipharbor/util"
	libs "github.com/metafates/mangal-lua-libs"
	lua "github.com/yuin/gopher-lua"
)

// Load compiles the collector at path and checks that it defines ExtractMedia.
func Load(path string, fetcher Fetcher, filter blocklist.Filter) (*Collector, error) {
	state := lua.NewState()
	libs.Preload(state)
	registerFetch(state, fetcher, filter)

	if err := compileAndRun(state, path); err != nil {
		state.Close()
		return nil, err
	}

	name := util.FileStem(path)

	if state.GetGlobal(constant.ExtractMediaFn).Type() != lua.LTFunction {
		state.Close()
		return nil, fmt.Errorf("function %s is required but not defined in %s", constant.ExtractMediaFn, name)
	}

	return &Collector{
		name:   name,
		state:  state,
		filter: filter,
	}, nil
}
