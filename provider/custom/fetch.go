package custom

import (
	"context"

	"github.com/clipharbor/clipharbor/blocklist"
	"github.com/clipharbor/clipharbor/extractor"
	lua "github.com/yuin/gopher-lua"
)

// FetchModule is the name collectors require to reach the application HTTP client.
const FetchModule = "fetch"

// Fetcher retrieves a whole response body.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// registerFetch preloads the fetch module:
//
//	local fetch = require("fetch")
//	fetch.get(url)   -> body string, requested with the configured identity and timeouts
//	fetch.scan(text) -> table of media URLs found in text, blocklist applied
func registerFetch(L *lua.LState, fetcher Fetcher, filter blocklist.Filter) {
	scripts := extractor.Scripts{Filter: filter}

	L.PreloadModule(FetchModule, func(L *lua.LState) int {
		mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
			"get": func(L *lua.LState) int {
				url := L.CheckString(1)

				ctx := L.Context()
				if ctx == nil {
					ctx = context.Background()
				}

				body, err := fetcher.Fetch(ctx, url)
				if err != nil {
					L.RaiseError("fetch.get: %s", err.Error())
					return 0
				}

				L.Push(lua.LString(body))
				return 1
			},
			"scan": func(L *lua.LState) int {
				L.Push(toTable(L, scripts.ScanText(L.CheckString(1))))
				return 1
			},
		})

		L.Push(mod)
		return 1
	})
}
