package custom

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/clipharbor/clipharbor/blocklist"
	"github.com/clipharbor/clipharbor/constant"
	"github.com/samber/lo"
	lua "github.com/yuin/gopher-lua"
)

// Collector is a loaded Lua collector. It is safe for sequential use from several goroutines.
type Collector struct {
	name   string
	filter blocklist.Filter

	mu    sync.Mutex
	state *lua.LState
}

// Name is the script file name without its extension.
func (c *Collector) Name() string {
	return c.name
}

// Extract calls ExtractMedia(pageURL) and returns the filtered, de-duplicated URLs.
func (c *Collector) Extract(ctx context.Context, pageURL string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.SetContext(ctx)
	defer c.state.RemoveContext()

	val, err := c.call(constant.ExtractMediaFn, lua.LTTable, lua.LString(pageURL))
	if err != nil {
		return nil, err
	}

	return lo.Uniq(c.filter.Apply(resolveAll(pageURL, urlsFromTable(val.(*lua.LTable))))), nil
}

// resolveAll makes script results absolute against pageURL and keeps only http(s) URLs.
func resolveAll(pageURL string, refs []string) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		base = &url.URL{}
	}

	return lo.FilterMap(refs, func(ref string, _ int) (string, bool) {
		u, err := base.Parse(ref)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return "", false
		}
		return u.String(), true
	})
}

// Close releases the Lua state.
func (c *Collector) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Close()
}

func (c *Collector) call(fn string, retType lua.LValueType, args ...lua.LValue) (lua.LValue, error) {
	luaFn := c.state.GetGlobal(fn)
	if luaFn.Type() != lua.LTFunction {
		return nil, fmt.Errorf("function %s is not defined", fn)
	}

	err := c.state.CallByParam(lua.P{
		Fn:      luaFn,
		NRet:    1,
		Protect: true,
	}, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", c.name, fn, err)
	}

	retval := c.state.Get(-1)
	c.state.Pop(1)

	if retval.Type() != retType {
		return nil, fmt.Errorf("%s: %s returned %s, expected %s", c.name, fn, retval.Type(), retType)
	}

	return retval, nil
}
