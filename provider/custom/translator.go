package custom

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// urlsFromTable reads the array part of a collector result. Entries may be
// strings or tables carrying a url field; anything else is skipped.
func urlsFromTable(table *lua.LTable) []string {
	var urls []string

	table.ForEach(func(k, v lua.LValue) {
		if k.Type() != lua.LTNumber {
			return
		}

		var url string
		switch v := v.(type) {
		case lua.LString:
			url = string(v)
		case *lua.LTable:
			url = getString(v, "url")
		}

		if url = strings.TrimSpace(url); url != "" {
			urls = append(urls, url)
		}
	})

	return urls
}

func getString(table *lua.LTable, key string) string {
	val := table.RawGetString(key)
	if val.Type() == lua.LTString {
		return val.String()
	}
	return ""
}

func toTable(L *lua.LState, items []string) *lua.LTable {
	table := L.NewTable()
	for _, item := range items {
		table.Append(lua.LString(item))
	}
	return table
}
