// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

// ExtractMediaFn is the global function every custom Lua collector must define.
const ExtractMediaFn = "ExtractMedia"

// CollectorTemplate is a Go text/template for scaffolding new Lua collector files.
const CollectorTemplate = `{{ $divider := repeat "-" (plus (max (len .URL) (len .Name) (len .Author) 3) 12) }}{{ $divider }}
-- @name    {{ .Name }}
-- @url     {{ .URL }}
-- @author  {{ .Author }}
-- @license MIT
{{ $divider }}


----- IMPORTS -----
local fetch = require("fetch")
--- END IMPORTS ---



----- MAIN -----

--- Collects media URLs from a page of this site.
-- @param pageURL string URL of the page being inspected
-- @return string[] Table of absolute media URLs
function {{ .ExtractMediaFn }}(pageURL)
	local body = fetch.get(pageURL)
	return fetch.scan(body)
end

--- END MAIN ---

-- ex: ts=4 sw=4 et filetype=lua
`
