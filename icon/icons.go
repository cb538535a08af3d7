package icon

// Icon identifies a UI symbol in the global registry.
type Icon int

const (
	Lua Icon = iota + 1
	Fail
	Success
	Progress
	Link
	Playlist
	Download
	Browser
)

var icons = map[Icon]*iconDef{
	Lua: {
		emoji:   "🌙",
		nerd:    "",
		plain:   "Lua",
		kaomoji: "(◕‿◕)",
		squares: "◧",
	},
	Fail: {
		emoji:   "💀",
		nerd:    "ﮊ",
		plain:   "X",
		kaomoji: "(×_×)",
		squares: "■",
	},
	Success: {
		emoji:   "🎉",
		nerd:    "",
		plain:   "OK",
		kaomoji: "(ᵔ◡ᵔ)",
		squares: "▣",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    "",
		plain:   "...",
		kaomoji: "(・_・ヾ",
		squares: "□",
	},
	Link: {
		emoji:   "🔗",
		nerd:    "",
		plain:   "->",
		kaomoji: "(⌐■_■)",
		squares: "▤",
	},
	Playlist: {
		emoji:   "📜",
		nerd:    "蘿",
		plain:   "HLS",
		kaomoji: "(¬‿¬)",
		squares: "▥",
	},
	Download: {
		emoji:   "📥",
		nerd:    "",
		plain:   "DL",
		kaomoji: "(づ｡◕‿‿◕｡)づ",
		squares: "▼",
	},
	Browser: {
		emoji:   "🌐",
		nerd:    "",
		plain:   "www",
		kaomoji: "(ʘ‿ʘ)",
		squares: "◎",
	},
}
