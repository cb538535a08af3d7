// Package selector ranks candidate media URLs and picks the one to download.
package selector

import (
	"sort"

	"github.com/clipharbor/clipharbor/media"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Scores by URL shape.
const (
	ScoreMaster     = 100
	ScorePlaylist   = 90
	ScoreSingleFile = 80
	ScoreSegment    = 50
	ScoreOther      = 10
)

// Score rates a URL purely from its shape.
func Score(url string) int {
	if media.IsMaster(url) {
		return ScoreMaster
	}

	switch media.KindOf(url) {
	case media.Playlist:
		return ScorePlaylist
	case media.SingleFile:
		return ScoreSingleFile
	case media.Segment:
		return ScoreSegment
	default:
		return ScoreOther
	}
}

// Ranked is a candidate with its score.
type Ranked struct {
	URL   string `json:"url"`
	Score int    `json:"score"`
	Kind  string `json:"kind"`
}

// Rank de-duplicates candidates and orders them by descending score.
// Candidates with equal scores keep their discovery order.
func Rank(candidates []string) []Ranked {
	ranked := lo.Map(lo.Uniq(candidates), func(u string, _ int) Ranked {
		return Ranked{URL: u, Score: Score(u), Kind: media.KindOf(u).String()}
	})

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked
}

// Select returns the best candidate, or None when there are no candidates.
func Select(candidates []string) mo.Option[string] {
	ranked := Rank(candidates)
	if len(ranked) == 0 {
		return mo.None[string]()
	}
	return mo.Some(ranked[0].URL)
}
