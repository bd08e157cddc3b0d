package subtitles

import (
	"math"
	"slices"
	"strings"
)

// Release-name weights. Broadcast (HDTV) captures carry ad-break and recap
// timing that does not line up with streaming sources, so they sink.
const (
	weightWebDL     = 100
	weightWebRip    = 90
	weightWebDot    = 85
	weightStreaming = 80
	weightBluRay    = 70
	weightDVDRip    = 60
	weightHDTV      = -100
	weightHearing   = 5

	popularityDivisor = 10000.0
	popularityCap     = 30.0
)

// Score rates how well a candidate is likely to sync with a streaming source.
// Release-name signals are case-insensitive substring tests; popularity adds
// at most 30 points.
func Score(c Candidate) float64 {
	name := strings.ToLower(c.ReleaseName)
	score := 0.0

	if strings.Contains(name, "web-dl") {
		score += weightWebDL
	}
	if strings.Contains(name, "webrip") {
		score += weightWebRip
	}
	if strings.Contains(name, "web.") {
		score += weightWebDot
	}
	if containsAny(name, "amzn", "nf", "dsnp") {
		score += weightStreaming
	}
	if containsAny(name, "bluray", "brrip", "bdrip") {
		score += weightBluRay
	}
	if strings.Contains(name, "dvdrip") {
		score += weightDVDRip
	}
	if strings.Contains(name, "hdtv") {
		score += weightHDTV
	}
	if containsAny(name, ".hi.", ".cc.") {
		score += weightHearing
	}

	return score + PopularityBonus(c.Downloads)
}

// PopularityBonus is downloads/10000, capped at 30
func PopularityBonus(downloads int) float64 {
	if downloads <= 0 {
		return 0
	}
	return math.Min(float64(downloads)/popularityDivisor, popularityCap)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Sort returns a reordered copy of candidates. Ties keep provider order.
func Sort(candidates []Candidate, strategy SortStrategy) []Candidate {
	out := slices.Clone(candidates)

	switch strategy {
	case SortRecent:
	case SortPopular:
		slices.SortStableFunc(out, func(a, b Candidate) int {
			return b.Downloads - a.Downloads
		})
	default:
		type scored struct {
			c     Candidate
			score float64
		}
		ranked := make([]scored, len(out))
		for i, c := range out {
			ranked[i] = scored{c: c, score: Score(c)}
		}
		slices.SortStableFunc(ranked, func(a, b scored) int {
			switch {
			case a.score > b.score:
				return -1
			case a.score < b.score:
				return 1
			default:
				return 0
			}
		})
		for i := range ranked {
			out[i] = ranked[i].c
		}
	}

	return out
}

// ClampIndex maps a requested index onto [0, n-1]. n must be positive.
func ClampIndex(index, n int) int {
	if index >= n {
		return n - 1
	}
	if index < 0 {
		return 0
	}
	return index
}
