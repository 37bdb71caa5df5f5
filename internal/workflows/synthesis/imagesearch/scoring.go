// internal/workflows/synthesis/imagesearch/scoring.go
package imagesearch

import (
	"sort"
	"strings"
)

// Keyword sets for the relevance scoring pass. Trade-photo vocabulary scores
// up; anything that smells like stock-graphic or office filler scores down.
var (
	actionKeywords = []string{
		"work", "technician", "tools", "repair", "service", "contractor", "crew", "project",
	}
	graphicMarkers = []string{
		"illustration", "vector", "3d render", "drawing", "graphic", "logo",
	}
	offTopicKeywords = []string{
		"office", "laptop", "meeting", "suit", "fashion", "nature",
	}
)

const (
	earlyResultBonus  = 10
	earlyResultWindow = 8
	queryMatchBonus   = 5
	actionBonus       = 3
	graphicPenalty    = -20
	offTopicPenalty   = -5
)

// RankHits scores hits against the query and returns at most limit of them,
// best first. Hits with a non-positive score and hits whose ID appears in
// excludeIDs are dropped; an empty result is possible.
func RankHits(hits []Hit, query string, limit int, excludeIDs map[string]bool) []Hit {
	type scored struct {
		hit   Hit
		score int
		index int
	}

	leadKeyword := leadingKeyword(query)

	ranked := make([]scored, 0, len(hits))
	for i, hit := range hits {
		if excludeIDs[hit.ID] {
			continue
		}

		meta := strings.ToLower(hit.Description + " " + strings.Join(hit.Tags, " "))

		score := 0
		if i < earlyResultWindow {
			score += earlyResultBonus
		}
		if leadKeyword != "" && strings.Contains(meta, leadKeyword) {
			score += queryMatchBonus
		}
		for _, kw := range actionKeywords {
			if strings.Contains(meta, kw) {
				score += actionBonus
			}
		}
		for _, kw := range graphicMarkers {
			if strings.Contains(meta, kw) {
				score += graphicPenalty
			}
		}
		for _, kw := range offTopicKeywords {
			if strings.Contains(meta, kw) {
				score += offTopicPenalty
			}
		}

		if score > 0 {
			ranked = append(ranked, scored{hit: hit, score: score, index: i})
		}
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].score > ranked[b].score
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]Hit, len(ranked))
	for i, s := range ranked {
		out[i] = s.hit
	}
	return out
}

func leadingKeyword(query string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(query)))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
