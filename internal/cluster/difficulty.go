package cluster

import (
	"strings"

	"github.com/k5602/course-pilot/internal/domain"
)

var (
	beginnerMarkers = []string{"intro", "introduction", "basic", "beginner", "getting started", "fundamentals", "101"}
	advancedMarkers = []string{"advanced", "deep dive", "internals", "optimization", "mastery"}
	expertMarkers   = []string{"expert", "master class", "masterclass"}
)

// DifficultyForTitles maps a group of titles to a difficulty level from a
// small marker lexicon plus mean title length: verbose titles with no
// markers read as advanced material.
func DifficultyForTitles(titles []string) domain.DifficultyLevel {
	beginner, advanced, expert := 0, 0, 0
	totalWords := 0
	for _, title := range titles {
		lower := strings.ToLower(title)
		totalWords += len(strings.Fields(lower))
		if containsAny(lower, expertMarkers) {
			expert++
			continue
		}
		if containsAny(lower, advancedMarkers) {
			advanced++
			continue
		}
		if containsAny(lower, beginnerMarkers) {
			beginner++
		}
	}

	switch {
	case expert > 0 && expert >= advanced:
		return domain.DifficultyExpert
	case advanced > 0 && advanced >= beginner:
		return domain.DifficultyAdvanced
	case beginner > 0:
		return domain.DifficultyBeginner
	}

	if len(titles) > 0 && float64(totalWords)/float64(len(titles)) > 9 {
		return domain.DifficultyAdvanced
	}
	return domain.DifficultyIntermediate
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
