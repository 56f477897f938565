package services

import (
	"sort"
	"strings"

	"rental-search/internal/models"
)

const (
	baseScore      = 0.5
	exactBonus     = 0.5
	prefixBonus    = 0.3
	proximityBonus = 0.2
	popularityUnit = 1000.0
)

// Rank scores candidates against query, orders them by score keeping
// encounter order on ties, drops repeated texts and truncates to limit.
func Rank(candidates []models.Suggestion, query string, location *models.Location, limit int) []models.Suggestion {
	q := models.NormalizeText(query)

	scored := make([]models.Suggestion, len(candidates))
	for i, c := range candidates {
		score := scoreSuggestion(c, q, location != nil)
		c.Score = &score
		scored[i] = c
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return *scored[i].Score > *scored[j].Score
	})
	return dedupe(scored, limit)
}

func scoreSuggestion(s models.Suggestion, query string, hasLocation bool) float64 {
	score := baseScore
	if s.Metadata.Weight != nil {
		score = *s.Metadata.Weight
	}
	if query != "" {
		text := models.NormalizeText(s.Text)
		if text == query {
			score += exactBonus
		}
		if strings.HasPrefix(text, query) {
			score += prefixBonus
		}
	}
	if hasLocation && s.Type == models.SuggestionTypeLocation {
		score += proximityBonus
	}
	if s.Metadata.PopularityScore != nil {
		score += *s.Metadata.PopularityScore / popularityUnit
	}
	return score
}

// dedupe keeps the first suggestion per normalized text, up to limit entries.
func dedupe(list []models.Suggestion, limit int) []models.Suggestion {
	out := make([]models.Suggestion, 0, min(len(list), max(limit, 0)))
	seen := make(map[string]struct{}, len(list))
	for _, s := range list {
		if len(out) >= limit {
			break
		}
		key := models.NormalizeText(s.Text)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
