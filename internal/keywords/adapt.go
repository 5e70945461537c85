package keywords

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BerylCAtieno/marketing-strategy-agent/internal/models"
)

// KeywordFromIdea maps an ad-platform idea onto a keyword. The id is left to
// the caller.
func KeywordFromIdea(idea Idea, relatedICP string) models.Keyword {
	relevance := "Medium"
	if strings.EqualFold(idea.Text, idea.Seed) {
		relevance = "High"
	}
	return models.Keyword{
		Term:            idea.Text,
		SearchVolume:    models.NormalizeMarketSize(strconv.FormatInt(idea.AvgMonthlySearches, 10)),
		Difficulty:      difficulty(idea.Competition),
		Relevance:       relevance,
		RelatedICP:      relatedICP,
		CompetitorUsage: competitorUsage(idea.CompetitionIndex),
	}
}

func difficulty(level string) string {
	switch level {
	case CompetitionHigh:
		return "Hard"
	case CompetitionMedium:
		return "Medium"
	default:
		return "Easy"
	}
}

func competitorUsage(index int) string {
	switch {
	case index >= 67:
		return "High"
	case index >= 34:
		return "Medium"
	default:
		return "Low"
	}
}

// StatsFromProvider maps an ad-platform report onto the stats of keyword id.
func StatsFromProvider(id string, st Stats) models.KeywordStats {
	out := models.KeywordStats{
		ID:           id,
		Term:         st.Term,
		Forecast:     traffic(st.Forecast),
		Historical:   traffic(st.Historical),
		Synonyms:     append([]string{}, st.CloseVariants...),
		Competition:  float64(st.CompetitionIndex) / 100,
		SuggestedBid: fmt.Sprintf("$%.2f", float64(st.LowBidMicros+st.HighBidMicros)/2/1e6),
		Competitors:  make([]models.CompetitorRank, 0, len(st.TopDomains)),
	}
	if out.Competition < 0 {
		out.Competition = 0
	}
	if out.Competition > 1 {
		out.Competition = 1
	}
	for _, d := range st.TopDomains {
		out.Competitors = append(out.Competitors, models.CompetitorRank{Name: d.Domain, Position: d.Rank})
	}
	return out
}

func traffic(points []MonthlyVolume) []models.TrafficPoint {
	out := make([]models.TrafficPoint, 0, len(points))
	for _, p := range points {
		out = append(out, models.TrafficPoint{
			Month:    fmt.Sprintf("%s %d", p.Month.String()[:3], p.Year),
			Searches: int(p.Searches),
			Clicks:   int(p.Clicks),
		})
	}
	return out
}
