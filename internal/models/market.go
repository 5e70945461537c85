package models

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Geography is a target region for market expansion.
type Geography struct {
	ID                  string `json:"id"`
	Region              string `json:"region"`
	MarketSize          string `json:"marketSize"`
	GrowthRate          string `json:"growthRate"`
	Competition         string `json:"competition"`
	WhyTarget           string `json:"whyTarget,omitempty"`
	Recommendation      string `json:"recommendation,omitempty"`
	ProfitabilityRating string `json:"profitabilityRating,omitempty"`
	PricingPower        string `json:"pricingPower,omitempty"`
	BrandPersonality    string `json:"brandPersonality,omitempty"`
	Custom              bool   `json:"isCustom,omitempty"`
}

var marketSizeRe = regexp.MustCompile(`(?i)(\d[\d,]*(?:\.\d+)?)\s*(trillion|billion|million|thousand|bn|mm|tn|t|b|m|k)?\b`)

var marketSizeUnits = map[string]float64{
	"":         1,
	"k":        1e3,
	"thousand": 1e3,
	"m":        1e6,
	"mm":       1e6,
	"million":  1e6,
	"b":        1e9,
	"bn":       1e9,
	"billion":  1e9,
	"t":        1e12,
	"tn":       1e12,
	"trillion": 1e12,
}

// NormalizeMarketSize rewrites a free-form market size such as "$1.2 billion"
// into the <number><K|M|B> convention. Input that carries no number is
// returned trimmed.
func NormalizeMarketSize(s string) string {
	s = strings.TrimSpace(s)
	m := marketSizeRe.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return s
	}
	n *= marketSizeUnits[strings.ToLower(m[2])]

	switch {
	case n >= 1e9:
		return formatScaled(n/1e9) + "B"
	case n >= 1e6:
		return formatScaled(n/1e6) + "M"
	case n >= 1e3:
		return formatScaled(n/1e3) + "K"
	default:
		return formatScaled(n)
	}
}

func formatScaled(n float64) string {
	return strconv.FormatFloat(math.Round(n*100)/100, 'f', -1, 64)
}
