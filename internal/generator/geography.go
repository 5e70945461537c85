package generator

import (
	"context"

	"github.com/BerylCAtieno/marketing-strategy-agent/internal/extract"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/models"
)

func (g *Generator) Geographies(ctx context.Context, business models.BusinessInfo, icps []models.ICP, usps []models.USP, existing []models.Geography) ([]models.Geography, error) {
	regions := make([]string, 0, len(existing))
	ids := make([]string, 0, len(existing))
	for _, geo := range existing {
		regions = append(regions, geo.Region)
		ids = append(ids, geo.ID)
	}

	return generate(ctx, g, request[models.Geography]{
		domain: "geographies",
		tag:    "geo",
		system: geographySystemPrompt,
		user: userPrompt("Recommend target markets for this business.", []section{
			businessSection(business),
			{label: "Customer profiles", data: icps},
			{label: "Selling points", data: usps},
		}, "regions", regions),
		key: func(o extract.Object) string { return str(o, "region", "country", "name") },
		build: func(o extract.Object) models.Geography {
			return models.Geography{
				Region:              str(o, "region", "country", "name"),
				MarketSize:          models.NormalizeMarketSize(str(o, "marketSize", "market_size")),
				GrowthRate:          str(o, "growthRate", "growth_rate"),
				Competition:         str(o, "competition", "competitionLevel", "competition_level"),
				WhyTarget:           str(o, "whyTarget", "why_target", "rationale"),
				Recommendation:      str(o, "recommendation"),
				ProfitabilityRating: str(o, "profitabilityRating", "profitability_rating", "profitability"),
				PricingPower:        str(o, "pricingPower", "pricing_power"),
				BrandPersonality:    str(o, "brandPersonality", "brand_personality"),
			}
		},
		setID:        func(v *models.Geography, id string) { v.ID = id },
		existingKeys: regions,
		existingIDs:  ids,
	})
}
