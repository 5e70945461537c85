package generator

import (
	"context"

	"github.com/BerylCAtieno/marketing-strategy-agent/internal/apperr"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/extract"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/models"
)

func (g *Generator) USPs(ctx context.Context, business models.BusinessInfo, icps []models.ICP, competitors []models.Competitor, existing []models.USP) ([]models.USP, error) {
	if len(icps) == 0 {
		return nil, apperr.NewValidation("at least one customer profile is required")
	}

	icpTitles := titlesOf(icps)
	titles := make([]string, 0, len(existing))
	ids := make([]string, 0, len(existing))
	for _, u := range existing {
		titles = append(titles, u.Title)
		ids = append(ids, u.ID)
	}

	sections := []section{businessSection(business), {label: "Customer profiles", data: icps}}
	if len(competitors) > 0 {
		sections = append(sections, section{label: "Competitors", data: competitors})
	}

	return generate(ctx, g, request[models.USP]{
		domain: "usps",
		tag:    "usp",
		system: uspSystemPrompt,
		user:   userPrompt("Write unique selling points for this business.", sections, "selling points", titles),
		key:    func(o extract.Object) string { return str(o, "title", "name") },
		build: func(o extract.Object) models.USP {
			return models.USP{
				Title:            str(o, "title", "name"),
				Description:      str(o, "description"),
				TargetICP:        canonicalTitle(str(o, "targetICP", "target_icp", "icp"), icpTitles),
				ValueProposition: str(o, "valueProposition", "value_proposition"),
			}
		},
		setID:        func(v *models.USP, id string) { v.ID = id },
		existingKeys: titles,
		existingIDs:  ids,
	})
}

func titlesOf(icps []models.ICP) []string {
	out := make([]string, 0, len(icps))
	for _, icp := range icps {
		out = append(out, icp.Title)
	}
	return out
}
