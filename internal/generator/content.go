package generator

import (
	"context"

	"github.com/BerylCAtieno/marketing-strategy-agent/internal/apperr"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/extract"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/models"
)

func (g *Generator) ContentIdeas(ctx context.Context, business models.BusinessInfo, icps []models.ICP, kws []models.Keyword, existing []models.ContentIdea) ([]models.ContentIdea, error) {
	if len(kws) == 0 {
		return nil, apperr.NewValidation("at least one keyword is required")
	}

	icpTitles := titlesOf(icps)
	titles := make([]string, 0, len(existing))
	ids := make([]string, 0, len(existing))
	for _, c := range existing {
		titles = append(titles, c.Title)
		ids = append(ids, c.ID)
	}

	return generate(ctx, g, request[models.ContentIdea]{
		domain: "content ideas",
		tag:    "content",
		system: contentSystemPrompt,
		user: userPrompt("Plan marketing content for this business.", []section{
			businessSection(business),
			{label: "Customer profiles", data: icps},
			{label: "Keywords", data: kws},
		}, "content titles", titles),
		key: func(o extract.Object) string { return str(o, "title", "name") },
		build: func(o extract.Object) models.ContentIdea {
			return models.ContentIdea{
				Title:          str(o, "title", "name"),
				Type:           models.ParseContentType(str(o, "type", "contentType", "content_type", "format")),
				TargetICP:      canonicalTitle(str(o, "targetICP", "target_icp", "icp"), icpTitles),
				TargetKeywords: terms(o, "targetKeywords", "target_keywords", "keywords"),
				Outline:        list(o, "outline", "sections"),
				EstimatedValue: str(o, "estimatedValue", "estimated_value", "value"),
			}
		},
		setID:        func(v *models.ContentIdea, id string) { v.ID = id },
		existingKeys: titles,
		existingIDs:  ids,
	})
}
