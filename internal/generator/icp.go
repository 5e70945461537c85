package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/BerylCAtieno/marketing-strategy-agent/internal/apperr"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/extract"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/models"
)

// ICPs generates customer profiles that do not repeat the existing ones. The
// call is bounded by the ICP timeout.
func (g *Generator) ICPs(ctx context.Context, business models.BusinessInfo, existing []models.ICP) ([]models.ICP, error) {
	if !business.Complete() {
		return nil, apperr.NewValidation("business name, industry and description are required")
	}

	ctx, cancel := context.WithTimeout(ctx, g.icpTimeout)
	defer cancel()

	titles := make([]string, 0, len(existing))
	ids := make([]string, 0, len(existing))
	for _, icp := range existing {
		titles = append(titles, icp.Title)
		ids = append(ids, icp.ID)
	}

	out, err := generate(ctx, g, request[models.ICP]{
		domain: "icps",
		tag:    "icp",
		system: icpSystemPrompt,
		user: userPrompt("Define the ideal customer profiles for this business.",
			[]section{businessSection(business)}, "customer profiles", titles),
		key: func(o extract.Object) string { return str(o, "title", "name") },
		build: func(o extract.Object) models.ICP {
			return models.ICP{
				Title:        str(o, "title", "name"),
				Description:  str(o, "description", "summary"),
				Demographics: demographics(o),
				PainPoints:   list(o, "painPoints", "pain_points"),
				Goals:        list(o, "goals", "objectives"),
			}
		},
		setID:        func(v *models.ICP, id string) { v.ID = id },
		existingKeys: titles,
		existingIDs:  ids,
	})
	if err != nil && apperr.Is(err, apperr.Cancelled) && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, apperr.NewCancelled(fmt.Sprintf("icp generation timed out after %s", g.icpTimeout), context.DeadlineExceeded)
	}
	return out, err
}
