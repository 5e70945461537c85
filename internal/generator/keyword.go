package generator

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/BerylCAtieno/marketing-strategy-agent/internal/apperr"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/extract"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/keywords"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/models"
)

func (g *Generator) Keywords(ctx context.Context, business models.BusinessInfo, icps []models.ICP, usps []models.USP, existing []models.Keyword) ([]models.Keyword, error) {
	icpTitles := titlesOf(icps)
	existingTerms, ids := keywordKeys(existing)

	return generate(ctx, g, request[models.Keyword]{
		domain: "keywords",
		tag:    "kw",
		system: keywordSystemPrompt,
		user: userPrompt("Suggest search keywords for this business.", []section{
			businessSection(business),
			{label: "Customer profiles", data: icps},
			{label: "Selling points", data: usps},
		}, "keywords", existingTerms),
		key: func(o extract.Object) string { return str(o, "term", "keyword") },
		build: func(o extract.Object) models.Keyword {
			return models.Keyword{
				Term:            str(o, "term", "keyword"),
				SearchVolume:    str(o, "searchVolume", "search_volume", "volume"),
				Difficulty:      str(o, "difficulty"),
				Relevance:       str(o, "relevance"),
				RelatedICP:      canonicalTitle(str(o, "relatedICP", "related_icp", "icp"), icpTitles),
				CompetitorUsage: str(o, "competitorUsage", "competitor_usage"),
			}
		},
		setID:        func(v *models.Keyword, id string) { v.ID = id },
		existingKeys: existingTerms,
		existingIDs:  ids,
	})
}

// KeywordsFromAdPlatform runs the ad-platform chain seeded by the USPs and
// returns the new keywords with the stats fetched for them.
func (g *Generator) KeywordsFromAdPlatform(ctx context.Context, business models.BusinessInfo, usps []models.USP, existing []models.Keyword) ([]models.Keyword, []models.KeywordStats, error) {
	const op = "generate keywords from ad platform"
	if g.pipeline == nil {
		return nil, nil, apperr.NewValidation("no ad platform configured")
	}

	res, err := g.pipeline.Run(ctx, business, usps)
	if err != nil {
		return nil, nil, apperr.Wrap(op, err)
	}

	existingTerms, ids := keywordKeys(existing)
	held := make(map[string]bool, len(existingTerms))
	for _, t := range existingTerms {
		held[normKey(t)] = true
	}

	fresh := make([]keywords.Idea, 0, len(res.Ideas))
	for _, idea := range res.Ideas {
		if k := normKey(idea.Text); k != "" && !held[k] {
			held[k] = true
			fresh = append(fresh, idea)
		}
	}
	if len(fresh) == 0 {
		return nil, nil, apperr.Wrap(op, apperr.NewGeneration("empty result"))
	}

	adIDs := newIDs("ads", g.now(), len(fresh), ids)
	out := make([]models.Keyword, 0, len(fresh))
	stats := make([]models.KeywordStats, 0, len(fresh))
	for i, idea := range fresh {
		kw := keywords.KeywordFromIdea(idea, res.SeedICP[strings.ToLower(idea.Seed)])
		kw.ID = adIDs[i]
		out = append(out, kw)
		if st, ok := res.Stats[strings.ToLower(idea.Text)]; ok {
			stats = append(stats, keywords.StatsFromProvider(kw.ID, st))
		}
	}

	g.logger.Info("Generated keywords from ad platform",
		zap.Int("count", len(out)),
		zap.String("campaign", string(res.Campaign)))
	return out, stats, nil
}

func keywordKeys(existing []models.Keyword) ([]string, []string) {
	terms := make([]string, 0, len(existing))
	ids := make([]string, 0, len(existing))
	for _, kw := range existing {
		terms = append(terms, kw.Term)
		ids = append(ids, kw.ID)
	}
	return terms, ids
}
