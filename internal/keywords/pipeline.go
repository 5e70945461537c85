package keywords

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/BerylCAtieno/marketing-strategy-agent/internal/apperr"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/models"
)

// Pipeline runs the ad-platform chain: customer, campaign, ideas per USP,
// then stats for every idea.
type Pipeline struct {
	provider KeywordProvider
	logger   *zap.Logger
}

func NewPipeline(provider KeywordProvider, logger *zap.Logger) *Pipeline {
	return &Pipeline{provider: provider, logger: logger}
}

// Result is what one pipeline run produced. Stats is keyed by lowercased term.
type Result struct {
	Customer CustomerID
	Campaign CampaignID
	Ideas    []Idea
	// SeedICP maps an idea seed to the ICP its USP targets.
	SeedICP map[string]string
	Stats   map[string]Stats
}

func (p *Pipeline) Run(ctx context.Context, business models.BusinessInfo, usps []models.USP) (*Result, error) {
	if strings.TrimSpace(business.Name) == "" {
		return nil, apperr.NewValidation("business name is required for the ad platform")
	}

	customer, err := p.provider.CreateCustomer(ctx, business.Name)
	if err != nil {
		return nil, apperr.Wrap("create customer", err)
	}
	campaign, err := p.provider.CreateCampaign(ctx, customer, business.Name+" search")
	if err != nil {
		return nil, apperr.Wrap("create campaign", err)
	}
	p.logger.Info("Ad platform campaign ready",
		zap.String("customer", string(customer)),
		zap.String("campaign", string(campaign)))

	res := &Result{
		Customer: customer,
		Campaign: campaign,
		SeedICP:  make(map[string]string),
		Stats:    make(map[string]Stats),
	}

	seeds := make([]string, 0, len(usps))
	for _, u := range usps {
		if t := strings.TrimSpace(u.Title); t != "" {
			seeds = append(seeds, t)
			res.SeedICP[strings.ToLower(t)] = u.TargetICP
		}
	}
	if len(seeds) == 0 && strings.TrimSpace(business.Industry) != "" {
		seeds = append(seeds, business.Industry)
	}
	if len(seeds) == 0 {
		return nil, apperr.NewValidation("at least one USP or an industry is needed to seed keywords")
	}

	seen := make(map[string]bool)
	for _, seed := range seeds {
		ideas, err := p.provider.GenerateIdeas(ctx, campaign, seed)
		if err != nil {
			return nil, apperr.Wrap(fmt.Sprintf("generate ideas for %q", seed), err)
		}
		for _, idea := range ideas {
			k := strings.ToLower(strings.TrimSpace(idea.Text))
			if k == "" || seen[k] {
				continue
			}
			seen[k] = true
			res.Ideas = append(res.Ideas, idea)
		}
	}

	terms := make([]string, 0, len(res.Ideas))
	for _, idea := range res.Ideas {
		terms = append(terms, idea.Text)
	}
	stats, err := p.provider.FetchStats(ctx, customer, terms)
	if err != nil {
		return nil, apperr.Wrap("fetch stats", err)
	}
	for _, st := range stats {
		res.Stats[strings.ToLower(st.Term)] = st
	}
	return res, nil
}
