package keywords

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BerylCAtieno/marketing-strategy-agent/internal/apperr"
)

// TokenSource supplies the developer token the ad platform requires.
type TokenSource interface {
	DeveloperToken(ctx context.Context) (string, error)
}

// Simulated is a KeywordProvider that answers locally after a fixed delay.
// Answers are deterministic for a given input.
type Simulated struct {
	tokens  TokenSource
	latency time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

func NewSimulated(tokens TokenSource, latency time.Duration, logger *zap.Logger) *Simulated {
	return &Simulated{tokens: tokens, latency: latency, now: time.Now, logger: logger}
}

var ideaModifiers = []string{"", "best %s", "%s software", "%s pricing", "%s for small business", "how to choose %s", "%s alternatives", "top %s tools"}

var competitorDomains = []string{"hubspot.com", "salesforce.com", "semrush.com", "zoho.com", "mailchimp.com", "ahrefs.com", "pipedrive.com"}

func (p *Simulated) CreateCustomer(ctx context.Context, name string) (CustomerID, error) {
	if err := p.roundTrip(ctx, "create customer"); err != nil {
		return "", err
	}
	if strings.TrimSpace(name) == "" {
		return "", apperr.NewValidation("customer name is required")
	}
	return CustomerID(fmt.Sprintf("%010d", seedOf(name)%1e10)), nil
}

func (p *Simulated) CreateCampaign(ctx context.Context, customer CustomerID, name string) (CampaignID, error) {
	if err := p.roundTrip(ctx, "create campaign"); err != nil {
		return "", err
	}
	if customer == "" {
		return "", apperr.NewValidation("campaign requires a customer id")
	}
	return CampaignID(fmt.Sprintf("%s-%d", customer, seedOf(name)%1e6)), nil
}

func (p *Simulated) GenerateIdeas(ctx context.Context, campaign CampaignID, seed string) ([]Idea, error) {
	if err := p.roundTrip(ctx, "generate ideas"); err != nil {
		return nil, err
	}
	if campaign == "" {
		return nil, apperr.NewValidation("keyword ideas require a campaign id")
	}
	seed = strings.ToLower(strings.TrimSpace(seed))
	if seed == "" {
		return nil, apperr.NewValidation("keyword seed is empty")
	}

	r := rand.New(rand.NewSource(seedOf(seed)))
	count := 3 + r.Intn(3)
	picks := []int{0}
	for _, j := range r.Perm(len(ideaModifiers) - 1)[:count-1] {
		picks = append(picks, j+1)
	}

	ideas := make([]Idea, 0, count)
	for _, i := range picks {
		text := seed
		if i > 0 {
			text = fmt.Sprintf(ideaModifiers[i], seed)
		}
		idx := rand.New(rand.NewSource(seedOf(text))).Intn(101)
		ideas = append(ideas, Idea{
			Text:               text,
			Seed:               seed,
			AvgMonthlySearches: int64(100 + rand.New(rand.NewSource(seedOf(text)+1)).Intn(50000)),
			Competition:        competitionLevel(idx),
			CompetitionIndex:   idx,
		})
	}
	return ideas, nil
}

func (p *Simulated) FetchStats(ctx context.Context, customer CustomerID, terms []string) ([]Stats, error) {
	if err := p.roundTrip(ctx, "fetch stats"); err != nil {
		return nil, err
	}
	if customer == "" {
		return nil, apperr.NewValidation("stats require a customer id")
	}

	now := p.now()
	out := make([]Stats, 0, len(terms))
	for _, term := range terms {
		out = append(out, simulateStats(term, now))
	}
	return out, nil
}

func simulateStats(term string, now time.Time) Stats {
	key := strings.ToLower(strings.TrimSpace(term))
	r := rand.New(rand.NewSource(seedOf(key)))

	base := int64(500 + r.Intn(20000))
	ctr := 0.02 + r.Float64()*0.08
	trend := 0.97 + r.Float64()*0.08

	st := Stats{
		Term:             term,
		CompetitionIndex: r.Intn(101),
	}

	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	volume := float64(base)
	for i := -12; i < 0; i++ {
		m := first.AddDate(0, i, 0)
		searches := int64(volume * (0.85 + r.Float64()*0.3))
		st.Historical = append(st.Historical, MonthlyVolume{Year: m.Year(), Month: m.Month(), Searches: searches, Clicks: int64(float64(searches) * ctr)})
		volume *= trend
	}
	for i := 0; i < 12; i++ {
		m := first.AddDate(0, i, 0)
		searches := int64(volume)
		st.Forecast = append(st.Forecast, MonthlyVolume{Year: m.Year(), Month: m.Month(), Searches: searches, Clicks: int64(float64(searches) * ctr)})
		volume *= trend
	}

	st.LowBidMicros = int64(200_000 + r.Intn(2_000_000))
	st.HighBidMicros = st.LowBidMicros + int64(r.Intn(4_000_000))

	for _, variant := range []string{key + "s", "best " + key, key + " online", key + " near me"} {
		if r.Intn(3) > 0 {
			st.CloseVariants = append(st.CloseVariants, variant)
		}
	}
	for i, j := range r.Perm(len(competitorDomains))[:3] {
		st.TopDomains = append(st.TopDomains, RankedDomain{Domain: competitorDomains[j], Rank: i + 1})
	}
	return st
}

func (p *Simulated) roundTrip(ctx context.Context, op string) error {
	if _, err := p.tokens.DeveloperToken(ctx); err != nil {
		return apperr.Wrap(op, err)
	}
	p.logger.Debug("Simulated ad platform call", zap.String("op", op), zap.Duration("latency", p.latency))
	if p.latency <= 0 {
		if err := ctx.Err(); err != nil {
			return apperr.NewCancelled(op+" cancelled", err)
		}
		return nil
	}
	t := time.NewTimer(p.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return apperr.NewCancelled(op+" cancelled", ctx.Err())
	case <-t.C:
		return nil
	}
}

func competitionLevel(index int) string {
	switch {
	case index >= 67:
		return CompetitionHigh
	case index >= 34:
		return CompetitionMedium
	default:
		return CompetitionLow
	}
}

func seedOf(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64() >> 1)
}
