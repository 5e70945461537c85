package generator

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BerylCAtieno/marketing-strategy-agent/internal/apperr"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/keywords"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/llm"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/models"
)

// scriptedLLM answers with its responses in order.
type scriptedLLM struct {
	responses []string
	err       error
	block     bool
	calls     [][]llm.Message
}

func (s *scriptedLLM) Complete(ctx context.Context, messages []llm.Message, _ llm.Options) (*llm.Completion, error) {
	s.calls = append(s.calls, messages)
	if s.block {
		<-ctx.Done()
		return nil, apperr.NewCancelled("request timed out", ctx.Err())
	}
	if s.err != nil {
		return nil, s.err
	}
	if len(s.responses) == 0 {
		return &llm.Completion{Content: "{}"}, nil
	}
	out := s.responses[0]
	s.responses = s.responses[1:]
	return &llm.Completion{Content: out}, nil
}

var acme = models.BusinessInfo{Name: "Acme", Industry: "Tech", Description: "makes widgets"}

func newTestGenerator(c llm.Completer) *Generator {
	g := New(c, nil, time.Second, zap.NewNop())
	g.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return g
}

const firstBatch = `{"icps": [
	{"title": "Enterprise Buyers", "description": "Large procurement teams.",
	 "demographics": {"companySize": "1000+", "industries": ["Manufacturing"], "regions": ["US"], "jobTitles": ["CPO"], "techAdoption": "medium"},
	 "painPoints": ["long approval cycles", "vendor sprawl"], "goals": ["cut costs"]},
	{"title": "SMB Owners", "description": "Owner-operators.", "demographics": "1-50 employees, Europe",
	 "painPoints": "no time\nno IT staff", "goals": ["grow revenue"]}
]}`

func TestICPsEndToEnd(t *testing.T) {
	fake := &scriptedLLM{responses: []string{
		firstBatch,
		"```json\n[{\"title\": \"smb owners\"}, {\"title\": \"Agency Founders\", \"description\": \"Small agencies.\", \"painPoints\": [\"churn\"], \"goals\": [\"retainers\"]}]\n```",
	}}
	g := newTestGenerator(fake)
	existing := []models.ICP{{ID: "custom-1", Title: "Hobbyists"}}

	first, err := g.ICPs(context.Background(), acme, existing)
	require.NoError(t, err)
	require.Len(t, first, 2)

	for _, icp := range first {
		assert.NotEmpty(t, icp.Title)
		assert.NotEmpty(t, icp.Description)
		assert.False(t, icp.Demographics.IsZero())
		assert.NotEmpty(t, icp.PainPoints)
		assert.NotEmpty(t, icp.Goals)
		assert.True(t, strings.HasPrefix(icp.ID, "icp-1700000000000-"))
		assert.NotEqual(t, "custom-1", icp.ID)
		assert.False(t, icp.Custom)
	}
	assert.Equal(t, "1000+", first[0].Demographics.CompanySize)
	assert.Equal(t, "1-50 employees, Europe", first[1].Demographics.Text)
	assert.Equal(t, []string{"no time", "no IT staff"}, first[1].PainPoints)

	user := fake.calls[0][1].Content
	assert.Contains(t, user, "Hobbyists")
	assert.Contains(t, user, `"name": "Acme"`)
	assert.Equal(t, llm.RoleSystem, fake.calls[0][0].Role)

	second, err := g.ICPs(context.Background(), acme, append(existing, first...))
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "Agency Founders", second[0].Title)
	for _, prev := range first {
		assert.NotEqual(t, prev.ID, second[0].ID)
	}
	assert.Contains(t, fake.calls[1][1].Content, "SMB Owners")
}

func TestICPsDropsExistingTitlesAnyCase(t *testing.T) {
	fake := &scriptedLLM{responses: []string{`[{"title": "enterprise buyers"}, {"title": "SMB Owners"}, {"title": "  ENTERPRISE BUYERS "}, {"title": ""}, "stray"]`}}
	g := newTestGenerator(fake)

	out, err := g.ICPs(context.Background(), acme, []models.ICP{{ID: "icp-1", Title: "Enterprise Buyers"}})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "SMB Owners", out[0].Title)
	assert.Equal(t, []string{}, out[0].PainPoints)
}

func TestICPsRequiresCompleteBusiness(t *testing.T) {
	fake := &scriptedLLM{}
	_, err := newTestGenerator(fake).ICPs(context.Background(), models.BusinessInfo{Name: "Acme"}, nil)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	assert.Empty(t, fake.calls)
}

func TestICPsTimeout(t *testing.T) {
	g := New(&scriptedLLM{block: true}, nil, 20*time.Millisecond, zap.NewNop())

	_, err := g.ICPs(context.Background(), acme, nil)
	require.Error(t, err)
	assert.Equal(t, apperr.Cancelled, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "timed out after 20ms")
}

func TestUnparseableResponse(t *testing.T) {
	g := newTestGenerator(&scriptedLLM{responses: []string{"I cannot help with that."}})

	_, err := g.ICPs(context.Background(), acme, nil)
	assert.Equal(t, apperr.Generation, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "no valid data in response")
}

func TestEmptyResultIsAnErrorForEveryGenerator(t *testing.T) {
	ctx := context.Background()
	icps := []models.ICP{{ID: "i", Title: "SMB Owners"}}
	kws := []models.Keyword{{ID: "k", Term: "crm"}}
	empty := func() *Generator { return newTestGenerator(&scriptedLLM{responses: []string{`{"items": []}`}}) }

	_, err := empty().ICPs(ctx, acme, nil)
	assert.Equal(t, apperr.Generation, apperr.KindOf(err))
	_, err = empty().USPs(ctx, acme, icps, nil, nil)
	assert.Equal(t, apperr.Generation, apperr.KindOf(err))
	_, err = empty().Geographies(ctx, acme, icps, nil, nil)
	assert.Equal(t, apperr.Generation, apperr.KindOf(err))
	_, err = empty().Keywords(ctx, acme, icps, nil, nil)
	assert.Equal(t, apperr.Generation, apperr.KindOf(err))
	_, err = empty().ContentIdeas(ctx, acme, icps, kws, nil)
	assert.Equal(t, apperr.Generation, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "empty result")
}

func TestUpstreamErrorKeepsKind(t *testing.T) {
	g := newTestGenerator(&scriptedLLM{err: apperr.NewUpstream(500, "server error")})

	_, err := g.Geographies(context.Background(), acme, nil, nil, nil)
	assert.Equal(t, apperr.Upstream, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "generate geographies")
}

func TestUSPsCanonicalizeTargetICP(t *testing.T) {
	g := newTestGenerator(&scriptedLLM{responses: []string{`{"usps": [
		{"title": "Fast setup", "description": "d", "targetICP": "smb owners", "valueProposition": "live in a day"},
		{"title": "Audit trail", "targetICP": "Unknown Segment"}
	]}`}})
	icps := []models.ICP{{ID: "i1", Title: "SMB Owners"}}

	out, err := g.USPs(context.Background(), acme, icps, []models.Competitor{{Name: "Globex"}}, nil)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "SMB Owners", out[0].TargetICP)
	assert.Equal(t, "live in a day", out[0].ValueProposition)
	assert.Empty(t, out[1].TargetICP)
	assert.True(t, strings.HasPrefix(out[0].ID, "usp-"))
}

func TestUSPsNeedICPs(t *testing.T) {
	_, err := newTestGenerator(&scriptedLLM{}).USPs(context.Background(), acme, nil, nil, nil)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestGeographies(t *testing.T) {
	g := newTestGenerator(&scriptedLLM{responses: []string{`{"geographies": [
		{"region": "Germany", "marketSize": "$1.2 billion", "growthRate": "6%", "competition": "High", "profitabilityRating": 8},
		{"country": "germany"},
		{"region": "Brazil", "marketSize": "450 million"}
	]}`}})

	out, err := g.Geographies(context.Background(), acme, nil, nil, []models.Geography{{ID: "g", Region: "brazil"}})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Germany", out[0].Region)
	assert.Equal(t, "1.2B", out[0].MarketSize)
	assert.Equal(t, "8", out[0].ProfitabilityRating)
}

func TestKeywords(t *testing.T) {
	g := newTestGenerator(&scriptedLLM{responses: []string{`{"keywords": [
		{"term": "widget software", "searchVolume": "12K", "difficulty": "Medium", "relevance": "High", "relatedICP": "smb owners"},
		{"keyword": "CRM"}
	]}`}})

	out, err := g.Keywords(context.Background(), acme, []models.ICP{{Title: "SMB Owners"}}, nil, []models.Keyword{{ID: "k", Term: "crm"}})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "widget software", out[0].Term)
	assert.Equal(t, "SMB Owners", out[0].RelatedICP)
	assert.True(t, strings.HasPrefix(out[0].ID, "kw-"))
}

func TestContentIdeasCoerceArrays(t *testing.T) {
	g := newTestGenerator(&scriptedLLM{responses: []string{`{"contentIdeas": [
		{"title": "Widget Buyer's Guide", "type": "whitepaper", "targetICP": "SMB Owners",
		 "targetKeywords": "widget software, crm", "outline": "1. Intro\n2. Checklist\n3. Pricing", "estimatedValue": "High"}
	]}`}})

	out, err := g.ContentIdeas(context.Background(), acme, []models.ICP{{Title: "SMB Owners"}}, []models.Keyword{{Term: "crm"}}, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	idea := out[0]
	assert.Equal(t, models.WhitePaper, idea.Type)
	assert.Equal(t, []string{"widget software", "crm"}, idea.TargetKeywords)
	assert.Equal(t, []string{"Intro", "Checklist", "Pricing"}, idea.Outline)
	assert.False(t, idea.Published)
}

type devToken struct{}

func (devToken) DeveloperToken(context.Context) (string, error) { return "dev-token-123", nil }

func TestKeywordsFromAdPlatform(t *testing.T) {
	provider := keywords.NewSimulated(devToken{}, 0, zap.NewNop())
	g := New(&scriptedLLM{}, keywords.NewPipeline(provider, zap.NewNop()), time.Second, zap.NewNop())
	usps := []models.USP{{Title: "Fast onboarding", TargetICP: "SMB Owners"}}

	out, stats, err := g.KeywordsFromAdPlatform(context.Background(), acme, usps, []models.Keyword{{ID: "x", Term: "FAST ONBOARDING"}})
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Len(t, stats, len(out))

	for i, kw := range out {
		assert.NotEqual(t, "fast onboarding", kw.Term)
		assert.Equal(t, "SMB Owners", kw.RelatedICP)
		assert.True(t, strings.HasPrefix(kw.ID, "ads-"))
		assert.Equal(t, kw.ID, stats[i].ID)
		assert.Equal(t, kw.Term, stats[i].Term)
	}
}

func TestKeywordsFromAdPlatformNotConfigured(t *testing.T) {
	_, _, err := newTestGenerator(&scriptedLLM{}).KeywordsFromAdPlatform(context.Background(), acme, nil, nil)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestNewIDsAvoidTakenIDs(t *testing.T) {
	now := time.UnixMilli(1000)
	ids := newIDs("icp", now, 2, []string{"icp-1000-1", "icp-1001-0"})
	assert.Equal(t, []string{"icp-1002-0", "icp-1002-1"}, ids)
}
