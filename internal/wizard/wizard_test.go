package wizard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BerylCAtieno/marketing-strategy-agent/internal/apperr"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/models"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/storage"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/store"
)

func newNavigator(t *testing.T) (*Navigator, *store.Store) {
	t.Helper()
	s := store.New(storage.NewMemory(), zap.NewNop())
	s.Load(context.Background())
	return New(s, zap.NewNop()), s
}

func TestGotoStepTwoNeedsCompleteBusiness(t *testing.T) {
	ctx := context.Background()
	nav, s := newNavigator(t)

	require.NoError(t, s.SetBusiness(ctx, models.BusinessInfo{Name: "Acme", Description: "widgets"}))
	pos, err := nav.Goto(ctx, 2)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	assert.Equal(t, 1, pos.Step)
	assert.Equal(t, 1, s.Step())

	require.NoError(t, s.SetBusiness(ctx, models.BusinessInfo{Name: "Acme", Industry: "Tech", Description: "widgets"}))
	pos, err = nav.Goto(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, pos.Step)
	assert.Equal(t, "Customer Profiles", pos.Name)
}

func TestGotoMoreThanOneAheadIsRejected(t *testing.T) {
	ctx := context.Background()
	nav, s := newNavigator(t)
	require.NoError(t, s.SetBusiness(ctx, models.BusinessInfo{Name: "Acme", Industry: "Tech", Description: "widgets"}))

	_, err := nav.Goto(ctx, 4)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	assert.Equal(t, 1, s.Step())
}

func TestGotoBackIsUnconditional(t *testing.T) {
	ctx := context.Background()
	nav, s := newNavigator(t)
	require.NoError(t, s.SetStep(ctx, 5))

	pos, err := nav.Goto(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, pos.Step)

	pos, err = nav.Goto(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, pos.Step)
}

func TestGotoOutOfRange(t *testing.T) {
	nav, _ := newNavigator(t)
	for _, n := range []int{0, 8, -1} {
		_, err := nav.Goto(context.Background(), n)
		assert.Equal(t, apperr.Validation, apperr.KindOf(err), "step %d", n)
	}
}

func TestContinueWalksTheWizard(t *testing.T) {
	ctx := context.Background()
	nav, s := newNavigator(t)

	_, err := nav.Continue(ctx)
	assert.Error(t, err)

	require.NoError(t, s.SetBusiness(ctx, models.BusinessInfo{Name: "Acme", Industry: "Tech", Description: "widgets"}))
	pos, err := nav.Continue(ctx)
	require.NoError(t, err)
	assert.Equal(t, StepICPs, pos.Step)
	assert.False(t, pos.CanContinue)
	assert.NotEmpty(t, pos.Blocked)

	_, err = nav.Continue(ctx)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, err = s.AddCustomICP(ctx, models.ICP{Title: "SMB Owners"})
	require.NoError(t, err)
	pos, err = nav.Continue(ctx)
	require.NoError(t, err)
	assert.Equal(t, StepUSPs, pos.Step)

	_, err = s.AddCustomUSP(ctx, models.USP{Title: "Fast setup"})
	require.NoError(t, err)
	_, err = nav.Continue(ctx)
	require.NoError(t, err)

	_, err = s.AddCustomGeography(ctx, models.Geography{Region: "Germany"})
	require.NoError(t, err)
	_, err = nav.Continue(ctx)
	require.NoError(t, err)

	_, err = s.AddCustomKeyword(ctx, models.Keyword{Term: "crm"})
	require.NoError(t, err)
	pos, err = nav.Continue(ctx)
	require.NoError(t, err)
	assert.Equal(t, StepContent, pos.Step)

	idea, err := s.AddCustomContentIdea(ctx, models.ContentIdea{Title: "Guide"})
	require.NoError(t, err)
	_, err = nav.Continue(ctx)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err), "unpublished content must block")

	_, err = s.PublishContent(ctx, idea.ID, "")
	require.NoError(t, err)
	pos, err = nav.Continue(ctx)
	require.NoError(t, err)
	assert.Equal(t, StepLandingPage, pos.Step)

	_, err = nav.Continue(ctx)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	assert.Equal(t, StepLandingPage, s.Step())
}
