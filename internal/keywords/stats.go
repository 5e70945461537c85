package keywords

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/BerylCAtieno/marketing-strategy-agent/internal/apperr"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/models"
)

// statsFetchTimeout bounds a shared fetch once it no longer follows any
// single caller's context.
const statsFetchTimeout = time.Minute

// StatsStore is where fetched stats are cached by term.
type StatsStore interface {
	Business() models.BusinessInfo
	KeywordStatsByTerm(term string) (models.KeywordStats, bool)
	PutKeywordStats(ctx context.Context, stats models.KeywordStats) error
}

// StatsService fetches keyword stats at most once per term.
type StatsService struct {
	provider KeywordProvider
	store    StatsStore
	logger   *zap.Logger
	group    singleflight.Group

	mu        sync.Mutex
	customers map[string]CustomerID
}

func NewStatsService(provider KeywordProvider, store StatsStore, logger *zap.Logger) *StatsService {
	return &StatsService{
		provider:  provider,
		store:     store,
		logger:    logger,
		customers: make(map[string]CustomerID),
	}
}

// Get returns the stats for kw, from the cache when the term was seen before.
func (s *StatsService) Get(ctx context.Context, kw models.Keyword) (models.KeywordStats, error) {
	term := strings.TrimSpace(kw.Term)
	if term == "" {
		return models.KeywordStats{}, apperr.NewValidation("keyword term is empty")
	}
	if st, ok := s.store.KeywordStatsByTerm(term); ok {
		return st, nil
	}

	// The fetch is shared by every caller of the same term, so it runs on a
	// context that one caller leaving cannot cancel.
	ch := s.group.DoChan(strings.ToLower(term), func() (any, error) {
		if st, ok := s.store.KeywordStatsByTerm(term); ok {
			return st, nil
		}
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), statsFetchTimeout)
		defer cancel()
		return s.fetch(fctx, kw.ID, term)
	})

	select {
	case <-ctx.Done():
		return models.KeywordStats{}, apperr.NewCancelled("keyword stats request cancelled", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return models.KeywordStats{}, res.Err
		}
		if res.Shared {
			s.logger.Debug("Shared in-flight keyword stats fetch", zap.String("term", term))
		}
		return res.Val.(models.KeywordStats), nil
	}
}

func (s *StatsService) fetch(ctx context.Context, id, term string) (models.KeywordStats, error) {
	customer, err := s.customer(ctx)
	if err != nil {
		return models.KeywordStats{}, err
	}

	reports, err := s.provider.FetchStats(ctx, customer, []string{term})
	if err != nil {
		return models.KeywordStats{}, apperr.Wrap("fetch keyword stats", err)
	}
	if len(reports) == 0 {
		return models.KeywordStats{}, apperr.NewGeneration("ad platform returned no stats for " + term)
	}

	st := StatsFromProvider(id, reports[0])
	st.Term = term
	if err := s.store.PutKeywordStats(ctx, st); err != nil {
		return models.KeywordStats{}, err
	}
	s.logger.Info("Fetched keyword stats", zap.String("term", term))
	return st, nil
}

// customer returns the ad-platform customer for the current business,
// creating it on first use.
func (s *StatsService) customer(ctx context.Context) (CustomerID, error) {
	name := strings.TrimSpace(s.store.Business().Name)
	if name == "" {
		name = "default"
	}

	s.mu.Lock()
	id, ok := s.customers[name]
	s.mu.Unlock()
	if ok {
		return id, nil
	}

	id, err := s.provider.CreateCustomer(ctx, name)
	if err != nil {
		return "", apperr.Wrap("create customer", err)
	}
	s.mu.Lock()
	s.customers[name] = id
	s.mu.Unlock()
	return id, nil
}
