// Package store owns the application state and mirrors it to local storage.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BerylCAtieno/marketing-strategy-agent/internal/apperr"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/models"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/storage"
)

// StorageKey is the single key the whole state is written under.
const StorageKey = "marketingToolData"

// Store holds every collection of the wizard. All methods are safe for
// concurrent use; every mutation rewrites the whole state blob once Load has
// completed.
type Store struct {
	mu     sync.RWMutex
	kv     storage.KV
	logger *zap.Logger
	state  models.State
	loaded bool
	now    func() time.Time
}

func New(kv storage.KV, logger *zap.Logger) *Store {
	return &Store{
		kv:     kv,
		logger: logger,
		state:  models.DefaultState(),
		now:    time.Now,
	}
}

// Load reads the persisted state. Each field is decoded on its own, so a bad
// field falls back to its default without affecting the others. Load never
// fails on bad data; it only logs.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = models.DefaultState()
	defer func() { s.loaded = true }()

	raw, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		s.logger.Error("Failed to read stored state", zap.Error(err))
		return
	}
	if !ok {
		s.logger.Info("No stored state, starting fresh")
		return
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		s.logger.Warn("Stored state is not valid JSON, using defaults", zap.Error(err))
		return
	}

	st := &s.state
	decodeField(s.logger, fields, "business", &st.Business)
	decodeField(s.logger, fields, "competitors", &st.Competitors)
	decodeField(s.logger, fields, "icps", &st.ICPs)
	decodeField(s.logger, fields, "usps", &st.USPs)
	decodeField(s.logger, fields, "geographies", &st.Geographies)
	decodeField(s.logger, fields, "keywords", &st.Keywords)
	decodeField(s.logger, fields, "contentIdeas", &st.ContentIdeas)
	decodeField(s.logger, fields, "publishedContent", &st.PublishedContent)
	decodeField(s.logger, fields, "keywordStats", &st.KeywordStats)
	decodeField(s.logger, fields, "landingPage", &st.LandingPage)
	decodeField(s.logger, fields, "currentStep", &st.CurrentStep)

	if !st.LandingPage.Theme.Valid() {
		st.LandingPage.Theme = models.ThemeLight
	}
	if st.CurrentStep < models.FirstStep || st.CurrentStep > models.LastStep {
		st.CurrentStep = models.FirstStep
	}

	s.logger.Info("Loaded stored state",
		zap.Int("icps", len(st.ICPs)),
		zap.Int("usps", len(st.USPs)),
		zap.Int("geographies", len(st.Geographies)),
		zap.Int("keywords", len(st.Keywords)),
		zap.Int("contentIdeas", len(st.ContentIdeas)))
}

func decodeField[T any](logger *zap.Logger, fields map[string]json.RawMessage, name string, dst *T) {
	raw, ok := fields[name]
	if !ok || string(raw) == "null" {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		logger.Warn("Stored field is invalid, using default", zap.String("field", name), zap.Error(err))
		return
	}
	*dst = v
}

// Loaded reports whether Load has completed.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// mutateLocked applies fn to a copy of the state and installs the copy only
// once it is persisted, so a failed write leaves the state untouched. The
// write is not cut short by the caller's cancellation. Callers hold s.mu.
func (s *Store) mutateLocked(ctx context.Context, fn func(st *models.State) error) error {
	next := cloneState(s.state)
	if err := fn(&next); err != nil {
		return err
	}
	if err := s.persist(context.WithoutCancel(ctx), next); err != nil {
		return err
	}
	s.state = next
	return nil
}

// persist writes st as the whole state. Nothing is written before Load.
func (s *Store) persist(ctx context.Context, st models.State) error {
	if !s.loaded {
		return nil
	}
	blob, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := s.kv.Set(ctx, StorageKey, string(blob)); err != nil {
		s.logger.Error("Failed to persist state", zap.Error(err))
		return fmt.Errorf("persist state: %w", err)
	}
	return nil
}

// Snapshot returns a deep copy of the whole state.
func (s *Store) Snapshot() models.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneState(s.state)
}

func cloneState(st models.State) models.State {
	blob, err := json.Marshal(st)
	if err != nil {
		panic(fmt.Sprintf("store: state is not serializable: %v", err))
	}
	var out models.State
	if err := json.Unmarshal(blob, &out); err != nil {
		panic(fmt.Sprintf("store: state does not round-trip: %v", err))
	}
	return out
}

// Reset clears every collection back to a fresh session.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutateLocked(ctx, func(st *models.State) error {
		*st = models.DefaultState()
		return nil
	})
}

func (s *Store) Business() models.BusinessInfo {
	return s.Snapshot().Business
}

func (s *Store) SetBusiness(ctx context.Context, b models.BusinessInfo) error {
	b.Name = strings.TrimSpace(b.Name)
	b.Industry = strings.TrimSpace(b.Industry)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutateLocked(ctx, func(st *models.State) error {
		st.Business = b
		if st.LandingPage.BusinessName == "" {
			st.LandingPage.BusinessName = b.Name
		}
		return nil
	})
}

func (s *Store) Step() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.CurrentStep
}

func (s *Store) SetStep(ctx context.Context, step int) error {
	if step < models.FirstStep || step > models.LastStep {
		return apperr.NewValidation(fmt.Sprintf("step must be between %d and %d", models.FirstStep, models.LastStep))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutateLocked(ctx, func(st *models.State) error {
		st.CurrentStep = step
		return nil
	})
}

func (s *Store) LandingPage() models.LandingPage {
	return s.Snapshot().LandingPage
}

// SetLandingPage replaces the landing page. An empty theme means light and an
// empty business name is taken from the business info.
func (s *Store) SetLandingPage(ctx context.Context, lp models.LandingPage) (models.LandingPage, error) {
	if lp.Theme == "" {
		lp.Theme = models.ThemeLight
	}
	if !lp.Theme.Valid() {
		return models.LandingPage{}, apperr.NewValidation(fmt.Sprintf("unknown theme %q", lp.Theme))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.mutateLocked(ctx, func(st *models.State) error {
		if strings.TrimSpace(lp.BusinessName) == "" {
			lp.BusinessName = st.Business.Name
		}
		st.LandingPage = lp
		return nil
	})
	if err != nil {
		return models.LandingPage{}, err
	}
	return lp, nil
}
