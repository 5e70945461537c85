// Package generator asks the language model for new ICPs, USPs, geographies,
// keywords and content ideas, and turns its answers into entities.
package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BerylCAtieno/marketing-strategy-agent/internal/apperr"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/extract"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/keywords"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/llm"
)

const DefaultICPTimeout = 30 * time.Second

// Generator builds prompts, calls the model and maps the answers. It never
// touches the application state; callers merge what it returns.
type Generator struct {
	llm        llm.Completer
	pipeline   *keywords.Pipeline
	icpTimeout time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// New returns a Generator. pipeline may be nil when no ad platform is wired.
func New(completer llm.Completer, pipeline *keywords.Pipeline, icpTimeout time.Duration, logger *zap.Logger) *Generator {
	if icpTimeout <= 0 {
		icpTimeout = DefaultICPTimeout
	}
	return &Generator{
		llm:        completer,
		pipeline:   pipeline,
		icpTimeout: icpTimeout,
		logger:     logger,
		now:        time.Now,
	}
}

// request describes one generation round for entities of type T.
type request[T any] struct {
	domain string
	tag    string
	system string
	user   string
	// key reads the de-duplication key (title, term or region) of a raw item.
	key   func(extract.Object) string
	build func(extract.Object) T
	setID func(*T, string)
	// existing keys and ids already held by the caller
	existingKeys []string
	existingIDs  []string
}

func generate[T any](ctx context.Context, g *Generator, req request[T]) ([]T, error) {
	op := "generate " + req.domain

	completion, err := g.llm.Complete(ctx, []llm.Message{llm.System(req.system), llm.User(req.user)}, llm.Options{})
	if err != nil {
		g.logger.Error("Completion failed", zap.String("domain", req.domain), zap.Error(err))
		return nil, apperr.Wrap(op, err)
	}

	parsed, err := extract.Parse(completion.Content)
	if err != nil {
		g.logger.Warn("Could not parse model response",
			zap.String("domain", req.domain),
			zap.String("content", completion.Content))
		return nil, apperr.Wrap(op, &apperr.Error{Kind: apperr.Generation, Message: "no valid data in response", Err: err})
	}

	raw := extract.ToArray(parsed)
	fresh := filterExisting(raw, req.key, req.existingKeys)
	if dropped := len(raw) - len(fresh); dropped > 0 {
		g.logger.Info("Dropped repeated or unusable items",
			zap.String("domain", req.domain),
			zap.Int("dropped", dropped))
	}

	ids := newIDs(req.tag, g.now(), len(fresh), req.existingIDs)
	out := make([]T, 0, len(fresh))
	for i, obj := range fresh {
		item := req.build(obj)
		req.setID(&item, ids[i])
		out = append(out, item)
	}

	if len(out) == 0 {
		return nil, apperr.Wrap(op, apperr.NewGeneration("empty result"))
	}
	g.logger.Info("Generated items", zap.String("domain", req.domain), zap.Int("count", len(out)))
	return out, nil
}

// filterExisting keeps objects whose key is non-empty, not held already and
// not repeated within the batch. Keys compare trimmed and case-insensitively.
func filterExisting(items []any, key func(extract.Object) string, existing []string) []extract.Object {
	held := make(map[string]bool, len(existing))
	for _, k := range existing {
		held[normKey(k)] = true
	}

	out := make([]extract.Object, 0, len(items))
	for _, it := range items {
		obj, ok := asObject(it)
		if !ok {
			continue
		}
		k := normKey(key(obj))
		if k == "" || held[k] {
			continue
		}
		held[k] = true
		out = append(out, obj)
	}
	return out
}

// newIDs returns n ids of the form <tag>-<unixmillis>-<index>. The timestamp
// is moved forward until none of the ids is already taken.
func newIDs(tag string, now time.Time, n int, taken []string) []string {
	used := make(map[string]bool, len(taken))
	for _, id := range taken {
		used[id] = true
	}

	stamp := now.UnixMilli()
	for {
		ids := make([]string, n)
		clash := false
		for i := range ids {
			ids[i] = fmt.Sprintf("%s-%d-%d", tag, stamp, i)
			if used[ids[i]] {
				clash = true
			}
		}
		if !clash {
			return ids
		}
		stamp++
	}
}

func normKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// canonicalTitle returns the held title matching ref, ignoring case. With no
// titles held, ref is kept as given; with titles held, an unknown ref becomes "".
func canonicalTitle(ref string, titles []string) string {
	ref = strings.TrimSpace(ref)
	if len(titles) == 0 {
		return ref
	}
	for _, t := range titles {
		if normKey(t) == normKey(ref) {
			return t
		}
	}
	return ""
}
