package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BerylCAtieno/marketing-strategy-agent/internal/apperr"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/models"
)

// generated is the response of a generate call: the items just added and the
// whole collection after the merge.
type generated[T any] struct {
	Added []T `json:"added"`
	Items []T `json:"items"`
}

// begin marks collection as generating. It reports false when a generation
// for the same collection is already running.
func (h *Handler) begin(collection string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.generating[collection] {
		return false
	}
	h.generating[collection] = true
	return true
}

func (h *Handler) end(collection string) {
	h.mu.Lock()
	delete(h.generating, collection)
	h.mu.Unlock()
}

// IsGenerating reports whether a generation for collection is in flight.
func (h *Handler) IsGenerating(collection string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.generating[collection]
}

// guard runs fn unless collection is already generating.
func (h *Handler) guard(c *gin.Context, collection string, fn func()) {
	if !h.begin(collection) {
		h.fail(c, apperr.NewConflict(collection+" are already being generated"))
		return
	}
	defer h.end(collection)
	fn()
}

func (h *Handler) GenerateICPs(c *gin.Context) {
	h.guard(c, "icps", func() {
		ctx := c.Request.Context()
		snap := h.store.Snapshot()
		items, err := h.generator.ICPs(ctx, snap.Business, snap.ICPs)
		if err != nil {
			h.fail(c, err)
			return
		}
		added, err := h.store.MergeICPs(ctx, items)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, generated[models.ICP]{Added: added, Items: h.store.ICPs()})
	})
}

func (h *Handler) GenerateUSPs(c *gin.Context) {
	h.guard(c, "usps", func() {
		ctx := c.Request.Context()
		snap := h.store.Snapshot()
		items, err := h.generator.USPs(ctx, snap.Business, snap.ICPs, snap.Competitors, snap.USPs)
		if err != nil {
			h.fail(c, err)
			return
		}
		added, err := h.store.MergeUSPs(ctx, items)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, generated[models.USP]{Added: added, Items: h.store.USPs()})
	})
}

func (h *Handler) GenerateGeographies(c *gin.Context) {
	h.guard(c, "geographies", func() {
		ctx := c.Request.Context()
		snap := h.store.Snapshot()
		items, err := h.generator.Geographies(ctx, snap.Business, snap.ICPs, snap.USPs, snap.Geographies)
		if err != nil {
			h.fail(c, err)
			return
		}
		added, err := h.store.MergeGeographies(ctx, items)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, generated[models.Geography]{Added: added, Items: h.store.Geographies()})
	})
}

// GenerateKeywords asks the model for keywords, or the ad platform when
// called with ?source=ads. Ad-platform stats are cached for the keywords that
// were actually added.
func (h *Handler) GenerateKeywords(c *gin.Context) {
	h.guard(c, "keywords", func() {
		ctx := c.Request.Context()
		snap := h.store.Snapshot()

		var (
			items []models.Keyword
			stats []models.KeywordStats
			err   error
		)
		switch source := c.DefaultQuery("source", "llm"); source {
		case "ads":
			items, stats, err = h.generator.KeywordsFromAdPlatform(ctx, snap.Business, snap.USPs, snap.Keywords)
		case "llm":
			items, err = h.generator.Keywords(ctx, snap.Business, snap.ICPs, snap.USPs, snap.Keywords)
		default:
			err = apperr.NewValidation("unknown keyword source " + source)
		}
		if err != nil {
			h.fail(c, err)
			return
		}

		added, err := h.store.MergeKeywords(ctx, items)
		if err != nil {
			h.fail(c, err)
			return
		}
		addedIDs := make(map[string]bool, len(added))
		for _, kw := range added {
			addedIDs[kw.ID] = true
		}
		for _, st := range stats {
			if !addedIDs[st.ID] {
				continue
			}
			if err := h.store.PutKeywordStats(ctx, st); err != nil {
				h.logger.Warn("Could not cache keyword stats", zap.String("term", st.Term), zap.Error(err))
			}
		}
		c.JSON(http.StatusOK, generated[models.Keyword]{Added: added, Items: h.store.Keywords()})
	})
}

func (h *Handler) GenerateContent(c *gin.Context) {
	h.guard(c, "content ideas", func() {
		ctx := c.Request.Context()
		snap := h.store.Snapshot()
		items, err := h.generator.ContentIdeas(ctx, snap.Business, snap.ICPs, snap.Keywords, snap.ContentIdeas)
		if err != nil {
			h.fail(c, err)
			return
		}
		added, err := h.store.MergeContentIdeas(ctx, items)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, generated[models.ContentIdea]{Added: added, Items: h.store.ContentIdeas()})
	})
}
