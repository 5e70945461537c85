// Package api exposes the wizard over HTTP.
package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BerylCAtieno/marketing-strategy-agent/internal/apperr"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/credentials"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/generator"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/keywords"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/models"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/store"
	"github.com/BerylCAtieno/marketing-strategy-agent/internal/wizard"
)

type Handler struct {
	store       *store.Store
	generator   *generator.Generator
	navigator   *wizard.Navigator
	credentials *credentials.Store
	stats       *keywords.StatsService
	logger      *zap.Logger

	mu         sync.Mutex
	generating map[string]bool
}

func NewHandler(
	st *store.Store,
	gen *generator.Generator,
	nav *wizard.Navigator,
	creds *credentials.Store,
	stats *keywords.StatsService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		store:       st,
		generator:   gen,
		navigator:   nav,
		credentials: creds,
		stats:       stats,
		logger:      logger,
		generating:  make(map[string]bool),
	}
}

// Register mounts every route on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api")
	api.GET("/state", h.GetState)
	api.POST("/reset", h.Reset)
	api.PUT("/business", h.PutBusiness)
	api.PUT("/landing-page", h.PutLandingPage)

	api.GET("/wizard", h.GetWizard)
	api.POST("/wizard/goto", h.GotoStep)
	api.POST("/wizard/continue", h.ContinueStep)

	api.GET("/credentials", h.GetCredentials)
	api.PUT("/credentials/:name", h.PutCredential)
	api.DELETE("/credentials/:name", h.DeleteCredential)

	api.POST("/icps/generate", h.GenerateICPs)
	api.POST("/usps/generate", h.GenerateUSPs)
	api.POST("/geographies/generate", h.GenerateGeographies)
	api.POST("/keywords/generate", h.GenerateKeywords)
	api.POST("/content/generate", h.GenerateContent)

	h.mountCollections(api)

	api.POST("/content/:id/publish", h.PublishContent)
	api.GET("/keywords/:id/stats", h.KeywordStats)

	api.GET("/competitors", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"items": h.store.Competitors()})
	})
	api.PUT("/competitors", h.PutCompetitors)
	api.POST("/competitors", h.AddCompetitor)
	api.DELETE("/competitors/:id", h.DeleteCompetitor)
}

func (h *Handler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Snapshot())
}

func (h *Handler) Reset(c *gin.Context) {
	if err := h.store.Reset(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	h.logger.Info("Wizard state reset")
	c.JSON(http.StatusOK, h.store.Snapshot())
}

func (h *Handler) PutBusiness(c *gin.Context) {
	var b models.BusinessInfo
	if err := c.ShouldBindJSON(&b); err != nil {
		h.badRequest(c, err)
		return
	}
	if err := h.store.SetBusiness(c.Request.Context(), b); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.store.Business())
}

func (h *Handler) PutLandingPage(c *gin.Context) {
	var lp models.LandingPage
	if err := c.ShouldBindJSON(&lp); err != nil {
		h.badRequest(c, err)
		return
	}
	out, err := h.store.SetLandingPage(c.Request.Context(), lp)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) GetWizard(c *gin.Context) {
	c.JSON(http.StatusOK, h.navigator.Position())
}

type gotoRequest struct {
	Step int `json:"step" binding:"required"`
}

func (h *Handler) GotoStep(c *gin.Context) {
	var req gotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	pos, err := h.navigator.Goto(c.Request.Context(), req.Step)
	h.respondPosition(c, pos, err)
}

func (h *Handler) ContinueStep(c *gin.Context) {
	pos, err := h.navigator.Continue(c.Request.Context())
	h.respondPosition(c, pos, err)
}

// respondPosition answers a navigation request. A refused move carries the
// notice and the unchanged position.
func (h *Handler) respondPosition(c *gin.Context, pos wizard.Position, err error) {
	if err == nil {
		c.JSON(http.StatusOK, pos)
		return
	}
	if !apperr.Is(err, apperr.Validation) {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": errorBody(err), "position": pos})
}

func (h *Handler) GetCredentials(c *gin.Context) {
	st, err := h.credentials.Status(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

type credentialRequest struct {
	Value string `json:"value" binding:"required"`
}

func credentialKey(name string) (string, bool) {
	switch name {
	case "openai":
		return credentials.OpenAIKey, true
	case "gemini":
		return credentials.GeminiKey, true
	case "developer-token":
		return credentials.DeveloperToken, true
	}
	return "", false
}

func (h *Handler) PutCredential(c *gin.Context) {
	name := c.Param("name")
	if _, ok := credentialKey(name); !ok {
		h.fail(c, apperr.NewNotFound("credential", name))
		return
	}
	var req credentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	var err error
	switch name {
	case "openai":
		err = h.credentials.SetAPIKey(ctx, req.Value)
	case "gemini":
		err = h.credentials.SetGeminiKey(ctx, req.Value)
	case "developer-token":
		err = h.credentials.SetDeveloperToken(ctx, req.Value)
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	h.logger.Info("Credential saved", zap.String("credential", name))
	h.GetCredentials(c)
}

func (h *Handler) DeleteCredential(c *gin.Context) {
	key, ok := credentialKey(c.Param("name"))
	if !ok {
		h.fail(c, apperr.NewNotFound("credential", c.Param("name")))
		return
	}
	if err := h.credentials.Clear(c.Request.Context(), key); err != nil {
		h.fail(c, err)
		return
	}
	h.GetCredentials(c)
}

type publishRequest struct {
	Link string `json:"link"`
}

func (h *Handler) PublishContent(c *gin.Context) {
	var req publishRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.badRequest(c, err)
			return
		}
	}
	idea, err := h.store.PublishContent(c.Request.Context(), c.Param("id"), req.Link)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.logger.Info("Content published", zap.String("id", idea.ID), zap.String("link", idea.PublishLink))
	c.JSON(http.StatusOK, idea)
}

func (h *Handler) KeywordStats(c *gin.Context) {
	kw, err := h.store.Keyword(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	stats, err := h.stats.Get(c.Request.Context(), kw)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) PutCompetitors(c *gin.Context) {
	var items []models.Competitor
	if err := c.ShouldBindJSON(&items); err != nil {
		h.badRequest(c, err)
		return
	}
	if err := h.store.SetCompetitors(c.Request.Context(), items); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": h.store.Competitors()})
}

func (h *Handler) AddCompetitor(c *gin.Context) {
	var item models.Competitor
	if err := c.ShouldBindJSON(&item); err != nil {
		h.badRequest(c, err)
		return
	}
	out, err := h.store.AddCompetitor(c.Request.Context(), item)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *Handler) DeleteCompetitor(c *gin.Context) {
	if err := h.store.DeleteCompetitor(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
