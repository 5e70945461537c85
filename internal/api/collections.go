package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BerylCAtieno/marketing-strategy-agent/internal/models"
)

// routes are the list and custom-edit operations of one collection.
type routes[T any] struct {
	path   string
	list   func() []T
	add    func(context.Context, T) (T, error)
	update func(context.Context, string, T) (T, error)
	remove func(context.Context, string) error
}

func mount[T any](g gin.IRouter, h *Handler, r routes[T]) {
	g.GET(r.path, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"items": r.list()})
	})

	g.POST(r.path, func(c *gin.Context) {
		var item T
		if err := c.ShouldBindJSON(&item); err != nil {
			h.badRequest(c, err)
			return
		}
		out, err := r.add(c.Request.Context(), item)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, out)
	})

	g.PUT(r.path+"/:id", func(c *gin.Context) {
		var item T
		if err := c.ShouldBindJSON(&item); err != nil {
			h.badRequest(c, err)
			return
		}
		out, err := r.update(c.Request.Context(), c.Param("id"), item)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	})

	g.DELETE(r.path+"/:id", func(c *gin.Context) {
		if err := r.remove(c.Request.Context(), c.Param("id")); err != nil {
			h.fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}

func (h *Handler) mountCollections(g gin.IRouter) {
	s := h.store
	mount(g, h, routes[models.ICP]{
		path: "/icps", list: s.ICPs, add: s.AddCustomICP, update: s.UpdateICP, remove: s.DeleteICP,
	})
	mount(g, h, routes[models.USP]{
		path: "/usps", list: s.USPs, add: s.AddCustomUSP, update: s.UpdateUSP, remove: s.DeleteUSP,
	})
	mount(g, h, routes[models.Geography]{
		path: "/geographies", list: s.Geographies, add: s.AddCustomGeography, update: s.UpdateGeography, remove: s.DeleteGeography,
	})
	mount(g, h, routes[models.Keyword]{
		path: "/keywords", list: s.Keywords, add: s.AddCustomKeyword, update: s.UpdateKeyword, remove: s.DeleteKeyword,
	})
	mount(g, h, routes[models.ContentIdea]{
		path: "/content", list: s.ContentIdeas, add: s.AddCustomContentIdea, update: s.UpdateContentIdea, remove: s.DeleteContentIdea,
	})
}
