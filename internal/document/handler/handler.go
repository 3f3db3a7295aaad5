package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/devblog/contentd/internal/document"
	"github.com/devblog/contentd/internal/preview"
	"github.com/devblog/contentd/pkg/logger"
	"github.com/devblog/contentd/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// Collection is the read side of a service.Service.
type Collection interface {
	Name() string
	List(ctx context.Context) ([]document.Document, error)
	Get(ctx context.Context, slug string) (document.Document, error)
}

// RegisterCollectionRoutes mounts the query routes of one collection:
//
//	GET /api/<name>                  list (optional ?tag= and ?title= filters)
//	GET /api/<name>/:slug            one document
//	GET /api/<name>/:slug/preview    plain-text excerpt (?words=N)
func RegisterCollectionRoutes(r gin.IRouter, col Collection, previewWords int) {
	if previewWords <= 0 {
		previewWords = preview.DefaultMaxWords
	}
	h := &collectionHandler{col: col, previewWords: previewWords}
	g := r.Group("/api/" + col.Name())
	g.GET("", h.list)
	g.GET("/:slug", h.get)
	g.GET("/:slug/preview", h.preview)
}

type collectionHandler struct {
	col          Collection
	previewWords int
}

func (h *collectionHandler) list(c *gin.Context) {
	name := h.col.Name()
	start := time.Now()
	docs, err := h.col.List(c.Request.Context())
	metrics.QueryDuration.WithLabelValues(name, "list").Observe(time.Since(start).Seconds())
	if err != nil {
		h.fail(c, "list", "", err)
		return
	}
	docs = document.Filter{Tag: c.Query("tag"), Title: c.Query("title")}.Apply(docs)

	metrics.Requests.WithLabelValues(name, "list", "ok").Inc()
	metrics.DocumentsServed.WithLabelValues(name).Add(float64(len(docs)))
	logger.Debugf("listed %d documents from %s", len(docs), name)
	c.JSON(http.StatusOK, docs)
}

func (h *collectionHandler) get(c *gin.Context) {
	d, ok := h.fetch(c, "get")
	if !ok {
		return
	}
	metrics.DocumentsServed.WithLabelValues(h.col.Name()).Inc()
	c.JSON(http.StatusOK, d)
}

func (h *collectionHandler) preview(c *gin.Context) {
	words := h.previewWords
	if raw := c.Query("words"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			metrics.Requests.WithLabelValues(h.col.Name(), "preview", "bad_request").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": "words must be a positive integer", "code": "invalid_request"})
			return
		}
		words = n
	}
	d, ok := h.fetch(c, "preview")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"slug":    d.Slug,
		"title":   d.Title(),
		"preview": preview.Truncate(d.Content, words),
	})
}

func (h *collectionHandler) fetch(c *gin.Context, op string) (document.Document, bool) {
	name := h.col.Name()
	slug := c.Param("slug")
	start := time.Now()
	d, err := h.col.Get(c.Request.Context(), slug)
	metrics.QueryDuration.WithLabelValues(name, op).Observe(time.Since(start).Seconds())
	if err != nil {
		h.fail(c, op, slug, err)
		return document.Document{}, false
	}
	metrics.Requests.WithLabelValues(name, op, "ok").Inc()
	return d, true
}

// fail translates a service error into a failure response and logs it.
func (h *collectionHandler) fail(c *gin.Context, op, slug string, err error) {
	name := h.col.Name()
	status, code, msg := classify(err)
	metrics.Requests.WithLabelValues(name, op, code).Inc()

	if status == http.StatusNotFound {
		logger.Warnw(op+" failed", "collection", name, "slug", slug, "cause", err)
	} else {
		logger.Errorw(op+" failed", "collection", name, "slug", slug, "cause", err)
	}
	c.JSON(status, gin.H{"error": msg, "code": code})
}

func classify(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, document.ErrNotFound):
		return http.StatusNotFound, "not_found", "document not found"
	case errors.Is(err, document.ErrMalformed):
		return http.StatusInternalServerError, "malformed_document", "document is malformed"
	case errors.Is(err, context.Canceled):
		// client went away; 499 mirrors the nginx convention
		return 499, "canceled", "request canceled"
	default:
		return http.StatusInternalServerError, "storage_failure", "content storage unavailable"
	}
}
