package api

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/mr1hm/go-wait-dashboard/internal/chart"
	"github.com/mr1hm/go-wait-dashboard/internal/dashboard"
	"github.com/mr1hm/go-wait-dashboard/internal/render"
	"github.com/mr1hm/go-wait-dashboard/internal/view"
)

var exportFormats = []string{"csv", "json"}

type Handler struct {
	dash     *dashboard.Dashboard
	renderer *render.Renderer
}

func NewHandler(dash *dashboard.Dashboard, renderer *render.Renderer) *Handler {
	return &Handler{
		dash:     dash,
		renderer: renderer,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.page)
	r.GET("/fragments/:name", h.fragment)
	r.GET("/charts/:name", h.chart)
	r.GET("/export/:format", h.export)
	r.GET("/health", h.health)

	r.GET("/api/state", h.state)
	r.POST("/api/refresh", h.refresh)
	r.POST("/api/filter/:severity", h.setFilter)
	r.POST("/api/sort/:key", h.setSort)
	r.POST("/api/modals/:name/:action", h.modal)
}

func (h *Handler) page(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.renderer.Page(&buf, pageData(h.dash.View())); err != nil {
		slog.Error("page render failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render page"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *Handler) fragment(c *gin.Context) {
	frame := h.dash.View().Frame

	var html string
	switch c.Param("name") {
	case "hospitals":
		html = string(frame.Hospitals)
	case "stats":
		html = string(frame.Stats)
	case "alerts":
		html = string(frame.Alerts)
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown fragment"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (h *Handler) chart(c *gin.Context) {
	var current func() (*chart.Instance, bool)
	switch c.Param("name") {
	case "trend.png":
		current = h.dash.TrendChart
	case "severity.png":
		current = h.dash.SeverityChart
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown chart"})
		return
	}

	// A redraw can release the instance between lookup and read.
	for range 2 {
		inst, ok := current()
		if !ok {
			c.Status(http.StatusNoContent)
			return
		}
		png, err := inst.PNG()
		if errors.Is(err, chart.ErrReleased) {
			continue
		}
		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, "image/png", png)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) export(c *gin.Context) {
	format := c.Param("format")
	if !slices.Contains(exportFormats, format) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported export format"})
		return
	}

	url, err := h.dash.Export(c.Request.Context(), format)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, url)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"phase":  h.dash.View().Phase.String(),
	})
}

func (h *Handler) state(c *gin.Context) {
	c.JSON(http.StatusOK, toState(h.dash.View()))
}

func (h *Handler) refresh(c *gin.Context) {
	h.respond(c, h.dash.Refresh(c.Request.Context()))
}

func (h *Handler) setFilter(c *gin.Context) {
	f, err := view.ParseFilter(c.Param("severity"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.respond(c, h.dash.SetFilter(c.Request.Context(), f))
}

func (h *Handler) setSort(c *gin.Context) {
	key, err := view.ParseSortKey(c.Param("key"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.respond(c, h.dash.SetSort(c.Request.Context(), key))
}

func (h *Handler) modal(c *gin.Context) {
	m, err := dashboard.ParseModal(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	switch c.Param("action") {
	case "open":
		err = h.dash.OpenModal(ctx, m)
	case "close":
		err = h.dash.CloseModal(ctx, m)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "action must be open or close"})
		return
	}
	h.respond(c, err)
}

// respond answers a command. Browser form posts go back to the page;
// everything else gets the new state as JSON.
func (h *Handler) respond(c *gin.Context, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	if c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) == gin.MIMEHTML {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.JSON(http.StatusOK, toState(h.dash.View()))
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, dashboard.ErrStopped):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dashboard is not running"})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "request canceled"})
	default:
		slog.Error("dashboard command failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "command failed"})
	}
}
