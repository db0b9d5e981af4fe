package handlers

import (
	"net/http"

	"github.com/Pargusz/izmirdestek/internal/interaction"
	"github.com/Pargusz/izmirdestek/internal/middleware"
	"github.com/labstack/echo/v4"
)

// ViewHandler handles the per-post view counter
type ViewHandler struct {
	controller *interaction.Controller
}

// NewViewHandler creates a new ViewHandler
func NewViewHandler(controller *interaction.Controller) *ViewHandler {
	return &ViewHandler{controller: controller}
}

// RegisterViewRoutes registers view-related routes
func (h *ViewHandler) RegisterViewRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/views", h.RecordView)
}

// RecordView counts one view for the calling client. The client calls this
// once its rendering of the post has been at least half visible in the
// viewport; the increment itself is best-effort and deduplicated per
// client+post, so the response is always accepted.
func (h *ViewHandler) RecordView(c echo.Context) error {
	clientID := middleware.ClientIDFrom(c)
	if clientID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing X-Client-ID header")
	}

	h.controller.IncrementView(c.Request().Context(), c.Param("post_id"), clientID)
	return c.NoContent(http.StatusAccepted)
}
