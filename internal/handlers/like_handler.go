package handlers

import (
	"errors"
	"net/http"

	"github.com/Pargusz/izmirdestek/internal/interaction"
	"github.com/Pargusz/izmirdestek/internal/middleware"
	"github.com/Pargusz/izmirdestek/internal/models"
	"github.com/Pargusz/izmirdestek/internal/store"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	controller *interaction.Controller
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(controller *interaction.Controller) *LikeHandler {
	return &LikeHandler{controller: controller}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/likes/toggle", h.ToggleLike)
}

// ToggleLike adds or removes the caller's like on a post. The request body
// carries the caller's belief about its current membership in the like set.
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	clientID := middleware.ClientIDFrom(c)
	if clientID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing X-Client-ID header")
	}

	var req models.ToggleLikeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	err := h.controller.ToggleLike(c.Request().Context(), c.Param("post_id"), clientID, req.Liked)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]bool{"liked": !req.Liked})
}
