package handlers

import (
	"errors"
	"net/http"

	"github.com/Pargusz/izmirdestek/internal/interaction"
	"github.com/Pargusz/izmirdestek/internal/models"
	"github.com/Pargusz/izmirdestek/internal/store"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	controller *interaction.Controller
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(controller *interaction.Controller) *CommentHandler {
	return &CommentHandler{controller: controller}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/comments", h.CreateComment)
}

// CreateComment appends a comment to a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.controller.AddComment(c.Request().Context(), c.Param("post_id"), req.Content, req.Username)
	if err != nil {
		switch {
		case errors.Is(err, interaction.ErrEmptyContent):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, store.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusCreated)
}
