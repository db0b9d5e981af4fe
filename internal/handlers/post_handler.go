package handlers

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/Pargusz/izmirdestek/internal/feed"
	"github.com/Pargusz/izmirdestek/internal/interaction"
	"github.com/Pargusz/izmirdestek/internal/middleware"
	"github.com/Pargusz/izmirdestek/internal/models"
	"github.com/Pargusz/izmirdestek/internal/store"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	controller *interaction.Controller
	projector  *feed.Projector
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(controller *interaction.Controller, projector *feed.Projector) *PostHandler {
	return &PostHandler{
		controller: controller,
		projector:  projector,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts", h.GetFeed)
	g.GET("/posts/:id", h.GetPost)
	g.DELETE("/posts/:id", h.DeletePost)
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	in := interaction.CreatePostInput{
		Content:   req.Content,
		Username:  req.Username,
		MediaURL:  req.MediaURL,
		ClientID:  middleware.ClientIDFrom(c),
		RemoteIP:  c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
	if req.Attachment != nil {
		data, err := base64.StdEncoding.DecodeString(req.Attachment.Data)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid attachment encoding")
		}
		in.Attachment = &interaction.AttachmentInput{
			Data:     data,
			MimeType: req.Attachment.MimeType,
			FileName: req.Attachment.FileName,
		}
	}

	id, err := h.controller.CreatePost(c.Request().Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, interaction.ErrEmptyContent):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, interaction.ErrAttachmentTooLarge):
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]string{"id": id})
}

// GetFeed returns the projected feed, filtered by the optional search query
func (h *PostHandler) GetFeed(c echo.Context) error {
	return c.JSON(http.StatusOK, h.projector.Filter(c.QueryParam("q")))
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.controller.GetPost(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost deletes a post. There is no ownership check: posts are
// anonymous and any client may remove any record.
func (h *PostHandler) DeletePost(c echo.Context) error {
	if err := h.controller.DeletePost(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
