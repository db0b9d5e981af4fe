package handlers

import (
	"log"
	"net/http"

	"github.com/Pargusz/izmirdestek/internal/presence"
	"github.com/labstack/echo/v4"
)

// PresenceHandler exposes the site-wide live visitor counter
type PresenceHandler struct {
	counter *presence.Counter
}

// NewPresenceHandler creates a new PresenceHandler
func NewPresenceHandler(counter *presence.Counter) *PresenceHandler {
	return &PresenceHandler{counter: counter}
}

// RegisterPresenceRoutes registers presence routes
func (h *PresenceHandler) RegisterPresenceRoutes(g *echo.Group) {
	g.GET("/presence", h.GetPresence)
	g.POST("/presence", h.Enter)
}

// GetPresence returns the current live visitor count. Best-effort: a failing
// counter reports zero rather than an error.
func (h *PresenceHandler) GetPresence(c echo.Context) error {
	count, err := h.counter.Count(c.Request().Context())
	if err != nil {
		log.Printf("presence read failed: %v", err)
		count = 0
	}
	return c.JSON(http.StatusOK, map[string]int64{"live_views": count})
}

// Enter increments the counter for a newly arrived visitor and returns the
// updated count.
func (h *PresenceHandler) Enter(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.counter.Enter(ctx); err != nil {
		log.Printf("presence increment failed: %v", err)
	}
	count, err := h.counter.Count(ctx)
	if err != nil {
		log.Printf("presence read failed: %v", err)
		count = 0
	}
	return c.JSON(http.StatusOK, map[string]int64{"live_views": count})
}
