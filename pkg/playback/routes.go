package playback

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers the playback routes.
func RegisterRoutes(e *echo.Echo, controller *Controller, words *WordPlayer, slot *Slot, loader TrackLoader) {
	h := &handler{
		controller: controller,
		words:      words,
		slot:       slot,
		loader:     loader,
	}

	g := e.Group("/playback")
	g.GET("", h.status)
	g.DELETE("", h.stop)
	g.POST("/chapters/:id", h.playChapter)
	g.POST("/words", h.toggleWord)
}
