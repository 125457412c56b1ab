package settings

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers reader settings routes on a
// pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := &handler{
		settingsService: NewService(db),
	}

	g.GET("/reader", h.retrieve)
	g.PUT("/reader", h.update)
}
