package jobs

import (
	"github.com/labstack/echo/v4"
	"github.com/mushaflabs/recite/pkg/config"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers job routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, cfg *config.Config) {
	jobService := NewService(db)

	h := &handler{
		jobService: jobService,
		config:     cfg,
	}

	g.GET("", h.list)
	g.GET("/:id", h.retrieve)
	g.GET("/:id/download", h.download)
	g.POST("", h.create)
}
