package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mushaflabs/recite/pkg/binder"
	"github.com/mushaflabs/recite/pkg/chapters"
	"github.com/mushaflabs/recite/pkg/config"
	"github.com/mushaflabs/recite/pkg/errcodes"
	"github.com/mushaflabs/recite/pkg/jobs"
	"github.com/mushaflabs/recite/pkg/playback"
	"github.com/mushaflabs/recite/pkg/querycache"
	"github.com/mushaflabs/recite/pkg/quranapi"
	"github.com/mushaflabs/recite/pkg/settings"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB, chapterService *chapters.Service) (*http.Server, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())

	health.RegisterRoutes(e)

	if chapterService == nil {
		chapterService = chapters.NewService(quranapi.New(cfg), querycache.New(), cfg)
	}

	// Chapter, verse, tafsir, and reciter reads.
	chapters.RegisterRoutes(e, chapterService)

	// Playback control. A single stream player is shared by sequential
	// chapter playback and one-off word audio.
	slot := playback.NewSlot()
	player := playback.NewStreamPlayer(&http.Client{}, nil)
	controller := playback.NewController(player, slot)
	words := playback.NewWordPlayer(player, slot)
	playback.RegisterRoutes(e, controller, words, slot, chapterService)

	// Export jobs.
	jobsGroup := e.Group("/jobs")
	jobs.RegisterRoutesWithGroup(jobsGroup, db, cfg)

	// Reader settings.
	settingsGroup := e.Group("/settings")
	settings.RegisterRoutesWithGroup(settingsGroup, db)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
