package chapters

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers the chapter, verse, tafsir, and reciter routes.
func RegisterRoutes(e *echo.Echo, chapterService *Service) {
	h := &handler{
		chapterService: chapterService,
	}

	g := e.Group("/chapters")
	g.GET("", h.list)
	g.GET("/:id", h.retrieve)
	g.GET("/:id/audio", h.chapterAudio)
	g.GET("/:id/verses", h.listVerses)
	g.POST("/:id/verses/refetch", h.refetchVerses)

	v := e.Group("/verses")
	v.GET("/:key", h.retrieveVerse)
	v.GET("/:key/tafsir", h.verseTafsir)

	e.GET("/tafsirs", h.listTafsirs)
	e.GET("/reciters", h.listReciters)
}
