package chapters

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/mushaflabs/recite/pkg/errcodes"
	"github.com/mushaflabs/recite/pkg/quranapi"
	"github.com/pkg/errors"
)

type handler struct {
	chapterService *Service
}

// serviceError maps content API failures to a structured 502 and leaves
// everything else (including errcodes errors from the service) untouched.
func serviceError(err error) error {
	if apiErr, ok := quranapi.AsError(err); ok {
		return errcodes.Upstream(apiErr.Kind, apiErr.Message)
	}
	return errors.WithStack(err)
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	chapters, err := h.chapterService.ListChapters(ctx)
	if err != nil {
		return serviceError(err)
	}

	resp := struct {
		Chapters []quranapi.Chapter `json:"chapters"`
	}{chapters}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Chapter")
	}

	chapter, err := h.chapterService.RetrieveChapter(ctx, id)
	if err != nil {
		return serviceError(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, chapter))
}

func (h *handler) listVerses(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Chapter")
	}

	params := ListVersesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	page, err := h.chapterService.ListVerses(ctx, ListVersesOptions{
		ChapterID:     id,
		Page:          params.Page,
		PerPage:       params.PerPage,
		TranslationID: params.TranslationID,
		ReciterID:     params.ReciterID,
	})
	if err != nil {
		return serviceError(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, page))
}

func (h *handler) chapterAudio(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Chapter")
	}

	params := ChapterAudioQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	audio, err := h.chapterService.ChapterAudio(ctx, id, params.ReciterID)
	if err != nil {
		return serviceError(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, audio))
}

// refetchVerses forces a fresh fetch of a verse page, for clients that want
// to revalidate after regaining connectivity.
func (h *handler) refetchVerses(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Chapter")
	}

	params := ListVersesQuery{}
	if err := c.Bind(&params); err != nil {
		return serviceError(err)
	}

	page, err := h.chapterService.RefetchVerses(ctx, ListVersesOptions{
		ChapterID:     id,
		Page:          params.Page,
		PerPage:       params.PerPage,
		TranslationID: params.TranslationID,
		ReciterID:     params.ReciterID,
	})
	if err != nil {
		return serviceError(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, page))
}

func (h *handler) retrieveVerse(c echo.Context) error {
	ctx := c.Request().Context()

	key := c.Param("key")
	if !quranapi.IsValidVerseKey(key) {
		return errcodes.NotFound("Verse")
	}

	verse, err := h.chapterService.RetrieveVerseByKey(ctx, key, c.QueryParam("translation_id"))
	if err != nil {
		return serviceError(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, verse))
}

func (h *handler) verseTafsir(c echo.Context) error {
	ctx := c.Request().Context()

	key := c.Param("key")
	if !quranapi.IsValidVerseKey(key) {
		return errcodes.NotFound("Verse")
	}

	params := TafsirQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	texts, err := h.chapterService.TafsirByVerse(ctx, key, params.TafsirID)
	if err != nil {
		return serviceError(err)
	}

	resp := struct {
		Tafsirs []quranapi.TafsirText `json:"tafsirs"`
	}{texts}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) listTafsirs(c echo.Context) error {
	ctx := c.Request().Context()

	tafsirs, err := h.chapterService.ListTafsirs(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Tafsirs []quranapi.Tafsir `json:"tafsirs"`
	}{tafsirs}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) listReciters(c echo.Context) error {
	ctx := c.Request().Context()

	reciters, err := h.chapterService.ListReciters(ctx)
	if err != nil {
		return serviceError(err)
	}

	resp := struct {
		Reciters []quranapi.Reciter `json:"reciters"`
	}{reciters}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}
