package playback

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/mushaflabs/recite/pkg/errcodes"
	"github.com/pkg/errors"
)

// TrackLoader builds the playable sequence for a chapter. The chapters
// service implements this.
type TrackLoader interface {
	ChapterTracks(ctx context.Context, chapterID, reciterID int) ([]Track, error)
}

type handler struct {
	controller *Controller
	words      *WordPlayer
	slot       *Slot
	loader     TrackLoader
}

// playChapter starts sequential playback of a chapter's verses.
func (h *handler) playChapter(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Chapter")
	}

	params := PlayChapterPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	tracks, err := h.loader.ChapterTracks(ctx, id, params.ReciterID)
	if err != nil {
		return errors.WithStack(err)
	}

	startIndex := 0
	if params.StartVerse > 0 {
		startIndex = params.StartVerse - 1
	}
	if startIndex >= len(tracks) {
		return errcodes.ValidationError("start_verse is beyond the end of the chapter.")
	}

	// Playback outlives the request, so the run gets its own context.
	err = h.controller.PlayTracks(context.Background(), tracks, startIndex)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, h.controller.Status()))
}

func (h *handler) status(c echo.Context) error {
	return errors.WithStack(c.JSON(http.StatusOK, h.controller.Status()))
}

// stop ends whatever is playing, sequence and word audio both.
func (h *handler) stop(c echo.Context) error {
	h.controller.Stop()
	h.slot.Stop()

	return errors.WithStack(c.JSON(http.StatusOK, h.controller.Status()))
}

// toggleWord plays a single word's audio, or stops it when that word is
// already playing.
func (h *handler) toggleWord(c echo.Context) error {
	params := PlayWordPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	// The audio outlives the request.
	playing, err := h.words.Toggle(context.Background(), params.AudioURL)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Playing bool `json:"playing"`
	}{playing}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}
