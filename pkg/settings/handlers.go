package settings

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	settingsService *Service
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	settings, err := h.settingsService.RetrieveReaderSettings(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, settings))
}

// update applies a partial update on top of the current settings, so a
// client toggling one switch doesn't have to send the rest.
func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdateReaderSettingsPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	settings, err := h.settingsService.RetrieveReaderSettings(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	if params.ViewingMode != nil {
		settings.ViewingMode = *params.ViewingMode
	}
	if params.ShowTranslation != nil {
		settings.ShowTranslation = *params.ShowTranslation
	}
	if params.ShowTransliteration != nil {
		settings.ShowTransliteration = *params.ShowTransliteration
	}
	if params.ShowWordBreakdown != nil {
		settings.ShowWordBreakdown = *params.ShowWordBreakdown
	}
	if params.TranslationID != nil {
		settings.TranslationID = *params.TranslationID
	}
	if params.ReciterID != nil {
		settings.ReciterID = *params.ReciterID
	}

	err = h.settingsService.UpsertReaderSettings(ctx, settings)
	if err != nil {
		return errors.WithStack(err)
	}

	settings, err = h.settingsService.RetrieveReaderSettings(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, settings))
}
