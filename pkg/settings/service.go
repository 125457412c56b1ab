package settings

import (
	"context"
	"database/sql"
	"time"

	"github.com/mushaflabs/recite/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// RetrieveReaderSettings returns the shared reader settings row, falling
// back to defaults when nothing has been saved yet.
func (svc *Service) RetrieveReaderSettings(ctx context.Context) (*models.ReaderSettings, error) {
	settings := &models.ReaderSettings{}

	err := svc.db.
		NewSelect().
		Model(settings).
		Where("rs.profile = ?", models.DefaultProfile).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DefaultReaderSettings(), nil
		}
		return nil, errors.WithStack(err)
	}

	return settings, nil
}

// UpsertReaderSettings saves the shared reader settings row, creating it on
// first save.
func (svc *Service) UpsertReaderSettings(ctx context.Context, settings *models.ReaderSettings) error {
	now := time.Now()
	settings.Profile = models.DefaultProfile
	settings.UpdatedAt = now
	if settings.CreatedAt.IsZero() {
		settings.CreatedAt = now
	}

	_, err := svc.db.
		NewInsert().
		Model(settings).
		On("CONFLICT (profile) DO UPDATE").
		Set("updated_at = EXCLUDED.updated_at").
		Set("viewing_mode = EXCLUDED.viewing_mode").
		Set("show_translation = EXCLUDED.show_translation").
		Set("show_transliteration = EXCLUDED.show_transliteration").
		Set("show_word_breakdown = EXCLUDED.show_word_breakdown").
		Set("translation_id = EXCLUDED.translation_id").
		Set("reciter_id = EXCLUDED.reciter_id").
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}
