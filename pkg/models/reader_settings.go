package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Viewing modes are mutually exclusive; the display toggles below are
// independent of whichever mode is active.
const (
	ViewingModeVerse = "verse"
	ViewingModeWord  = "word"
	ViewingModeFull  = "full"
)

func IsValidViewingMode(mode string) bool {
	switch mode {
	case ViewingModeVerse, ViewingModeWord, ViewingModeFull:
		return true
	}
	return false
}

// DefaultProfile is the single settings profile this server keeps. There is
// no user system; every reader shares one row.
const DefaultProfile = "default"

type ReaderSettings struct {
	bun.BaseModel `bun:"table:reader_settings,alias:rs"`

	ID        int       `bun:",pk,autoincrement" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"updated_at"`

	Profile             string `bun:",nullzero" json:"-"`
	ViewingMode         string `bun:",nullzero" json:"viewing_mode"`
	ShowTranslation     bool   `json:"show_translation"`
	ShowTransliteration bool   `json:"show_transliteration"`
	ShowWordBreakdown   bool   `json:"show_word_breakdown"`
	TranslationID       string `bun:",nullzero" json:"translation_id"`
	ReciterID           int    `json:"reciter_id"`
}

func DefaultReaderSettings() *ReaderSettings {
	return &ReaderSettings{
		Profile:             DefaultProfile,
		ViewingMode:         ViewingModeVerse,
		ShowTranslation:     true,
		ShowTransliteration: false,
		ShowWordBreakdown:   false,
		TranslationID:       "131",
		ReciterID:           7,
	}
}
