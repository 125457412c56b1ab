package settings

type UpdateReaderSettingsPayload struct {
	ViewingMode         *string `json:"viewing_mode" validate:"omitempty,oneof=verse word full"`
	ShowTranslation     *bool   `json:"show_translation"`
	ShowTransliteration *bool   `json:"show_transliteration"`
	ShowWordBreakdown   *bool   `json:"show_word_breakdown"`
	TranslationID       *string `json:"translation_id" validate:"omitempty,number"`
	ReciterID           *int    `json:"reciter_id" validate:"omitempty,min=1"`
}
