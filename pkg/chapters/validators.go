package chapters

type ListVersesQuery struct {
	Page          int    `query:"page" json:"page,omitempty" default:"1" validate:"min=0"`
	PerPage       int    `query:"per_page" json:"per_page,omitempty" default:"10" validate:"min=1,max=50"`
	TranslationID string `query:"translation_id" json:"translation_id,omitempty" validate:"omitempty,number"`
	ReciterID     int    `query:"reciter_id" json:"reciter_id,omitempty" validate:"omitempty,min=1"`
}

type ChapterAudioQuery struct {
	ReciterID int `query:"reciter_id" json:"reciter_id,omitempty" validate:"omitempty,min=1"`
}

type TafsirQuery struct {
	TafsirID int `query:"tafsir_id" json:"tafsir_id,omitempty" validate:"omitempty,min=1"`
}
