package quranapi

// Chapter is one of the 114 surahs. The upstream list is already in
// canonical order and is never re-sorted here.
type Chapter struct {
	ID              int    `json:"id"`
	NameSimple      string `json:"name_simple"`
	NameArabic      string `json:"name_arabic"`
	NameComplex     string `json:"name_complex"`
	RevelationPlace string `json:"revelation_place"`
	VersesCount     int    `json:"verses_count"`
	BismillahPre    bool   `json:"bismillah_pre"`
}

// Verse is a single ayah with its word breakdown. The words slice is in
// reading order and must never be reordered.
type Verse struct {
	ID               int           `json:"id"`
	ChapterID        int           `json:"chapter_id,omitempty"`
	VerseNumber      int           `json:"verse_number"`
	VerseKey         string        `json:"verse_key"`
	TextUthmani      string        `json:"text_uthmani,omitempty"`
	TextImlaeiSimple string        `json:"text_imlaei_simple,omitempty"`
	JuzNumber        int           `json:"juz_number"`
	HizbNumber       int           `json:"hizb_number"`
	RubElHizbNumber  int           `json:"rub_el_hizb_number"`
	RukuNumber       int           `json:"ruku_number"`
	ManzilNumber     int           `json:"manzil_number"`
	SajdahNumber     *int          `json:"sajdah_number"`
	PageNumber       int           `json:"page_number"`
	Words            []Word        `json:"words"`
	Translations     []Translation `json:"translations"`
	Audio            *Audio        `json:"audio"`
}

type Translation struct {
	ResourceID   int    `json:"resource_id"`
	ResourceName string `json:"resource_name"`
	Text         string `json:"text"`
	LanguageName string `json:"language_name,omitempty"`
}

type Audio struct {
	URL      string `json:"url"`
	Duration int    `json:"duration"`
	Format   string `json:"format"`
}

type Word struct {
	ID               int     `json:"id"`
	Position         int     `json:"position"`
	AudioURL         *string `json:"audio_url"`
	VerseKey         string  `json:"verse_key"`
	VerseID          int     `json:"verse_id"`
	Location         string  `json:"location"`
	TextUthmani      string  `json:"text_uthmani"`
	TextImlaeiSimple string  `json:"text_imlaei_simple"`
	CodeV1           string  `json:"code_v1"`
	QpcUthmaniHafs   string  `json:"qpc_uthmani_hafs"`
	CharTypeName     string  `json:"char_type_name"`
	PageNumber       int     `json:"page_number"`
	LineNumber       int     `json:"line_number"`
	Text             string  `json:"text"`

	Translation     *WordTranslation     `json:"translation"`
	Transliteration *WordTransliteration `json:"transliteration"`
}

// CharTypeEnd marks the end-of-verse glyph; everything else is an actual
// word.
const (
	CharTypeWord = "word"
	CharTypeEnd  = "end"
)

// IsWord reports whether this entry is an actual word rather than the
// end-of-verse marker.
func (w *Word) IsWord() bool {
	return w.CharTypeName != CharTypeEnd
}

type WordTranslation struct {
	Text         string `json:"text"`
	LanguageName string `json:"language_name"`
	LanguageID   int    `json:"language_id"`
}

// WordTransliteration is the only word field whose text may legitimately be
// null.
type WordTransliteration struct {
	Text         *string `json:"text"`
	LanguageName string  `json:"language_name"`
	LanguageID   int     `json:"language_id"`
}

type Pagination struct {
	PerPage      int  `json:"per_page"`
	CurrentPage  int  `json:"current_page"`
	NextPage     *int `json:"next_page"`
	TotalPages   int  `json:"total_pages"`
	TotalRecords int  `json:"total_records"`
}

// VersePage is one page of verses plus its pagination envelope.
type VersePage struct {
	Verses     []Verse     `json:"verses"`
	Pagination *Pagination `json:"pagination"`
}

type Reciter struct {
	ID             int    `json:"id"`
	ReciterID      int    `json:"reciter_id"`
	Name           string `json:"name"`
	TranslatedName struct {
		Name         string `json:"name"`
		LanguageName string `json:"language_name"`
	} `json:"translated_name"`
	Style struct {
		Name         string `json:"name"`
		LanguageName string `json:"language_name"`
		Description  string `json:"description"`
	} `json:"style"`
}

type AudioFile struct {
	ID           int           `json:"id"`
	ChapterID    int           `json:"chapter_id"`
	FileSize     int           `json:"file_size"`
	Format       string        `json:"format"`
	AudioURL     string        `json:"audio_url"`
	Duration     int           `json:"duration"`
	VerseTimings []VerseTiming `json:"verse_timings"`
}

type VerseTiming struct {
	VerseKey      string  `json:"verse_key"`
	TimestampFrom int     `json:"timestamp_from"`
	TimestampTo   int     `json:"timestamp_to"`
	Duration      int     `json:"duration"`
	Segments      [][]int `json:"segments"`
}

type Tafsir struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	AuthorName     *string `json:"author_name"`
	Slug           string  `json:"slug"`
	LanguageName   string  `json:"language_name"`
	TranslatedName struct {
		Name         string `json:"name"`
		LanguageName string `json:"language_name"`
	} `json:"translated_name"`
}

type TafsirText struct {
	ID           int    `json:"id"`
	VerseID      int    `json:"verse_id"`
	VerseKey     string `json:"verse_key"`
	Text         string `json:"text"`
	ResourceID   int    `json:"resource_id"`
	ResourceName string `json:"resource_name"`
	LanguageName string `json:"language_name"`
}
