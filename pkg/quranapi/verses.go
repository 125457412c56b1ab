package quranapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// English word translations carry this language id; the placeholder filled
// in for missing entries uses the same tag so joining logic never branches
// on absence.
const placeholderLanguageID = 38

const wordFields = "verse_key,verse_id,page_number,location,text_uthmani,text_imlaei_simple,code_v1,qpc_uthmani_hafs"

type ListVersesOptions struct {
	Page          int
	PerPage       int
	TranslationID string
	ReciterID     int
}

type versesResponse struct {
	errorShape
	Verses     []Verse     `json:"verses"`
	Pagination *Pagination `json:"pagination"`
}

type verseResponse struct {
	errorShape
	Verse *Verse `json:"verse"`
}

// ListVersesByChapter fetches one page of a chapter's verses. Word-level
// text, translation, transliteration, and audio metadata all come back in
// this single round trip; nothing is fetched per word. Chapter numbers are
// not validated here; an invalid chapter surfaces as an upstream api_error.
func (c *Client) ListVersesByChapter(ctx context.Context, chapter int, opts ListVersesOptions) (*VersePage, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PerPage < 1 {
		opts.PerPage = 10
	}
	if opts.TranslationID == "" {
		opts.TranslationID = c.defaultTranslation
	}
	if opts.ReciterID == 0 {
		opts.ReciterID = c.defaultReciterID
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(opts.Page))
	params.Set("per_page", strconv.Itoa(opts.PerPage))
	params.Set("translations", opts.TranslationID)
	params.Set("language", "en")
	params.Set("words", "true")
	params.Set("translation_fields", "resource_name,language_id")
	params.Set("fields", "text_uthmani,chapter_id,hizb_number,text_imlaei_simple")
	params.Set("word_translation_language", "en")
	params.Set("word_fields", wordFields)
	params.Set("mushaf", "2")
	params.Set("audio", strconv.Itoa(opts.ReciterID))

	reqURL := fmt.Sprintf("%s/verses/by_chapter/%d?%s", c.apiBaseURL, chapter, params.Encode())

	var resp versesResponse
	if err := c.get(ctx, reqURL, "verses", &resp); err != nil {
		return nil, err
	}
	if err := resp.asError(); err != nil {
		return nil, err
	}

	for i := range resp.Verses {
		c.normalizeVerse(&resp.Verses[i])
	}

	return &VersePage{Verses: resp.Verses, Pagination: resp.Pagination}, nil
}

// RetrieveVerseByKey fetches a single verse by its "{chapter}:{verse}" key.
func (c *Client) RetrieveVerseByKey(ctx context.Context, verseKey string, translationID string) (*Verse, error) {
	if translationID == "" {
		translationID = c.defaultTranslation
	}

	params := url.Values{}
	params.Set("translations", translationID)
	params.Set("language", "en")
	params.Set("words", "true")
	params.Set("word_fields", wordFields)

	reqURL := fmt.Sprintf("%s/verses/by_key/%s?%s", c.apiBaseURL, url.PathEscape(verseKey), params.Encode())

	var resp verseResponse
	if err := c.get(ctx, reqURL, "verse", &resp); err != nil {
		return nil, err
	}
	if err := resp.asError(); err != nil {
		return nil, err
	}
	if resp.Verse == nil {
		return nil, &Error{Message: "Failed to fetch verse: empty payload", Kind: KindAPIError, Success: false}
	}

	c.normalizeVerse(resp.Verse)

	return resp.Verse, nil
}

// normalizeVerse rewrites a raw verse into the canonical internal shape:
// audio URLs become absolute exactly once, and every word carries a
// translation and transliteration object even if upstream omitted them.
func (c *Client) normalizeVerse(v *Verse) {
	if v.Translations == nil {
		v.Translations = []Translation{}
	}

	if v.Audio != nil {
		if v.Audio.URL == "" {
			v.Audio = nil
		} else {
			v.Audio.URL = absolutize(c.verseAudioBaseURL, v.Audio.URL)
			if v.Audio.Format == "" {
				v.Audio.Format = "mp3"
			}
		}
	}

	if v.Words == nil {
		v.Words = []Word{}
	}
	for i := range v.Words {
		c.normalizeWord(&v.Words[i])
	}
}

func (c *Client) normalizeWord(w *Word) {
	if w.AudioURL != nil && *w.AudioURL != "" {
		resolved := absolutize(c.wordAudioBaseURL, *w.AudioURL)
		w.AudioURL = &resolved
	} else {
		w.AudioURL = nil
	}

	if w.Translation == nil {
		w.Translation = &WordTranslation{
			Text:         "",
			LanguageName: "English",
			LanguageID:   placeholderLanguageID,
		}
	}
	if w.Transliteration == nil {
		w.Transliteration = &WordTransliteration{
			Text:         nil,
			LanguageName: "English",
			LanguageID:   placeholderLanguageID,
		}
	}
}
