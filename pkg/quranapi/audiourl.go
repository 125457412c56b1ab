package quranapi

import (
	"regexp"
	"strings"
)

var verseKeyRE = regexp.MustCompile(`^\d{1,3}:\d{1,3}$`)

// IsValidVerseKey reports whether a string is a well-formed
// "{chapter}:{verse}" key. It checks shape only, not that the chapter or
// verse number exists.
func IsValidVerseKey(verseKey string) bool {
	return verseKeyRE.MatchString(verseKey)
}

// VerseAudioURL resolves the playable URL for a verse. When the API supplied
// an audio descriptor its URL wins; otherwise the URL is constructed from
// the configured reciter path and the verse key with the colon stripped and
// the digits left-padded to six characters ("2:5" becomes 000025.mp3).
func (c *Client) VerseAudioURL(v *Verse) string {
	if v.Audio != nil && v.Audio.URL != "" {
		return absolutize(c.verseAudioBaseURL, v.Audio.URL)
	}

	return c.verseAudioBaseURL + c.reciterPath + "/" + PadVerseKey(v.VerseKey) + ".mp3"
}

// WordAudioURL resolves a raw word audio URL against the audio CDN base.
func (c *Client) WordAudioURL(raw string) string {
	return absolutize(c.wordAudioBaseURL, raw)
}

// PadVerseKey strips the colon from a verse key and left-pads the digits
// with zeros to six characters.
func PadVerseKey(verseKey string) string {
	digits := strings.ReplaceAll(verseKey, ":", "")
	if len(digits) < 6 {
		digits = strings.Repeat("0", 6-len(digits)) + digits
	}
	return digits
}

// JoinWordTranslations builds a whole-verse translation by joining the
// non-empty word translations in reading order.
func JoinWordTranslations(words []Word) string {
	parts := make([]string, 0, len(words))
	for i := range words {
		if t := words[i].Translation; t != nil && t.Text != "" {
			parts = append(parts, t.Text)
		}
	}
	return strings.Join(parts, " ")
}

// JoinWordTransliterations builds a whole-verse transliteration the same
// way; words with a null transliteration text are skipped.
func JoinWordTransliterations(words []Word) string {
	parts := make([]string, 0, len(words))
	for i := range words {
		if t := words[i].Transliteration; t != nil && t.Text != nil && *t.Text != "" {
			parts = append(parts, *t.Text)
		}
	}
	return strings.Join(parts, " ")
}
