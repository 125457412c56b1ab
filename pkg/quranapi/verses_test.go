package quranapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const versePagePayload = `{
	"verses": [
		{
			"id": 12,
			"chapter_id": 2,
			"verse_number": 5,
			"verse_key": "2:5",
			"text_uthmani": "أُو۟لَـٰٓئِكَ",
			"juz_number": 1,
			"hizb_number": 1,
			"rub_el_hizb_number": 1,
			"ruku_number": 1,
			"manzil_number": 1,
			"sajdah_number": null,
			"page_number": 3,
			"audio": {"url": "AbdulBaset/Mujawwad/mp3/002005.mp3", "duration": 12},
			"words": [
				{
					"id": 100,
					"position": 1,
					"audio_url": "wbw/002_005_001.mp3",
					"verse_key": "2:5",
					"verse_id": 12,
					"char_type_name": "word",
					"text_uthmani": "أُو۟لَـٰٓئِكَ",
					"translation": {"text": "Those", "language_name": "English", "language_id": 38},
					"transliteration": {"text": "ulaika", "language_name": "English", "language_id": 38}
				},
				{
					"id": 101,
					"position": 2,
					"audio_url": null,
					"verse_key": "2:5",
					"verse_id": 12,
					"char_type_name": "end",
					"text_uthmani": "٥"
				}
			]
		}
	],
	"pagination": {"per_page": 10, "current_page": 1, "next_page": 2, "total_pages": 29, "total_records": 286}
}`

func TestListVersesByChapter(t *testing.T) {
	t.Parallel()
	t.Run("requests word data in a single round trip", func(t *testing.T) {
		calls := 0
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			assert.Equal(t, "/verses/by_chapter/2", r.URL.Path)

			q := r.URL.Query()
			assert.Equal(t, "true", q.Get("words"))
			assert.Equal(t, "1", q.Get("page"))
			assert.Equal(t, "10", q.Get("per_page"))
			assert.Equal(t, "131", q.Get("translations"))
			assert.Equal(t, "en", q.Get("word_translation_language"))
			assert.Equal(t, wordFields, q.Get("word_fields"))
			assert.Equal(t, "7", q.Get("audio"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(versePagePayload))
		}))

		page, err := client.ListVersesByChapter(context.Background(), 2, ListVersesOptions{Page: 1, PerPage: 10})
		require.NoError(t, err)
		require.Len(t, page.Verses, 1)
		assert.Equal(t, 1, calls)

		require.NotNil(t, page.Pagination)
		assert.Equal(t, 29, page.Pagination.TotalPages)
		assert.Equal(t, 286, page.Pagination.TotalRecords)
		require.NotNil(t, page.Pagination.NextPage)
		assert.Equal(t, 2, *page.Pagination.NextPage)
	})

	t.Run("absolutizes verse and word audio urls", func(t *testing.T) {
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(versePagePayload))
		}))

		page, err := client.ListVersesByChapter(context.Background(), 2, ListVersesOptions{})
		require.NoError(t, err)

		verse := page.Verses[0]
		require.NotNil(t, verse.Audio)
		assert.Equal(t, "https://verses.example.com/AbdulBaset/Mujawwad/mp3/002005.mp3", verse.Audio.URL)
		// Upstream duration is kept as-is; format only defaults when absent.
		assert.Equal(t, 12, verse.Audio.Duration)
		assert.Equal(t, "mp3", verse.Audio.Format)

		require.NotNil(t, verse.Words[0].AudioURL)
		assert.Equal(t, "https://audio.example.com/wbw/002_005_001.mp3", *verse.Words[0].AudioURL)
		assert.Nil(t, verse.Words[1].AudioURL)
	})

	t.Run("defaults missing word translation and transliteration", func(t *testing.T) {
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(versePagePayload))
		}))

		page, err := client.ListVersesByChapter(context.Background(), 2, ListVersesOptions{})
		require.NoError(t, err)

		// The end-of-verse marker has neither object in the payload.
		marker := page.Verses[0].Words[1]
		require.NotNil(t, marker.Translation)
		assert.Equal(t, "", marker.Translation.Text)
		assert.Equal(t, "English", marker.Translation.LanguageName)
		assert.Equal(t, 38, marker.Translation.LanguageID)

		require.NotNil(t, marker.Transliteration)
		assert.Nil(t, marker.Transliteration.Text)
		assert.Equal(t, 38, marker.Transliteration.LanguageID)

		assert.False(t, marker.IsWord())
		assert.True(t, page.Verses[0].Words[0].IsWord())
	})

	t.Run("defaults missing translations to empty slice", func(t *testing.T) {
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(versePagePayload))
		}))

		page, err := client.ListVersesByChapter(context.Background(), 2, ListVersesOptions{})
		require.NoError(t, err)
		require.NotNil(t, page.Verses[0].Translations)
		assert.Empty(t, page.Verses[0].Translations)
	})

	t.Run("preserves word order", func(t *testing.T) {
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(versePagePayload))
		}))

		page, err := client.ListVersesByChapter(context.Background(), 2, ListVersesOptions{})
		require.NoError(t, err)

		words := page.Verses[0].Words
		require.Len(t, words, 2)
		assert.Equal(t, 1, words[0].Position)
		assert.Equal(t, 2, words[1].Position)
	})
}

func TestRetrieveVerseByKey(t *testing.T) {
	t.Parallel()
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/verses/by_key/2:5", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"verse":{"id":12,"verse_number":5,"verse_key":"2:5","words":[]}}`))
	}))

	verse, err := client.RetrieveVerseByKey(context.Background(), "2:5", "")
	require.NoError(t, err)
	assert.Equal(t, "2:5", verse.VerseKey)
	assert.NotNil(t, verse.Translations)
}
