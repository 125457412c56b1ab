package export

import (
	"github.com/mushaflabs/recite/pkg/quranapi"
)

// AudioURLResolver turns a verse into its playable audio URL, falling back
// to a deterministic per-verse URL when the payload has none.
type AudioURLResolver interface {
	VerseAudioURL(v *quranapi.Verse) string
}

// ChapterItems builds the ordered archive item list for a chapter. The
// verses must already be in verse order; entry names follow verse numbers,
// not download order.
func ChapterItems(resolver AudioURLResolver, chapterName string, verses []quranapi.Verse) []Item {
	items := make([]Item, 0, len(verses))
	for i := range verses {
		items = append(items, Item{
			Name: VerseEntryName(chapterName, verses[i].VerseNumber),
			URL:  resolver.VerseAudioURL(&verses[i]),
		})
	}
	return items
}
