package chapters

import (
	"context"
	"fmt"

	"github.com/mushaflabs/recite/pkg/playback"
)

// ChapterTracks builds the ordered playback sequence for a chapter. Every
// verse gets a track; verses without payload audio fall back to the
// deterministic per-verse URL.
func (svc *Service) ChapterTracks(ctx context.Context, chapterID, reciterID int) ([]playback.Track, error) {
	chapter, err := svc.RetrieveChapter(ctx, chapterID)
	if err != nil {
		return nil, err
	}

	verses, err := svc.ListAllChapterVerses(ctx, chapterID, reciterID)
	if err != nil {
		return nil, err
	}

	tracks := make([]playback.Track, 0, len(verses))
	for i := range verses {
		tracks = append(tracks, playback.Track{
			Index: i,
			Key:   verses[i].VerseKey,
			URL:   svc.api.VerseAudioURL(&verses[i]),
			Title: fmt.Sprintf("%s %s", chapter.NameSimple, verses[i].VerseKey),
		})
	}

	return tracks, nil
}
