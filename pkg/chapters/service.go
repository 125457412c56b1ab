package chapters

import (
	"context"
	"fmt"

	"github.com/mushaflabs/recite/pkg/config"
	"github.com/mushaflabs/recite/pkg/errcodes"
	"github.com/mushaflabs/recite/pkg/querycache"
	"github.com/mushaflabs/recite/pkg/quranapi"
	"github.com/pkg/errors"
)

// VersesPerPage is the page size the reading surface uses when the client
// doesn't ask for one.
const VersesPerPage = 10

// exportPageSize is the page size used when walking an entire chapter for
// playback or export.
const exportPageSize = 50

type Service struct {
	api    *quranapi.Client
	cache  *querycache.Cache
	config *config.Config
}

func NewService(api *quranapi.Client, cache *querycache.Cache, cfg *config.Config) *Service {
	return &Service{
		api:    api,
		cache:  cache,
		config: cfg,
	}
}

// Client exposes the underlying resource client, for callers that need the
// audio URL fallback rules.
func (svc *Service) Client() *quranapi.Client {
	return svc.api
}

func (svc *Service) chapterOpts() querycache.Options {
	return querycache.Options{
		TTL:     svc.config.ChaptersCacheTTL,
		Retries: svc.config.FetchRetryCount,
	}
}

func (svc *Service) verseOpts() querycache.Options {
	return querycache.Options{
		TTL:     svc.config.VersesCacheTTL,
		Retries: svc.config.FetchRetryCount,
	}
}

func (svc *Service) tafsirOpts() querycache.Options {
	return querycache.Options{
		TTL:     svc.config.TafsirCacheTTL,
		Retries: svc.config.FetchRetryCount,
	}
}

// ListChapters returns all 114 chapters in canonical order.
func (svc *Service) ListChapters(ctx context.Context) ([]quranapi.Chapter, error) {
	return querycache.Fetch(ctx, svc.cache, "chapters", svc.chapterOpts(), func(ctx context.Context) ([]quranapi.Chapter, error) {
		return svc.api.ListChapters(ctx)
	})
}

// RetrieveChapter returns one chapter out of the cached list.
func (svc *Service) RetrieveChapter(ctx context.Context, chapterID int) (*quranapi.Chapter, error) {
	chapters, err := svc.ListChapters(ctx)
	if err != nil {
		return nil, err
	}
	for i := range chapters {
		if chapters[i].ID == chapterID {
			return &chapters[i], nil
		}
	}
	return nil, errcodes.NotFound("Chapter")
}

type ListVersesOptions struct {
	ChapterID     int
	Page          int
	PerPage       int
	TranslationID string
	ReciterID     int
}

// ListVerses returns one page of a chapter's verses. An out-of-range page is
// clamped into the chapter's valid range rather than failing.
func (svc *Service) ListVerses(ctx context.Context, opts ListVersesOptions) (*quranapi.VersePage, error) {
	if opts.PerPage <= 0 {
		opts.PerPage = VersesPerPage
	}
	if opts.TranslationID == "" {
		opts.TranslationID = svc.config.DefaultTranslation
	}
	if opts.ReciterID == 0 {
		opts.ReciterID = svc.config.DefaultReciterID
	}

	chapter, err := svc.RetrieveChapter(ctx, opts.ChapterID)
	if err != nil {
		return nil, err
	}

	totalPages := (chapter.VersesCount + opts.PerPage - 1) / opts.PerPage
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Page > totalPages {
		opts.Page = totalPages
	}

	key := fmt.Sprintf("verses:%d:%d:%d:%s:%d", opts.ChapterID, opts.Page, opts.PerPage, opts.TranslationID, opts.ReciterID)
	return querycache.Fetch(ctx, svc.cache, key, svc.verseOpts(), func(ctx context.Context) (*quranapi.VersePage, error) {
		return svc.api.ListVersesByChapter(ctx, opts.ChapterID, quranapi.ListVersesOptions{
			Page:          opts.Page,
			PerPage:       opts.PerPage,
			TranslationID: opts.TranslationID,
			ReciterID:     opts.ReciterID,
		})
	})
}

// RefetchVerses re-fetches a verse page unconditionally, keeping the stale
// page readable until the new one resolves.
func (svc *Service) RefetchVerses(ctx context.Context, opts ListVersesOptions) (*quranapi.VersePage, error) {
	if opts.PerPage <= 0 {
		opts.PerPage = VersesPerPage
	}
	if opts.TranslationID == "" {
		opts.TranslationID = svc.config.DefaultTranslation
	}
	if opts.ReciterID == 0 {
		opts.ReciterID = svc.config.DefaultReciterID
	}

	key := fmt.Sprintf("verses:%d:%d:%d:%s:%d", opts.ChapterID, opts.Page, opts.PerPage, opts.TranslationID, opts.ReciterID)
	value, err := svc.cache.Refetch(ctx, key, svc.verseOpts(), func(ctx context.Context) (interface{}, error) {
		return svc.api.ListVersesByChapter(ctx, opts.ChapterID, quranapi.ListVersesOptions{
			Page:          opts.Page,
			PerPage:       opts.PerPage,
			TranslationID: opts.TranslationID,
			ReciterID:     opts.ReciterID,
		})
	})
	if err != nil {
		return nil, err
	}
	page, ok := value.(*quranapi.VersePage)
	if !ok {
		return nil, errors.Errorf("unexpected cached type %T for key %q", value, key)
	}
	return page, nil
}

// RetrieveVerseByKey returns one verse with its word breakdown.
func (svc *Service) RetrieveVerseByKey(ctx context.Context, verseKey, translationID string) (*quranapi.Verse, error) {
	if translationID == "" {
		translationID = svc.config.DefaultTranslation
	}

	key := fmt.Sprintf("verse:%s:%s", verseKey, translationID)
	return querycache.Fetch(ctx, svc.cache, key, svc.verseOpts(), func(ctx context.Context) (*quranapi.Verse, error) {
		return svc.api.RetrieveVerseByKey(ctx, verseKey, translationID)
	})
}

// TafsirByVerse returns the tafsir texts for one verse.
func (svc *Service) TafsirByVerse(ctx context.Context, verseKey string, tafsirID int) ([]quranapi.TafsirText, error) {
	if tafsirID == 0 {
		tafsirID = quranapi.DefaultTafsirID
	}

	key := fmt.Sprintf("tafsir:%d:%s", tafsirID, verseKey)
	return querycache.Fetch(ctx, svc.cache, key, svc.tafsirOpts(), func(ctx context.Context) ([]quranapi.TafsirText, error) {
		return svc.api.RetrieveTafsirByVerse(ctx, verseKey, tafsirID)
	})
}

// ChapterAudio returns the full-chapter audio file descriptor for a reciter.
func (svc *Service) ChapterAudio(ctx context.Context, chapterID, reciterID int) (*quranapi.AudioFile, error) {
	if reciterID == 0 {
		reciterID = svc.config.DefaultReciterID
	}

	if _, err := svc.RetrieveChapter(ctx, chapterID); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("chapter-audio:%d:%d", chapterID, reciterID)
	return querycache.Fetch(ctx, svc.cache, key, svc.chapterOpts(), func(ctx context.Context) (*quranapi.AudioFile, error) {
		return svc.api.RetrieveChapterAudio(ctx, chapterID, reciterID)
	})
}

// ListTafsirs returns the tafsir catalog.
func (svc *Service) ListTafsirs(ctx context.Context) ([]quranapi.Tafsir, error) {
	return querycache.Fetch(ctx, svc.cache, "tafsirs", svc.chapterOpts(), func(ctx context.Context) ([]quranapi.Tafsir, error) {
		return svc.api.ListTafsirs(ctx, "en")
	})
}

// ListReciters returns the reciter catalog.
func (svc *Service) ListReciters(ctx context.Context) ([]quranapi.Reciter, error) {
	return querycache.Fetch(ctx, svc.cache, "reciters", svc.chapterOpts(), func(ctx context.Context) ([]quranapi.Reciter, error) {
		return svc.api.ListReciters(ctx)
	})
}

// ListAllChapterVerses walks every page of a chapter and returns the verses
// in order. Playback and export both need the full chapter at once.
func (svc *Service) ListAllChapterVerses(ctx context.Context, chapterID, reciterID int) ([]quranapi.Verse, error) {
	if reciterID == 0 {
		reciterID = svc.config.DefaultReciterID
	}

	var verses []quranapi.Verse
	page := 1
	for {
		versePage, err := svc.api.ListVersesByChapter(ctx, chapterID, quranapi.ListVersesOptions{
			Page:      page,
			PerPage:   exportPageSize,
			ReciterID: reciterID,
		})
		if err != nil {
			return nil, err
		}
		verses = append(verses, versePage.Verses...)

		if versePage.Pagination == nil || versePage.Pagination.NextPage == nil {
			break
		}
		page = *versePage.Pagination.NextPage
	}

	if len(verses) == 0 {
		return nil, errors.Errorf("chapter %d has no verses", chapterID)
	}

	return verses, nil
}
