package worker

import (
	"archive/zip"
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mushaflabs/recite/pkg/archivecache"
	"github.com/mushaflabs/recite/pkg/chapters"
	"github.com/mushaflabs/recite/pkg/config"
	"github.com/mushaflabs/recite/pkg/jobs"
	"github.com/mushaflabs/recite/pkg/migrations"
	"github.com/mushaflabs/recite/pkg/models"
	"github.com/mushaflabs/recite/pkg/querycache"
	"github.com/mushaflabs/recite/pkg/quranapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func mp3Bytes() []byte {
	return append([]byte("ID3\x04\x00\x00\x00\x00\x00\x00"), make([]byte, 64)...)
}

// newTestWorker wires a worker against fake content and audio upstreams. The
// audio server refuses verse 1:2 so skip handling is observable.
func newTestWorker(t *testing.T) (*Worker, *jobs.Service) {
	t.Helper()

	content := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/chapters":
			fmt.Fprint(w, `{"chapters": [{"id": 1, "name_simple": "Al-Fatihah", "verses_count": 3}]}`)
		default:
			fmt.Fprint(w, `{
				"verses": [
					{"id": 1, "verse_number": 1, "verse_key": "1:1", "words": []},
					{"id": 2, "verse_number": 2, "verse_key": "1:2", "words": []},
					{"id": 3, "verse_number": 3, "verse_key": "1:3", "words": []}
				],
				"pagination": {"per_page": 50, "current_page": 1, "next_page": null, "total_pages": 1, "total_records": 3}
			}`)
		}
	}))
	t.Cleanup(content.Close)

	audio := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/Alafasy/mp3/000012.mp3" {
			http.NotFound(w, r)
			return
		}
		w.Write(mp3Bytes())
	}))
	t.Cleanup(audio.Close)

	cfg := &config.Config{
		ContentAPIBaseURL:  content.URL,
		ContentProxyURL:    content.URL,
		VerseAudioBaseURL:  audio.URL + "/",
		WordAudioBaseURL:   audio.URL + "/",
		ReciterPath:        "Alafasy/mp3",
		DefaultTranslation: "131",
		DefaultReciterID:   7,
		HTTPTimeout:        5 * time.Second,
		ChaptersCacheTTL:   time.Hour,
		VersesCacheTTL:     5 * time.Minute,
		TafsirCacheTTL:     15 * time.Minute,
		FetchRetryCount:    querycache.NoRetry,
		WorkerProcesses:    1,
		CacheMaxSizeBytes:  1 << 30,
	}

	db := newTestDB(t)
	chapterService := chapters.NewService(quranapi.New(cfg), querycache.New(), cfg)
	archiveCache, err := archivecache.NewCache(t.TempDir(), cfg.CacheMaxSizeBytes)
	require.NoError(t, err)

	return New(cfg, db, chapterService, archiveCache), jobs.NewService(db)
}

func TestProcessExportJob(t *testing.T) {
	t.Parallel()

	w, jobService := newTestWorker(t)
	ctx := context.Background()

	job := &models.Job{
		Type:       models.JobTypeExport,
		Status:     models.JobStatusPending,
		ChapterID:  1,
		DataParsed: &models.JobExportData{ChapterID: 1, ReciterID: 7},
	}
	require.NoError(t, jobService.CreateJob(ctx, job))

	require.NoError(t, w.ProcessExportJob(ctx, job))

	data := job.DataParsed.(*models.JobExportData)
	assert.Equal(t, "Al-Fatihah", data.ChapterName)
	assert.Equal(t, "Al-Fatihah-complete-surah.zip", data.ArchiveName)
	assert.Equal(t, 2, data.VerseCount)
	assert.Equal(t, []string{"1:2"}, data.SkippedKeys)
	assert.Positive(t, data.ArchivedSize)
	assert.Equal(t, 100, job.Progress)

	reader, err := zip.OpenReader(data.ArchivePath)
	require.NoError(t, err)
	defer reader.Close()

	require.Len(t, reader.File, 2)
	assert.Equal(t, "Al-Fatihah-verse-1.mp3", reader.File[0].Name)
	assert.Equal(t, "Al-Fatihah-verse-3.mp3", reader.File[1].Name)

	// The persisted job carries the result too.
	stored, err := jobService.RetrieveJob(ctx, jobs.RetrieveJobOptions{ID: &job.ID})
	require.NoError(t, err)
	storedData := stored.DataParsed.(*models.JobExportData)
	assert.Equal(t, data.ArchivePath, storedData.ArchivePath)
	assert.Equal(t, []string{"1:2"}, storedData.SkippedKeys)
}

func TestProcessExportJobReusesCachedArchive(t *testing.T) {
	t.Parallel()

	w, jobService := newTestWorker(t)
	ctx := context.Background()

	first := &models.Job{
		Type:       models.JobTypeExport,
		Status:     models.JobStatusPending,
		ChapterID:  1,
		DataParsed: &models.JobExportData{ChapterID: 1, ReciterID: 7},
	}
	require.NoError(t, jobService.CreateJob(ctx, first))
	require.NoError(t, w.ProcessExportJob(ctx, first))

	second := &models.Job{
		Type:       models.JobTypeExport,
		Status:     models.JobStatusPending,
		ChapterID:  1,
		DataParsed: &models.JobExportData{ChapterID: 1, ReciterID: 7},
	}
	require.NoError(t, jobService.CreateJob(ctx, second))
	require.NoError(t, w.ProcessExportJob(ctx, second))

	firstData := first.DataParsed.(*models.JobExportData)
	secondData := second.DataParsed.(*models.JobExportData)
	assert.Equal(t, firstData.ArchivePath, secondData.ArchivePath)
	assert.Equal(t, firstData.ArchivedSize, secondData.ArchivedSize)
	assert.Equal(t, 2, secondData.VerseCount)
	assert.Equal(t, []string{"1:2"}, secondData.SkippedKeys)
}

func TestProcessExportJobWithoutData(t *testing.T) {
	t.Parallel()

	w, _ := newTestWorker(t)

	err := w.ProcessExportJob(context.Background(), &models.Job{Type: models.JobTypeExport})
	assert.Error(t, err)
}

func TestWorkerLifecycle(t *testing.T) {
	t.Parallel()

	w, _ := newTestWorker(t)

	w.Start()
	w.Shutdown()
}
