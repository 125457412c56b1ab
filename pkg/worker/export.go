package worker

import (
	"archive/zip"
	"context"
	"os"
	"sync"

	"github.com/mushaflabs/recite/pkg/archivecache"
	"github.com/mushaflabs/recite/pkg/export"
	"github.com/mushaflabs/recite/pkg/jobs"
	"github.com/mushaflabs/recite/pkg/models"
	"github.com/mushaflabs/recite/pkg/quranapi"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

// ProcessExportJob downloads every verse recording for a chapter, packs them
// into a zip archive through the archive cache, and records the result on the
// job. A previously generated archive with a matching fingerprint is reused
// without re-downloading anything.
func (w *Worker) ProcessExportJob(ctx context.Context, job *models.Job) error {
	log := logger.FromContext(ctx)

	data, ok := job.DataParsed.(*models.JobExportData)
	if !ok || data == nil {
		return errors.New("export job has no parsed data")
	}

	log.Info("processing export job")

	chapter, err := w.chapterService.RetrieveChapter(ctx, data.ChapterID)
	if err != nil {
		return errors.WithStack(err)
	}
	data.ChapterName = chapter.NameSimple

	verses, err := w.chapterService.ListAllChapterVerses(ctx, data.ChapterID, data.ReciterID)
	if err != nil {
		return errors.WithStack(err)
	}

	verseKeys := make([]string, 0, len(verses))
	for _, v := range verses {
		verseKeys = append(verseKeys, v.VerseKey)
	}

	fp := &archivecache.Fingerprint{
		ChapterID:   data.ChapterID,
		ChapterName: chapter.NameSimple,
		ReciterPath: w.config.ReciterPath,
		VerseKeys:   verseKeys,
	}
	items := export.ChapterItems(w.chapterService.Client(), chapter.NameSimple, verses)

	var result *export.Result
	progress := w.reportProgress(ctx, job)
	path, err := w.archiveCache.GetOrCreate(ctx, fp, func(ctx context.Context, f *os.File) error {
		res, aerr := w.assembler.Assemble(ctx, f, items, progress)
		if aerr != nil {
			return aerr
		}
		result = res
		return nil
	})
	if err != nil {
		return errors.WithStack(err)
	}

	data.ArchivePath = path
	data.ArchiveName = export.ArchiveName(chapter.NameSimple)
	if result != nil {
		data.VerseCount = result.Written
		data.SkippedKeys = skippedVerseKeys(chapter.NameSimple, verses, result.Skipped)
		data.ArchivedSize = result.Size
	} else {
		// Fingerprint hit; describe the cached archive instead.
		reader, oerr := zip.OpenReader(path)
		if oerr != nil {
			return errors.WithStack(oerr)
		}
		archived := make(map[string]struct{}, len(reader.File))
		for _, f := range reader.File {
			archived[f.Name] = struct{}{}
		}
		reader.Close()

		data.VerseCount = len(archived)
		data.SkippedKeys = nil
		for _, v := range verses {
			if _, ok := archived[export.VerseEntryName(chapter.NameSimple, v.VerseNumber)]; !ok {
				data.SkippedKeys = append(data.SkippedKeys, v.VerseKey)
			}
		}
		if info, serr := os.Stat(path); serr == nil {
			data.ArchivedSize = info.Size()
		}
	}

	if err := job.MarshalData(); err != nil {
		return err
	}
	job.Progress = 100

	err = w.jobService.UpdateJob(ctx, job, jobs.UpdateJobOptions{
		Columns: []string{"data", "progress"},
	})
	if err != nil {
		return err
	}

	log.Root(logger.Data{
		"archive_path": path,
		"verse_count":  data.VerseCount,
		"skipped":      len(data.SkippedKeys),
	}).Info("export job finished")

	return nil
}

// skippedVerseKeys maps skipped archive entry names back to the verse keys
// they were built from.
func skippedVerseKeys(chapterName string, verses []quranapi.Verse, skipped []string) []string {
	if len(skipped) == 0 {
		return nil
	}
	names := make(map[string]struct{}, len(skipped))
	for _, name := range skipped {
		names[name] = struct{}{}
	}
	keys := make([]string, 0, len(skipped))
	for _, v := range verses {
		if _, ok := names[export.VerseEntryName(chapterName, v.VerseNumber)]; ok {
			keys = append(keys, v.VerseKey)
		}
	}
	return keys
}

// reportProgress persists download progress on the job. The assembler settles
// items concurrently, so updates are serialized and kept monotonic.
func (w *Worker) reportProgress(ctx context.Context, job *models.Job) export.ProgressFunc {
	log := logger.FromContext(ctx)
	var mu sync.Mutex

	return func(done, total int) {
		if total == 0 {
			return
		}
		progress := done * 100 / total

		mu.Lock()
		defer mu.Unlock()
		if progress <= job.Progress {
			return
		}
		job.Progress = progress

		err := w.jobService.UpdateJob(ctx, job, jobs.UpdateJobOptions{
			Columns: []string{"progress"},
		})
		if err != nil {
			log.Err(err).Warn("update job progress error")
		}
	}
}
