package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/mushaflabs/recite/pkg/chapters"
	"github.com/mushaflabs/recite/pkg/config"
	"github.com/mushaflabs/recite/pkg/export"
	"github.com/mushaflabs/recite/pkg/querycache"
	"github.com/mushaflabs/recite/pkg/quranapi"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/urfave/cli/v2"
)

// Standalone chapter exporter. Downloads every verse recording for a chapter
// and writes the zip archive to the given directory, without a server or a
// job queue in the way.
func main() {
	log := logger.New()

	app := &cli.App{
		Name:  "export",
		Usage: "export a chapter's verse audio as a zip archive",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "chapter",
				Usage:    "chapter number (1-114)",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "reciter",
				Usage: "reciter ID (defaults to the configured reciter)",
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "output directory",
				Value: ".",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.New()
			if err != nil {
				return err
			}

			chapterID := c.Int("chapter")
			if chapterID < 1 || chapterID > 114 {
				return errors.Errorf("chapter must be between 1 and 114, got %d", chapterID)
			}
			reciterID := c.Int("reciter")
			if reciterID == 0 {
				reciterID = cfg.DefaultReciterID
			}

			svc := chapters.NewService(quranapi.New(cfg), querycache.New(), cfg)

			chapter, err := svc.RetrieveChapter(c.Context, chapterID)
			if err != nil {
				return err
			}
			verses, err := svc.ListAllChapterVerses(c.Context, chapterID, reciterID)
			if err != nil {
				return err
			}

			path := filepath.Join(c.String("out"), export.ArchiveName(chapter.NameSimple))
			f, err := os.Create(path)
			if err != nil {
				return errors.WithStack(err)
			}
			defer f.Close()

			assembler := export.NewAssembler(&http.Client{Timeout: cfg.HTTPTimeout}, cfg.ExportConcurrency)
			items := export.ChapterItems(svc.Client(), chapter.NameSimple, verses)

			result, err := assembler.Assemble(c.Context, f, items, func(done, total int) {
				fmt.Printf("\r%d/%d", done, total)
			})
			fmt.Println()
			if err != nil {
				os.Remove(path)
				return err
			}

			fmt.Printf("Wrote %s (%d verses, %d bytes)\n", path, result.Written, result.Size)
			for _, name := range result.Skipped {
				fmt.Printf("Skipped %s\n", name)
			}
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Err(err).Fatal("app run error")
	}
}
