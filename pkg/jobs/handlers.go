package jobs

import (
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/mushaflabs/recite/pkg/config"
	"github.com/mushaflabs/recite/pkg/errcodes"
	"github.com/mushaflabs/recite/pkg/models"
	"github.com/pkg/errors"
)

type handler struct {
	jobService *Service
	config     *config.Config
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	// Bind params.
	params := CreateExportJobPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	// Only one export per chapter can be queued or running at a time.
	hasActive, err := h.jobService.HasActiveExportForChapter(ctx, params.ChapterID)
	if err != nil {
		return errors.WithStack(err)
	}
	if hasActive {
		return errcodes.Conflict("An export for this chapter is already running or pending.")
	}

	reciterID := params.ReciterID
	if reciterID == 0 {
		reciterID = h.config.DefaultReciterID
	}

	job := &models.Job{
		Type:      models.JobTypeExport,
		Status:    models.JobStatusPending,
		ChapterID: params.ChapterID,
		DataParsed: &models.JobExportData{
			ChapterID: params.ChapterID,
			ReciterID: reciterID,
		},
	}

	err = h.jobService.CreateJob(ctx, job)
	if err != nil {
		return errors.WithStack(err)
	}

	job, err = h.jobService.RetrieveJob(ctx, RetrieveJobOptions{
		ID: &job.ID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, job))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	job, err := h.jobService.RetrieveJob(ctx, RetrieveJobOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, job))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	// Bind params.
	params := ListJobsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	jobs, total, err := h.jobService.ListJobsWithTotal(ctx, ListJobsOptions{
		Limit:     &params.Limit,
		Offset:    &params.Offset,
		Statuses:  params.Status,
		ChapterID: params.ChapterID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Jobs  []*models.Job `json:"jobs"`
		Total int           `json:"total"`
	}{jobs, total}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

// download serves the finished archive of a completed export job.
func (h *handler) download(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	job, err := h.jobService.RetrieveJob(ctx, RetrieveJobOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}
	if job.Status != models.JobStatusCompleted {
		return errcodes.Conflict("The export has not completed yet.")
	}

	data, ok := job.DataParsed.(*models.JobExportData)
	if !ok || data.ArchivePath == "" {
		return errcodes.NotFound("Archive")
	}
	if _, err := os.Stat(data.ArchivePath); err != nil {
		// The cache may have evicted the archive since the job finished.
		return errcodes.NotFound("Archive")
	}

	return errors.WithStack(c.Attachment(data.ArchivePath, data.ArchiveName))
}
