package models

import (
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
	"github.com/uptrace/bun"
)

const (
	JobStatusPending    = "pending"
	JobStatusInProgress = "in_progress"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

const (
	JobTypeExport = "export"
)

type Job struct {
	bun.BaseModel `bun:"table:jobs,alias:j"`

	ID         string      `bun:",pk,nullzero" json:"id"`
	Type       string      `bun:",nullzero" json:"type"`
	Status     string      `bun:",nullzero" json:"status"`
	ChapterID  int         `json:"chapter_id"`
	Data       string      `bun:",nullzero" json:"-"`
	DataParsed interface{} `bun:"-" json:"data"`
	Progress   int         `json:"progress"`
	Error      *string     `json:"error,omitempty"`
	ProcessID  *string     `json:"process_id,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

func (job *Job) UnmarshalData() error {
	switch job.Type {
	case JobTypeExport:
		job.DataParsed = &JobExportData{}
	}

	err := json.Unmarshal([]byte(job.Data), job.DataParsed)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// MarshalData serializes DataParsed back into the stored Data string. The
// worker calls this after filling in result fields.
func (job *Job) MarshalData() error {
	data, err := json.Marshal(job.DataParsed)
	if err != nil {
		return errors.WithStack(err)
	}
	job.Data = string(data)
	return nil
}

// JobExportData carries the input and, once the job completes, the result of
// a chapter audio export.
type JobExportData struct {
	ChapterID   int    `json:"chapter_id"`
	ChapterName string `json:"chapter_name"`
	ReciterID   int    `json:"reciter_id"`

	// Result fields, populated by the worker.
	ArchivePath  string   `json:"archive_path,omitempty"`
	ArchiveName  string   `json:"archive_name,omitempty"`
	VerseCount   int      `json:"verse_count,omitempty"`
	SkippedKeys  []string `json:"skipped_keys,omitempty"`
	ArchivedSize int64    `json:"archived_size,omitempty"`
}
