package jobs

type CreateExportJobPayload struct {
	ChapterID int `json:"chapter_id" validate:"required,min=1,max=114"`
	ReciterID int `json:"reciter_id,omitempty" validate:"omitempty,min=1"`
}

type ListJobsQuery struct {
	Limit     int      `query:"limit" json:"limit,omitempty" default:"10" validate:"min=1,max=100"`
	Offset    int      `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Status    []string `query:"status" json:"status,omitempty" validate:"dive,oneof=pending in_progress completed failed"`
	ChapterID *int     `query:"chapter_id" json:"chapter_id,omitempty" validate:"omitempty,min=1,max=114"`
}
