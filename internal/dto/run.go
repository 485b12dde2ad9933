package dto

import "time"

// RunSummary is the lightweight shape used in list views.
type RunSummary struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	BestFitness int64     `json:"bestFitness"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RunDetail is the full persisted run, including its solve output.
type RunDetail struct {
	ID           string         `json:"id"`
	Status       string         `json:"status"`
	BestFitness  int64          `json:"bestFitness"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
	Output       *SolveResponse `json:"output,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	FinishedAt   *time.Time     `json:"finishedAt,omitempty"`
}

// ListRunsQuery filters/paginates GET /timetable/runs.
type ListRunsQuery struct {
	Status   string `form:"status" json:"status"`
	Page     int    `form:"page" json:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" json:"pageSize" validate:"omitempty,min=1,max=200"`
}
