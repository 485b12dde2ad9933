package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// RunStatus represents lifecycle phases for a persisted solve run.
type RunStatus string

const (
	RunStatusQueued    RunStatus = "QUEUED"
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusCompleted RunStatus = "COMPLETED"
	RunStatusFailed    RunStatus = "FAILED"
)

// TimetableRun captures one persisted invocation of the scheduler core.
type TimetableRun struct {
	ID           string         `db:"id" json:"id"`
	InputDigest  string         `db:"input_digest" json:"input_digest"`
	Status       RunStatus      `db:"status" json:"status"`
	BestFitness  int64          `db:"best_fitness" json:"best_fitness"`
	ErrorMessage *string        `db:"error_message" json:"error_message,omitempty"`
	Output       types.JSONText `db:"output" json:"output,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	FinishedAt   *time.Time     `db:"finished_at" json:"finished_at,omitempty"`
}

// TimetableRunSummary is the lightweight shape used for list views.
type TimetableRunSummary struct {
	ID          string    `json:"id"`
	Status      RunStatus `json:"status"`
	BestFitness int64     `json:"best_fitness"`
	CreatedAt   time.Time `json:"created_at"`
}
