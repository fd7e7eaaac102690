package models

import (
	"time"
)

// JobStatus represents how an admin action ended
type JobStatus string

const (
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusRejected  JobStatus = "rejected"
	JobStatusFailed    JobStatus = "failed"
)

// JobType represents the kind of admin action
type JobType string

const (
	JobTypeAssign   JobType = "assign"
	JobTypeReset    JobType = "reset"
	JobTypeOnboard  JobType = "onboard"
	JobTypeOffboard JobType = "offboard"
	JobTypeIngest   JobType = "ingest"
)

// Job is the activity record of one admin action
type Job struct {
	ID              string     `json:"job_id" db:"id"`
	Type            JobType    `json:"type" db:"type"`
	Resource        string     `json:"resource" db:"resource"`
	Status          JobStatus  `json:"status" db:"status"`
	TotalRecords    int        `json:"total_records" db:"total_records"`
	SuccessfulCount int        `json:"successful" db:"successful_count"`
	SkippedCount    int        `json:"skipped" db:"skipped_count"`
	FailedCount     int        `json:"failed" db:"failed_count"`
	DurationMs      int64      `json:"duration_ms,omitempty" db:"duration_ms"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	StartedAt       *time.Time `json:"started_at,omitempty" db:"started_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// ValidationError represents a single item error recorded against a job
type ValidationError struct {
	Line    int         `json:"line"`
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// JobResponse is the API response for job status
type JobResponse struct {
	Job
	Errors      []ValidationError `json:"errors,omitempty"`
	ErrorCount  int               `json:"error_count,omitempty"`
	ErrorReport string            `json:"error_report_url,omitempty"`
}
