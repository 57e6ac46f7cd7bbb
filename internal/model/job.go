package model

import "time"

// JobState is the lifecycle state of an asynchronous check job
type JobState string

const (
	JobQueued    JobState = "queued"
	JobRunning   JobState = "running"
	JobCompleted JobState = "completed"
	JobFailed    JobState = "failed"
	JobCancelled JobState = "cancelled"
)

// Stage names reported in job progress, in execution order
const (
	StageLocate    = "locate"
	StageAssociate = "associate"
	StageCluster   = "cluster"
	StageVerify    = "verify"
)

// Stages lists the pipeline stages in execution order
var Stages = []string{StageLocate, StageAssociate, StageCluster, StageVerify}

// JobStatus is the externally visible state of one async job.
// Snapshots returned to callers are copies; the store owns the original.
type JobStatus struct {
	JobID        string         `json:"job_id"`
	State        JobState       `json:"status"`
	CurrentStage string         `json:"current_stage,omitempty"`
	Progress     map[string]int `json:"stage_progress_percent"` // 0-100 per stage
	EnqueuedAt   time.Time      `json:"enqueued_at"`
	StartedAt    *time.Time     `json:"started_at,omitempty"`
	FinishedAt   *time.Time     `json:"finished_at,omitempty"`
	Elapsed      time.Duration  `json:"elapsed_time"`
	Result       *Report        `json:"result,omitempty"`
	Error        string         `json:"error,omitempty"`
	Notices      []string       `json:"verification_notices,omitempty"`
}

// Terminal reports whether the job has reached a final state
func (s JobState) Terminal() bool {
	return s == JobCompleted || s == JobFailed || s == JobCancelled
}
