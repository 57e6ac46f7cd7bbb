package worker

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/ovoronin/lexcite/internal/model"
)

// JobStore is the shared job-status/result store for async jobs. While a
// job is running its in-progress data is owned exclusively by its worker;
// the completed result is written here once as an immutable snapshot.
// Status reads return copies so callers never observe partial updates.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]*model.JobStatus
}

// NewJobStore creates an empty job store
func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[string]*model.JobStatus)}
}

// Create registers a new queued job and returns its ID
func (s *JobStore) Create() string {
	id := newJobID()

	s.mu.Lock()
	defer s.mu.Unlock()

	progress := make(map[string]int, len(model.Stages))
	for _, stage := range model.Stages {
		progress[stage] = 0
	}
	s.jobs[id] = &model.JobStatus{
		JobID:      id,
		State:      model.JobQueued,
		Progress:   progress,
		EnqueuedAt: time.Now().UTC(),
	}
	return id
}

// SetRunning transitions a job to running. Returns false when the job
// was cancelled while queued.
func (s *JobStore) SetRunning(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok || job.State == model.JobCancelled {
		return false
	}
	now := time.Now().UTC()
	job.State = model.JobRunning
	job.StartedAt = &now
	return true
}

// SetProgress updates one stage's progress percentage
func (s *JobStore) SetProgress(id, stage string, percent int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok || job.State != model.JobRunning {
		return
	}
	job.CurrentStage = stage
	job.Progress[stage] = percent
}

// Complete writes the final result snapshot. A cancelled job is never
// completed.
func (s *JobStore) Complete(id string, report *model.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok || job.State != model.JobRunning {
		return
	}
	now := time.Now().UTC()
	job.State = model.JobCompleted
	job.FinishedAt = &now
	job.CurrentStage = ""
	job.Result = report
	job.Notices = report.Notices
	for _, stage := range model.Stages {
		job.Progress[stage] = 100
	}
}

// Fail records a failed job with its error text
func (s *JobStore) Fail(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok || job.State.Terminal() {
		return
	}
	now := time.Now().UTC()
	job.State = model.JobFailed
	job.FinishedAt = &now
	job.Error = err.Error()
}

// Cancel flags a job as cancelled. Workers check the flag between
// stages and abort without writing a completed result.
func (s *JobStore) Cancel(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return model.ErrJobNotFound
	}
	if job.State.Terminal() {
		return nil
	}
	now := time.Now().UTC()
	job.State = model.JobCancelled
	job.FinishedAt = &now
	job.Error = model.ErrJobCancelled.Error()
	return nil
}

// IsCancelled reports the cancellation flag for a job
func (s *JobStore) IsCancelled(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	return ok && job.State == model.JobCancelled
}

// Get returns an immutable snapshot of a job's status
func (s *JobStore) Get(id string) (*model.JobStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, model.ErrJobNotFound
	}
	return snapshot(job), nil
}

// List returns snapshots of all jobs, newest first
func (s *JobStore) List() []*model.JobStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.JobStatus, 0, len(s.jobs))
	for _, job := range s.jobs {
		out = append(out, snapshot(job))
	}
	return out
}

func snapshot(job *model.JobStatus) *model.JobStatus {
	copied := *job
	copied.Progress = make(map[string]int, len(job.Progress))
	for k, v := range job.Progress {
		copied.Progress[k] = v
	}
	copied.Notices = append([]string(nil), job.Notices...)

	end := time.Now().UTC()
	if job.FinishedAt != nil {
		end = *job.FinishedAt
	}
	start := job.EnqueuedAt
	if job.StartedAt != nil {
		start = *job.StartedAt
	}
	copied.Elapsed = end.Sub(start)
	return &copied
}

func newJobID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return "job-" + hex.EncodeToString(buf)
}
