package pipeline

import (
	"context"
	"errors"
	"sync"

	"github.com/ovoronin/lexcite/internal/model"
	"github.com/ovoronin/lexcite/internal/worker"
)

// Mode selects the delivery mode for one document
type Mode int

const (
	// ModeAuto runs synchronously at or under the configured size
	// threshold and asynchronously above it
	ModeAuto Mode = iota
	// ModeSync forces the blocking path
	ModeSync
	// ModeAsync forces the queued-worker path
	ModeAsync
)

// Orchestrator delivers pipeline runs either synchronously on the
// caller's goroutine or through a worker pool with a job store. Both
// paths invoke the same Pipeline.Run; identical input and configuration
// yield identical results in either mode, only delivery timing differs.
type Orchestrator struct {
	pipeline  *Pipeline
	pool      *worker.Pool
	store     *worker.JobStore
	threshold int
	startOnce sync.Once
}

// NewOrchestrator creates an orchestrator over a shared pipeline
func NewOrchestrator(cfg *model.Config, p *Pipeline) *Orchestrator {
	workers := cfg.Concurrency.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Orchestrator{
		pipeline:  p,
		pool:      worker.NewPool(workers),
		store:     worker.NewJobStore(),
		threshold: cfg.Pipeline.SyncAsyncSizeThreshold,
	}
}

// Process runs one document. Synchronous delivery returns the report
// directly; asynchronous delivery returns a job ID for polling.
func (o *Orchestrator) Process(ctx context.Context, docName, text string, mode Mode) (*model.Report, string, error) {
	if o.runSync(text, mode) {
		report, err := o.pipeline.Run(ctx, docName, text, nil)
		return report, "", err
	}
	return nil, o.Submit(docName, text), nil
}

func (o *Orchestrator) runSync(text string, mode Mode) bool {
	switch mode {
	case ModeSync:
		return true
	case ModeAsync:
		return false
	default:
		return len(text) <= o.threshold
	}
}

// Submit enqueues one document as an async job and returns its ID
// immediately
func (o *Orchestrator) Submit(docName, text string) string {
	o.startOnce.Do(o.pool.Start)

	id := o.store.Create()
	o.pool.Submit(&checkJob{
		jobID:    id,
		docName:  docName,
		text:     text,
		pipeline: o.pipeline,
		store:    o.store,
	})
	return id
}

// Status returns an immutable status snapshot for a job
func (o *Orchestrator) Status(jobID string) (*model.JobStatus, error) {
	return o.store.Get(jobID)
}

// Cancel flags a job for cancellation; its worker aborts between stages
// without writing a completed result
func (o *Orchestrator) Cancel(jobID string) error {
	return o.store.Cancel(jobID)
}

// Jobs lists all known jobs
func (o *Orchestrator) Jobs() []*model.JobStatus {
	return o.store.List()
}

// Wait drains the queue and blocks until all submitted jobs finish
func (o *Orchestrator) Wait() {
	o.startOnce.Do(o.pool.Start)
	o.pool.Wait()
}

// checkJob is one queued document. While running, its citation and
// cluster data is owned exclusively by the executing worker; only the
// final report is written to the shared store.
type checkJob struct {
	jobID    string
	docName  string
	text     string
	pipeline *Pipeline
	store    *worker.JobStore
}

// checkJobResult implements worker.Result
type checkJobResult struct {
	jobID string
	err   error
}

func (r *checkJobResult) GetError() error { return r.err }

// Execute runs the shared pipeline for one job, translating progress
// callbacks into store updates and cancellation flags into context
// cancellation between stages.
func (j *checkJob) Execute(ctx context.Context) worker.Result {
	if !j.store.SetRunning(j.jobID) {
		// Cancelled while still queued.
		return &checkJobResult{jobID: j.jobID, err: model.ErrJobCancelled}
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	progress := func(stage string, percent int) {
		if j.store.IsCancelled(j.jobID) {
			cancel()
			return
		}
		j.store.SetProgress(j.jobID, stage, percent)
	}

	report, err := j.pipeline.Run(runCtx, j.docName, j.text, progress)
	switch {
	case err == nil:
		j.store.Complete(j.jobID, report)
		return &checkJobResult{jobID: j.jobID}
	case errors.Is(err, model.ErrJobCancelled):
		// The store already holds the cancelled state; never write a
		// completed result for a cancelled job.
		return &checkJobResult{jobID: j.jobID, err: err}
	default:
		j.store.Fail(j.jobID, err)
		return &checkJobResult{jobID: j.jobID, err: err}
	}
}
