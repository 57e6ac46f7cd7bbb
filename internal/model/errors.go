package model

import "errors"

// Error taxonomy. A failure on one citation never aborts the rest of the
// document; these sentinels classify what went wrong where partial results
// cannot be produced at all, or annotate soft conditions inside the run.
var (
	// ErrMalformedInput means the input is not processable text (binary
	// data, invalid encoding). The only input error that fails a run.
	ErrMalformedInput = errors.New("malformed input: not text")

	// ErrSourceUnavailable is a soft failure (timeout, rate limit, robots
	// denial) that advances the verification source chain. It surfaces as
	// an advisory notice, never as a failed run.
	ErrSourceUnavailable = errors.New("verification source unavailable")

	// ErrVerificationRejected means a source offered a candidate that
	// failed a validation gate. The citation stays out of verified status;
	// processing continues.
	ErrVerificationRejected = errors.New("verification candidate rejected")

	// ErrJobCancelled is reported when a job's cancellation flag was set
	// and a worker aborted between stages.
	ErrJobCancelled = errors.New("job cancelled")

	// ErrJobTimeout is reported when a job's context deadline expired
	// before the run finished.
	ErrJobTimeout = errors.New("job timed out")

	// ErrJobNotFound is returned by the job store for unknown job IDs.
	ErrJobNotFound = errors.New("job not found")
)
