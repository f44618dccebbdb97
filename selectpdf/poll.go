package selectpdf

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// PollPolicy bounds the wait for an asynchronous job: the poller sleeps
// Interval before each status request and gives up after MaxAttempts requests.
type PollPolicy struct {
	Interval    time.Duration
	MaxAttempts int
}

func DefaultPollPolicy() PollPolicy {
	return PollPolicy{Interval: 3 * time.Second, MaxAttempts: 1000}
}

func (p PollPolicy) validate() error {
	if p.Interval < 0 {
		return errors.New("selectpdf: poll interval must not be negative")
	}
	if p.MaxAttempts < 1 {
		return errors.New("selectpdf: poll attempts must be at least 1")
	}
	return nil
}

// Clock abstracts the sleep between polls.
type Clock interface {
	// Sleep blocks for d or until ctx is done.
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func RealClock() Clock { return realClock{} }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type JobState int

const (
	JobSubmitted JobState = iota
	JobPolling
	JobDone
	JobFailed
	JobTimedOut
)

func (s JobState) String() string {
	switch s {
	case JobSubmitted:
		return "SUBMITTED"
	case JobPolling:
		return "POLLING"
	case JobDone:
		return "DONE"
	case JobFailed:
		return "FAILED"
	case JobTimedOut:
		return "TIMED_OUT"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether no further transition can happen.
func (s JobState) Terminal() bool {
	return s == JobDone || s == JobFailed || s == JobTimedOut
}

// CheckFunc performs one status request for a job. Client.CheckJob satisfies it.
type CheckFunc func(ctx context.Context, jobID string, sink io.Writer) (*Envelope, error)

// Poller drives a submitted job to a terminal state.
type Poller struct {
	Policy PollPolicy
	Clock  Clock
	Logger *slog.Logger

	// OnTransition, when set, observes every state change.
	OnTransition func(jobID string, from, to JobState)
}

// Wait polls jobID until the service stops answering 202. The finished
// job's body goes to sink (or Envelope.Body when sink is nil).
func (p *Poller) Wait(ctx context.Context, jobID string, check CheckFunc, sink io.Writer) (*Envelope, error) {
	if jobID == "" {
		return nil, validationError("asyncjob", "job id is required")
	}
	policy := p.Policy
	if policy.MaxAttempts <= 0 {
		policy = DefaultPollPolicy()
	}
	clock := p.Clock
	if clock == nil {
		clock = RealClock()
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	state := JobSubmitted
	move := func(to JobState) {
		if p.OnTransition != nil {
			p.OnTransition(jobID, state, to)
		}
		state = to
	}

	move(JobPolling)
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if err := clock.Sleep(ctx, policy.Interval); err != nil {
			move(JobFailed)
			werr := mapError("asyncjob", err)
			if e, ok := AsError(werr); ok && e.JobID == "" {
				e.JobID = jobID
			}
			return nil, werr
		}

		env, err := check(ctx, jobID, sink)
		if err != nil {
			move(JobFailed)
			logger.DebugContext(ctx, "selectpdf async job failed", "job_id", jobID, "attempt", attempt, "err", err)
			return nil, err
		}
		logger.DebugContext(ctx, "selectpdf async job poll", "job_id", jobID, "attempt", attempt, "status", env.StatusCode)
		if env.StatusCode != http.StatusAccepted {
			move(JobDone)
			return env, nil
		}
	}

	move(JobTimedOut)
	return nil, &Error{
		Kind:    ErrKindTimeout,
		Op:      "asyncjob",
		JobID:   jobID,
		Message: "asynchronous call did not finish in expected timeframe",
	}
}
