package downloader

import (
	"context"
	"time"

	"github.com/brogergvhs/mangagrab/internal/chapters"
)

const (
	DefaultInitialTimeout = 2 * time.Second
	DefaultTimeoutStep    = time.Second
)

type Attempter interface {
	Download(ctx context.Context, unit chapters.Unit, timeout time.Duration) Outcome
}

type RetryOptions struct {
	InitialTimeout time.Duration
	TimeoutStep    time.Duration
	// TimeoutCeiling caps the per-round timeout; zero means no cap.
	TimeoutCeiling time.Duration
	// MaxRounds stops retrying after that many rounds; zero retries until
	// every unit succeeds.
	MaxRounds int
	Workers   int

	OnRoundStart func(round int, units int, timeout time.Duration)
	OnOutcome    func(round int, o Outcome)
	OnRoundEnd   func(round int, failed []Outcome)
}

type Report struct {
	Written  []string
	Failed   []Outcome
	Rounds   int
	Attempts int
	Timeouts []time.Duration
}

func (r Report) Complete() bool {
	return len(r.Failed) == 0
}

type Retrier struct {
	att  Attempter
	opts RetryOptions
}

func NewRetrier(att Attempter, opts RetryOptions) *Retrier {
	if opts.InitialTimeout <= 0 {
		opts.InitialTimeout = DefaultInitialTimeout
	}
	if opts.TimeoutStep <= 0 {
		opts.TimeoutStep = DefaultTimeoutStep
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	return &Retrier{att: att, opts: opts}
}

// Run attempts every unit, then keeps re-attempting only the failures with a
// timeout one step longer per round until none are left. Each failed outcome
// is replaced by the fresh attempt of the same unit. With MaxRounds set, or
// once ctx is done, the remaining failures are returned in Report.Failed.
func (r *Retrier) Run(ctx context.Context, units []chapters.Unit) Report {
	var rep Report

	pending := units
	timeout := r.opts.InitialTimeout

	for len(pending) > 0 {
		rep.Rounds++
		rep.Attempts += len(pending)
		rep.Timeouts = append(rep.Timeouts, timeout)

		round := rep.Rounds
		if r.opts.OnRoundStart != nil {
			r.opts.OnRoundStart(round, len(pending), timeout)
		}

		var onOutcome func(Outcome)
		if r.opts.OnOutcome != nil {
			onOutcome = func(o Outcome) { r.opts.OnOutcome(round, o) }
		}

		outcomes := runRound(ctx, r.att, pending, timeout, r.opts.Workers, onOutcome)

		succeeded, failed := partition(outcomes)
		for _, o := range succeeded {
			rep.Written = append(rep.Written, o.Path)
		}

		if r.opts.OnRoundEnd != nil {
			r.opts.OnRoundEnd(round, failed)
		}

		if len(failed) == 0 {
			return rep
		}

		if (r.opts.MaxRounds > 0 && rep.Rounds >= r.opts.MaxRounds) || ctx.Err() != nil {
			rep.Failed = failed
			return rep
		}

		pending = unitsOf(failed)
		timeout = r.next(timeout)
	}

	return rep
}

func (r *Retrier) next(timeout time.Duration) time.Duration {
	timeout += r.opts.TimeoutStep
	if r.opts.TimeoutCeiling > 0 && timeout > r.opts.TimeoutCeiling {
		return r.opts.TimeoutCeiling
	}

	return timeout
}

func partition(outcomes []Outcome) (succeeded, failed []Outcome) {
	for _, o := range outcomes {
		if o.OK() {
			succeeded = append(succeeded, o)
		} else {
			failed = append(failed, o)
		}
	}

	return succeeded, failed
}

func unitsOf(outcomes []Outcome) []chapters.Unit {
	units := make([]chapters.Unit, len(outcomes))
	for i, o := range outcomes {
		units[i] = o.Unit
	}

	return units
}
