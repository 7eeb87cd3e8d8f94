package repo

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/stackvity/tree-sweep/pkg/sweep"
	"golang.org/x/time/rate"
)

// Outcome notes attached to successful pulls.
const (
	NoteUpdated  = "updated"
	NoteUpToDate = "up to date"
)

// PullProcessor is a sweep.Processor that pulls each repository.
type PullProcessor struct {
	puller  Puller
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewPullProcessor wraps puller. limiter may be nil for unlimited pulls.
func NewPullProcessor(puller Puller, limiter *rate.Limiter, loggerHandler slog.Handler) *PullProcessor {
	if loggerHandler == nil {
		loggerHandler = slog.NewTextHandler(io.Discard, nil)
	}
	return &PullProcessor{
		puller:  puller,
		limiter: limiter,
		logger:  slog.New(loggerHandler).With(slog.String("component", "pullProcessor")),
	}
}

// NewLimiter returns a limiter allowing perSecond pulls, or nil when
// perSecond is not positive.
func NewLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

// Process implements sweep.Processor.
func (p *PullProcessor) Process(ctx context.Context, item sweep.WorkItem) sweep.Outcome {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			p.logger.Debug("Rate limiter wait aborted, pulling anyway", slog.String("path", item.RelPath), slog.String("error", err.Error()))
		}
	}

	result, err := p.puller.Pull(ctx, item.Path)
	if err != nil {
		p.logger.Debug("Pull failed", slog.String("path", item.RelPath), slog.String("error", err.Error()))
		return sweep.Failed(failureMessage(err))
	}

	switch result {
	case PullUpdated:
		return sweep.SuccessWith(NoteUpdated)
	case PullUpToDate:
		return sweep.SuccessWith(NoteUpToDate)
	case PullAuthRequired:
		return sweep.Skipped(sweep.ReasonAuthRequired)
	default:
		return sweep.Failedf("unexpected pull result %q", result)
	}
}

// failureMessage strips the ErrGitOperation prefix so log lines carry the
// git output only.
func failureMessage(err error) string {
	msg := err.Error()
	if errors.Is(err, ErrGitOperation) {
		msg = strings.TrimPrefix(msg, ErrGitOperation.Error()+": ")
	}
	return msg
}
