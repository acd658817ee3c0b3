// Package runner drives a reversible pipeline in the order the flatten CLI
// asks for and reports every pull.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/kbukum/flatkit/config"
	"github.com/kbukum/flatkit/errors"
	"github.com/kbukum/flatkit/logger"
	"github.com/kbukum/flatkit/observability"
	"github.com/kbukum/flatkit/pipeline"
)

// Options selects the pull order. Logger and Metrics are optional.
type Options struct {
	Mode    string
	Script  []End
	Logger  *logger.Logger
	Metrics *observability.Metrics
}

// Pull is the outcome of one pull. OK is false when the end had nothing
// left to give.
type Pull[T any] struct {
	Seq   int
	End   End
	Value T
	OK    bool
}

// Summary counts the pulls of a run.
type Summary struct {
	Mode     string
	Pulls    int
	Yielded  int
	Duration time.Duration
}

// Empty returns the number of pulls that produced nothing.
func (s Summary) Empty() int { return s.Pulls - s.Yielded }

// plan chooses the end of the next pull, or reports that the run is over.
// misses is the number of consecutive empty pulls so far.
type plan func(seq, misses int) (End, bool)

func planFor(opts Options) (plan, error) {
	switch opts.Mode {
	case config.ModeForward, "":
		return func(_, misses int) (End, bool) { return Front, misses == 0 }, nil
	case config.ModeBackward:
		return func(_, misses int) (End, bool) { return Back, misses == 0 }, nil
	case config.ModeInterleave:
		return func(seq, misses int) (End, bool) { return End(seq % 2), misses < 2 }, nil
	case config.ModeScript:
		script := opts.Script
		return func(seq, _ int) (End, bool) {
			if seq >= len(script) {
				return Front, false
			}
			return script[seq], true
		}, nil
	default:
		return nil, errors.InvalidInput("mode", fmt.Sprintf("unknown mode %q", opts.Mode))
	}
}

// Run pulls from it in the order opts describes and calls emit for every
// pull, including pulls that produced nothing. Forward and backward runs
// stop after the first empty pull; interleaved runs stop once both ends
// have come up empty in a row; scripted runs perform exactly the scripted
// pulls. Errors from it or emit stop the run and are returned unchanged.
//
// Run does not close it.
func Run[T any](ctx context.Context, it pipeline.DoubleEndedIterator[T], opts Options, emit func(Pull[T]) error) (Summary, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Get("runner")
	}
	next, err := planFor(opts)
	if err != nil {
		return Summary{}, err
	}

	mode := opts.Mode
	if mode == "" {
		mode = config.ModeForward
	}
	ctx, span := observability.StartSpan(ctx, observability.SpanRun)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrMode, mode)

	summary := Summary{Mode: mode}
	start := time.Now()
	err = pullAll(ctx, it, next, &summary, opts.Metrics, log, emit)
	summary.Duration = time.Since(start)

	observability.SetSpanAttribute(ctx, observability.AttrPulls, summary.Pulls)
	observability.SetSpanAttribute(ctx, observability.AttrYielded, summary.Yielded)
	status := "ok"
	if err != nil {
		status = "error"
		observability.SetSpanError(ctx, err)
		opts.Metrics.RecordError(ctx, string(errors.Wrap(err).Code), "runner")
	}
	opts.Metrics.RecordRun(ctx, mode, status, summary.Duration)
	if err != nil {
		return summary, err
	}

	log.Info("run complete", logger.Fields(
		logger.FieldMode, summary.Mode,
		logger.FieldPulls, summary.Pulls,
		logger.FieldYielded, summary.Yielded,
		logger.FieldEmpty, summary.Empty(),
	))
	return summary, nil
}

func pullAll[T any](ctx context.Context, it pipeline.DoubleEndedIterator[T], next plan, summary *Summary, metrics *observability.Metrics, log *logger.Logger, emit func(Pull[T]) error) error {
	trace := log.Enabled(zerolog.DebugLevel)
	for misses := 0; ; {
		end, more := next(summary.Pulls, misses)
		if !more {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error
		p := Pull[T]{Seq: summary.Pulls, End: end}
		if end == Back {
			p.Value, p.OK, err = it.NextBack(ctx)
		} else {
			p.Value, p.OK, err = it.Next(ctx)
		}
		if err != nil {
			log.Error("pull failed", logger.Fields(
				logger.FieldSeq, p.Seq,
				logger.FieldEnd, end.String(),
				logger.FieldError, err.Error(),
			))
			return err
		}

		summary.Pulls++
		if p.OK {
			summary.Yielded++
			misses = 0
		} else {
			misses++
		}
		metrics.RecordPull(ctx, end.String(), p.OK)
		if trace {
			fields := logger.Fields(logger.FieldSeq, p.Seq, logger.FieldEnd, end.String(), logger.FieldEmpty, !p.OK)
			if p.OK {
				fields[logger.FieldValue] = p.Value
			}
			log.Debug("pull", fields)
		}

		if err := emit(p); err != nil {
			return err
		}
	}
}
