package chat

import (
	"context"
	"time"

	"github.com/fwojciec/tubechat"
)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// Retryable reports whether err is transient. Only rate limiting and
// unavailability are retried; parse, auth and validation failures would
// fail the same way again.
func Retryable(err error) bool {
	switch tubechat.ErrorCode(err) {
	case tubechat.ERATELIMIT, tubechat.EUNAVAILABLE:
		return true
	default:
		return false
	}
}

// withRetry calls op until it succeeds, returns a non-retryable error or
// the delays are exhausted. One attempt is made per delay plus the first.
func withRetry[T any](ctx context.Context, name string, delays []time.Duration, logf LogFunc, op func(context.Context) (T, error)) (T, error) {
	var zero T
	for attempt := 0; ; attempt++ {
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		if attempt >= len(delays) || !Retryable(err) {
			return zero, err
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		if logf != nil {
			logf("retry %s in %s (attempt %d): %s", name, delays[attempt], attempt+2, tubechat.ErrorMessage(err))
		}

		timer := time.NewTimer(delays[attempt])
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}

// Ensure RetryingAssistant implements tubechat.Assistant at compile time.
var _ tubechat.Assistant = (*RetryingAssistant)(nil)

// RetryingAssistant retries transient assistant failures with backoff.
type RetryingAssistant struct {
	next   tubechat.Assistant
	delays []time.Duration
	logf   LogFunc
}

// NewRetryingAssistant wraps next. A nil delays slice uses
// DefaultRetryDelays; an empty one disables retries.
func NewRetryingAssistant(next tubechat.Assistant, delays []time.Duration, logf LogFunc) *RetryingAssistant {
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	return &RetryingAssistant{next: next, delays: delays, logf: logf}
}

func (a *RetryingAssistant) Guide(ctx context.Context, video *tubechat.Video) (string, error) {
	return withRetry(ctx, "guide", a.delays, a.logf, func(ctx context.Context) (string, error) {
		return a.next.Guide(ctx, video)
	})
}

func (a *RetryingAssistant) Ask(ctx context.Context, video *tubechat.Video, history []*tubechat.Message, question string) (string, error) {
	return withRetry(ctx, "ask", a.delays, a.logf, func(ctx context.Context) (string, error) {
		return a.next.Ask(ctx, video, history, question)
	})
}

func (a *RetryingAssistant) GenerateKnowledgeGraph(ctx context.Context, video *tubechat.Video) (*tubechat.KnowledgeGraph, error) {
	return withRetry(ctx, "knowledge graph", a.delays, a.logf, func(ctx context.Context) (*tubechat.KnowledgeGraph, error) {
		return a.next.GenerateKnowledgeGraph(ctx, video)
	})
}
