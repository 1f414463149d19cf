package chat

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/tubechat"
	"github.com/sony/gobreaker"
)

// Breaker defaults.
const (
	DefaultBreakerFailures = 3
	DefaultBreakerTimeout  = 30 * time.Second
)

// Ensure BreakingAssistant implements tubechat.Assistant at compile time.
var _ tubechat.Assistant = (*BreakingAssistant)(nil)

// BreakingAssistant stops calling the wrapped assistant after consecutive
// transient failures and fails fast with EUNAVAILABLE until the breaker
// timeout elapses. Only errors accepted by Retryable count as failures.
type BreakingAssistant struct {
	next tubechat.Assistant
	cb   *gobreaker.CircuitBreaker
}

// NewBreakingAssistant wraps next. The breaker opens after failures
// consecutive transient errors and probes again after timeout.
func NewBreakingAssistant(next tubechat.Assistant, failures uint32, timeout time.Duration, logf LogFunc) *BreakingAssistant {
	if failures == 0 {
		failures = DefaultBreakerFailures
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "gemini",
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !Retryable(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logf != nil {
				logf("circuit %s changed from %s to %s", name, from, to)
			}
		},
	})
	return &BreakingAssistant{next: next, cb: cb}
}

func (a *BreakingAssistant) Guide(ctx context.Context, video *tubechat.Video) (string, error) {
	return execute(a.cb, func() (string, error) {
		return a.next.Guide(ctx, video)
	})
}

func (a *BreakingAssistant) Ask(ctx context.Context, video *tubechat.Video, history []*tubechat.Message, question string) (string, error) {
	return execute(a.cb, func() (string, error) {
		return a.next.Ask(ctx, video, history, question)
	})
}

func (a *BreakingAssistant) GenerateKnowledgeGraph(ctx context.Context, video *tubechat.Video) (*tubechat.KnowledgeGraph, error) {
	return execute(a.cb, func() (*tubechat.KnowledgeGraph, error) {
		return a.next.GenerateKnowledgeGraph(ctx, video)
	})
}

func execute[T any](cb *gobreaker.CircuitBreaker, op func() (T, error)) (T, error) {
	var zero T
	v, err := cb.Execute(func() (any, error) {
		v, err := op()
		return v, err
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return zero, tubechat.Errorf(tubechat.EUNAVAILABLE, "gemini API paused after repeated failures, try again later")
	}
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}
