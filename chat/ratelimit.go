package chat

import (
	"context"

	"github.com/fwojciec/tubechat"
	"golang.org/x/time/rate"
)

// Ensure RateLimitedAssistant implements tubechat.Assistant at compile time.
var _ tubechat.Assistant = (*RateLimitedAssistant)(nil)

// RateLimitedAssistant paces requests to the wrapped assistant with a token
// bucket shared by all callers.
type RateLimitedAssistant struct {
	next    tubechat.Assistant
	limiter *rate.Limiter
}

// NewRateLimitedAssistant allows rps requests per second with a burst of 1.
// A non-positive rps disables limiting.
func NewRateLimitedAssistant(next tubechat.Assistant, rps float64) *RateLimitedAssistant {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &RateLimitedAssistant{next: next, limiter: rate.NewLimiter(limit, 1)}
}

func (a *RateLimitedAssistant) Guide(ctx context.Context, video *tubechat.Video) (string, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return a.next.Guide(ctx, video)
}

func (a *RateLimitedAssistant) Ask(ctx context.Context, video *tubechat.Video, history []*tubechat.Message, question string) (string, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return a.next.Ask(ctx, video, history, question)
}

func (a *RateLimitedAssistant) GenerateKnowledgeGraph(ctx context.Context, video *tubechat.Video) (*tubechat.KnowledgeGraph, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return a.next.GenerateKnowledgeGraph(ctx, video)
}
