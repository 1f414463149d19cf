package mock

import (
	"context"

	"github.com/fwojciec/tubechat"
)

var _ tubechat.Assistant = (*Assistant)(nil)

// Assistant is a mock implementation of tubechat.Assistant.
type Assistant struct {
	GuideFn                  func(ctx context.Context, video *tubechat.Video) (string, error)
	AskFn                    func(ctx context.Context, video *tubechat.Video, history []*tubechat.Message, question string) (string, error)
	GenerateKnowledgeGraphFn func(ctx context.Context, video *tubechat.Video) (*tubechat.KnowledgeGraph, error)
}

func (a *Assistant) Guide(ctx context.Context, video *tubechat.Video) (string, error) {
	return a.GuideFn(ctx, video)
}

func (a *Assistant) Ask(ctx context.Context, video *tubechat.Video, history []*tubechat.Message, question string) (string, error) {
	return a.AskFn(ctx, video, history, question)
}

func (a *Assistant) GenerateKnowledgeGraph(ctx context.Context, video *tubechat.Video) (*tubechat.KnowledgeGraph, error) {
	return a.GenerateKnowledgeGraphFn(ctx, video)
}
