package mock

import (
	"context"

	"github.com/fwojciec/tubechat"
)

var _ tubechat.ConversationService = (*ConversationService)(nil)

// ConversationService is a mock implementation of tubechat.ConversationService.
type ConversationService struct {
	AppendMessagesFn func(ctx context.Context, msgs ...*tubechat.Message) error
	FindMessagesFn   func(ctx context.Context, filter tubechat.MessageFilter) ([]*tubechat.Message, error)
	DeleteMessagesFn func(ctx context.Context, videoID string) (int, error)
}

func (s *ConversationService) AppendMessages(ctx context.Context, msgs ...*tubechat.Message) error {
	return s.AppendMessagesFn(ctx, msgs...)
}

func (s *ConversationService) FindMessages(ctx context.Context, filter tubechat.MessageFilter) ([]*tubechat.Message, error) {
	return s.FindMessagesFn(ctx, filter)
}

func (s *ConversationService) DeleteMessages(ctx context.Context, videoID string) (int, error) {
	return s.DeleteMessagesFn(ctx, videoID)
}
