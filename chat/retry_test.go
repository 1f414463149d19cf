package chat_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/tubechat"
	"github.com/fwojciec/tubechat/chat"
	"github.com/fwojciec/tubechat/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastDelays = []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}

func TestRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want bool
	}{
		{err: tubechat.Errorf(tubechat.ERATELIMIT, "slow down"), want: true},
		{err: tubechat.Errorf(tubechat.EUNAVAILABLE, "overloaded"), want: true},
		{err: tubechat.Errorf(tubechat.EPARSE, "bad json"), want: false},
		{err: tubechat.Errorf(tubechat.EUNAUTHORIZED, "bad key"), want: false},
		{err: tubechat.Errorf(tubechat.EINVALID, "bad url"), want: false},
		{err: fmt.Errorf("plain"), want: false},
		{err: context.Canceled, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, chat.Retryable(tt.err))
		})
	}
}

func TestRetryingAssistant(t *testing.T) {
	t.Parallel()

	t.Run("retries transient errors until success", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		inner := &mock.Assistant{
			AskFn: func(context.Context, *tubechat.Video, []*tubechat.Message, string) (string, error) {
				if calls.Add(1) < 3 {
					return "", tubechat.Errorf(tubechat.ERATELIMIT, "rate limited")
				}
				return "answer", nil
			},
		}
		var logged []string
		assistant := chat.NewRetryingAssistant(inner, fastDelays, func(format string, args ...any) {
			logged = append(logged, fmt.Sprintf(format, args...))
		})

		got, err := assistant.Ask(context.Background(), testVideo, nil, "q")

		require.NoError(t, err)
		assert.Equal(t, "answer", got)
		assert.Equal(t, int32(3), calls.Load())
		require.Len(t, logged, 2)
		assert.Contains(t, logged[0], "attempt 2")
	})

	t.Run("gives up after delays are exhausted", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		inner := &mock.Assistant{
			GuideFn: func(context.Context, *tubechat.Video) (string, error) {
				calls.Add(1)
				return "", tubechat.Errorf(tubechat.EUNAVAILABLE, "overloaded")
			},
		}
		assistant := chat.NewRetryingAssistant(inner, fastDelays, nil)

		_, err := assistant.Guide(context.Background(), testVideo)

		require.Error(t, err)
		assert.Equal(t, tubechat.EUNAVAILABLE, tubechat.ErrorCode(err))
		assert.Equal(t, int32(4), calls.Load())
	})

	t.Run("never retries parse errors", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		inner := &mock.Assistant{
			GenerateKnowledgeGraphFn: func(context.Context, *tubechat.Video) (*tubechat.KnowledgeGraph, error) {
				calls.Add(1)
				return nil, tubechat.Errorf(tubechat.EPARSE, "no JSON object found")
			},
		}
		assistant := chat.NewRetryingAssistant(inner, fastDelays, nil)

		_, err := assistant.GenerateKnowledgeGraph(context.Background(), testVideo)

		require.Error(t, err)
		assert.Equal(t, tubechat.EPARSE, tubechat.ErrorCode(err))
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("empty delays disable retries", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		inner := &mock.Assistant{
			GuideFn: func(context.Context, *tubechat.Video) (string, error) {
				calls.Add(1)
				return "", tubechat.Errorf(tubechat.ERATELIMIT, "rate limited")
			},
		}
		assistant := chat.NewRetryingAssistant(inner, []time.Duration{}, nil)

		_, err := assistant.Guide(context.Background(), testVideo)

		require.Error(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("stops waiting when context is cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		inner := &mock.Assistant{
			GuideFn: func(context.Context, *tubechat.Video) (string, error) {
				cancel()
				return "", tubechat.Errorf(tubechat.ERATELIMIT, "rate limited")
			},
		}
		assistant := chat.NewRetryingAssistant(inner, []time.Duration{time.Hour}, nil)

		_, err := assistant.Guide(ctx, testVideo)

		require.ErrorIs(t, err, context.Canceled)
	})
}
