package chat

import (
	"context"

	"github.com/fwojciec/tubechat"
)

// DefaultHistoryBudget is the number of tokens of prior conversation sent
// with a question.
const DefaultHistoryBudget = 8000

// TrimHistory returns the newest suffix of history whose token count fits
// within budget. Oldest messages are dropped first. An assistant reply whose
// question was dropped is dropped too, except for the opening guide message
// which never had a question. A non-positive budget or nil counter disables
// trimming.
func TrimHistory(ctx context.Context, counter tubechat.TokenCounter, history []*tubechat.Message, budget int) ([]*tubechat.Message, error) {
	if budget <= 0 || counter == nil || len(history) == 0 {
		return history, nil
	}

	start := len(history)
	total := 0
	for i := len(history) - 1; i >= 0; i-- {
		n, err := counter.CountTokens(ctx, history[i].Content)
		if err != nil {
			return nil, err
		}
		if total+n > budget {
			break
		}
		total += n
		start = i
	}

	if start > 0 && start < len(history) && history[start].Role == tubechat.RoleAssistant {
		start++
	}
	return history[start:], nil
}
