package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/tubechat"
)

// Ensure LoggingAssistant implements tubechat.Assistant.
var _ tubechat.Assistant = (*LoggingAssistant)(nil)

// LoggingAssistant wraps an Assistant with logging. Prompts and answers are
// not logged, only their sizes.
type LoggingAssistant struct {
	next   tubechat.Assistant
	logger *slog.Logger
}

// NewLoggingAssistant creates a new LoggingAssistant.
func NewLoggingAssistant(next tubechat.Assistant, logger *slog.Logger) *LoggingAssistant {
	return &LoggingAssistant{next: next, logger: logger}
}

// Guide logs the request and delegates to the wrapped assistant.
func (a *LoggingAssistant) Guide(ctx context.Context, video *tubechat.Video) (guide string, err error) {
	defer func(begin time.Time) {
		a.logger.Log(ctx, levelFor(err), "guide",
			"video", video.ID,
			"answer_len", len(guide),
			"duration", time.Since(begin),
			"code", tubechat.ErrorCode(err),
			"err", err,
		)
	}(time.Now())
	return a.next.Guide(ctx, video)
}

// Ask logs the request and delegates to the wrapped assistant.
func (a *LoggingAssistant) Ask(ctx context.Context, video *tubechat.Video, history []*tubechat.Message, question string) (answer string, err error) {
	defer func(begin time.Time) {
		a.logger.Log(ctx, levelFor(err), "ask",
			"video", video.ID,
			"history", len(history),
			"question_len", len(question),
			"answer_len", len(answer),
			"duration", time.Since(begin),
			"code", tubechat.ErrorCode(err),
			"err", err,
		)
	}(time.Now())
	return a.next.Ask(ctx, video, history, question)
}

// GenerateKnowledgeGraph logs the request and delegates to the wrapped
// assistant.
func (a *LoggingAssistant) GenerateKnowledgeGraph(ctx context.Context, video *tubechat.Video) (graph *tubechat.KnowledgeGraph, err error) {
	defer func(begin time.Time) {
		keyPoints := 0
		if graph != nil {
			keyPoints = len(graph.KeyPoints)
		}
		a.logger.Log(ctx, levelFor(err), "knowledge graph",
			"video", video.ID,
			"key_points", keyPoints,
			"duration", time.Since(begin),
			"code", tubechat.ErrorCode(err),
			"err", err,
		)
	}(time.Now())
	return a.next.GenerateKnowledgeGraph(ctx, video)
}
