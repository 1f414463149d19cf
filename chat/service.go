// Package chat orchestrates conversations and knowledge graphs about
// YouTube videos. It ties together scraping, the assistant and storage.
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/tubechat"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of videos processed at once by
// KnowledgeGraphs.
const DefaultConcurrency = 3

// Service answers questions about videos and keeps per-video conversations.
type Service struct {
	Scraper       tubechat.VideoScraper
	Assistant     tubechat.Assistant
	Conversations tubechat.ConversationService
	Graphs        tubechat.GraphService
	TokenCounter  tubechat.TokenCounter

	// HistoryBudget bounds the tokens of prior conversation sent with a
	// question. Zero disables trimming.
	HistoryBudget int

	// Concurrency bounds KnowledgeGraphs. Defaults to DefaultConcurrency.
	Concurrency int

	// RetryDelays are the backoff delays for transient scrape failures.
	// Nil uses DefaultRetryDelays; empty disables retries.
	RetryDelays []time.Duration

	Logf LogFunc
}

// Guide scrapes the video, generates guiding questions and starts a fresh
// conversation with them. The previous conversation is only cleared once
// the guide has been generated.
func (s *Service) Guide(ctx context.Context, rawURL string) (*tubechat.Message, error) {
	video, err := s.scrape(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	guide, err := s.Assistant.Guide(ctx, video)
	if err != nil {
		return nil, err
	}

	if _, err := s.Conversations.DeleteMessages(ctx, video.ID); err != nil {
		return nil, err
	}

	msg := &tubechat.Message{
		VideoID:   video.ID,
		Role:      tubechat.RoleAssistant,
		Content:   guide,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Conversations.AppendMessages(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Ask answers a question about the video in the context of its stored
// conversation. The question and answer are stored together, and only if
// the assistant succeeds.
func (s *Service) Ask(ctx context.Context, rawURL, question string) (*tubechat.Message, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, tubechat.Errorf(tubechat.EINVALID, "question required")
	}

	video, err := s.scrape(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	history, err := s.Conversations.FindMessages(ctx, tubechat.MessageFilter{VideoID: &video.ID})
	if err != nil {
		return nil, err
	}
	history, err = TrimHistory(ctx, s.TokenCounter, history, s.HistoryBudget)
	if err != nil {
		return nil, err
	}

	asked := time.Now().UTC()
	answer, err := s.Assistant.Ask(ctx, video, history, question)
	if err != nil {
		return nil, err
	}

	reply := &tubechat.Message{
		VideoID:   video.ID,
		Role:      tubechat.RoleAssistant,
		Content:   answer,
		CreatedAt: time.Now().UTC(),
	}
	err = s.Conversations.AppendMessages(ctx,
		&tubechat.Message{VideoID: video.ID, Role: tubechat.RoleUser, Content: question, CreatedAt: asked},
		reply,
	)
	if err != nil {
		return nil, err
	}
	return reply, nil
}

// History returns the stored conversation for a video, oldest first.
// Nothing is fetched.
func (s *Service) History(ctx context.Context, rawURL string) ([]*tubechat.Message, error) {
	id, err := tubechat.ParseVideoID(rawURL)
	if err != nil {
		return nil, err
	}
	return s.Conversations.FindMessages(ctx, tubechat.MessageFilter{VideoID: &id})
}

// Clear deletes the stored conversation for a video and returns the number
// of deleted messages.
func (s *Service) Clear(ctx context.Context, rawURL string) (int, error) {
	id, err := tubechat.ParseVideoID(rawURL)
	if err != nil {
		return 0, err
	}
	return s.Conversations.DeleteMessages(ctx, id)
}

// GraphResult is the outcome of generating a knowledge graph for one URL.
type GraphResult struct {
	URL    string
	Video  *tubechat.Video
	Graph  *tubechat.KnowledgeGraph
	Cached bool
	Err    error
}

// KnowledgeGraph returns the knowledge graph for a video, generating it on
// a cache miss. Refresh skips the cache lookup. Failing to store a generated
// graph is logged and does not fail the call.
func (s *Service) KnowledgeGraph(ctx context.Context, rawURL string, refresh bool) (*GraphResult, error) {
	video, err := s.scrape(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if !refresh && s.Graphs != nil {
		stored, err := s.Graphs.FindGraph(ctx, video)
		switch {
		case err == nil:
			return &GraphResult{URL: rawURL, Video: video, Graph: stored.Graph, Cached: true}, nil
		case tubechat.ErrorCode(err) != tubechat.ENOTFOUND:
			return nil, err
		}
	}

	graph, err := s.Assistant.GenerateKnowledgeGraph(ctx, video)
	if err != nil {
		return nil, err
	}
	for i := range graph.KeyPoints {
		graph.KeyPoints[i].Importance = graph.KeyPoints[i].Importance.Normalize()
	}

	if s.Graphs != nil {
		if _, err := s.Graphs.SaveGraph(ctx, video, graph); err != nil {
			s.logf("cache knowledge graph for %s: %s", video.ID, tubechat.ErrorMessage(err))
		}
	}

	return &GraphResult{URL: rawURL, Video: video, Graph: graph}, nil
}

// ProgressEvent reports progress during a batch operation.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress. It is called
// from a single goroutine.
type ProgressFunc func(event ProgressEvent)

// KnowledgeGraphs runs KnowledgeGraph for each URL with bounded
// concurrency. Results are returned in input order; a failure is recorded on
// its result and does not stop the batch. Cancelling ctx stops the batch and
// fails the remaining URLs.
func (s *Service) KnowledgeGraphs(ctx context.Context, urls []string, refresh bool, progress ProgressFunc) []GraphResult {
	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	type indexed struct {
		pos    int
		result GraphResult
	}
	resultCh := make(chan indexed, len(urls))

	total := len(urls)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	var g errgroup.Group
	g.SetLimit(concurrency)

	go func() {
		for i, u := range urls {
			g.Go(func() error {
				r := GraphResult{URL: u}
				if err := ctx.Err(); err != nil {
					r.Err = err
				} else if res, err := s.KnowledgeGraph(ctx, u, refresh); err != nil {
					r.Err = err
				} else {
					r = *res
				}
				resultCh <- indexed{pos: i, result: r}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	results := make([]GraphResult, len(urls))
	completed := 0
	for r := range resultCh {
		results[r.pos] = r.result
		completed++
		if progress == nil {
			continue
		}
		event := ProgressEvent{Type: ProgressCompleted, Completed: completed, Total: total, URL: r.result.URL}
		if r.result.Err != nil {
			event.Type = ProgressFailed
			event.Error = r.result.Err
		}
		progress(event)
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: completed, Total: total})
	}
	return results
}

func (s *Service) scrape(ctx context.Context, rawURL string) (*tubechat.Video, error) {
	delays := s.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	return withRetry(ctx, "scrape "+rawURL, delays, s.Logf, func(ctx context.Context) (*tubechat.Video, error) {
		return s.Scraper.Scrape(ctx, rawURL)
	})
}

func (s *Service) logf(format string, args ...any) {
	if s.Logf != nil {
		s.Logf(format, args...)
	}
}
