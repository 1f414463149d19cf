// Package mcp exposes the chat service as Model Context Protocol tools, so
// MCP clients such as editors and agents can ask questions about videos.
package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/tubechat"
	"github.com/fwojciec/tubechat/chat"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// VideoInput identifies a video.
type VideoInput struct {
	URL string `json:"url" jsonschema:"YouTube video URL or 11-character video ID"`
}

// AskInput is the input of the ask tool.
type AskInput struct {
	URL      string `json:"url" jsonschema:"YouTube video URL or 11-character video ID"`
	Question string `json:"question" jsonschema:"Question about the video"`
}

// GraphInput is the input of the knowledge_graph tool.
type GraphInput struct {
	URL     string `json:"url" jsonschema:"YouTube video URL or 11-character video ID"`
	Refresh bool   `json:"refresh,omitempty" jsonschema:"Regenerate instead of using a cached graph"`
}

// RenderInput is the input of the render_markdown tool.
type RenderInput struct {
	Markdown string `json:"markdown" jsonschema:"Markdown text produced by the assistant"`
}

// MessageOutput is an assistant reply in Markdown and rendered HTML.
type MessageOutput struct {
	VideoID  string `json:"video_id"`
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
}

// HistoryOutput is a stored conversation.
type HistoryOutput struct {
	Messages []HistoryMessage `json:"messages"`
}

// HistoryMessage is one stored message.
type HistoryMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at,omitempty"`
}

// ClearOutput reports a deleted conversation.
type ClearOutput struct {
	Deleted int `json:"deleted"`
}

// GraphOutput is a knowledge graph for a video.
type GraphOutput struct {
	VideoID string                   `json:"video_id"`
	Title   string                   `json:"title"`
	Cached  bool                     `json:"cached"`
	Graph   *tubechat.KnowledgeGraph `json:"graph"`
}

// RenderOutput is rendered HTML.
type RenderOutput struct {
	HTML string `json:"html"`
}

// NewServer returns an MCP server with all tools registered.
func NewServer(svc *chat.Service, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "tubechat",
		Version: version,
	}, nil)
	RegisterTools(server, svc)
	return server
}

// RegisterTools adds the tubechat tools to server.
func RegisterTools(server *mcp.Server, svc *chat.Service) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "video_guide",
		Description: "Generate five guiding questions for a YouTube video and start a new conversation about it. Replaces any previous conversation for the video.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input VideoInput) (*mcp.CallToolResult, MessageOutput, error) {
		msg, err := svc.Guide(ctx, input.URL)
		if err != nil {
			return nil, MessageOutput{}, toolError(err)
		}
		return nil, messageOutput(msg), nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "video_ask",
		Description: "Ask a question about a YouTube video. Earlier questions and answers about the same video are used as context, and the new turn is stored.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, MessageOutput, error) {
		msg, err := svc.Ask(ctx, input.URL, input.Question)
		if err != nil {
			return nil, MessageOutput{}, toolError(err)
		}
		return nil, messageOutput(msg), nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "video_history",
		Description: "Return the stored conversation about a YouTube video, oldest message first.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input VideoInput) (*mcp.CallToolResult, HistoryOutput, error) {
		msgs, err := svc.History(ctx, input.URL)
		if err != nil {
			return nil, HistoryOutput{}, toolError(err)
		}
		out := HistoryOutput{Messages: make([]HistoryMessage, 0, len(msgs))}
		for _, m := range msgs {
			hm := HistoryMessage{Role: string(m.Role), Content: m.Content}
			if !m.CreatedAt.IsZero() {
				hm.CreatedAt = m.CreatedAt.UTC().Format(time.RFC3339)
			}
			out.Messages = append(out.Messages, hm)
		}
		return nil, out, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "video_clear",
		Description: "Delete the stored conversation about a YouTube video.",
		Annotations: &mcp.ToolAnnotations{DestructiveHint: ptr(true)},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input VideoInput) (*mcp.CallToolResult, ClearOutput, error) {
		n, err := svc.Clear(ctx, input.URL)
		if err != nil {
			return nil, ClearOutput{}, toolError(err)
		}
		return nil, ClearOutput{Deleted: n}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "video_knowledge_graph",
		Description: "Build a knowledge graph of a YouTube video: summary, Mermaid mindmap, key points with importance, and connections between concepts. Cached per video until its metadata changes.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input GraphInput) (*mcp.CallToolResult, GraphOutput, error) {
		result, err := svc.KnowledgeGraph(ctx, input.URL, input.Refresh)
		if err != nil {
			return nil, GraphOutput{}, toolError(err)
		}
		return nil, GraphOutput{
			VideoID: result.Video.ID,
			Title:   result.Video.Title,
			Cached:  result.Cached,
			Graph:   result.Graph,
		}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "render_markdown",
		Description: "Render assistant Markdown (headings, bold, italic, inline code, lists, paragraphs) to a safe HTML fragment.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(_ context.Context, _ *mcp.CallToolRequest, input RenderInput) (*mcp.CallToolResult, RenderOutput, error) {
		return nil, RenderOutput{HTML: tubechat.RenderMarkdown(input.Markdown)}, nil
	})
}

func messageOutput(msg *tubechat.Message) MessageOutput {
	return MessageOutput{
		VideoID:  msg.VideoID,
		Markdown: msg.Content,
		HTML:     tubechat.RenderMarkdown(msg.Content),
	}
}

// toolError hides internal error details from clients.
func toolError(err error) error {
	return errors.New(tubechat.ErrorMessage(err))
}

func ptr[T any](v T) *T {
	return &v
}
