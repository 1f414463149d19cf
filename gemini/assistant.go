package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fwojciec/tubechat"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when no model is configured.
const DefaultModel = "gemini-3-pro-preview"

// DefaultLanguage is the language answers are written in by default.
const DefaultLanguage = "English"

// Generation parameters. Knowledge graphs use a lower temperature so the
// model sticks to the requested JSON layout.
const (
	chatTemperature  = 0.7
	graphTemperature = 0.3
	topK             = 40
	topP             = 0.95
	maxOutputTokens  = 4096

	// promptDescriptionLength bounds the description embedded in chat prompts.
	promptDescriptionLength = 500
)

// Ensure Assistant implements tubechat.Assistant at compile time.
var _ tubechat.Assistant = (*Assistant)(nil)

// Assistant implements tubechat.Assistant using Google Gemini.
type Assistant struct {
	client   *genai.Client
	model    string
	language string
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithModel sets the Gemini model name.
func WithModel(model string) Option {
	return func(a *Assistant) {
		if model != "" {
			a.model = model
		}
	}
}

// WithLanguage sets the language the assistant answers in.
func WithLanguage(language string) Option {
	return func(a *Assistant) {
		if language != "" {
			a.language = language
		}
	}
}

// NewAssistant creates a new Assistant.
func NewAssistant(client *genai.Client, opts ...Option) *Assistant {
	a := &Assistant{
		client:   client,
		model:    DefaultModel,
		language: DefaultLanguage,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Model returns the configured model name.
func (a *Assistant) Model() string {
	return a.model
}

// Guide returns a short message with open-ended questions to keep in mind
// while watching the video.
func (a *Assistant) Guide(ctx context.Context, video *tubechat.Video) (string, error) {
	if err := video.Validate(); err != nil {
		return "", err
	}

	prompt := BuildAskPrompt(video, nil, BuildGuidePrompt(a.language))
	return a.generate(ctx, prompt, BuildConfig(chatTemperature, ""))
}

// Ask answers a question about the video. Prior turns are included in the
// prompt and switch the model into follow-up mode.
func (a *Assistant) Ask(ctx context.Context, video *tubechat.Video, history []*tubechat.Message, question string) (string, error) {
	if err := video.Validate(); err != nil {
		return "", err
	}
	if strings.TrimSpace(question) == "" {
		return "", tubechat.Errorf(tubechat.EINVALID, "question required")
	}

	var system string
	if len(history) > 0 {
		system = BuildFollowUpInstruction(a.language)
	}

	prompt := BuildAskPrompt(video, history, question)
	return a.generate(ctx, prompt, BuildConfig(chatTemperature, system))
}

// GenerateKnowledgeGraph asks the model for a knowledge graph of the video
// and extracts it from the response.
func (a *Assistant) GenerateKnowledgeGraph(ctx context.Context, video *tubechat.Video) (*tubechat.KnowledgeGraph, error) {
	if err := video.Validate(); err != nil {
		return nil, err
	}

	text, err := a.generate(ctx, BuildGraphPrompt(video, a.language), BuildConfig(graphTemperature, ""))
	if err != nil {
		return nil, err
	}
	return tubechat.ExtractKnowledgeGraph(text)
}

func (a *Assistant) generate(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	result, err := a.client.Models.GenerateContent(ctx, a.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		config,
	)
	if err != nil {
		return "", a.classifyError(err)
	}
	if result == nil || len(result.Candidates) == 0 {
		return "", tubechat.Errorf(tubechat.EINTERNAL, "API returned no candidates")
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", tubechat.Errorf(tubechat.EINTERNAL, "API returned empty response")
	}
	return text, nil
}

// classifyError maps Gemini API failures onto application error codes.
// Errors that did not come from the API, such as context cancellation, are
// returned unchanged.
func (a *Assistant) classifyError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	msg := apiErr.Message
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "API key"):
		return tubechat.Errorf(tubechat.EUNAUTHORIZED, "invalid API key")
	case apiErr.Code == http.StatusNotFound,
		strings.Contains(lower, "not found"),
		strings.Contains(lower, "not supported"):
		return tubechat.Errorf(tubechat.EUNAVAILABLE, "model %q is not available", a.model)
	case apiErr.Code == http.StatusTooManyRequests:
		return tubechat.Errorf(tubechat.ERATELIMIT, "API rate limit exceeded, try again later")
	case apiErr.Code == http.StatusForbidden:
		return tubechat.Errorf(tubechat.EUNAUTHORIZED, "API key lacks permission for model %q", a.model)
	case apiErr.Code >= http.StatusInternalServerError:
		return tubechat.Errorf(tubechat.EUNAVAILABLE, "gemini API unavailable (%d): %s", apiErr.Code, msg)
	default:
		return tubechat.Errorf(tubechat.EINTERNAL, "gemini API error (%d): %s", apiErr.Code, msg)
	}
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
// An empty system instruction is omitted.
func BuildConfig(temperature float32, system string) *genai.GenerateContentConfig {
	k := float32(topK)
	p := float32(topP)
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		TopK:            &k,
		TopP:            &p,
		MaxOutputTokens: maxOutputTokens,
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}
	return config
}

// BuildAskPrompt builds the user prompt: video details, prior turns and the
// question.
func BuildAskPrompt(video *tubechat.Video, history []*tubechat.Message, question string) string {
	var sb strings.Builder
	sb.WriteString("YouTube video:\n")
	if video.Title != "" {
		fmt.Fprintf(&sb, "Title: %s\n", video.Title)
	}
	if video.Channel != "" {
		fmt.Fprintf(&sb, "Channel: %s\n", video.Channel)
	}
	if video.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", tubechat.TruncateRunes(video.Description, promptDescriptionLength))
	}
	fmt.Fprintf(&sb, "Link: %s\n\n", videoURL(video))

	if len(history) > 0 {
		sb.WriteString("Conversation so far:\n")
		for _, msg := range history {
			switch msg.Role {
			case tubechat.RoleUser:
				fmt.Fprintf(&sb, "User: %s\n", msg.Content)
			case tubechat.RoleAssistant:
				fmt.Fprintf(&sb, "Assistant: %s\n", msg.Content)
			}
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "Question: %s", question)
	return sb.String()
}

// BuildGuidePrompt returns the request for the reading guide shown before
// the user watches a video.
func BuildGuidePrompt(language string) string {
	return fmt.Sprintf(`You are a study companion for YouTube videos. The user is about to watch this video. Write one short message with guiding questions so they watch with a purpose.

Write 5 questions closely tied to the video content:
1) Each question can be answered from the video.
2) Questions are open-ended, never yes/no.
3) Each question has at most 20 words.
4) Questions do not repeat each other and take different angles.
5) Cover several levels: 2 comprehension, 2 reasoning, 1 application or reflection.

Reply in %s with exactly this layout and nothing else:

Here are a few questions to keep in mind while you watch:
1) ...
2) ...
3) ...
4) ...
5) ...

Do not explain your process. Do not summarize or answer the questions. Do not open with pleasantries.`, language)
}

// BuildFollowUpInstruction returns the system instruction used once a
// conversation has started.
func BuildFollowUpInstruction(language string) string {
	return fmt.Sprintf(`You are a study assistant answering follow-up questions while the user watches a YouTube video. The video content is your only trusted source.

Rules:
1) Answer strictly from the video. Do not add facts the video does not state.
2) If the video does not support an answer, say it was not mentioned or cannot be confirmed, then offer what you can do instead.
3) Answer the question in one sentence first, then give the supporting points.
4) Structure: conclusion, evidence from the video, optional extension.
5) No long summaries. Do not retell the video.
6) Never invent quotes, timestamps or claims about what the video said.
7) Stay neutral about the video's opinions. Help the user weigh arguments without deciding for them.

Format:
**Answer:** one sentence.

**From the video:**
- point restated from the video
- point restated from the video

**Explanation:** optional plain-language example.

**You could ask next:** optional, 1 or 2 follow-up directions.

Answer in %s. Keep replies between 120 and 200 words unless the user asks for detail. Skip boilerplate such as "as an AI".`, language)
}

// BuildGraphPrompt returns the request for a knowledge graph of the video.
func BuildGraphPrompt(video *tubechat.Video, language string) string {
	title := video.Title
	if title == "" {
		title = "Video knowledge graph"
	}
	channel := video.Channel
	if channel == "" {
		channel = "unknown"
	}
	description := video.Description
	if description == "" {
		description = "none"
	}

	var sb strings.Builder
	sb.WriteString("You generate knowledge graphs. Build a visual knowledge graph for the YouTube video below.\n\n")
	sb.WriteString("Video:\n")
	fmt.Fprintf(&sb, "Title: %s\n", title)
	fmt.Fprintf(&sb, "Channel: %s\n", channel)
	fmt.Fprintf(&sb, "Description: %s\n", description)
	fmt.Fprintf(&sb, "Link: %s\n\n", videoURL(video))
	fmt.Fprintf(&sb, `Output one JSON object with these fields:
{
  "title": %q,
  "summary": "2-3 sentence summary of the video",
  "mermaidCode": "Mermaid mindmap code",
  "keyPoints": [{"title": "key point", "description": "short description", "importance": "high/medium/low"}],
  "connections": [{"from": "concept A", "to": "concept B", "relationship": "relationship"}]
}

Mermaid rules:
1) Use the mindmap diagram type with the video topic as the root node.
2) Use 3-5 main branches with 2-4 children each and at most 3 levels.
3) Use at most 10 nodes.

Output rules:
1) Output raw JSON only. The first character is { and the last character is }.
2) No Markdown fences and no text outside the object.
3) Write line breaks in mermaidCode as \n.
4) keyPoints has exactly 4 entries with descriptions under 15 words.
5) connections has exactly 3 entries.
6) No trailing commas. Close every bracket and quote.
7) Keep the summary under 50 words.
8) Write all text values in %s.
`, title, language)
	sb.WriteString("\nExample:\n")
	sb.WriteString(`{"title":"Example","summary":"Short summary.","mermaidCode":"mindmap\n  root((Topic))\n    Branch 1\n      Point 1\n    Branch 2\n      Point 2","keyPoints":[{"title":"Point 1","description":"Short","importance":"high"},{"title":"Point 2","description":"Short","importance":"medium"},{"title":"Point 3","description":"Short","importance":"medium"},{"title":"Point 4","description":"Short","importance":"low"}],"connections":[{"from":"A","to":"B","relationship":"causes"},{"from":"B","to":"C","relationship":"part of"},{"from":"A","to":"C","relationship":"contrasts"}]}`)
	return sb.String()
}

func videoURL(video *tubechat.Video) string {
	if video.URL != "" {
		return video.URL
	}
	return tubechat.WatchURL(video.ID)
}
