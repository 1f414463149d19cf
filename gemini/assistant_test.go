package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fwojciec/tubechat"
	"github.com/fwojciec/tubechat/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type generateRequest struct {
	Contents []struct {
		Role  string `json:"role"`
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
	SystemInstruction *struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"systemInstruction"`
	GenerationConfig struct {
		Temperature     float64 `json:"temperature"`
		TopK            float64 `json:"topK"`
		TopP            float64 `json:"topP"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

func (r generateRequest) prompt() string {
	if len(r.Contents) == 0 || len(r.Contents[0].Parts) == 0 {
		return ""
	}
	return r.Contents[0].Parts[0].Text
}

func textResponse(text string) string {
	body, _ := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": text}},
				},
			},
		},
	})
	return string(body)
}

// newTestServer returns a client talking to a fake Gemini endpoint. Each
// request body is sent to the returned channel.
func newTestServer(t *testing.T, status int, body string) (*genai.Client, <-chan generateRequest) {
	t.Helper()

	requests := make(chan generateRequest, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		select {
		case requests <- req:
		default:
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL},
	})
	require.NoError(t, err)

	return client, requests
}

func apiErrorBody(code int, message, status string) string {
	body, _ := json.Marshal(map[string]any{
		"error": map[string]any{"code": code, "message": message, "status": status},
	})
	return string(body)
}

var testVideo = &tubechat.Video{
	ID:          "dQw4w9WgXcQ",
	URL:         "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	Title:       "Go Concurrency Patterns",
	Channel:     "Google for Developers",
	Description: "Rob Pike on goroutines and channels.",
}

func TestAssistant_Guide(t *testing.T) {
	t.Parallel()

	t.Run("returns generated questions", func(t *testing.T) {
		t.Parallel()

		client, requests := newTestServer(t, http.StatusOK, textResponse("1) Why channels?"))
		assistant := gemini.NewAssistant(client)

		got, err := assistant.Guide(context.Background(), testVideo)

		require.NoError(t, err)
		assert.Equal(t, "1) Why channels?", got)

		req := <-requests
		assert.Contains(t, req.prompt(), "Title: Go Concurrency Patterns")
		assert.Contains(t, req.prompt(), "5 questions")
		assert.Nil(t, req.SystemInstruction)
		assert.InDelta(t, 0.7, req.GenerationConfig.Temperature, 0.001)
	})

	t.Run("rejects invalid video", func(t *testing.T) {
		t.Parallel()

		assistant := gemini.NewAssistant(nil)

		_, err := assistant.Guide(context.Background(), &tubechat.Video{ID: "short"})

		require.Error(t, err)
		assert.Equal(t, tubechat.EINVALID, tubechat.ErrorCode(err))
	})
}

func TestAssistant_Ask(t *testing.T) {
	t.Parallel()

	t.Run("first question has no system instruction", func(t *testing.T) {
		t.Parallel()

		client, requests := newTestServer(t, http.StatusOK, textResponse("An answer."))
		assistant := gemini.NewAssistant(client)

		got, err := assistant.Ask(context.Background(), testVideo, nil, "What is a goroutine?")

		require.NoError(t, err)
		assert.Equal(t, "An answer.", got)

		req := <-requests
		assert.Nil(t, req.SystemInstruction)
		assert.True(t, strings.HasSuffix(req.prompt(), "Question: What is a goroutine?"))
		assert.NotContains(t, req.prompt(), "Conversation so far")
	})

	t.Run("follow-up includes history and system instruction", func(t *testing.T) {
		t.Parallel()

		client, requests := newTestServer(t, http.StatusOK, textResponse("Follow-up answer."))
		assistant := gemini.NewAssistant(client, gemini.WithLanguage("German"))
		history := []*tubechat.Message{
			{VideoID: testVideo.ID, Role: tubechat.RoleUser, Content: "What is a goroutine?"},
			{VideoID: testVideo.ID, Role: tubechat.RoleAssistant, Content: "A lightweight thread."},
		}

		_, err := assistant.Ask(context.Background(), testVideo, history, "How cheap is it?")

		require.NoError(t, err)

		req := <-requests
		require.NotNil(t, req.SystemInstruction)
		require.Len(t, req.SystemInstruction.Parts, 1)
		assert.Contains(t, req.SystemInstruction.Parts[0].Text, "Answer in German")
		assert.Contains(t, req.prompt(), "User: What is a goroutine?\nAssistant: A lightweight thread.\n")
	})

	t.Run("rejects empty question", func(t *testing.T) {
		t.Parallel()

		assistant := gemini.NewAssistant(nil)

		_, err := assistant.Ask(context.Background(), testVideo, nil, "  ")

		require.Error(t, err)
		assert.Equal(t, tubechat.EINVALID, tubechat.ErrorCode(err))
		assert.Equal(t, "question required", tubechat.ErrorMessage(err))
	})

	t.Run("empty response is an error", func(t *testing.T) {
		t.Parallel()

		client, _ := newTestServer(t, http.StatusOK, textResponse("  "))
		assistant := gemini.NewAssistant(client)

		_, err := assistant.Ask(context.Background(), testVideo, nil, "Hi?")

		require.Error(t, err)
		assert.Equal(t, tubechat.EINTERNAL, tubechat.ErrorCode(err))
	})

	t.Run("no candidates is an error", func(t *testing.T) {
		t.Parallel()

		client, _ := newTestServer(t, http.StatusOK, `{"candidates":[]}`)
		assistant := gemini.NewAssistant(client)

		_, err := assistant.Ask(context.Background(), testVideo, nil, "Hi?")

		require.Error(t, err)
		assert.Equal(t, tubechat.EINTERNAL, tubechat.ErrorCode(err))
		assert.Contains(t, tubechat.ErrorMessage(err), "no candidates")
	})
}

func TestAssistant_ClassifiesAPIErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
	}{
		{
			name:     "invalid key",
			status:   http.StatusBadRequest,
			body:     apiErrorBody(400, "API key not valid. Please pass a valid API key.", "INVALID_ARGUMENT"),
			wantCode: tubechat.EUNAUTHORIZED,
		},
		{
			name:     "unknown model",
			status:   http.StatusNotFound,
			body:     apiErrorBody(404, "models/nope is not found for API version v1beta", "NOT_FOUND"),
			wantCode: tubechat.EUNAVAILABLE,
		},
		{
			name:     "unsupported model",
			status:   http.StatusBadRequest,
			body:     apiErrorBody(400, "generateContent is not supported for this model", "INVALID_ARGUMENT"),
			wantCode: tubechat.EUNAVAILABLE,
		},
		{
			name:     "rate limited",
			status:   http.StatusTooManyRequests,
			body:     apiErrorBody(429, "Resource has been exhausted", "RESOURCE_EXHAUSTED"),
			wantCode: tubechat.ERATELIMIT,
		},
		{
			name:     "forbidden",
			status:   http.StatusForbidden,
			body:     apiErrorBody(403, "Permission denied", "PERMISSION_DENIED"),
			wantCode: tubechat.EUNAUTHORIZED,
		},
		{
			name:     "server error",
			status:   http.StatusServiceUnavailable,
			body:     apiErrorBody(503, "The model is overloaded", "UNAVAILABLE"),
			wantCode: tubechat.EUNAVAILABLE,
		},
		{
			name:     "other client error",
			status:   http.StatusBadRequest,
			body:     apiErrorBody(400, "Request contains an invalid argument", "INVALID_ARGUMENT"),
			wantCode: tubechat.EINTERNAL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, _ := newTestServer(t, tt.status, tt.body)
			assistant := gemini.NewAssistant(client)

			_, err := assistant.Ask(context.Background(), testVideo, nil, "Hi?")

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, tubechat.ErrorCode(err))
		})
	}
}

func TestAssistant_GenerateKnowledgeGraph(t *testing.T) {
	t.Parallel()

	t.Run("extracts graph from fenced response", func(t *testing.T) {
		t.Parallel()

		raw := "```json\n{\"title\":\"Go\",\"mermaidCode\":\"mindmap\\n  root((Go))\",\"keyPoints\":[{\"title\":\"a\",\"description\":\"b\",\"importance\":\"high\"},]}\n```"
		client, requests := newTestServer(t, http.StatusOK, textResponse(raw))
		assistant := gemini.NewAssistant(client)

		graph, err := assistant.GenerateKnowledgeGraph(context.Background(), testVideo)

		require.NoError(t, err)
		assert.Equal(t, "Go", graph.Title)
		assert.Equal(t, "mindmap\n  root((Go))", graph.MermaidCode)
		require.Len(t, graph.KeyPoints, 1)

		req := <-requests
		assert.InDelta(t, 0.3, req.GenerationConfig.Temperature, 0.001)
		assert.Contains(t, req.prompt(), "mindmap")
		assert.Contains(t, req.prompt(), "Title: Go Concurrency Patterns")
	})

	t.Run("unparseable response is a parse error", func(t *testing.T) {
		t.Parallel()

		client, _ := newTestServer(t, http.StatusOK, textResponse("Sorry, I cannot help with that."))
		assistant := gemini.NewAssistant(client)

		graph, err := assistant.GenerateKnowledgeGraph(context.Background(), testVideo)

		require.Error(t, err)
		assert.Nil(t, graph)
		assert.Equal(t, tubechat.EPARSE, tubechat.ErrorCode(err))
	})
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("sets sampling parameters", func(t *testing.T) {
		t.Parallel()

		config := gemini.BuildConfig(0.7, "")

		require.NotNil(t, config.Temperature)
		assert.InDelta(t, 0.7, *config.Temperature, 0.001)
		require.NotNil(t, config.TopK)
		assert.InDelta(t, 40, *config.TopK, 0.001)
		require.NotNil(t, config.TopP)
		assert.InDelta(t, 0.95, *config.TopP, 0.001)
		assert.Equal(t, int32(4096), config.MaxOutputTokens)
		assert.Nil(t, config.SystemInstruction)
	})

	t.Run("sets system instruction", func(t *testing.T) {
		t.Parallel()

		config := gemini.BuildConfig(0.3, "be brief")

		require.NotNil(t, config.SystemInstruction)
		require.Len(t, config.SystemInstruction.Parts, 1)
		assert.Equal(t, "be brief", config.SystemInstruction.Parts[0].Text)
	})
}

func TestBuildAskPrompt(t *testing.T) {
	t.Parallel()

	t.Run("truncates long description", func(t *testing.T) {
		t.Parallel()

		video := &tubechat.Video{ID: "dQw4w9WgXcQ", Description: strings.Repeat("x", 800)}

		prompt := gemini.BuildAskPrompt(video, nil, "q")

		assert.Contains(t, prompt, "Description: "+strings.Repeat("x", 500)+"\n")
		assert.NotContains(t, prompt, strings.Repeat("x", 501))
	})

	t.Run("falls back to watch url", func(t *testing.T) {
		t.Parallel()

		prompt := gemini.BuildAskPrompt(&tubechat.Video{ID: "dQw4w9WgXcQ"}, nil, "q")

		assert.Contains(t, prompt, "Link: https://www.youtube.com/watch?v=dQw4w9WgXcQ")
		assert.NotContains(t, prompt, "Title:")
	})
}

func TestBuildGraphPrompt_UsesPlaceholders(t *testing.T) {
	t.Parallel()

	prompt := gemini.BuildGraphPrompt(&tubechat.Video{ID: "dQw4w9WgXcQ"}, "English")

	assert.Contains(t, prompt, "Title: Video knowledge graph")
	assert.Contains(t, prompt, "Channel: unknown")
	assert.Contains(t, prompt, "Description: none")
	assert.Contains(t, prompt, "exactly 4 entries")
}

func TestNewAssistant_Options(t *testing.T) {
	t.Parallel()

	assert.Equal(t, gemini.DefaultModel, gemini.NewAssistant(nil).Model())
	assert.Equal(t, "gemini-2.5-flash", gemini.NewAssistant(nil, gemini.WithModel("gemini-2.5-flash")).Model())
	assert.Equal(t, gemini.DefaultModel, gemini.NewAssistant(nil, gemini.WithModel("")).Model())
}
