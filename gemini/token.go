package gemini

import (
	"context"

	"github.com/fwojciec/tubechat"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

// TokenizerModel is the model whose local tokenizer is used when the chat
// model has no local tokenizer of its own. Gemini models share a
// vocabulary, so counts are close enough for budgeting history.
const TokenizerModel = "gemini-2.0-flash"

var _ tubechat.TokenCounter = (*TokenCounter)(nil)

// TokenCounter counts tokens using the Gemini tokenizer.
type TokenCounter struct {
	tok *tokenizer.LocalTokenizer
}

// NewTokenCounter creates a new TokenCounter for the given model, falling
// back to TokenizerModel if the model is not supported locally.
func NewTokenCounter(model string) (*TokenCounter, error) {
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil && model != TokenizerModel {
		tok, err = tokenizer.NewLocalTokenizer(TokenizerModel)
	}
	if err != nil {
		return nil, tubechat.Errorf(tubechat.EINTERNAL, "load tokenizer: %w", err)
	}
	return &TokenCounter{tok: tok}, nil
}

// CountTokens counts the number of tokens in the given text.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}

	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}

	result, err := tc.tok.CountTokens(contents, nil)
	if err != nil {
		return 0, err
	}

	return int(result.TotalTokens), nil
}
