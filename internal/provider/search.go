package provider

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/company-search/internal/model"
	"github.com/sells-group/company-search/pkg/perplexity"
)

const searchSystemPrompt = "You are a specialized job search assistant."

// Search queries the search-oriented model for free-text job listings.
type Search struct {
	client perplexity.Client
}

// NewSearch creates a Search backed by client.
func NewSearch(client perplexity.Client) *Search {
	return &Search{client: client}
}

// FetchJobListings sends prompt as the user turn and returns the first
// completion's content. Empty content is reported as an error.
func (s *Search) FetchJobListings(ctx context.Context, prompt string) (Result, error) {
	resp, err := s.client.ChatCompletion(ctx, perplexity.ChatCompletionRequest{
		Messages: []perplexity.Message{
			{Role: perplexity.RoleSystem, Content: searchSystemPrompt},
			{Role: perplexity.RoleUser, Content: prompt},
		},
	})
	if err != nil {
		return Result{}, eris.Wrap(err, "search: chat completion")
	}

	text, err := resp.Content()
	if err != nil {
		return Result{}, eris.Wrap(err, "search: read content")
	}
	if text == "" {
		return Result{}, eris.New("search: empty content")
	}

	return Result{
		Text:  text,
		Model: resp.Model,
		Usage: model.TokenUsage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}
