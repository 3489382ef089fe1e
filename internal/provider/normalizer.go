package provider

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/company-search/internal/model"
	"github.com/sells-group/company-search/pkg/gemini"
)

const normalizerSystemPrompt = `You are a strict JSON output generator.
You receive some text and must respond ONLY with valid JSON enclosed in triple backticks
(like ` + "```json ... ```" + `).
Outside of the triple backticks, do not provide any additional explanation.
Example: {"company_name": "Example Co", "recruiter_email": "hr@example.co"}`

// Normalizer asks the generative model to rewrite text as fenced JSON.
type Normalizer struct {
	newClient gemini.Factory
}

// NewNormalizer creates a Normalizer that builds one client per call.
func NewNormalizer(factory gemini.Factory) *Normalizer {
	return &Normalizer{newClient: factory}
}

// Normalize runs one chat turn with input against a client bound to apiKey.
// The key is used for this call only.
func (n *Normalizer) Normalize(ctx context.Context, apiKey, input string) (Result, error) {
	client, err := n.newClient(ctx, apiKey)
	if err != nil {
		return Result{}, eris.Wrap(err, "normalizer: build client")
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			zap.L().Debug("normalizer: close client", zap.Error(cerr))
		}
	}()

	resp, err := client.Chat(ctx, normalizerSystemPrompt, input)
	if err != nil {
		return Result{}, eris.Wrap(err, "normalizer: chat")
	}

	return Result{
		Text:  resp.Text,
		Model: resp.Model,
		Usage: model.TokenUsage{
			InputTokens:  resp.InputTokens,
			OutputTokens: resp.OutputTokens,
		},
	}, nil
}
