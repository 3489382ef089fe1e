// Package gemini wraps the Google generative AI SDK behind a small chat API.
// A Client is bound to one API key; build a new one for each caller key.
package gemini

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rotisserie/eris"
	"google.golang.org/api/option"
)

const defaultModel = "gemini-2.0-flash"

// Client sends single-turn chat messages to a Gemini model.
type Client interface {
	Chat(ctx context.Context, systemInstruction, message string) (*ChatResponse, error)
	Close() error
}

// Factory builds a Client for the given API key.
type Factory func(ctx context.Context, apiKey string) (Client, error)

// ChatResponse is the text reply plus token accounting.
type ChatResponse struct {
	Text         string
	Model        string
	InputTokens  int
	OutputTokens int
}

// Option configures the client.
type Option func(*sdkClient)

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(c *sdkClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithClientOptions appends raw SDK client options, e.g. a custom endpoint.
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(c *sdkClient) {
		c.extra = append(c.extra, opts...)
	}
}

type sdkClient struct {
	sdk   *genai.Client
	model string
	extra []option.ClientOption
}

// NewClient creates a Gemini client bound to apiKey.
func NewClient(ctx context.Context, apiKey string, opts ...Option) (Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, eris.New("gemini: api key is required")
	}

	c := &sdkClient{model: defaultModel}
	for _, o := range opts {
		o(c)
	}

	clientOpts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, c.extra...)
	sdk, err := genai.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, eris.Wrap(err, "gemini: create client")
	}
	c.sdk = sdk
	return c, nil
}

// NewFactory returns a Factory that applies opts to every client it builds.
func NewFactory(opts ...Option) Factory {
	return func(ctx context.Context, apiKey string) (Client, error) {
		return NewClient(ctx, apiKey, opts...)
	}
}

// Chat opens a fresh chat session, sends message as the user turn and returns
// the model's text.
func (c *sdkClient) Chat(ctx context.Context, systemInstruction, message string) (*ChatResponse, error) {
	model := c.sdk.GenerativeModel(c.model)
	if systemInstruction != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(systemInstruction))
	}

	cs := model.StartChat()
	resp, err := cs.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return nil, eris.Wrap(err, "gemini: send message")
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}

	out := &ChatResponse{Text: text, Model: c.model}
	if resp.UsageMetadata != nil {
		out.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		out.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	return out, nil
}

func (c *sdkClient) Close() error {
	if c.sdk == nil {
		return nil
	}
	if err := c.sdk.Close(); err != nil {
		return eris.Wrap(err, "gemini: close client")
	}
	return nil
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", eris.New("gemini: no candidates in response")
	}
	cand := resp.Candidates[0]
	if cand.Content == nil {
		return "", eris.Errorf("gemini: empty candidate (finish reason %s)", cand.FinishReason)
	}

	var b strings.Builder
	for _, part := range cand.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String(), nil
}
