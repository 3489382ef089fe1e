package provider

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/company-search/pkg/gemini"
	"github.com/sells-group/company-search/pkg/perplexity"
)

// --- Perplexity Mock ---

type mockPerplexityClient struct {
	mock.Mock
}

func (m *mockPerplexityClient) ChatCompletion(ctx context.Context, req perplexity.ChatCompletionRequest) (*perplexity.ChatCompletionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*perplexity.ChatCompletionResponse), args.Error(1)
}

// --- Gemini Mock ---

type mockGeminiClient struct {
	mock.Mock
}

func (m *mockGeminiClient) Chat(ctx context.Context, systemInstruction, message string) (*gemini.ChatResponse, error) {
	args := m.Called(ctx, systemInstruction, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gemini.ChatResponse), args.Error(1)
}

func (m *mockGeminiClient) Close() error {
	args := m.Called()
	return args.Error(0)
}
