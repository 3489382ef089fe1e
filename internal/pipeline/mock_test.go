package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/company-search/internal/provider"
)

// --- Searcher Mock ---

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) FetchJobListings(ctx context.Context, prompt string) (provider.Result, error) {
	args := m.Called(ctx, prompt)
	return args.Get(0).(provider.Result), args.Error(1)
}

// --- Normalizer Mock ---

type mockNormalizer struct {
	mock.Mock
}

func (m *mockNormalizer) Normalize(ctx context.Context, apiKey, input string) (provider.Result, error) {
	args := m.Called(ctx, apiKey, input)
	return args.Get(0).(provider.Result), args.Error(1)
}
