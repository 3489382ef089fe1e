package cost

import "github.com/sells-group/company-search/internal/model"

// Rates holds per-provider pricing configuration.
type Rates struct {
	Perplexity PerplexityRate `yaml:"perplexity" mapstructure:"perplexity"`
	Gemini     []ModelRate    `yaml:"gemini" mapstructure:"gemini"`
}

// ModelRate holds per-model token pricing (per million tokens).
type ModelRate struct {
	Model  string  `yaml:"model" mapstructure:"model"`
	Input  float64 `yaml:"input" mapstructure:"input"`
	Output float64 `yaml:"output" mapstructure:"output"`
}

// PerplexityRate holds Perplexity pricing: a flat request fee plus tokens.
type PerplexityRate struct {
	PerQuery float64 `yaml:"per_query" mapstructure:"per_query"`
	Input    float64 `yaml:"input" mapstructure:"input"`
	Output   float64 `yaml:"output" mapstructure:"output"`
}

// Calculator computes costs for API usage.
type Calculator struct {
	rates  Rates
	gemini map[string]ModelRate
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates Rates) *Calculator {
	byModel := make(map[string]ModelRate, len(rates.Gemini))
	for _, r := range rates.Gemini {
		byModel[r.Model] = r
	}
	return &Calculator{rates: rates, gemini: byModel}
}

// Perplexity computes the cost of one search query.
func (c *Calculator) Perplexity(usage model.TokenUsage) float64 {
	r := c.rates.Perplexity
	return r.PerQuery + perMillion(usage.InputTokens, r.Input) + perMillion(usage.OutputTokens, r.Output)
}

// Gemini computes the cost of one normalizer call. Unknown models cost zero.
func (c *Calculator) Gemini(modelName string, usage model.TokenUsage) float64 {
	rate, ok := c.gemini[modelName]
	if !ok {
		return 0
	}
	return perMillion(usage.InputTokens, rate.Input) + perMillion(usage.OutputTokens, rate.Output)
}

func perMillion(tokens int, rate float64) float64 {
	return (float64(tokens) / 1e6) * rate
}

// DefaultRates returns the default pricing rates.
func DefaultRates() Rates {
	return Rates{
		Perplexity: PerplexityRate{PerQuery: 0.006, Input: 2.00, Output: 8.00},
		Gemini: []ModelRate{
			{Model: "gemini-2.0-flash", Input: 0.10, Output: 0.40},
			{Model: "gemini-2.0-flash-lite", Input: 0.075, Output: 0.30},
			{Model: "gemini-1.5-pro", Input: 1.25, Output: 5.00},
		},
	}
}
