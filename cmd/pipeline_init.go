package main

import (
	"time"

	"google.golang.org/api/option"

	"github.com/sells-group/company-search/internal/config"
	"github.com/sells-group/company-search/internal/cost"
	"github.com/sells-group/company-search/internal/pipeline"
	"github.com/sells-group/company-search/internal/provider"
	"github.com/sells-group/company-search/pkg/gemini"
	"github.com/sells-group/company-search/pkg/perplexity"
)

// initPipeline builds the search client from startup config and a Gemini
// factory that binds the caller's key per request.
func initPipeline(c *config.Config, mode string) (*pipeline.Pipeline, error) {
	if err := c.Validate(mode); err != nil {
		return nil, err
	}

	perplexityClient := perplexity.NewClient(c.Perplexity.Key,
		perplexity.WithBaseURL(c.Perplexity.BaseURL),
		perplexity.WithModel(c.Perplexity.Model),
		perplexity.WithTimeout(time.Duration(c.Perplexity.TimeoutSecs)*time.Second),
	)

	geminiOpts := []gemini.Option{gemini.WithModel(c.Gemini.Model)}
	if c.Gemini.Endpoint != "" {
		geminiOpts = append(geminiOpts, gemini.WithClientOptions(option.WithEndpoint(c.Gemini.Endpoint)))
	}

	return pipeline.New(
		provider.NewSearch(perplexityClient),
		provider.NewNormalizer(gemini.NewFactory(geminiOpts...)),
		cost.NewCalculator(c.Pricing),
	), nil
}
