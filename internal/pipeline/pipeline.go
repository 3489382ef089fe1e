// Package pipeline runs the two-stage job-search extraction: a search model
// produces free text, a normalizer model rewrites it as fenced JSON, and a
// regex pass over the search text stands in when no JSON block comes back.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/company-search/internal/cost"
	"github.com/sells-group/company-search/internal/extract"
	"github.com/sells-group/company-search/internal/model"
	"github.com/sells-group/company-search/internal/provider"
)

// Phase names used in logs and results.
const (
	PhaseSearch    = "search"
	PhaseNormalize = "normalize"
	PhaseExtract   = "extract"
)

// Searcher fetches free-text job listings for a prompt.
type Searcher interface {
	FetchJobListings(ctx context.Context, prompt string) (provider.Result, error)
}

// Normalizer rewrites text as fenced JSON using a caller-supplied key.
type Normalizer interface {
	Normalize(ctx context.Context, apiKey, input string) (provider.Result, error)
}

// Result is the outcome of one pipeline run. Listings is never nil.
type Result struct {
	RunID    string              `json:"run_id"`
	Listings []model.JobListing  `json:"listings"`
	Source   model.ListingSource `json:"source"`
	Usage    model.TokenUsage    `json:"token_usage"`
	CostUSD  float64             `json:"cost_usd"`
	Phases   []model.PhaseResult `json:"phases"`
}

// Pipeline orchestrates the search and normalize providers.
type Pipeline struct {
	search     Searcher
	normalizer Normalizer
	costCalc   *cost.Calculator
}

// New creates a Pipeline. A nil calculator uses the default rates.
func New(search Searcher, normalizer Normalizer, costCalc *cost.Calculator) *Pipeline {
	if costCalc == nil {
		costCalc = cost.NewCalculator(cost.DefaultRates())
	}
	return &Pipeline{
		search:     search,
		normalizer: normalizer,
		costCalc:   costCalc,
	}
}

// Run executes one search for query. It never fails: provider and parse
// errors are logged and degrade to fewer or zero listings.
func (p *Pipeline) Run(ctx context.Context, query model.JobQuery) *Result {
	result := &Result{
		RunID:    uuid.NewString(),
		Listings: []model.JobListing{},
		Source:   model.ListingSourceNone,
	}
	log := zap.L().With(
		zap.String("run_id", result.RunID),
		zap.String("job_title", query.JobTitle),
		zap.String("location", query.Location),
	)
	log.Info("pipeline: starting job search")
	start := time.Now()
	defer func() {
		log.Info("pipeline: job search complete",
			zap.String("source", string(result.Source)),
			zap.Int("listings", len(result.Listings)),
			zap.Int("input_tokens", result.Usage.InputTokens),
			zap.Int("output_tokens", result.Usage.OutputTokens),
			zap.Float64("cost_usd", result.CostUSD),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	}()

	// Phase 1: search. Failure here ends the run.
	searchStart := time.Now()
	searchRes, err := p.search.FetchJobListings(ctx, buildSearchPrompt(query.JobTitle, query.Location, query.Experience))
	result.addPhase(PhaseSearch, searchStart, searchRes.Usage, err)
	if err != nil {
		log.Error("pipeline: search provider failed, stopping", zap.Error(err))
		result.skip(PhaseNormalize, PhaseExtract)
		return result
	}
	result.Usage.Add(searchRes.Usage)
	result.CostUSD += p.costCalc.Perplexity(searchRes.Usage)
	log.Debug("pipeline: search response", zap.Int("chars", len(searchRes.Text)))

	// Computed eagerly so it is ready whatever the normalizer does.
	fallback := extract.EmailsAndDomains(searchRes.Text)

	// Phase 2: normalize. Failure here is recovered by the fallback.
	normStart := time.Now()
	normRes, err := p.normalizer.Normalize(ctx, query.GeminiKey, buildNormalizePrompt(searchRes.Text))
	result.addPhase(PhaseNormalize, normStart, normRes.Usage, err)
	if err != nil {
		log.Warn("pipeline: normalizer failed, using fallback if needed", zap.Error(err))
	} else {
		result.Usage.Add(normRes.Usage)
		result.CostUSD += p.costCalc.Gemini(normRes.Model, normRes.Usage)
	}

	// Phase 3: extract.
	extractStart := time.Now()
	block, found := extract.JSONBlock(normRes.Text)
	if !found {
		log.Info("pipeline: no json block in normalizer output, using regex fallback",
			zap.Int("fallback_listings", len(fallback)),
		)
		result.Listings = fallback
		result.Source = model.ListingSourceFallback
		result.addPhase(PhaseExtract, extractStart, model.TokenUsage{}, nil)
		return result
	}

	listings, err := extract.ParseListings(block)
	result.addPhase(PhaseExtract, extractStart, model.TokenUsage{}, err)
	if err != nil {
		// A block that is present but invalid does not fall back.
		log.Error("pipeline: json block found but failed to parse", zap.Error(err))
		return result
	}

	result.Listings = listings
	result.Source = model.ListingSourceNormalizer
	return result
}

func (r *Result) addPhase(name string, start time.Time, usage model.TokenUsage, err error) {
	phase := model.PhaseResult{
		Name:       name,
		Status:     model.PhaseStatusComplete,
		Duration:   time.Since(start).Milliseconds(),
		TokenUsage: usage,
	}
	if err != nil {
		phase.Status = model.PhaseStatusFailed
		phase.Error = err.Error()
	}
	r.Phases = append(r.Phases, phase)
}

func (r *Result) skip(names ...string) {
	for _, name := range names {
		r.Phases = append(r.Phases, model.PhaseResult{Name: name, Status: model.PhaseStatusSkipped})
	}
}
