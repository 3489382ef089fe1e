package main

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/company-search/internal/config"
	"github.com/sells-group/company-search/internal/model"
)

var (
	searchTitle      string
	searchLocation   string
	searchExperience string
	searchGeminiKey  string
	searchVerbose    bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run one job search and print the listings as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		query, err := searchQuery(cfg)
		if err != nil {
			return err
		}

		p, err := initPipeline(cfg, "search")
		if err != nil {
			return err
		}

		result := p.Run(cmd.Context(), query)
		if searchVerbose {
			return printJSON(cmd.OutOrStdout(), result)
		}
		return printJSON(cmd.OutOrStdout(), result.Listings)
	},
}

// searchQuery builds the query from flags. The Gemini key falls back to the
// search.gemini_key config value.
func searchQuery(c *config.Config) (model.JobQuery, error) {
	query := model.JobQuery{
		JobTitle:   searchTitle,
		Location:   searchLocation,
		Experience: searchExperience,
		GeminiKey:  searchGeminiKey,
	}
	if query.GeminiKey == "" && c != nil {
		query.GeminiKey = c.Search.GeminiKey
	}
	if msg := query.MissingField(); msg != "" {
		return model.JobQuery{}, eris.New(msg)
	}
	return query, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "search: encode output")
	}
	return nil
}

func init() {
	searchCmd.Flags().StringVar(&searchTitle, "title", "", "job title to search for")
	searchCmd.Flags().StringVar(&searchLocation, "location", "", "job location, e.g. Remote")
	searchCmd.Flags().StringVar(&searchExperience, "experience", "", "years of experience")
	searchCmd.Flags().StringVar(&searchGeminiKey, "gemini-key", "", "Gemini API key (default search.gemini_key, $GEMINI_API_KEY)")
	searchCmd.Flags().BoolVar(&searchVerbose, "verbose", false, "print the full run result including phases and cost")
	rootCmd.AddCommand(searchCmd)
}
