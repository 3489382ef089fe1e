// Package provider adapts the hosted language models to the job-search
// pipeline. Each call returns a Result or an error; there is no nil-text
// signalling.
package provider

import (
	"github.com/sells-group/company-search/internal/model"
)

// Result is the text a provider produced along with its token usage.
type Result struct {
	Text  string
	Model string
	Usage model.TokenUsage
}
