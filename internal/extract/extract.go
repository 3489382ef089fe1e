// Package extract pulls structured job listings out of free-form provider text.
package extract

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/company-search/internal/model"
)

var (
	jsonFenceRe = regexp.MustCompile("(?s)```json(.*?)```")
	emailRe     = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
)

// JSONBlock returns the trimmed interior of the first ```json fenced block in
// text. The second return is false when no block exists or the block is
// blank; callers treat that as "no block found", not as malformed input.
func JSONBlock(text string) (string, bool) {
	m := jsonFenceRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	block := strings.TrimSpace(m[1])
	if block == "" {
		return "", false
	}
	return block, true
}

// EmailsAndDomains derives one listing per email address found in text, in
// order of appearance. Duplicates are kept. The company name is the full
// domain after the @, not a cleaned-up company name.
func EmailsAndDomains(text string) []model.JobListing {
	matches := emailRe.FindAllString(text, -1)
	listings := make([]model.JobListing, 0, len(matches))
	for _, email := range matches {
		_, domain, _ := strings.Cut(email, "@")
		listings = append(listings, model.JobListing{
			CompanyName:    domain,
			RecruiterEmail: email,
		})
	}
	return listings
}

// ParseListings decodes the listings in a normalizer JSON block. Field
// contents are not validated: a lone object is treated as a one-element
// array, non-string field values are rendered as text, and array elements
// that are not objects are skipped. Only text that is not JSON, or JSON that
// is neither an array nor an object, is an error.
func ParseListings(block string) ([]model.JobListing, error) {
	var raw json.RawMessage
	if err := json.Unmarshal([]byte(block), &raw); err != nil {
		return nil, eris.Wrap(err, "extract: parse listings")
	}

	var elems []json.RawMessage
	switch raw[0] {
	case '[':
		if err := json.Unmarshal(raw, &elems); err != nil {
			return nil, eris.Wrap(err, "extract: parse listings")
		}
	case '{':
		elems = []json.RawMessage{raw}
	case 'n':
		// null
	default:
		return nil, eris.Errorf("extract: parse listings: unexpected JSON value %.20s", raw)
	}

	listings := make([]model.JobListing, 0, len(elems))
	for _, elem := range elems {
		var fields map[string]any
		if err := json.Unmarshal(elem, &fields); err != nil || fields == nil {
			continue
		}
		listings = append(listings, model.JobListing{
			CompanyName:    fieldText(fields["company_name"]),
			RecruiterEmail: fieldText(fields["recruiter_email"]),
		})
	}
	return listings, nil
}

func fieldText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
