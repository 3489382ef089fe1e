package pipeline

import "fmt"

// listingCount is how many openings the search provider is asked for.
const listingCount = 20

const searchPrompt = `List %d job openings for the position of %s in %s with %s year of experience from today.
Each job listing must include:
- company_name (Required. If unavailable, use the company's domain name.)
- recruiter_email (Required, do NOT omit email. Use the official company HR email if needed.)

IMPORTANT:
- [
  {"company_name": "Example Co", "recruiter_email": "hr@example.co"},
  ...
  ]
- Every job listing MUST contain an email from the company's website.
- If the recruiter email is unavailable, use the official HR email.
- DO NOT return jobs without an email.
- Return only a JSON array with no extra text.`

const normalizePrompt = `You are a strict JSON output generator.
You receive some text from a job search assistant.
You must respond ONLY with valid JSON enclosed in triple backticks
(like ` + "```json ... ```" + `).
Outside of the triple backticks, do not provide any additional explanation.
Return an array of objects in this format:
[
  {"company_name": "Example Co", "recruiter_email": "hr@example.co"},
  ...
]
No duplicates, no extraneous text.
%s`

func buildSearchPrompt(jobTitle, location, experience string) string {
	return fmt.Sprintf(searchPrompt, listingCount, jobTitle, location, experience)
}

func buildNormalizePrompt(searchText string) string {
	return fmt.Sprintf(normalizePrompt, searchText)
}
