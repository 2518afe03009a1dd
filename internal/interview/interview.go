// Package interview pulls the interview questions candidates are most
// likely to face at a given company for a given role. Review sites are
// searched first; the oracle distills the raw hits into a short list.
package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"

	_ "embed"

	"go.uber.org/zap"

	"github.com/palassaha/SC2-Backend/internal/ai"
	"github.com/palassaha/SC2-Backend/internal/search"
)

//go:embed prompt_questions.md
var questionsPromptTemplate string

// Searcher finds public web results for a query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]search.Result, error)
}

// Questions is the distilled answer for one company and role.
type Questions struct {
	Company      string   `json:"company"`
	JobRole      string   `json:"job_role"`
	TopQuestions []string `json:"top_questions"`
}

// Fetcher runs the search-then-distill pipeline.
type Fetcher struct {
	generator ai.Generator
	searcher  Searcher
	logger    *zap.Logger
}

func New(generator ai.Generator, searcher Searcher, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Fetcher{
		generator: generator,
		searcher:  searcher,
		logger:    logger,
	}
}

// Fetch returns the top questions for the company and role. Unlike plan
// enrichment, a failed search here is a hard error: without the raw hits
// there is nothing to distill.
func (f *Fetcher) Fetch(ctx context.Context, company, role string) (*Questions, error) {
	company = strings.TrimSpace(company)
	role = strings.TrimSpace(role)
	if company == "" || role == "" {
		return nil, errors.New("company name and job role are required")
	}
	if f.generator == nil || f.searcher == nil {
		return nil, errors.New("interview fetcher is not configured")
	}

	query := fmt.Sprintf("%s %s interview questions site:glassdoor.com OR site:ambitionbox.com", company, role)

	results, err := f.searcher.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("question search: %w", err)
	}

	f.logger.Debug("question search done",
		zap.String("company", company),
		zap.String("role", role),
		zap.Int("results", len(results)),
	)

	prompt := buildQuestionsPrompt(company, role, results)

	raw, err := f.generator.GenerateContent(ctx, "", prompt)
	if err != nil {
		return nil, fmt.Errorf("questions oracle call: %w", err)
	}

	return parseQuestions(raw, company, role)
}

func buildQuestionsPrompt(company, role string, results []search.Result) string {
	replacer := strings.NewReplacer(
		"{{COMPANY}}", company,
		"{{ROLE}}", role,
		"{{SEARCH_RESULTS}}", formatResults(results),
	)
	return replacer.Replace(questionsPromptTemplate)
}

func formatResults(results []search.Result) string {
	if len(results) == 0 {
		return "No search results were available."
	}

	var b strings.Builder
	for i, result := range results {
		fmt.Fprintf(&b, "%d. %s\n%s\n%s\n\n", i+1, result.Title, result.URL, result.Snippet)
	}

	return strings.TrimSpace(b.String())
}

type rawQuestions struct {
	TopQuestions *[]string `json:"top_questions"`
}

// parseQuestions validates the oracle output. The company and role are
// echoed from the request, not taken from the model.
func parseQuestions(raw, company, role string) (*Questions, error) {
	var parsed rawQuestions
	if err := ai.DecodeJSON(raw, &parsed); err != nil {
		return nil, fmt.Errorf("questions response: %w", err)
	}
	if parsed.TopQuestions == nil {
		return nil, errors.New("questions response: top_questions missing")
	}

	questions := make([]string, 0, len(*parsed.TopQuestions))
	for _, q := range *parsed.TopQuestions {
		if q = strings.TrimSpace(q); q != "" {
			questions = append(questions, q)
		}
	}

	return &Questions{
		Company:      company,
		JobRole:      role,
		TopQuestions: questions,
	}, nil
}
