// Package summarizer structures a raw placement-drive posting into the
// fixed nine-field summary downstream consumers expect.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	_ "embed"

	"go.uber.org/zap"

	"github.com/palassaha/SC2-Backend/internal/ai"
	"github.com/palassaha/SC2-Backend/internal/placement"
)

//go:embed prompt_system.md
var systemPrompt string

//go:embed prompt_extract.md
var extractPromptTemplate string

// Summary is the structured form of one posting. Every field is a
// string; the extractor stringifies whatever the oracle returns. The
// "skill requirements" key keeps its space because existing consumers
// read it that way.
type Summary struct {
	CompanyName       string `json:"company_name"`
	JobTitle          string `json:"job_title"`
	JobDescription    string `json:"job_description"`
	Summarization     string `json:"summarization"`
	JobRole           string `json:"job_role"`
	Duration          string `json:"duration"`
	SkillRequirements string `json:"skill requirements"`
	Criteria          string `json:"criteria"`
	CTC               string `json:"ctc"`
}

type Summarizer struct {
	generator ai.Generator
	logger    *zap.Logger
}

func New(generator ai.Generator, logger *zap.Logger) *Summarizer {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Summarizer{
		generator: generator,
		logger:    logger,
	}
}

// Summarize extracts the nine summary fields from the posting text.
func (s *Summarizer) Summarize(ctx context.Context, postText string) (*Summary, error) {
	postText = strings.TrimSpace(postText)
	if postText == "" {
		return nil, errors.New("post text must not be empty")
	}
	if s.generator == nil {
		return nil, errors.New("summarizer is not configured")
	}

	prompt := strings.ReplaceAll(extractPromptTemplate, "{{POST_TEXT}}", postText)

	raw, err := s.generator.GenerateContent(ctx, systemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("summary oracle call: %w", err)
	}

	var fields map[string]any
	if err := ai.DecodeJSON(raw, &fields); err != nil {
		return nil, fmt.Errorf("summary response: %w", err)
	}

	summary := harden(fields)

	s.logger.Debug("post summarized",
		zap.String("company", summary.CompanyName),
		zap.String("title", summary.JobTitle),
	)

	return summary, nil
}

// harden fills every summary field, stringifying loose values and
// defaulting missing keys to the empty string.
func harden(fields map[string]any) *Summary {
	get := func(key string) string {
		return placement.ToString(fields[key])
	}

	return &Summary{
		CompanyName:       get("company_name"),
		JobTitle:          get("job_title"),
		JobDescription:    get("job_description"),
		Summarization:     get("summarization"),
		JobRole:           get("job_role"),
		Duration:          get("duration"),
		SkillRequirements: get("skill requirements"),
		Criteria:          get("criteria"),
		CTC:               get("ctc"),
	}
}
