// Package resume scores a resume against an opportunity's required
// skills. The oracle judges each skill; when it cannot, every skill
// counts as unmatched rather than failing the request.
package resume

import (
	"context"
	"errors"
	"math"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/palassaha/SC2-Backend/internal/ai"
)

//go:embed prompt_match.md
var matchPromptTemplate string

// Analysis is the per-skill verdict plus summary statistics.
type Analysis struct {
	SkillsMatch     map[string]bool `json:"skills_match"`
	TotalSkills     int             `json:"total_skills"`
	MatchedSkills   int             `json:"matched_skills"`
	MatchPercentage float64         `json:"match_percentage"`
	ResumeLength    int             `json:"resume_content_length"`
}

type Analyzer struct {
	generator ai.Generator
	logger    *zap.Logger
}

func New(generator ai.Generator, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Analyzer{
		generator: generator,
		logger:    logger,
	}
}

// Analyze matches the resume against the required skills. Every
// requested skill appears in the result, matched or not.
func (a *Analyzer) Analyze(ctx context.Context, content string, skills []string) (*Analysis, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.New("resume content must not be empty")
	}

	required := cleanSkills(skills)
	if len(required) == 0 {
		return nil, errors.New("at least one required skill is needed")
	}

	if a.generator == nil {
		return nil, errors.New("resume analyzer is not configured")
	}

	matches := a.matchSkills(ctx, content, required)

	matched := 0
	for _, ok := range matches {
		if ok {
			matched++
		}
	}

	percentage := float64(matched) / float64(len(required)) * 100

	return &Analysis{
		SkillsMatch:     matches,
		TotalSkills:     len(required),
		MatchedSkills:   matched,
		MatchPercentage: math.Round(percentage*100) / 100,
		ResumeLength:    utf8.RuneCountInString(content),
	}, nil
}

// matchSkills asks the oracle for the per-skill verdicts. Any failure
// degrades to an all-false map.
func (a *Analyzer) matchSkills(ctx context.Context, content string, required []string) map[string]bool {
	prompt := buildMatchPrompt(content, required)

	raw, err := a.generator.GenerateContent(ctx, "", prompt)
	if err != nil {
		a.logger.Warn("resume oracle failed, marking all skills unmatched", zap.Error(err))
		return allUnmatched(required)
	}

	var verdicts map[string]any
	if err := ai.DecodeJSON(raw, &verdicts); err != nil {
		a.logger.Warn("resume oracle response unusable, marking all skills unmatched", zap.Error(err))
		return allUnmatched(required)
	}

	matches := make(map[string]bool, len(required))
	for _, skill := range required {
		value, _ := verdicts[skill].(bool)
		matches[skill] = value
	}

	return matches
}

func buildMatchPrompt(content string, required []string) string {
	replacer := strings.NewReplacer(
		"{{RESUME_CONTENT}}", content,
		"{{REQUIRED_SKILLS}}", strings.Join(required, ", "),
	)
	return replacer.Replace(matchPromptTemplate)
}

func cleanSkills(skills []string) []string {
	cleaned := make([]string, 0, len(skills))
	for _, skill := range skills {
		if skill = strings.TrimSpace(skill); skill != "" {
			cleaned = append(cleaned, skill)
		}
	}
	return cleaned
}

func allUnmatched(required []string) map[string]bool {
	matches := make(map[string]bool, len(required))
	for _, skill := range required {
		matches[skill] = false
	}
	return matches
}
