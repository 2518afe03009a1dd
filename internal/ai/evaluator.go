// Package ai adapts a natural-language oracle into the eligibility engine's
// evaluator contract: prompts in, validated verdicts out. A response is
// adopted all-or-nothing; anything structurally off is rejected so the
// caller can fall back to local rules.
package ai

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/palassaha/SC2-Backend/internal/logger"
	"github.com/palassaha/SC2-Backend/internal/placement"
)

//go:embed prompt_criteria.md
var criteriaPromptTemplate string

//go:embed prompt_skills.md
var skillsPromptTemplate string

// Generator produces one text completion for a system+user prompt pair.
type Generator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

const defaultMaxLogLength = 200

// RemoteEvaluator asks the oracle to judge criteria and skills. Each method
// performs exactly one oracle call; retries are not its business.
type RemoteEvaluator struct {
	generator Generator
	logger    *zap.Logger
	maxLogLen int
}

// NewRemoteEvaluator wraps a generator. maxLogLength caps prompt/response
// previews in debug logs.
func NewRemoteEvaluator(generator Generator, log *zap.Logger, maxLogLength int) *RemoteEvaluator {
	if log == nil {
		log = zap.NewNop()
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &RemoteEvaluator{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// EvaluateCriteria asks the oracle for the four hard criterion verdicts.
func (e *RemoteEvaluator) EvaluateCriteria(ctx context.Context, profile *placement.CandidateProfile, criteria *placement.OpportunityCriteria) (*placement.CriteriaVerdict, error) {
	if profile == nil {
		return nil, fmt.Errorf("candidate profile is required")
	}
	if criteria == nil {
		return nil, fmt.Errorf("opportunity criteria are required")
	}

	prompt := buildCriteriaPrompt(profile, criteria)

	e.logger.Debug("criteria oracle request",
		zap.String("candidate_id", profile.ID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, "", prompt)
	if err != nil {
		return nil, fmt.Errorf("criteria oracle call: %w", err)
	}

	e.logger.Debug("criteria oracle response",
		zap.String("candidate_id", profile.ID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, e.maxLogLen)),
	)

	return parseCriteriaResponse(raw)
}

// MatchSkills asks the oracle to partition the required skills and validates
// the partition against them.
func (e *RemoteEvaluator) MatchSkills(ctx context.Context, candidateSkills, requiredSkills []string) ([]string, []string, error) {
	prompt := buildSkillsPrompt(candidateSkills, requiredSkills)

	e.logger.Debug("skills oracle request",
		zap.Int("candidate_skills", len(candidateSkills)),
		zap.Int("required_skills", len(requiredSkills)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, "", prompt)
	if err != nil {
		return nil, nil, fmt.Errorf("skills oracle call: %w", err)
	}

	e.logger.Debug("skills oracle response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, e.maxLogLen)),
	)

	return parseSkillsResponse(raw, requiredSkills)
}

func buildCriteriaPrompt(profile *placement.CandidateProfile, criteria *placement.OpportunityCriteria) string {
	replacer := strings.NewReplacer(
		"{{NAME}}", orNA(profile.Name),
		"{{COURSE}}", orNA(profile.Course),
		"{{STREAM}}", orNA(profile.Stream),
		"{{BATCH}}", orNA(profile.Batch),
		"{{CGPA}}", placement.FormatNumber(profile.CGPA),
		"{{ACTIVE_BACKLOGS}}", fmt.Sprintf("%d", profile.ActiveBacklogs),
		"{{MIN_CGPA}}", placement.FormatNumber(criteria.MinCGPA),
		"{{BRANCHES}}", orNA(strings.Join(criteria.Branches, ", ")),
		"{{BATCHES}}", orNA(strings.Join(criteria.Batches, ", ")),
		"{{MAX_BACKLOGS}}", fmt.Sprintf("%d", criteria.MaxBacklogs),
	)
	return replacer.Replace(criteriaPromptTemplate)
}

func buildSkillsPrompt(candidateSkills, requiredSkills []string) string {
	replacer := strings.NewReplacer(
		"{{USER_SKILLS}}", strings.Join(candidateSkills, ", "),
		"{{REQUIRED_SKILLS}}", strings.Join(requiredSkills, ", "),
	)
	return replacer.Replace(skillsPromptTemplate)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

type rawCriterion struct {
	Status  *string `json:"status"`
	Message *string `json:"message"`
}

type rawCriteriaBundle struct {
	CGPA     *rawCriterion `json:"cgpa"`
	Course   *rawCriterion `json:"course"`
	Batch    *rawCriterion `json:"batch"`
	Backlogs *rawCriterion `json:"backlogs"`
	// The oracle also volunteers an overall verdict. It is decoded so the
	// field is tolerated, and then ignored: overall eligibility is always
	// recomputed from the criterion statuses.
	OverallEligible any `json:"overallEligible"`
}

func parseCriteriaResponse(raw string) (*placement.CriteriaVerdict, error) {
	var bundle rawCriteriaBundle
	if err := DecodeJSON(raw, &bundle); err != nil {
		return nil, fmt.Errorf("criteria response: %w", err)
	}

	verdict := &placement.CriteriaVerdict{}
	items := []struct {
		name   string
		raw    *rawCriterion
		target *placement.CriterionResult
	}{
		{"cgpa", bundle.CGPA, &verdict.CGPA},
		{"backlogs", bundle.Backlogs, &verdict.Backlogs},
		{"course", bundle.Course, &verdict.Course},
		{"batch", bundle.Batch, &verdict.Batch},
	}

	for _, item := range items {
		result, err := item.raw.toResult()
		if err != nil {
			return nil, fmt.Errorf("criteria response: %s: %w", item.name, err)
		}
		*item.target = result
	}

	return verdict, nil
}

func (c *rawCriterion) toResult() (placement.CriterionResult, error) {
	if c == nil {
		return placement.CriterionResult{}, fmt.Errorf("criterion object missing")
	}
	if c.Status == nil {
		return placement.CriterionResult{}, fmt.Errorf("status missing")
	}

	status, ok := placement.ParseStatus(*c.Status)
	if !ok || status == placement.StatusPartial {
		return placement.CriterionResult{}, fmt.Errorf("unrecognized status %q", *c.Status)
	}

	if c.Message == nil {
		return placement.CriterionResult{}, fmt.Errorf("message missing")
	}

	return placement.CriterionResult{Status: status, Message: strings.TrimSpace(*c.Message)}, nil
}

type rawSkillsBundle struct {
	MatchedSkills *[]string `json:"matchedSkills"`
	MissingSkills *[]string `json:"missingSkills"`
}

func parseSkillsResponse(raw string, requiredSkills []string) ([]string, []string, error) {
	var bundle rawSkillsBundle
	if err := DecodeJSON(raw, &bundle); err != nil {
		return nil, nil, fmt.Errorf("skills response: %w", err)
	}

	if bundle.MatchedSkills == nil || bundle.MissingSkills == nil {
		return nil, nil, fmt.Errorf("skills response: matchedSkills and missingSkills are both required")
	}

	return canonicalizeSkillPartition(requiredSkills, *bundle.MatchedSkills, *bundle.MissingSkills)
}

// canonicalizeSkillPartition checks that the oracle's matched/missing lists
// form an exact partition of the required skills (case- and
// whitespace-insensitive, duplicates counted per occurrence) and rebuilds
// both lists in required order with the original spellings. When the oracle
// legitimately puts duplicate occurrences on both sides, matched wins first.
func canonicalizeSkillPartition(required, matched, missing []string) ([]string, []string, error) {
	occurrences := make(map[string]int, len(required))
	for _, skill := range required {
		occurrences[normalizeSkill(skill)]++
	}

	matchedCount := make(map[string]int, len(matched))
	for _, skill := range matched {
		key := normalizeSkill(skill)
		if _, ok := occurrences[key]; !ok {
			return nil, nil, fmt.Errorf("skills response: matched skill %q is not a required skill", skill)
		}
		matchedCount[key]++
	}

	missingCount := make(map[string]int, len(missing))
	for _, skill := range missing {
		key := normalizeSkill(skill)
		if _, ok := occurrences[key]; !ok {
			return nil, nil, fmt.Errorf("skills response: missing skill %q is not a required skill", skill)
		}
		missingCount[key]++
	}

	for key, total := range occurrences {
		if got := matchedCount[key] + missingCount[key]; got != total {
			return nil, nil, fmt.Errorf("skills response: required skill %q assigned %d time(s), expected %d", key, got, total)
		}
	}

	canonicalMatched := make([]string, 0, len(required))
	canonicalMissing := make([]string, 0)

	for _, skill := range required {
		key := normalizeSkill(skill)
		if matchedCount[key] > 0 {
			matchedCount[key]--
			canonicalMatched = append(canonicalMatched, skill)
			continue
		}
		missingCount[key]--
		canonicalMissing = append(canonicalMissing, skill)
	}

	return canonicalMatched, canonicalMissing, nil
}

func normalizeSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
