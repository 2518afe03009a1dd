package eligibility

import (
	"context"
	"fmt"
	"strings"

	"github.com/palassaha/SC2-Backend/internal/placement"
)

// branchWildcard opens an opportunity to every stream when present in the
// eligible branches list, any casing.
const branchWildcard = "all"

// Local is the deterministic rule evaluator. It is total: it never returns
// an error and never consults anything remote, so it can stand in for the
// oracle at any time.
type Local struct {
	aliases aliasTable
}

// NewLocal returns a rule evaluator backed by the built-in alias table.
func NewLocal() *Local {
	return &Local{aliases: defaultAliases}
}

// EvaluateCriteria checks the four hard criteria against the merged
// opportunity criteria. The returned error is always nil.
func (l *Local) EvaluateCriteria(_ context.Context, profile *placement.CandidateProfile, criteria *placement.OpportunityCriteria) (*placement.CriteriaVerdict, error) {
	return l.evaluateCriteria(profile, criteria), nil
}

// MatchSkills partitions the required skills into matched and missing. The
// returned error is always nil.
func (l *Local) MatchSkills(_ context.Context, candidateSkills, requiredSkills []string) ([]string, []string, error) {
	matched, missing := l.matchSkills(candidateSkills, requiredSkills)
	return matched, missing, nil
}

func (l *Local) evaluateCriteria(profile *placement.CandidateProfile, criteria *placement.OpportunityCriteria) *placement.CriteriaVerdict {
	return &placement.CriteriaVerdict{
		CGPA:     checkCGPA(profile.CGPA, criteria.MinCGPA),
		Backlogs: checkBacklogs(profile.ActiveBacklogs, criteria.MaxBacklogs),
		Course:   checkBranch(profile.Stream, criteria.Branches),
		Batch:    checkBatch(profile.Batch, criteria.Batches),
	}
}

func checkCGPA(cgpa, minCGPA float64) placement.CriterionResult {
	if cgpa >= minCGPA {
		return placement.CriterionResult{
			Status:  placement.StatusPass,
			Message: fmt.Sprintf("Your CGPA (%s) meets the minimum requirement (%s)", placement.FormatNumber(cgpa), placement.FormatNumber(minCGPA)),
		}
	}
	return placement.CriterionResult{
		Status:  placement.StatusFail,
		Message: fmt.Sprintf("Your CGPA (%s) is below the minimum requirement (%s)", placement.FormatNumber(cgpa), placement.FormatNumber(minCGPA)),
	}
}

func checkBacklogs(active, maxAllowed int) placement.CriterionResult {
	if active <= maxAllowed {
		return placement.CriterionResult{
			Status:  placement.StatusPass,
			Message: fmt.Sprintf("You have %d active backlog(s), within the allowed maximum (%d)", active, maxAllowed),
		}
	}
	return placement.CriterionResult{
		Status:  placement.StatusFail,
		Message: fmt.Sprintf("You have %d active backlog(s), exceeding the allowed maximum (%d)", active, maxAllowed),
	}
}

func checkBranch(stream string, branches []string) placement.CriterionResult {
	if len(branches) == 0 {
		return placement.CriterionResult{
			Status:  placement.StatusFail,
			Message: fmt.Sprintf("Your course (%s) cannot be checked: no eligible branches specified", stream),
		}
	}

	normalizedStream := strings.ToLower(strings.TrimSpace(stream))
	for _, branch := range branches {
		normalized := strings.ToLower(strings.TrimSpace(branch))
		if normalized == branchWildcard || (normalizedStream != "" && normalized == normalizedStream) {
			return placement.CriterionResult{
				Status:  placement.StatusPass,
				Message: fmt.Sprintf("Your course (%s) is eligible", stream),
			}
		}
	}

	return placement.CriterionResult{
		Status:  placement.StatusFail,
		Message: fmt.Sprintf("Your course (%s) is not in the eligible branches: %s", stream, strings.Join(branches, ", ")),
	}
}

func checkBatch(batch string, batches []string) placement.CriterionResult {
	if len(batches) == 0 {
		return placement.CriterionResult{
			Status:  placement.StatusFail,
			Message: fmt.Sprintf("Your batch (%s) cannot be checked: no eligible batches specified", batch),
		}
	}

	for _, eligible := range batches {
		if batch == strings.TrimSpace(eligible) {
			return placement.CriterionResult{
				Status:  placement.StatusPass,
				Message: fmt.Sprintf("Your batch (%s) is eligible", batch),
			}
		}
	}

	return placement.CriterionResult{
		Status:  placement.StatusFail,
		Message: fmt.Sprintf("Your batch (%s) is not eligible. Eligible batches: %s", batch, strings.Join(batches, ", ")),
	}
}

// matchSkills decides, for every required skill in order, whether the
// candidate has it. A required skill matches by exact equality first, then
// by alias relation, then by substring containment in either direction.
// Comparison is case-insensitive on trimmed names.
func (l *Local) matchSkills(candidateSkills, requiredSkills []string) ([]string, []string) {
	matched := make([]string, 0, len(requiredSkills))
	missing := make([]string, 0)

	normalized := make([]string, 0, len(candidateSkills))
	for _, skill := range candidateSkills {
		if s := strings.ToLower(strings.TrimSpace(skill)); s != "" {
			normalized = append(normalized, s)
		}
	}

	for _, required := range requiredSkills {
		if l.hasSkill(normalized, strings.ToLower(strings.TrimSpace(required))) {
			matched = append(matched, required)
		} else {
			missing = append(missing, required)
		}
	}

	return matched, missing
}

func (l *Local) hasSkill(candidateSkills []string, required string) bool {
	if required == "" {
		return false
	}

	for _, skill := range candidateSkills {
		if skill == required {
			return true
		}
	}

	for _, skill := range candidateSkills {
		if l.aliases.related(required, skill) {
			return true
		}
	}

	for _, skill := range candidateSkills {
		if strings.Contains(skill, required) || strings.Contains(required, skill) {
			return true
		}
	}

	return false
}
