package eligibility

import (
	"fmt"
	"strings"

	"github.com/palassaha/SC2-Backend/internal/placement"
)

// buildRecommendations assembles candidate-facing guidance in a fixed order:
// cgpa, backlogs, course, batch, skills, then the closing block. Each failed
// concern contributes exactly one entry, and ineligible candidates always
// get at least one.
func buildRecommendations(verdict *placement.CriteriaVerdict, skills placement.SkillsResult, criteria *placement.OpportunityCriteria, eligible bool) []string {
	recommendations := make([]string, 0, 4)

	if !verdict.CGPA.Passed() {
		recommendations = append(recommendations, fmt.Sprintf("Improve your CGPA to at least %s", placement.FormatNumber(criteria.MinCGPA)))
	}

	if !verdict.Backlogs.Passed() {
		recommendations = append(recommendations, "Clear your active backlogs before applying")
	}

	if !verdict.Course.Passed() {
		recommendations = append(recommendations, fmt.Sprintf("This opportunity is only for %s branches", strings.Join(criteria.Branches, ", ")))
	}

	if !verdict.Batch.Passed() {
		recommendations = append(recommendations, fmt.Sprintf("This opportunity is only for %s batch", strings.Join(criteria.Batches, ", ")))
	}

	switch skills.Status {
	case placement.StatusFail:
		if len(skills.MissingSkills) > 0 {
			recommendations = append(recommendations, fmt.Sprintf("Consider developing skills in: %s to strengthen your profile", strings.Join(skills.MissingSkills, ", ")))
		}
	case placement.StatusPartial:
		if len(skills.MissingSkills) > 0 {
			recommendations = append(recommendations, fmt.Sprintf("Consider developing additional skills in: %s", strings.Join(skills.MissingSkills, ", ")))
		}
	}

	if eligible {
		recommendations = append(recommendations,
			"You are eligible! Prepare well for the selection process",
			"Review the job description and company information thoroughly",
		)
		switch skills.Status {
		case placement.StatusPass:
			recommendations = append(recommendations, "Your skills align well with the requirements")
		case placement.StatusPartial:
			recommendations = append(recommendations, "You have some of the desired skills - highlight them in your application")
		}
	} else {
		recommendations = append(recommendations, "Focus on meeting the basic eligibility criteria before applying")
	}

	return recommendations
}
