package placement

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// rawUser is the loosely typed shape of the "user" payload object. Numeric
// fields arrive as numbers, numeric strings or free-form text, so everything
// lands in any and goes through normalization afterwards.
type rawUser struct {
	ID             any `json:"id"`
	Name           any `json:"name"`
	Course         any `json:"course"`
	Stream         any `json:"stream"`
	Batch          any `json:"batch"`
	Institute      any `json:"institute"`
	AvgCGPA        any `json:"avg_cgpa"`
	ActiveBacklogs any `json:"activeBacklogs"`
	SkillsCount    any `json:"skillsCount"`
	Skills         any `json:"skills"`
}

// BuildProfile normalizes the raw user object into a candidate profile.
// Missing fields become zero values; the profile is always usable.
func BuildProfile(user map[string]any) (*CandidateProfile, error) {
	var raw rawUser

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &raw,
		TagName: "json",
	})
	if err != nil {
		return nil, fmt.Errorf("build user decoder: %w", err)
	}

	if err := decoder.Decode(user); err != nil {
		return nil, fmt.Errorf("decode user object: %w", err)
	}

	rawSkills := skillItems(raw.Skills)

	return &CandidateProfile{
		ID:             ToString(raw.ID),
		Name:           ToString(raw.Name),
		Course:         ToString(raw.Course),
		Stream:         ToString(raw.Stream),
		Batch:          ToString(raw.Batch),
		Institute:      ToString(raw.Institute),
		CGPA:           ToNumber(raw.AvgCGPA),
		ActiveBacklogs: ToInt(raw.ActiveBacklogs),
		SkillsCount:    ToInt(raw.SkillsCount),
		Skills:         SkillNames(rawSkills),
		RawSkills:      rawSkills,
	}, nil
}

// skillItems tolerates a scalar where a skills list is expected.
func skillItems(v any) []any {
	switch val := v.(type) {
	case nil:
		return []any{}
	case []any:
		return val
	default:
		return []any{v}
	}
}

// MergeCriteria resolves the two overlapping config blocks of a post into a
// single view. The recruiter-facing eligibility block wins for the minimum
// CGPA and owns branch/batch restrictions; the structured criteria block
// owns the backlog allowance and required skills. The minimum CGPA falls
// back to criteria.cgpa when eligibility does not set it.
func MergeCriteria(criteria, eligibility map[string]any) *OpportunityCriteria {
	if criteria == nil {
		criteria = map[string]any{}
	}
	if eligibility == nil {
		eligibility = map[string]any{}
	}

	minCGPA := 0.0
	if v, ok := eligibility["minCGPA"]; ok {
		minCGPA = ToNumber(v)
	} else if v, ok := criteria["cgpa"]; ok {
		minCGPA = ToNumber(v)
	}

	return &OpportunityCriteria{
		MinCGPA:        minCGPA,
		Branches:       StringList(eligibility["branches"]),
		Batches:        StringList(eligibility["batch"]),
		MaxBacklogs:    ToInt(criteria["backlogs"]),
		RequiredSkills: StringList(criteria["skills"]),
	}
}
