package planner

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/palassaha/SC2-Backend/internal/placement"
)

// Request carries the candidate and opportunity context a plan is built
// from.
type Request struct {
	Course             string
	Stream             string
	CGPA               float64
	ActiveBacklogs     int
	Skills             []string
	Company            string
	Role               string
	CTC                string
	ApplicationProcess []string
	CriteriaSkills     []string
}

type rawPlanRequest struct {
	Course             any            `json:"course"`
	Stream             any            `json:"stream"`
	CGPA               any            `json:"avg_cgpa"`
	ActiveBacklogs     any            `json:"activeBacklogs"`
	Skills             []any          `json:"skills"`
	Company            any            `json:"company"`
	Role               any            `json:"role"`
	CTC                any            `json:"ctc"`
	ApplicationProcess any            `json:"applicationProcess"`
	Criteria           map[string]any `json:"criteria"`
}

// DecodeRequest shapes an untyped payload into a Request, coercing the
// loosely typed fields the portal sends. Skills may be plain strings or
// {"name": …} objects.
func DecodeRequest(payload map[string]any) (*Request, error) {
	var raw rawPlanRequest

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &raw,
		TagName: "json",
	})
	if err != nil {
		return nil, fmt.Errorf("build payload decoder: %w", err)
	}
	if err := decoder.Decode(payload); err != nil {
		return nil, fmt.Errorf("decode plan request: %w", err)
	}

	req := &Request{
		Course:             placement.ToString(raw.Course),
		Stream:             placement.ToString(raw.Stream),
		CGPA:               placement.ToNumber(raw.CGPA),
		ActiveBacklogs:     placement.ToInt(raw.ActiveBacklogs),
		Skills:             placement.SkillNames(raw.Skills),
		Company:            placement.ToString(raw.Company),
		Role:               placement.ToString(raw.Role),
		CTC:                placement.ToString(raw.CTC),
		ApplicationProcess: placement.StringList(raw.ApplicationProcess),
	}

	if raw.Criteria != nil {
		req.CriteriaSkills = placement.StringList(raw.Criteria["skills"])
	}

	return req, nil
}
