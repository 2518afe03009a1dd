package placement

import (
	"encoding/json"
	"fmt"
	"os"
)

// Status is the verdict of a single eligibility criterion.
type Status string

const (
	StatusPass    Status = "pass"
	StatusFail    Status = "fail"
	StatusPartial Status = "partial"
)

// ParseStatus maps free-form status text to a Status. The second return
// value reports whether the text was recognized.
func ParseStatus(s string) (Status, bool) {
	switch Status(normalizeToken(s)) {
	case StatusPass:
		return StatusPass, true
	case StatusFail:
		return StatusFail, true
	case StatusPartial:
		return StatusPartial, true
	}
	return "", false
}

// CriterionResult is the verdict for one hard criterion (cgpa, backlogs,
// course or batch) inside an eligibility breakdown.
type CriterionResult struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
}

func (r CriterionResult) Passed() bool { return r.Status == StatusPass }

// CriteriaVerdict groups the four hard criterion verdicts of one evaluation.
// Skills are kept separate: they never gate overall eligibility.
type CriteriaVerdict struct {
	CGPA     CriterionResult
	Backlogs CriterionResult
	Course   CriterionResult
	Batch    CriterionResult
}

// Eligible reports whether every hard criterion passed.
func (v *CriteriaVerdict) Eligible() bool {
	return v.CGPA.Passed() && v.Backlogs.Passed() && v.Course.Passed() && v.Batch.Passed()
}

// SkillsResult is the three-way outcome of matching required skills against
// a candidate's skills. MatchedSkills and MissingSkills together always hold
// exactly the required skills, in their original order and spelling.
type SkillsResult struct {
	Status        Status   `json:"status"`
	Message       string   `json:"message"`
	MatchedSkills []string `json:"matchedSkills"`
	MissingSkills []string `json:"missingSkills"`
}

// NewSkillsResult derives the status and message from a matched/missing
// partition of the required skills.
func NewSkillsResult(matched, missing []string) SkillsResult {
	if matched == nil {
		matched = []string{}
	}
	if missing == nil {
		missing = []string{}
	}

	total := len(matched) + len(missing)
	if total == 0 {
		return SkillsResult{
			Status:        StatusPass,
			Message:       "No specific skills required",
			MatchedSkills: matched,
			MissingSkills: missing,
		}
	}

	result := SkillsResult{MatchedSkills: matched, MissingSkills: missing}
	switch {
	case len(missing) == 0:
		result.Status = StatusPass
		result.Message = fmt.Sprintf("All %d required skills matched", total)
	case len(matched) == 0:
		result.Status = StatusFail
		result.Message = fmt.Sprintf("None of the %d required skills matched", total)
	default:
		result.Status = StatusPartial
		result.Message = fmt.Sprintf("%d out of %d required skills matched", len(matched), total)
	}

	return result
}

// Breakdown is the per-criterion section of an eligibility report. Field
// order is part of the response contract.
type Breakdown struct {
	CGPA     CriterionResult `json:"cgpa"`
	Backlogs CriterionResult `json:"backlogs"`
	Course   CriterionResult `json:"course"`
	Batch    CriterionResult `json:"batch"`
	Skills   SkillsResult    `json:"skills"`
}

// CandidateProfile is the normalized view of the raw "user" payload object.
type CandidateProfile struct {
	ID             string
	Name           string
	Course         string
	Stream         string
	Batch          string
	Institute      string
	CGPA           float64
	ActiveBacklogs int
	SkillsCount    int
	// Skills holds the extracted skill names in input order, empty names
	// dropped. RawSkills keeps the list exactly as received so reports can
	// echo it back untouched.
	Skills    []string
	RawSkills []any
}

// OpportunityCriteria is the merged criteria+eligibility view of a post.
type OpportunityCriteria struct {
	MinCGPA        float64
	Branches       []string
	Batches        []string
	MaxBacklogs    int
	RequiredSkills []string
}

// Post carries the two loosely typed config blocks of an opportunity.
type Post struct {
	Criteria    map[string]any `json:"criteria"`
	Eligibility map[string]any `json:"eligibility"`
}

// Payload is one evaluation request: a candidate and the post to check
// against. Both blocks stay loosely typed until normalization.
type Payload struct {
	User map[string]any `json:"user"`
	Post Post           `json:"post"`
}

// EligibilityReport is the full evaluation response. It echoes the candidate
// identity, carries the overall verdict with its per-criterion breakdown and
// the generated recommendations.
type EligibilityReport struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Course          string    `json:"course"`
	Stream          string    `json:"stream"`
	Batch           string    `json:"batch"`
	Institute       string    `json:"institute"`
	AvgCGPA         float64   `json:"avg_cgpa"`
	ActiveBacklogs  int       `json:"activeBacklogs"`
	SkillsCount     int       `json:"skillsCount"`
	Skills          []any     `json:"skills"`
	IsEligible      bool      `json:"isEligible"`
	Breakdown       Breakdown `json:"breakdown"`
	Recommendations []string  `json:"recommendations"`
}

// DumpToTmpFile writes the report as indented JSON to a temporary file and
// returns its name.
func (r *EligibilityReport) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "eligibility_report_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return file.Name(), nil
}
