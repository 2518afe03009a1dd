package ai

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/palassaha/SC2-Backend/internal/placement"
)

type stubGenerator struct {
	response    string
	err         error
	lastSystem  string
	lastMessage string
}

func (s *stubGenerator) GenerateContent(_ context.Context, system, message string) (string, error) {
	s.lastSystem = system
	s.lastMessage = message
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func sampleProfile() *placement.CandidateProfile {
	return &placement.CandidateProfile{
		ID:             "stu-42",
		Name:           "Asha",
		Course:         "B.Tech",
		Stream:         "CSE",
		Batch:          "2026",
		CGPA:           8.5,
		ActiveBacklogs: 0,
	}
}

func sampleCriteria() *placement.OpportunityCriteria {
	return &placement.OpportunityCriteria{
		MinCGPA:     7,
		Branches:    []string{"CSE", "IT"},
		Batches:     []string{"2026"},
		MaxBacklogs: 0,
	}
}

const validCriteriaResponse = `{
  "cgpa": {"status": "pass", "message": "CGPA 8.5 meets the 7.0 minimum"},
  "course": {"status": "pass", "message": "CSE is an eligible branch"},
  "batch": {"status": "pass", "message": "2026 batch is eligible"},
  "backlogs": {"status": "fail", "message": "Backlogs exceed the limit"},
  "overallEligible": true
}`

func TestEvaluateCriteria(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{response: validCriteriaResponse}
	evaluator := NewRemoteEvaluator(stub, nil, 0)

	verdict, err := evaluator.EvaluateCriteria(context.Background(), sampleProfile(), sampleCriteria())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if verdict.CGPA.Status != placement.StatusPass {
		t.Errorf("cgpa status = %q", verdict.CGPA.Status)
	}
	if verdict.CGPA.Message != "CGPA 8.5 meets the 7.0 minimum" {
		t.Errorf("cgpa message = %q", verdict.CGPA.Message)
	}
	if verdict.Backlogs.Status != placement.StatusFail {
		t.Errorf("backlogs status = %q", verdict.Backlogs.Status)
	}

	// The oracle claimed overall eligibility, but one criterion failed.
	// Only the recomputed verdict counts.
	if verdict.Eligible() {
		t.Error("verdict with a failing criterion must not be eligible")
	}
}

func TestEvaluateCriteriaPromptSubstitution(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{response: validCriteriaResponse}
	evaluator := NewRemoteEvaluator(stub, nil, 0)

	if _, err := evaluator.EvaluateCriteria(context.Background(), sampleProfile(), sampleCriteria()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"Asha", "B.Tech", "CSE, IT", "8.5", "7", "2026"} {
		if !strings.Contains(stub.lastMessage, want) {
			t.Errorf("prompt does not mention %q", want)
		}
	}
	if strings.Contains(stub.lastMessage, "{{") {
		t.Errorf("prompt has unreplaced placeholders: %s", stub.lastMessage)
	}
}

func TestEvaluateCriteriaEmptyFieldsBecomeNA(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{response: validCriteriaResponse}
	evaluator := NewRemoteEvaluator(stub, nil, 0)

	profile := &placement.CandidateProfile{ID: "stu-1"}
	criteria := &placement.OpportunityCriteria{}

	if _, err := evaluator.EvaluateCriteria(context.Background(), profile, criteria); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stub.lastMessage, "N/A") {
		t.Errorf("empty profile fields should render as N/A, got: %s", stub.lastMessage)
	}
}

func TestEvaluateCriteriaFencedResponse(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{response: "Here is my assessment:\n```json\n" + validCriteriaResponse + "\n```"}
	evaluator := NewRemoteEvaluator(stub, nil, 0)

	verdict, err := evaluator.EvaluateCriteria(context.Background(), sampleProfile(), sampleCriteria())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Course.Status != placement.StatusPass {
		t.Errorf("course status = %q", verdict.Course.Status)
	}
}

func TestEvaluateCriteriaRejectsMalformedBundles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		response string
	}{
		{
			name:     "not json",
			response: "I am unable to judge this candidate.",
		},
		{
			name: "missing criterion object",
			response: `{
				"cgpa": {"status": "pass", "message": "ok"},
				"course": {"status": "pass", "message": "ok"},
				"batch": {"status": "pass", "message": "ok"}
			}`,
		},
		{
			name: "missing status",
			response: `{
				"cgpa": {"message": "ok"},
				"course": {"status": "pass", "message": "ok"},
				"batch": {"status": "pass", "message": "ok"},
				"backlogs": {"status": "pass", "message": "ok"}
			}`,
		},
		{
			name: "missing message",
			response: `{
				"cgpa": {"status": "pass"},
				"course": {"status": "pass", "message": "ok"},
				"batch": {"status": "pass", "message": "ok"},
				"backlogs": {"status": "pass", "message": "ok"}
			}`,
		},
		{
			name: "unrecognized status",
			response: `{
				"cgpa": {"status": "maybe", "message": "ok"},
				"course": {"status": "pass", "message": "ok"},
				"batch": {"status": "pass", "message": "ok"},
				"backlogs": {"status": "pass", "message": "ok"}
			}`,
		},
		{
			name: "partial status is not valid for criteria",
			response: `{
				"cgpa": {"status": "partial", "message": "ok"},
				"course": {"status": "pass", "message": "ok"},
				"batch": {"status": "pass", "message": "ok"},
				"backlogs": {"status": "pass", "message": "ok"}
			}`,
		},
		{
			name: "boolean status",
			response: `{
				"cgpa": {"status": true, "message": "ok"},
				"course": {"status": "pass", "message": "ok"},
				"batch": {"status": "pass", "message": "ok"},
				"backlogs": {"status": "pass", "message": "ok"}
			}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stub := &stubGenerator{response: tt.response}
			evaluator := NewRemoteEvaluator(stub, nil, 0)

			if _, err := evaluator.EvaluateCriteria(context.Background(), sampleProfile(), sampleCriteria()); err == nil {
				t.Fatal("expected the bundle to be rejected")
			}
		})
	}
}

func TestEvaluateCriteriaGeneratorError(t *testing.T) {
	t.Parallel()

	oracleErr := errors.New("quota exhausted")
	stub := &stubGenerator{err: oracleErr}
	evaluator := NewRemoteEvaluator(stub, nil, 0)

	_, err := evaluator.EvaluateCriteria(context.Background(), sampleProfile(), sampleCriteria())
	if !errors.Is(err, oracleErr) {
		t.Fatalf("error %v does not wrap the generator error", err)
	}
}

func TestMatchSkills(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{response: `{
		"matchedSkills": ["sql", "Python"],
		"missingSkills": ["Docker"]
	}`}
	evaluator := NewRemoteEvaluator(stub, nil, 0)

	required := []string{"Python", "SQL", "Docker"}
	matched, missing, err := evaluator.MatchSkills(context.Background(), []string{"python", "postgres"}, required)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Canonicalized back to required order and spelling.
	if !reflect.DeepEqual(matched, []string{"Python", "SQL"}) {
		t.Errorf("matched = %v", matched)
	}
	if !reflect.DeepEqual(missing, []string{"Docker"}) {
		t.Errorf("missing = %v", missing)
	}

	for _, want := range []string{"python, postgres", "Python, SQL, Docker"} {
		if !strings.Contains(stub.lastMessage, want) {
			t.Errorf("prompt does not mention %q", want)
		}
	}
}

func TestMatchSkillsRejectsBadPartitions(t *testing.T) {
	t.Parallel()

	required := []string{"Python", "SQL"}

	tests := []struct {
		name     string
		response string
	}{
		{
			name:     "missing matchedSkills key",
			response: `{"missingSkills": ["Python", "SQL"]}`,
		},
		{
			name:     "missing missingSkills key",
			response: `{"matchedSkills": ["Python", "SQL"]}`,
		},
		{
			name:     "skill not in required list",
			response: `{"matchedSkills": ["Python", "Go"], "missingSkills": ["SQL"]}`,
		},
		{
			name:     "skill assigned to both sides",
			response: `{"matchedSkills": ["Python"], "missingSkills": ["Python", "SQL"]}`,
		},
		{
			name:     "skill left unassigned",
			response: `{"matchedSkills": ["Python"], "missingSkills": []}`,
		},
		{
			name:     "not json",
			response: "both skills look fine to me",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stub := &stubGenerator{response: tt.response}
			evaluator := NewRemoteEvaluator(stub, nil, 0)

			if _, _, err := evaluator.MatchSkills(context.Background(), []string{"python"}, required); err == nil {
				t.Fatal("expected the partition to be rejected")
			}
		})
	}
}

func TestMatchSkillsDuplicateRequiredSkills(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{response: `{
		"matchedSkills": ["python"],
		"missingSkills": ["Python"]
	}`}
	evaluator := NewRemoteEvaluator(stub, nil, 0)

	// The same skill listed twice must be assigned twice, once per occurrence.
	matched, missing, err := evaluator.MatchSkills(context.Background(), []string{"python"}, []string{"Python", "python"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(matched, []string{"Python"}) {
		t.Errorf("matched = %v", matched)
	}
	if !reflect.DeepEqual(missing, []string{"python"}) {
		t.Errorf("missing = %v", missing)
	}
}

func TestMatchSkillsGeneratorError(t *testing.T) {
	t.Parallel()

	oracleErr := errors.New("backend unavailable")
	stub := &stubGenerator{err: oracleErr}
	evaluator := NewRemoteEvaluator(stub, nil, 0)

	_, _, err := evaluator.MatchSkills(context.Background(), []string{"python"}, []string{"Python"})
	if !errors.Is(err, oracleErr) {
		t.Fatalf("error %v does not wrap the generator error", err)
	}
}
