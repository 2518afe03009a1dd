package placement

import (
	"testing"
)

func TestNewSkillsResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		matched       []string
		missing       []string
		expectStatus  Status
		expectMessage string
	}{
		{
			name:          "no skills required",
			matched:       nil,
			missing:       nil,
			expectStatus:  StatusPass,
			expectMessage: "No specific skills required",
		},
		{
			name:          "all matched",
			matched:       []string{"Python", "SQL"},
			missing:       []string{},
			expectStatus:  StatusPass,
			expectMessage: "All 2 required skills matched",
		},
		{
			name:          "partial match",
			matched:       []string{"Python"},
			missing:       []string{"SQL", "Docker"},
			expectStatus:  StatusPartial,
			expectMessage: "1 out of 3 required skills matched",
		},
		{
			name:          "none matched",
			matched:       []string{},
			missing:       []string{"Rust"},
			expectStatus:  StatusFail,
			expectMessage: "None of the 1 required skills matched",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := NewSkillsResult(tt.matched, tt.missing)
			if got.Status != tt.expectStatus {
				t.Fatalf("status = %q, want %q", got.Status, tt.expectStatus)
			}
			if got.Message != tt.expectMessage {
				t.Fatalf("message = %q, want %q", got.Message, tt.expectMessage)
			}
			if got.MatchedSkills == nil || got.MissingSkills == nil {
				t.Fatalf("matched/missing must never be nil: %+v", got)
			}
		})
	}
}

func TestCriteriaVerdictEligible(t *testing.T) {
	t.Parallel()

	pass := CriterionResult{Status: StatusPass}
	fail := CriterionResult{Status: StatusFail}

	tests := []struct {
		name    string
		verdict CriteriaVerdict
		expect  bool
	}{
		{
			name:    "all pass",
			verdict: CriteriaVerdict{CGPA: pass, Backlogs: pass, Course: pass, Batch: pass},
			expect:  true,
		},
		{
			name:    "one failure gates everything",
			verdict: CriteriaVerdict{CGPA: fail, Backlogs: pass, Course: pass, Batch: pass},
			expect:  false,
		},
		{
			name:    "empty verdict is not eligible",
			verdict: CriteriaVerdict{},
			expect:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.verdict.Eligible(); got != tt.expect {
				t.Fatalf("Eligible() = %v, want %v", got, tt.expect)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		expect Status
		ok     bool
	}{
		{input: "pass", expect: StatusPass, ok: true},
		{input: " PASS ", expect: StatusPass, ok: true},
		{input: "Fail", expect: StatusFail, ok: true},
		{input: "partial", expect: StatusPartial, ok: true},
		{input: "maybe", ok: false},
		{input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseStatus(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseStatus(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.expect {
				t.Fatalf("ParseStatus(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}
