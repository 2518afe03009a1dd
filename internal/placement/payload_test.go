package placement

import (
	"reflect"
	"testing"
)

func TestBuildProfile(t *testing.T) {
	t.Parallel()

	user := map[string]any{
		"id":             "stu-1",
		"name":           "Asha",
		"course":         "B.Tech",
		"stream":         "CSE",
		"batch":          2026.0,
		"institute":      "NIT Example",
		"avg_cgpa":       "8.5 CGPA",
		"activeBacklogs": "0",
		"skillsCount":    3.0,
		"skills": []any{
			"Python",
			map[string]any{"name": "React", "level": "intermediate"},
			"SQL",
		},
	}

	profile, err := BuildProfile(user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if profile.ID != "stu-1" || profile.Name != "Asha" {
		t.Fatalf("unexpected identity: %+v", profile)
	}
	if profile.Batch != "2026" {
		t.Fatalf("expected numeric batch normalized to string, got %q", profile.Batch)
	}
	if profile.CGPA != 8.5 {
		t.Fatalf("expected cgpa 8.5, got %v", profile.CGPA)
	}
	if profile.ActiveBacklogs != 0 {
		t.Fatalf("expected 0 backlogs, got %d", profile.ActiveBacklogs)
	}
	if profile.SkillsCount != 3 {
		t.Fatalf("expected skillsCount 3, got %d", profile.SkillsCount)
	}
	if want := []string{"Python", "React", "SQL"}; !reflect.DeepEqual(profile.Skills, want) {
		t.Fatalf("skills = %v, want %v", profile.Skills, want)
	}
	if len(profile.RawSkills) != 3 {
		t.Fatalf("raw skills should be echoed as received, got %v", profile.RawSkills)
	}
}

func TestBuildProfileEmptyUser(t *testing.T) {
	t.Parallel()

	profile, err := BuildProfile(map[string]any{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if profile.ID != "" || profile.CGPA != 0 || profile.ActiveBacklogs != 0 {
		t.Fatalf("expected zero profile, got %+v", profile)
	}
	if profile.RawSkills == nil || len(profile.RawSkills) != 0 {
		t.Fatalf("expected empty raw skills, got %v", profile.RawSkills)
	}
}

func TestMergeCriteria(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		criteria    map[string]any
		eligibility map[string]any
		expect      *OpportunityCriteria
	}{
		{
			name: "eligibility wins for min cgpa",
			criteria: map[string]any{
				"cgpa":     6.0,
				"backlogs": 1,
				"skills":   []any{"Python", "SQL"},
			},
			eligibility: map[string]any{
				"minCGPA":  7.5,
				"branches": []any{"CSE", "IT"},
				"batch":    []any{2026.0},
			},
			expect: &OpportunityCriteria{
				MinCGPA:        7.5,
				Branches:       []string{"CSE", "IT"},
				Batches:        []string{"2026"},
				MaxBacklogs:    1,
				RequiredSkills: []string{"Python", "SQL"},
			},
		},
		{
			name: "min cgpa falls back to criteria",
			criteria: map[string]any{
				"cgpa": "7.0",
			},
			eligibility: map[string]any{
				"branches": []any{"All"},
			},
			expect: &OpportunityCriteria{
				MinCGPA:        7.0,
				Branches:       []string{"All"},
				Batches:        []string{},
				MaxBacklogs:    0,
				RequiredSkills: []string{},
			},
		},
		{
			name:        "both blocks missing",
			criteria:    nil,
			eligibility: nil,
			expect: &OpportunityCriteria{
				MinCGPA:        0,
				Branches:       []string{},
				Batches:        []string{},
				MaxBacklogs:    0,
				RequiredSkills: []string{},
			},
		},
		{
			name:     "explicit unparseable minCGPA is not a fallback",
			criteria: map[string]any{"cgpa": 8.0},
			eligibility: map[string]any{
				"minCGPA": "not a number",
			},
			expect: &OpportunityCriteria{
				MinCGPA:        0,
				Branches:       []string{},
				Batches:        []string{},
				MaxBacklogs:    0,
				RequiredSkills: []string{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := MergeCriteria(tt.criteria, tt.eligibility)
			if !reflect.DeepEqual(got, tt.expect) {
				t.Fatalf("MergeCriteria = %+v, want %+v", got, tt.expect)
			}
		})
	}
}
