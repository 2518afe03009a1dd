// Package eligibility decides whether a candidate qualifies for a placement
// opportunity. Evaluation is two-tier: an optional natural-language oracle is
// consulted first, and a deterministic local rule evaluator covers every
// oracle failure, so a report is always produced.
package eligibility

import (
	"context"

	"go.uber.org/zap"

	"github.com/palassaha/SC2-Backend/internal/placement"
)

// Evaluator produces criterion verdicts and skill partitions for one
// candidate×opportunity pair. Implementations may fail; the engine decides
// what that means.
type Evaluator interface {
	EvaluateCriteria(ctx context.Context, profile *placement.CandidateProfile, criteria *placement.OpportunityCriteria) (*placement.CriteriaVerdict, error)
	MatchSkills(ctx context.Context, candidateSkills, requiredSkills []string) (matched, missing []string, err error)
}

// Deps carries everything an engine needs. Oracle is optional: when nil the
// engine runs on local rules alone.
type Deps struct {
	Oracle Evaluator
	Logger *zap.Logger
	Hooks  *Hooks
}

// Engine runs eligibility checks. It is total: Check never returns an error
// and its report is always fully populated.
type Engine struct {
	evaluator *failover
	logger    *zap.Logger
}

// New builds an engine from its dependencies.
func New(deps *Deps) *Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{
		logger: logger,
		evaluator: &failover{
			oracle: deps.Oracle,
			local:  NewLocal(),
			logger: logger,
			hooks:  deps.Hooks,
		},
	}
}

// Check evaluates one payload and returns the full eligibility report.
// Malformed inputs degrade to zero values instead of failing: a candidate
// always gets an answer.
func (e *Engine) Check(ctx context.Context, payload *placement.Payload) *placement.EligibilityReport {
	if payload == nil {
		payload = &placement.Payload{}
	}

	profile, err := placement.BuildProfile(payload.User)
	if err != nil {
		e.logger.Warn("decoding user object, continuing with an empty profile", zap.Error(err))
		profile = &placement.CandidateProfile{Skills: []string{}, RawSkills: []any{}}
	}

	criteria := placement.MergeCriteria(payload.Post.Criteria, payload.Post.Eligibility)

	verdict := e.evaluator.evaluateCriteria(ctx, profile, criteria)
	matched, missing := e.evaluator.matchSkills(ctx, profile.Skills, criteria.RequiredSkills)
	skills := placement.NewSkillsResult(matched, missing)

	// Overall eligibility is always recomputed here: skills never gate it
	// and no oracle opinion is trusted for it.
	eligible := verdict.Eligible()

	report := &placement.EligibilityReport{
		ID:             profile.ID,
		Name:           profile.Name,
		Course:         profile.Course,
		Stream:         profile.Stream,
		Batch:          profile.Batch,
		Institute:      profile.Institute,
		AvgCGPA:        profile.CGPA,
		ActiveBacklogs: profile.ActiveBacklogs,
		SkillsCount:    profile.SkillsCount,
		Skills:         profile.RawSkills,
		IsEligible:     eligible,
		Breakdown: placement.Breakdown{
			CGPA:     verdict.CGPA,
			Backlogs: verdict.Backlogs,
			Course:   verdict.Course,
			Batch:    verdict.Batch,
			Skills:   skills,
		},
		Recommendations: buildRecommendations(verdict, skills, criteria, eligible),
	}

	e.logger.Info("eligibility evaluated",
		zap.String("candidate_id", profile.ID),
		zap.Bool("eligible", eligible),
		zap.String("skills_status", string(skills.Status)),
	)

	return report
}
