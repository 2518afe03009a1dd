package eligibility

import (
	"context"

	"go.uber.org/zap"

	"github.com/palassaha/SC2-Backend/internal/placement"
)

const (
	// OpCriteria and OpSkills name the two independent oracle operations for
	// logs and metrics hooks.
	OpCriteria = "criteria"
	OpSkills   = "skills"
)

// Hooks lets callers observe oracle usage without coupling the engine to a
// metrics backend. All fields are optional.
type Hooks struct {
	OnOracleCall func(operation string)
	OnFallback   func(operation string)
}

func (h *Hooks) oracleCall(operation string) {
	if h != nil && h.OnOracleCall != nil {
		h.OnOracleCall(operation)
	}
}

func (h *Hooks) fallback(operation string) {
	if h != nil && h.OnFallback != nil {
		h.OnFallback(operation)
	}
}

// failover consults the oracle first and silently falls back to the local
// rules whenever the oracle errors in any way: transport failure, malformed
// response, or a response that fails validation. Criteria and skills fail
// over independently, so one bad oracle answer never poisons the other
// bundle.
type failover struct {
	oracle Evaluator
	local  *Local
	logger *zap.Logger
	hooks  *Hooks
}

func (f *failover) evaluateCriteria(ctx context.Context, profile *placement.CandidateProfile, criteria *placement.OpportunityCriteria) *placement.CriteriaVerdict {
	if f.oracle != nil {
		f.hooks.oracleCall(OpCriteria)

		verdict, err := f.oracle.EvaluateCriteria(ctx, profile, criteria)
		if err == nil {
			return verdict
		}

		f.logger.Warn("criteria oracle failed, falling back to local rules",
			zap.String("operation", OpCriteria),
			zap.Error(err),
		)
		f.hooks.fallback(OpCriteria)
	}

	return f.local.evaluateCriteria(profile, criteria)
}

func (f *failover) matchSkills(ctx context.Context, candidateSkills, requiredSkills []string) ([]string, []string) {
	// Nothing to ask the oracle when either side is empty: the local matcher
	// already gives the only possible partition.
	if f.oracle != nil && len(candidateSkills) > 0 && len(requiredSkills) > 0 {
		f.hooks.oracleCall(OpSkills)

		matched, missing, err := f.oracle.MatchSkills(ctx, candidateSkills, requiredSkills)
		if err == nil {
			return matched, missing
		}

		f.logger.Warn("skills oracle failed, falling back to local matching",
			zap.String("operation", OpSkills),
			zap.Error(err),
		)
		f.hooks.fallback(OpSkills)
	}

	return f.local.matchSkills(candidateSkills, requiredSkills)
}
