// Package planner drafts a company- and role-specific preparation plan
// with the oracle, then enriches each module with study resources found
// on the public web.
package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	_ "embed"

	"go.uber.org/zap"

	"github.com/palassaha/SC2-Backend/internal/ai"
	"github.com/palassaha/SC2-Backend/internal/placement"
	"github.com/palassaha/SC2-Backend/internal/search"
)

//go:embed prompt_plan.md
var planPromptTemplate string

// Searcher finds public web results for a query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]search.Result, error)
}

// Module is one study unit of a plan.
type Module struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Type        string     `json:"type,omitempty"`
	Duration    string     `json:"duration"`
	Description string     `json:"description"`
	Resources   []Resource `json:"resources"`
}

// Plan is the complete preparation plan returned to the caller.
type Plan struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	EstimatedTime string   `json:"estimatedTime"`
	Difficulty    string   `json:"difficulty"`
	Modules       []Module `json:"modules"`
}

// Planner generates plans. The oracle drafts the outline; the searcher
// fills in resources and is allowed to fail.
type Planner struct {
	generator ai.Generator
	searcher  Searcher
	logger    *zap.Logger
}

func New(generator ai.Generator, searcher Searcher, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Planner{
		generator: generator,
		searcher:  searcher,
		logger:    logger,
	}
}

// Generate drafts and enriches a plan. Oracle failure is the caller's
// problem; search failures only degrade module resources.
func (p *Planner) Generate(ctx context.Context, req *Request) (*Plan, error) {
	if req == nil {
		return nil, errors.New("plan request is required")
	}
	if strings.TrimSpace(req.Company) == "" || strings.TrimSpace(req.Role) == "" {
		return nil, errors.New("company and role are required")
	}
	if p.generator == nil {
		return nil, errors.New("plan generator is not configured")
	}

	prompt := buildPlanPrompt(req)

	raw, err := p.generator.GenerateContent(ctx, "", prompt)
	if err != nil {
		return nil, fmt.Errorf("plan oracle call: %w", err)
	}

	var plan Plan
	if err := ai.DecodeJSON(raw, &plan); err != nil {
		return nil, fmt.Errorf("plan response: %w", err)
	}

	p.enrich(ctx, &plan, req)

	plan.ID = "plan-1"
	plan.Title = fmt.Sprintf("%s %s Preparation Plan", req.Company, req.Role)

	p.logger.Info("plan generated",
		zap.String("company", req.Company),
		zap.String("role", req.Role),
		zap.Int("modules", len(plan.Modules)),
	)

	return &plan, nil
}

func (p *Planner) enrich(ctx context.Context, plan *Plan, req *Request) {
	for i := range plan.Modules {
		module := &plan.Modules[i]

		var urls []string
		for _, query := range moduleQueries(module.Title, req) {
			results, err := p.search(ctx, query)
			if err != nil {
				p.logger.Warn("resource search failed",
					zap.String("module", module.Title),
					zap.String("query", query),
					zap.Error(err),
				)
				continue
			}
			urls = append(urls, hostDeduped(results)...)
		}

		module.Resources = buildResources(module.Title, urlDeduped(urls), maxResourcesPerModule)
		if len(module.Resources) == 0 {
			module.Resources = fallbackResources(module.Title)
		}

		module.ID = fmt.Sprintf("module-%d", i+1)

		p.logger.Debug("module enriched",
			zap.String("module", module.Title),
			zap.Int("resources", len(module.Resources)),
		)
	}
}

func (p *Planner) search(ctx context.Context, query string) ([]search.Result, error) {
	if p.searcher == nil {
		return nil, errors.New("searcher is not configured")
	}
	return p.searcher.Search(ctx, query)
}

func moduleQueries(moduleTitle string, req *Request) []string {
	return []string{
		fmt.Sprintf("%s tutorial %s", moduleTitle, strings.ToLower(req.Role)),
		fmt.Sprintf("%s %s interview", moduleTitle, req.Company),
		fmt.Sprintf("learn %s programming", moduleTitle),
	}
}

func buildPlanPrompt(req *Request) string {
	replacer := strings.NewReplacer(
		"{{COURSE}}", orNA(req.Course),
		"{{STREAM}}", orNA(req.Stream),
		"{{CGPA}}", placement.FormatNumber(req.CGPA),
		"{{ACTIVE_BACKLOGS}}", fmt.Sprintf("%d", req.ActiveBacklogs),
		"{{SKILLS}}", orNA(strings.Join(req.Skills, ", ")),
		"{{COMPANY}}", req.Company,
		"{{ROLE}}", req.Role,
		"{{CTC}}", orNA(req.CTC),
		"{{APPLICATION_PROCESS}}", orNA(strings.Join(req.ApplicationProcess, "; ")),
		"{{CRITERIA_SKILLS}}", orNA(strings.Join(req.CriteriaSkills, ", ")),
	)
	return replacer.Replace(planPromptTemplate)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
