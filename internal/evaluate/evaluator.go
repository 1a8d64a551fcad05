package evaluate

import (
	"context"
	"fmt"
	"log"
	"strings"

	"go-openclaw-apply/internal/ai"
	"go-openclaw-apply/internal/discovery"
	"go-openclaw-apply/internal/profile"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type FitDecision struct {
	ShouldApply            bool
	Priority               Priority
	Reasoning              string
	RequiredCustomizations []string
}

// Evaluator scores a listing against the profile. The apply/skip decision
// and priority are pure rules; only the reasoning text is generated, and
// only for listings that pass — a skip costs zero collaborator calls.
type Evaluator struct {
	profile  *profile.Profile
	gen      ai.Client
	minScore int
}

func NewEvaluator(p *profile.Profile, gen ai.Client, minScore int) *Evaluator {
	return &Evaluator{profile: p, gen: gen, minScore: minScore}
}

func (e *Evaluator) Evaluate(ctx context.Context, job discovery.JobListing) FitDecision {
	titleMatch := e.matchesTargetRole(job.Title)
	shouldApply := titleMatch || job.MatchScore >= e.minScore

	ruleReasoning := fmt.Sprintf("match score %d%%, target role match: %t", job.MatchScore, titleMatch)
	if !shouldApply {
		return FitDecision{
			ShouldApply: false,
			Priority:    PriorityLow,
			Reasoning:   "below fit threshold: " + ruleReasoning,
		}
	}

	decision := FitDecision{
		ShouldApply: true,
		Priority:    PriorityMedium,
		Reasoning:   ruleReasoning,
	}
	if e.profile.IsDreamCompany(job.Company) {
		decision.Priority = PriorityHigh
		decision.RequiredCustomizations = []string{"cover letter"}
	}

	//reasoning is flavor text, a generation failure must not sink the job
	if reasoning, err := e.generateReasoning(ctx, job, decision.Priority); err != nil {
		log.Printf("⚠️ Fit reasoning generation failed, using rule summary: %v", err)
	} else {
		decision.Reasoning = reasoning
	}
	return decision
}

func (e *Evaluator) matchesTargetRole(title string) bool {
	title = strings.ToLower(title)
	for _, role := range e.profile.Preferences.TargetRoles {
		if role != "" && strings.Contains(title, strings.ToLower(role)) {
			return true
		}
	}
	return false
}

func (e *Evaluator) generateReasoning(ctx context.Context, job discovery.JobListing, priority Priority) (string, error) {
	edu := e.profile.FirstEducation()
	prompt := fmt.Sprintf(
		"In one or two sentences, explain why this job fits the candidate.\n\n"+
			"Job: %s at %s (%s), site match score %d%%, priority %s.\n"+
			"Candidate: %s in %s, target roles: %s.",
		job.Title, job.Company, job.Location, job.MatchScore, priority,
		edu.Degree, edu.Major, strings.Join(e.profile.Preferences.TargetRoles, ", "),
	)
	return e.gen.Generate(ctx, prompt, ai.Constraints{MaxWords: 60, Tone: "brief, factual"})
}
