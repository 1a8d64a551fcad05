package evaluate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"go-openclaw-apply/internal/ai"
	"go-openclaw-apply/internal/discovery"
	"go-openclaw-apply/internal/profile"
)

type countingGenerator struct {
	calls int
}

func (c *countingGenerator) Generate(ctx context.Context, prompt string, _ ai.Constraints) (string, error) {
	c.calls++
	return "Strong match with background and preferences", nil
}

func testProfile() *profile.Profile {
	return &profile.Profile{
		Preferences: profile.Preferences{
			TargetRoles: []string{"Software Engineer"},
			TargetCompanies: profile.CompanyTiers{
				Dream: []string{"Stripe"},
				Reach: []string{"Datadog"},
			},
		},
	}
}

func TestEvaluate_DreamCompanyIsAlwaysHighPriority(t *testing.T) {
	e := NewEvaluator(testProfile(), &countingGenerator{}, 70)

	decision := e.Evaluate(context.Background(), discovery.JobListing{
		Title:      "Software Engineer - New Grad",
		Company:    "Stripe",
		MatchScore: 95,
		URL:        "https://jobright.ai/jobs/stripe-123",
	})

	assert.True(t, decision.ShouldApply)
	assert.Equal(t, PriorityHigh, decision.Priority)
	assert.Contains(t, decision.RequiredCustomizations, "cover letter")
}

func TestEvaluate_FitPositiveNonDreamIsMedium(t *testing.T) {
	e := NewEvaluator(testProfile(), &countingGenerator{}, 70)

	tests := []struct {
		name string
		job  discovery.JobListing
	}{
		{"reach tier", discovery.JobListing{Title: "Software Engineer", Company: "Datadog", MatchScore: 90}},
		{"unlisted company", discovery.JobListing{Title: "Software Engineer", Company: "Initech", MatchScore: 72}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := e.Evaluate(context.Background(), tt.job)
			assert.True(t, decision.ShouldApply)
			assert.Equal(t, PriorityMedium, decision.Priority)
			assert.Empty(t, decision.RequiredCustomizations)
		})
	}
}

func TestEvaluate_LowFitSkipsWithoutGeneratorCall(t *testing.T) {
	gen := &countingGenerator{}
	e := NewEvaluator(testProfile(), gen, 70)

	decision := e.Evaluate(context.Background(), discovery.JobListing{
		Title:      "Staff Accountant",
		Company:    "Initech",
		MatchScore: 12,
	})

	assert.False(t, decision.ShouldApply)
	assert.Equal(t, PriorityLow, decision.Priority)
	assert.Equal(t, 0, gen.calls, "skip decisions must not invoke the generator")
}

type failingGenerator struct{}

func (failingGenerator) Generate(ctx context.Context, prompt string, _ ai.Constraints) (string, error) {
	return "", errors.New("api unavailable")
}

func TestEvaluate_ReasoningFailureDegradesToRuleSummary(t *testing.T) {
	e := NewEvaluator(testProfile(), failingGenerator{}, 70)

	decision := e.Evaluate(context.Background(), discovery.JobListing{
		Title:      "Software Engineer",
		Company:    "Stripe",
		MatchScore: 95,
	})

	//the decision is rule-based, a reasoning failure must not sink the job
	assert.True(t, decision.ShouldApply)
	assert.Equal(t, PriorityHigh, decision.Priority)
	assert.Contains(t, decision.Reasoning, "match score 95%")
}

func TestEvaluate_TargetRoleTitleMatchAppliesDespiteLowScore(t *testing.T) {
	e := NewEvaluator(testProfile(), &countingGenerator{}, 70)

	decision := e.Evaluate(context.Background(), discovery.JobListing{
		Title:      "Senior Software Engineer, Payments",
		Company:    "Initech",
		MatchScore: 10,
	})

	assert.True(t, decision.ShouldApply)
}
