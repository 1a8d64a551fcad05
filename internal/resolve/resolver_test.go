package resolve

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-openclaw-apply/internal/ai"
	"go-openclaw-apply/internal/profile"
	"go-openclaw-apply/internal/scanner"
)

type fakeGenerator struct {
	calls int
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string, c ai.Constraints) (string, error) {
	f.calls++
	return "generated answer", nil
}

func testProfile() *profile.Profile {
	return &profile.Profile{
		Personal: profile.Personal{
			FirstName: "Ada",
			LastName:  "Nguyen",
			FullName:  "Ada Nguyen",
			Email:     "ada@example.com",
			Phone:     "+1 555 0100",
			Address:   profile.Address{City: "Tempe", State: "Arizona", Country: "United States"},
			Authorization: profile.Authorization{
				USWorkAuthorized:    true,
				RequiresSponsorship: false,
			},
		},
		Education: []profile.Education{
			{School: "Arizona State University", Degree: "BS", Major: "Computer Science", GraduationYear: "2026"},
		},
		Skills: profile.Skills{Languages: []string{"Go", "Python", "TypeScript"}},
		Preferences: profile.Preferences{
			TargetRoles:     []string{"Software Engineer"},
			TargetCompanies: profile.CompanyTiers{Dream: []string{"Stripe"}},
		},
		Documents: profile.Documents{Resume: "/docs/resume.pdf"},
	}
}

func textField(label string) scanner.Field {
	return scanner.Field{Label: label, Type: scanner.InputText, Selector: "#" + strings.ReplaceAll(strings.ToLower(label), " ", "_")}
}

func TestResolve_Classification(t *testing.T) {
	r := NewResolver(testProfile(), &fakeGenerator{}, Options{})

	form := &scanner.FormStructure{
		Domain: "stripe.com",
		Fields: []scanner.Field{
			textField("First Name"),
			{Label: "Email", Type: scanner.InputEmail, Selector: "#email"},
			textField("School / University"),
			{
				Label:    "Are you legally authorized to work in the US?",
				Type:     scanner.InputSelect,
				Selector: "#auth",
				Options:  []scanner.Option{{Value: "1", Text: "Yes"}, {Value: "0", Text: "No"}},
			},
			{Label: "Why do you want to work at Stripe?", Type: scanner.InputTextarea, Selector: "#why"},
			{Label: "Resume", Type: scanner.InputFile, Selector: "#resume"},
			textField("Favorite color"),
		},
	}

	set := r.Resolve(form, JobContext{Title: "Software Engineer", Company: "Stripe", Description: "desc"})

	assert.Equal(t, "Ada", set.Direct["First Name"])
	assert.Equal(t, "ada@example.com", set.Direct["Email"])
	assert.Equal(t, "Arizona State University", set.Direct["School / University"])
	assert.Equal(t, "Yes", set.Direct["Are you legally authorized to work in the US?"])
	assert.Equal(t, "/docs/resume.pdf", set.Files["Resume"])

	req, ok := set.Generated["Why do you want to work at Stripe?"]
	require.True(t, ok)
	assert.Equal(t, KindWhyCompany, req.Kind)
	assert.Equal(t, "Stripe", req.Company)

	assert.Equal(t, []string{"Favorite color"}, set.Unresolved)
}

func TestResolve_CoversEveryFieldExactlyOnce(t *testing.T) {
	r := NewResolver(testProfile(), &fakeGenerator{}, Options{})

	form := &scanner.FormStructure{
		Fields: []scanner.Field{
			textField("First Name"),
			textField("Last Name"),
			{Label: "Phone", Type: scanner.InputTel, Selector: "#phone"},
			{Label: "Tell us about yourself", Type: scanner.InputTextarea, Selector: "#about"},
			textField("Security clearance level"),
			{Label: "Do you require visa sponsorship?", Type: scanner.InputRadio, Selector: "[name=visa]",
				Options: []scanner.Option{{Value: "yes", Text: "Yes"}, {Value: "no", Text: "No"}}},
		},
	}

	set := r.Resolve(form, JobContext{Title: "SWE", Company: "Acme"})

	labels := set.Labels()
	assert.Len(t, labels, len(form.Fields))

	counts := make(map[string]int)
	for _, l := range labels {
		counts[l]++
	}
	for _, f := range form.Fields {
		assert.Equal(t, 1, counts[f.Label], "field %q must appear exactly once", f.Label)
	}
}

func TestResolve_ZeroFields(t *testing.T) {
	r := NewResolver(testProfile(), &fakeGenerator{}, Options{})

	set := r.Resolve(&scanner.FormStructure{Domain: "acme.com"}, JobContext{})

	assert.Empty(t, set.Direct)
	assert.Empty(t, set.Generated)
	assert.Empty(t, set.Files)
	assert.Empty(t, set.Unresolved)

	answers, err := r.GenerateAnswers(context.Background(), set)
	require.NoError(t, err)
	assert.Empty(t, answers)
}

func TestResolve_ExcerptTruncationBound(t *testing.T) {
	const bound = 100
	r := NewResolver(testProfile(), &fakeGenerator{}, Options{ExcerptMaxChars: bound})

	longDesc := strings.Repeat("distributed systems engineering ", 50)
	form := &scanner.FormStructure{
		Fields: []scanner.Field{
			{Label: "Why do you want to join Acme?", Type: scanner.InputTextarea, Selector: "#why"},
		},
	}

	set := r.Resolve(form, JobContext{Title: "SWE", Company: "Acme", Description: longDesc})

	req := set.Generated["Why do you want to join Acme?"]
	assert.LessOrEqual(t, utf8.RuneCountInString(req.DescriptionExcerpt), bound)
	assert.NotEmpty(t, req.DescriptionExcerpt)
}

func TestGenerateAnswers_IdempotentPerLabel(t *testing.T) {
	gen := &fakeGenerator{}
	r := NewResolver(testProfile(), gen, Options{})

	form := &scanner.FormStructure{
		Fields: []scanner.Field{
			{Label: "Why do you want to work here?", Type: scanner.InputTextarea, Selector: "#why"},
		},
	}
	jobCtx := JobContext{Title: "SWE", Company: "Acme", Description: "desc"}

	set := r.Resolve(form, jobCtx)
	answers1, err := r.GenerateAnswers(context.Background(), set)
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls)

	//second attempt in the same run reuses the cached answer
	set2 := r.Resolve(form, jobCtx)
	answers2, err := r.GenerateAnswers(context.Background(), set2)
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, answers1, answers2)
}

func TestMatchOption(t *testing.T) {
	opts := []scanner.Option{
		{Value: "us", Text: "United States"},
		{Value: "ca", Text: "Canada"},
	}

	tests := []struct {
		name     string
		value    string
		options  []scanner.Option
		expected string
	}{
		{"exact text", "United States", opts, "United States"},
		{"exact value", "ca", opts, "Canada"},
		{"partial", "United", opts, "United States"},
		{"yes alias", "true", []scanner.Option{{Value: "1", Text: "Yes"}, {Value: "0", Text: "No"}}, "Yes"},
		{"no match", "Germany", opts, ""},
		{"no options passes value through", "anything", nil, "anything"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchOption(tt.value, tt.options)
			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestNormalizeLabel_StripsDiacritics(t *testing.T) {
	assert.Equal(t, "prenom", normalizeLabel(" Prénom "))
}
