package resolve

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"go-openclaw-apply/internal/ai"
	"go-openclaw-apply/internal/profile"
	"go-openclaw-apply/internal/scanner"
)

// Kind classifies an open-ended question so generation can pick the right
// prompt template.
type Kind string

const (
	KindWhyCompany Kind = "whyCompany"
	KindExperience Kind = "experience"
	KindBehavioral Kind = "behavioral"
	KindTechnical  Kind = "technical"
	KindDiversity  Kind = "diversity"
	KindGeneral    Kind = "general"
)

// JobContext is the slice of posting data generation prompts may see.
type JobContext struct {
	Title       string
	Company     string
	Description string
}

// GenerationRequest carries the minimal bounded context for one
// open-ended answer. DescriptionExcerpt is always truncated to the
// resolver's configured bound before the request is built.
type GenerationRequest struct {
	Label              string
	Kind               Kind
	Company            string
	RoleTitle          string
	DescriptionExcerpt string
	Highlights         []string
	MaxWords           int
	Tone               string
}

// Set is the complete resolution of one scanned form. Every scanned field
// label lands in exactly one bucket.
type Set struct {
	Direct     map[string]string
	Files      map[string]string
	Generated  map[string]GenerationRequest
	Unresolved []string
}

// Labels returns every label covered by the set, across all buckets.
func (s *Set) Labels() []string {
	out := make([]string, 0, len(s.Direct)+len(s.Files)+len(s.Generated)+len(s.Unresolved))
	for label := range s.Direct {
		out = append(out, label)
	}
	for label := range s.Files {
		out = append(out, label)
	}
	for label := range s.Generated {
		out = append(out, label)
	}
	out = append(out, s.Unresolved...)
	return out
}

type Options struct {
	ExcerptMaxChars int
	AnswerMaxWords  int
	Tone            string
}

// Resolver maps scanned form fields to profile values or generation
// requests. One resolver instance spans one run: generated answers are
// cached per label so a question is never paid for twice.
type Resolver struct {
	profile *profile.Profile
	gen     ai.Client
	opts    Options

	answered map[string]string
}

func NewResolver(p *profile.Profile, gen ai.Client, opts Options) *Resolver {
	if opts.ExcerptMaxChars == 0 {
		opts.ExcerptMaxChars = 500
	}
	if opts.AnswerMaxWords == 0 {
		opts.AnswerMaxWords = 200
	}
	return &Resolver{
		profile:  p,
		gen:      gen,
		opts:     opts,
		answered: make(map[string]string),
	}
}

// Resolve partitions the form's fields into direct, file, generated and
// unresolved buckets. Purely local: no collaborator is invoked here.
func (r *Resolver) Resolve(form *scanner.FormStructure, job JobContext) *Set {
	set := &Set{
		Direct:    make(map[string]string),
		Files:     make(map[string]string),
		Generated: make(map[string]GenerationRequest),
	}

	seen := make(map[string]struct{})
	for _, field := range form.Fields {
		//a label appears in exactly one bucket even if the form repeats it
		if _, dup := seen[field.Label]; dup {
			continue
		}
		seen[field.Label] = struct{}{}

		norm := normalizeLabel(field.Label)

		if field.Type == scanner.InputFile {
			if path, ok := lookupDocument(norm, r.profile); ok {
				set.Files[field.Label] = path
			} else {
				set.Unresolved = append(set.Unresolved, field.Label)
			}
			continue
		}

		//open-ended check runs before the profile lookups: a textarea like
		//"Please state your salary expectations" must never hit the
		//address-state rule
		if isOpenEnded(norm, field.Type) {
			set.Generated[field.Label] = GenerationRequest{
				Label:              field.Label,
				Kind:               detectKind(norm),
				Company:            job.Company,
				RoleTitle:          job.Title,
				DescriptionExcerpt: truncate(job.Description, r.opts.ExcerptMaxChars),
				Highlights:         r.profile.Highlights(4),
				MaxWords:           r.opts.AnswerMaxWords,
				Tone:               r.opts.Tone,
			}
			continue
		}

		if value, ok := lookupDirect(norm, r.profile); ok {
			if matched := matchOption(value, field.Options); matched != "" {
				set.Direct[field.Label] = matched
			} else {
				set.Unresolved = append(set.Unresolved, field.Label)
			}
			continue
		}

		if value, ok := lookupTemplated(norm, r.profile); ok {
			if matched := matchOption(value, field.Options); matched != "" {
				set.Direct[field.Label] = matched
			} else {
				set.Unresolved = append(set.Unresolved, field.Label)
			}
			continue
		}

		set.Unresolved = append(set.Unresolved, field.Label)
	}

	if len(set.Unresolved) > 0 {
		log.Printf("⚠️ %d field(s) unresolved: %s", len(set.Unresolved), strings.Join(set.Unresolved, "; "))
	}
	return set
}

// GenerateAnswers turns a resolution set into a flat label→value map ready
// for the submitter, invoking the generation collaborator for each
// open-ended field not already answered in this run.
func (r *Resolver) GenerateAnswers(ctx context.Context, set *Set) (map[string]string, error) {
	answers := make(map[string]string, len(set.Direct)+len(set.Files)+len(set.Generated))
	for label, value := range set.Direct {
		answers[label] = value
	}
	for label, path := range set.Files {
		answers[label] = path
	}

	for label, req := range set.Generated {
		if cached, ok := r.answered[label]; ok {
			answers[label] = cached
			continue
		}

		text, err := r.gen.Generate(ctx, buildPrompt(req), ai.Constraints{
			MaxWords: req.MaxWords,
			Tone:     req.Tone,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to generate answer for %q: %w", label, err)
		}

		r.answered[label] = text
		answers[label] = text
	}
	return answers, nil
}

func detectKind(normLabel string) Kind {
	switch {
	case strings.Contains(normLabel, "why"):
		return KindWhyCompany
	case strings.Contains(normLabel, "experience") || strings.Contains(normLabel, "background") || strings.Contains(normLabel, "qualification"):
		return KindExperience
	case strings.Contains(normLabel, "challeng") || strings.Contains(normLabel, "difficult") || strings.Contains(normLabel, "conflict") || strings.Contains(normLabel, "failure"):
		return KindBehavioral
	case strings.Contains(normLabel, "technical") || strings.Contains(normLabel, "project") || strings.Contains(normLabel, "implementation") || strings.Contains(normLabel, "design"):
		return KindTechnical
	case strings.Contains(normLabel, "diversity") || strings.Contains(normLabel, "inclusion") || strings.Contains(normLabel, "perspective"):
		return KindDiversity
	default:
		return KindGeneral
	}
}

// truncate cuts text at the last word boundary within max runes.
func truncate(text string, max int) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= max {
		return text
	}

	runes := []rune(text)
	cut := string(runes[:max])
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return cut
}
