package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
	"unicode/utf8"

	"go-openclaw-apply/internal/discovery"
	"go-openclaw-apply/internal/evaluate"
	"go-openclaw-apply/internal/history"
	"go-openclaw-apply/internal/posting"
	"go-openclaw-apply/internal/resolve"
	"go-openclaw-apply/internal/scanner"
	"go-openclaw-apply/internal/submit"
)

// Status is the terminal state of one job's run through the pipeline.
type Status string

const (
	StatusSkippedDuplicate Status = "skipped-duplicate"
	StatusSkippedLowFit    Status = "skipped-low-fit"
	StatusErrorNoURL       Status = "error-no-external-url"
	StatusError            Status = "error"
	StatusSubmitted        Status = "submitted"
)

type Result struct {
	Status     Status
	Reason     string
	Submission *submit.Result
}

// Ports the pipeline drives. The concrete implementations live in their
// own packages; tests substitute doubles.
type Evaluator interface {
	Evaluate(ctx context.Context, job discovery.JobListing) evaluate.FitDecision
}

type Extractor interface {
	Extract(ctx context.Context, jobURL string) (*posting.Details, error)
}

type FormScanner interface {
	Scan(ctx context.Context, url string) (*scanner.FormStructure, error)
}

type Resolver interface {
	Resolve(form *scanner.FormStructure, job resolve.JobContext) *resolve.Set
	GenerateAnswers(ctx context.Context, set *resolve.Set) (map[string]string, error)
}

type Submitter interface {
	Submit(ctx context.Context, form *scanner.FormStructure, answers map[string]string) (*submit.Result, error)
}

type History interface {
	HasApplied(url string) bool
	Record(rec history.ApplicationRecord) error
}

type Notifier interface {
	ApplicationSubmitted(rec history.ApplicationRecord)
	RunFinished(applied, processed int)
}

type Options struct {
	MaxApplications int
	MaxPages        int
	Cooldown        time.Duration
	NavTimeout      time.Duration
	GenerateTimeout time.Duration
}

type Runner struct {
	source    discovery.Source
	history   History
	evaluator Evaluator
	extractor Extractor
	scanner   FormScanner
	resolver  Resolver
	submitter Submitter
	notifier  Notifier // optional
	opts      Options
}

func NewRunner(source discovery.Source, hist History, eval Evaluator, extr Extractor,
	scan FormScanner, res Resolver, sub Submitter, notifier Notifier, opts Options) *Runner {
	if opts.MaxApplications == 0 {
		opts.MaxApplications = 5
	}
	if opts.MaxPages == 0 {
		opts.MaxPages = 3
	}
	if opts.NavTimeout == 0 {
		opts.NavTimeout = 2 * time.Minute
	}
	if opts.GenerateTimeout == 0 {
		opts.GenerateTimeout = 3 * time.Minute
	}
	return &Runner{
		source:    source,
		history:   hist,
		evaluator: eval,
		extractor: extr,
		scanner:   scan,
		resolver:  res,
		submitter: sub,
		notifier:  notifier,
		opts:      opts,
	}
}

// Apply runs one job through the full state machine:
// Discovered → Evaluated → Extracted → Scanned → Resolved → Submitted → Logged.
// The returned error is non-nil only when the history write failed; losing
// a record risks a duplicate submission on the next run, so that one error
// is fatal. Everything else is folded into the Result.
func (r *Runner) Apply(ctx context.Context, job discovery.JobListing) (Result, error) {
	//the dedup check precedes any network or browser side effect
	if r.history.HasApplied(job.URL) {
		return Result{Status: StatusSkippedDuplicate, Reason: "already applied"}, nil
	}

	decision := r.evaluate(ctx, job)
	if !decision.ShouldApply {
		return Result{Status: StatusSkippedLowFit, Reason: decision.Reasoning}, nil
	}
	log.Printf("✅ Fit: %s at %s (priority %s)", job.Title, job.Company, decision.Priority)

	//everything past this point reaches Logged, success or not
	details, err := r.extract(ctx, job.URL)
	if err != nil {
		if errors.Is(err, posting.ErrNoExternalURL) {
			return r.logged(job, "", history.OutcomeNoExternalURL, nil,
				Result{Status: StatusErrorNoURL, Reason: err.Error()})
		}
		return r.logged(job, "", history.OutcomeError, nil,
			Result{Status: StatusError, Reason: err.Error()})
	}

	form, err := r.scan(ctx, details.ExternalApplicationURL)
	if err != nil {
		return r.logged(job, details.ExternalApplicationURL, history.OutcomeError, nil,
			Result{Status: StatusError, Reason: err.Error()})
	}

	set := r.resolver.Resolve(form, resolve.JobContext{
		Title:       job.Title,
		Company:     job.Company,
		Description: details.Description,
	})

	answers, err := r.generate(ctx, set)
	if err != nil {
		return r.logged(job, details.ExternalApplicationURL, history.OutcomeError, nil,
			Result{Status: StatusError, Reason: err.Error()})
	}

	subResult, err := r.fill(ctx, form, answers)
	if err != nil {
		return r.logged(job, details.ExternalApplicationURL, history.OutcomeError, nil,
			Result{Status: StatusError, Reason: err.Error()})
	}

	outcome := history.OutcomeSubmitted
	switch subResult.Outcome() {
	case submit.OutcomePartial:
		outcome = history.OutcomePartial
	case submit.OutcomeFailure:
		outcome = history.OutcomeFailed
	}

	return r.loggedWithPreview(job, details.ExternalApplicationURL, outcome, set, answers,
		Result{Status: StatusSubmitted, Reason: string(subResult.Outcome()), Submission: subResult})
}

func (r *Runner) evaluate(ctx context.Context, job discovery.JobListing) evaluate.FitDecision {
	//evaluation may generate reasoning text, bound it like any generation call
	ctx, cancel := context.WithTimeout(ctx, r.opts.GenerateTimeout)
	defer cancel()
	return r.evaluator.Evaluate(ctx, job)
}

func (r *Runner) extract(ctx context.Context, url string) (*posting.Details, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.NavTimeout)
	defer cancel()
	return r.extractor.Extract(ctx, url)
}

func (r *Runner) scan(ctx context.Context, url string) (*scanner.FormStructure, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.NavTimeout)
	defer cancel()
	return r.scanner.Scan(ctx, url)
}

func (r *Runner) generate(ctx context.Context, set *resolve.Set) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.GenerateTimeout)
	defer cancel()
	return r.resolver.GenerateAnswers(ctx, set)
}

func (r *Runner) fill(ctx context.Context, form *scanner.FormStructure, answers map[string]string) (*submit.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.NavTimeout)
	defer cancel()
	return r.submitter.Submit(ctx, form, answers)
}

func (r *Runner) logged(job discovery.JobListing, externalURL string, outcome history.Outcome,
	preview map[string]string, result Result) (Result, error) {
	rec := history.ApplicationRecord{
		URL:           job.URL,
		ExternalURL:   externalURL,
		Company:       job.Company,
		Title:         job.Title,
		Timestamp:     time.Now().UTC(),
		Outcome:       outcome,
		AnswerPreview: preview,
	}
	if err := r.history.Record(rec); err != nil {
		return result, fmt.Errorf("failed to persist application record for %s: %w", job.URL, err)
	}
	if r.notifier != nil && result.Status == StatusSubmitted {
		r.notifier.ApplicationSubmitted(rec)
	}
	return result, nil
}

func (r *Runner) loggedWithPreview(job discovery.JobListing, externalURL string, outcome history.Outcome,
	set *resolve.Set, answers map[string]string, result Result) (Result, error) {
	return r.logged(job, externalURL, outcome, answerPreview(set, answers), result)
}

// answerPreview keeps the first few generated answers, truncated, for the
// audit log.
func answerPreview(set *resolve.Set, answers map[string]string) map[string]string {
	preview := make(map[string]string)
	for label := range set.Generated {
		if len(preview) >= 3 {
			break
		}
		text := answers[label]
		//truncate on a rune boundary, the preview is persisted as JSON
		if utf8.RuneCountInString(text) > 100 {
			text = string([]rune(text)[:100]) + "..."
		}
		preview[label] = text
	}
	if len(preview) == 0 {
		return nil
	}
	return preview
}
