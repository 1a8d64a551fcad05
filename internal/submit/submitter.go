package submit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"go-openclaw-apply/internal/browser"
	"go-openclaw-apply/internal/scanner"
)

// Outcome of one submission attempt.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomePartial Outcome = "partial"
	OutcomeFailure Outcome = "failure"
)

type FieldError struct {
	Label    string `json:"label"`
	Selector string `json:"selector"`
	Message  string `json:"message"`
}

type Result struct {
	FilledCount int          `json:"filledCount"`
	TotalFields int          `json:"totalFields"`
	Errors      []FieldError `json:"errors"`
}

// Outcome derives the terminal state: failure when a non-empty form got
// nothing filled (whether writes failed or nothing matched at all), success
// when every attempted write landed, partial otherwise. An empty form is
// trivially complete.
func (r *Result) Outcome() Outcome {
	if r.TotalFields > 0 && r.FilledCount == 0 {
		return OutcomeFailure
	}
	if len(r.Errors) == 0 {
		return OutcomeSuccess
	}
	return OutcomePartial
}

type fieldMatch struct {
	Selector string `json:"selector"`
	Value    string `json:"value"`
	Type     string `json:"type"`
}

type Submitter struct {
	driver browser.Driver
}

func NewSubmitter(driver browser.Driver) *Submitter {
	return &Submitter{driver: driver}
}

// Submit writes resolved values into the live form. Only fields present in
// both the form and the answers are attempted; the rest are skipped and
// counted. Individual write failures never abort the remaining writes.
func (s *Submitter) Submit(ctx context.Context, form *scanner.FormStructure, answers map[string]string) (*Result, error) {
	matches := make(map[string]fieldMatch)
	for _, field := range form.Fields {
		value, ok := answers[field.Label]
		if !ok {
			continue
		}
		matches[field.Label] = fieldMatch{
			Selector: field.Selector,
			Value:    value,
			Type:     string(field.Type),
		}
	}

	result := &Result{TotalFields: len(form.Fields)}
	if len(matches) == 0 {
		log.Printf("📝 Nothing to fill on %s (%d fields, 0 matched)", form.Domain, len(form.Fields))
		return result, nil
	}

	if err := s.driver.Navigate(ctx, form.URL); err != nil {
		return nil, fmt.Errorf("failed to open form for filling: %w", err)
	}

	data, err := s.driver.ExecuteScript(ctx, browser.FillScript, matches)
	if err != nil {
		return nil, fmt.Errorf("failed to fill form: %w", err)
	}

	var raw struct {
		FilledCount int          `json:"filledCount"`
		Errors      []FieldError `json:"errors"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse fill result: %w", err)
	}

	result.FilledCount = raw.FilledCount
	result.Errors = raw.Errors
	log.Printf("📝 Filled %d/%d fields on %s (%d errors)", result.FilledCount, result.TotalFields, form.Domain, len(result.Errors))
	return result, nil
}
