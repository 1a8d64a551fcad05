package scanner

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"go-openclaw-apply/internal/browser"
)

// InputType is the closed set of form input kinds the resolver understands.
type InputType string

const (
	InputText     InputType = "text"
	InputEmail    InputType = "email"
	InputTel      InputType = "tel"
	InputURL      InputType = "url"
	InputNumber   InputType = "number"
	InputDate     InputType = "date"
	InputTextarea InputType = "textarea"
	InputSelect   InputType = "select"
	InputRadio    InputType = "radio"
	InputCheckbox InputType = "checkbox"
	InputFile     InputType = "file"
)

// NormalizeType maps whatever type string the page reports onto the closed
// set. Exotic input types degrade to plain text.
func NormalizeType(raw string) InputType {
	switch InputType(raw) {
	case InputEmail, InputTel, InputURL, InputNumber, InputDate,
		InputTextarea, InputSelect, InputRadio, InputCheckbox, InputFile:
		return InputType(raw)
	default:
		return InputText
	}
}

type Option struct {
	Value string `json:"value"`
	Text  string `json:"text"`
}

type Field struct {
	Label    string    `json:"label"`
	Type     InputType `json:"type"`
	Name     string    `json:"name,omitempty"`
	ID       string    `json:"id,omitempty"`
	Required bool      `json:"required"`
	Options  []Option  `json:"options,omitempty"`
	//Selector is the opaque locator the submitter uses to address the
	//field in the live page
	Selector string `json:"selector"`
}

type FormStructure struct {
	URL    string  `json:"url"`
	Domain string  `json:"domain"`
	Fields []Field `json:"fields"`
}

type Scanner struct {
	driver browser.Driver
}

func NewScanner(driver browser.Driver) *Scanner {
	return &Scanner{driver: driver}
}

// Scan navigates to the application page and returns its field structure.
// The page context is released on every exit path. A form with zero
// matched fields is a valid result, not an error.
func (s *Scanner) Scan(ctx context.Context, url string) (_ *FormStructure, err error) {
	if navErr := s.driver.Navigate(ctx, url); navErr != nil {
		return nil, fmt.Errorf("failed to open application page: %w", navErr)
	}
	defer func() {
		if err != nil {
			if shot, ok := s.driver.(browser.Screenshotter); ok {
				shot.CaptureScreenshot("scan-failure")
			}
		}
		if closeErr := s.driver.CloseContext(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to release page context: %w", closeErr)
		}
	}()

	data, execErr := s.driver.ExecuteScript(ctx, browser.ScanScript, nil)
	if execErr != nil {
		return nil, fmt.Errorf("failed to scan form: %w", execErr)
	}

	var raw struct {
		URL    string `json:"url"`
		Domain string `json:"domain"`
		Fields []struct {
			Label    string   `json:"label"`
			Type     string   `json:"type"`
			Name     string   `json:"name"`
			ID       string   `json:"id"`
			Required bool     `json:"required"`
			Options  []Option `json:"options"`
			Selector string   `json:"selector"`
		} `json:"fields"`
	}
	if jsonErr := json.Unmarshal(data, &raw); jsonErr != nil {
		return nil, fmt.Errorf("failed to parse form structure: %w", jsonErr)
	}

	form := &FormStructure{URL: raw.URL, Domain: raw.Domain}
	if form.URL == "" {
		form.URL = url
	}
	for _, f := range raw.Fields {
		if f.Label == "" || f.Selector == "" {
			continue
		}
		form.Fields = append(form.Fields, Field{
			Label:    f.Label,
			Type:     NormalizeType(f.Type),
			Name:     f.Name,
			ID:       f.ID,
			Required: f.Required,
			Options:  f.Options,
			Selector: f.Selector,
		})
	}

	log.Printf("🔍 Scanned %s: %d fields", form.Domain, len(form.Fields))
	return form, nil
}
