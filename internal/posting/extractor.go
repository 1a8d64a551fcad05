package posting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"go-openclaw-apply/internal/browser"
)

// ErrNoExternalURL means the job page carries no discoverable application
// link. Terminal for that job, never retried within a run.
var ErrNoExternalURL = errors.New("no external application URL found")

type Details struct {
	Description            string
	Requirements           string
	ExternalApplicationURL string
	ATS                    ATS
}

type Extractor struct {
	driver browser.Driver
}

func NewExtractor(driver browser.Driver) *Extractor {
	return &Extractor{driver: driver}
}

// Extract opens the job page and pulls description, requirements and the
// external application link out of the rendered DOM.
func (e *Extractor) Extract(ctx context.Context, jobURL string) (*Details, error) {
	if err := e.driver.Navigate(ctx, jobURL); err != nil {
		return nil, fmt.Errorf("failed to open job page: %w", err)
	}

	data, err := e.driver.ExecuteScript(ctx, browser.ExtractScript, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to extract job details: %w", err)
	}

	var raw struct {
		Description  string `json:"description"`
		ExternalURL  string `json:"externalUrl"`
		Requirements string `json:"requirements"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse job details: %w", err)
	}

	if strings.TrimSpace(raw.ExternalURL) == "" {
		return nil, ErrNoExternalURL
	}

	details := &Details{
		Description:            flattenHTML(raw.Description),
		Requirements:           strings.TrimSpace(raw.Requirements),
		ExternalApplicationURL: raw.ExternalURL,
		ATS:                    ClassifyATS(raw.ExternalURL),
	}
	log.Printf("📄 Extracted posting: ats=%s, description=%d chars", details.ATS, len(details.Description))
	return details, nil
}

// flattenHTML reduces the description markup to readable plain text.
func flattenHTML(html string) string {
	if html == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}
	text := doc.Text()
	return strings.Join(strings.Fields(text), " ")
}
