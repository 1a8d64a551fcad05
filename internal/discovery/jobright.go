package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"go-openclaw-apply/internal/browser"
)

// JobrightSource reads the recommendation feed on jobright.ai through the
// browser driver. Listings are extracted in-page, card markup changes land
// in scripts/discover.js rather than here.
type JobrightSource struct {
	driver  browser.Driver
	baseURL string
	seen    mapset.Set[string]
}

func NewJobrightSource(driver browser.Driver, baseURL string) *JobrightSource {
	return &JobrightSource{
		driver:  driver,
		baseURL: baseURL,
		seen:    mapset.NewSet[string](),
	}
}

func (s *JobrightSource) Name() string {
	return "Jobright"
}

type rawListing struct {
	Title      string `json:"title"`
	Company    string `json:"company"`
	Location   string `json:"location"`
	MatchScore string `json:"matchScore"`
	JobID      string `json:"jobId"`
	URL        string `json:"url"`
}

func (s *JobrightSource) Discover(ctx context.Context, page int) ([]JobListing, error) {
	url := s.baseURL
	if page > 1 {
		url = fmt.Sprintf("%s?page=%d", s.baseURL, page)
	}

	if err := s.driver.Navigate(ctx, url); err != nil {
		return nil, fmt.Errorf("failed to open recommendations page %d: %w", page, err)
	}

	//let the feed render, look human while at it
	if pd, ok := s.driver.(*browser.PlaywrightDriver); ok && pd.Page() != nil {
		browser.RandomDelay(2000, 4000)
		browser.HumanScroll(pd.Page())
	}

	data, err := s.driver.ExecuteScript(ctx, browser.DiscoverScript, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to extract listings: %w", err)
	}

	var raw []rawListing
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse listings: %w", err)
	}

	var listings []JobListing
	for _, r := range raw {
		if r.URL == "" || r.Title == "" {
			continue
		}
		//feed pages overlap, drop cards seen on earlier pages
		if !s.seen.Add(r.URL) {
			continue
		}
		listings = append(listings, JobListing{
			Title:      strings.TrimSpace(r.Title),
			Company:    strings.TrimSpace(r.Company),
			Location:   strings.TrimSpace(r.Location),
			MatchScore: parseMatchScore(r.MatchScore),
			JobID:      r.JobID,
			URL:        r.URL,
		})
	}

	log.Printf("📦 Jobright page %d: %d listings (%d new)", page, len(raw), len(listings))
	return listings, nil
}

// parseMatchScore turns the site's "95%" text into an int percent.
func parseMatchScore(text string) int {
	text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "%"))
	if text == "" {
		return 0
	}
	score, err := strconv.Atoi(text)
	if err != nil || score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
