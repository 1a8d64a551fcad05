// Define an interface for all discovery sources
// Ensure consistency

package discovery

import (
	"context"
)

type JobListing struct {
	Title      string
	Company    string
	Location   string
	MatchScore int // percent, 0-100
	JobID      string
	URL        string
}

// Source defines the interface that all job discovery sources must implement
type Source interface {
	//Discover listings from one result page of the platform
	Discover(ctx context.Context, page int) ([]JobListing, error)

	//Name is the platform name (Jobright, ...)
	Name() string
}
