package pipeline

import (
	"context"
	"log"
	"time"

	"go-openclaw-apply/internal/discovery"
	"go-openclaw-apply/internal/submit"
)

// RunBatch drives the pipeline across discovery pages until the
// submission cap or the page bound is hit. One job's failure never aborts
// the batch; only a history write failure does. Returns the number of
// successful submissions.
func (r *Runner) RunBatch(ctx context.Context) (int, error) {
	applied := 0
	processed := 0

	for page := 1; page <= r.opts.MaxPages && applied < r.opts.MaxApplications; page++ {
		jobs, err := r.discover(ctx, page)
		if err != nil {
			log.Printf("❌ Discovery failed on page %d: %v", page, err)
			continue
		}

		for _, job := range jobs {
			if applied >= r.opts.MaxApplications {
				break
			}
			if err := ctx.Err(); err != nil {
				return applied, err
			}

			processed++
			result, err := r.Apply(ctx, job)
			if err != nil {
				//history write failure: dedup integrity is gone, stop the run
				return applied, err
			}

			switch result.Status {
			case StatusSubmitted:
				if result.Submission.Outcome() == submit.OutcomeSuccess {
					applied++
					log.Printf("🎉 Applied to %s (%d/%d)", job.Company, applied, r.opts.MaxApplications)
					if err := r.cooldown(ctx); err != nil {
						return applied, err
					}
				} else {
					log.Printf("⚠️ Submitted to %s with outcome %s", job.Company, result.Reason)
				}
			case StatusSkippedDuplicate, StatusSkippedLowFit:
				log.Printf("⏭️ Skipped %s: %s", job.Company, result.Status)
			default:
				log.Printf("❌ Error applying to %s: %s", job.Company, result.Reason)
			}
		}
	}

	log.Printf("🏁 Batch complete: %d applications submitted, %d jobs processed", applied, processed)
	if r.notifier != nil {
		r.notifier.RunFinished(applied, processed)
	}
	return applied, nil
}

func (r *Runner) discover(ctx context.Context, page int) ([]discovery.JobListing, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.NavTimeout)
	defer cancel()
	return r.source.Discover(ctx, page)
}

// cooldown sleeps the configured delay between successful submissions.
func (r *Runner) cooldown(ctx context.Context) error {
	if r.opts.Cooldown <= 0 {
		return nil
	}
	timer := time.NewTimer(r.opts.Cooldown)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
