package services

import (
	"context"
	"strings"
	"time"

	"github.com/dkoval/jobpilot/internal/entities"
	"github.com/dkoval/jobpilot/internal/logger"
	"github.com/dkoval/jobpilot/internal/metrics"
	"github.com/dkoval/jobpilot/internal/pipeline"
	log "github.com/sirupsen/logrus"
)

// RawPosting is a scraped job posting before it gains an identity in the
// store. Source and URL are provenance only and never affect the fingerprint.
type RawPosting struct {
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	PostedAt    time.Time `json:"posted_at"`
}

type Ingester struct {
	jobs jobRepository
}

func NewIngester(jobs jobRepository) *Ingester {
	return &Ingester{jobs: jobs}
}

// IngestResult reports what a batch actually changed in the store.
type IngestResult struct {
	Inserted   int
	Duplicates int
	Skipped    int
}

// Ingest stores a batch of postings, deduplicating by fingerprint both within
// the batch and against previously stored jobs. Re-scraping is a no-op: an
// existing job is never modified, whatever its pipeline status.
func (i *Ingester) Ingest(ctx context.Context, postings []RawPosting) (*IngestResult, error) {

	result := &IngestResult{}
	seen := make(map[string]struct{}, len(postings))

	for _, posting := range postings {
		if strings.TrimSpace(posting.Title) == "" || strings.TrimSpace(posting.Company) == "" {
			log.Warnf("skipping posting without title or company (source: %v)", posting.Source)
			result.Skipped++
			continue
		}

		job := entities.NewJob(posting.Title, posting.Company, posting.Location,
			posting.Description, posting.Source, posting.URL, posting.PostedAt)

		if _, ok := seen[job.Fingerprint]; ok {
			result.Duplicates++
			continue
		}
		seen[job.Fingerprint] = struct{}{}

		inserted, err := i.jobs.Upsert(ctx, job)
		if err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to store job: %v", err)
			return result, pipeline.Fail(pipeline.StageIngest, err, "store failed")
		}

		if inserted {
			result.Inserted++
			metrics.JobsIngestedCounter.Inc()
		} else {
			result.Duplicates++
		}
	}

	log.Infof("ingested %d jobs (%d duplicates, %d skipped)",
		result.Inserted, result.Duplicates, result.Skipped)
	return result, nil
}
