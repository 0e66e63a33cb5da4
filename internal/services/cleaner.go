package services

import (
	"context"
	"time"

	"github.com/dkoval/jobpilot/internal/entities"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// JobsCleaner removes jobs that were never picked up by the pipeline: only
// postings still in the initial status expire, everything that got analyzed
// or further stays.
type JobsCleaner struct {
	jobs             jobRepository
	cron             *cron.Cron
	expirationInDays int
}

func NewJobsCleaner(jobs jobRepository, expirationInDays int) (*JobsCleaner, error) {

	if expirationInDays <= 0 {
		return nil, errors.New("expiration in days must be greater than zero")
	}

	jc := &JobsCleaner{
		jobs:             jobs,
		cron:             cron.New(),
		expirationInDays: expirationInDays,
	}

	_, err := jc.cron.AddFunc("0 0 * * *", jc.cleanStaleJobs)
	if err != nil {
		return nil, err
	}

	jc.cron.Start()
	log.Infof("jobs cleaner started, expiration in days: %d", jc.expirationInDays)
	return jc, nil
}

func (jc *JobsCleaner) Stop() {
	jc.cron.Stop()
}

func (jc *JobsCleaner) cleanStaleJobs() {
	cutoff := time.Now().Add(-time.Duration(jc.expirationInDays) * 24 * time.Hour)
	rowsAffected, err := jc.jobs.RemoveStale(context.Background(), entities.JobStatusNew, cutoff)
	if err != nil {
		log.Errorf("Failed to clean stale jobs: %v", err)
	} else {
		log.Infof("Stale jobs cleaned, affected rows: %v", rowsAffected)
	}
}
