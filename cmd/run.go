package main

import (
	"context"
	"time"

	"github.com/dkoval/jobpilot/internal/entities"
	"github.com/dkoval/jobpilot/internal/metrics"
	"github.com/dkoval/jobpilot/internal/services"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Continuously analyze and score stored jobs until interrupted",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {

		if a.cfg.Pipeline.MetricsAddress != "" {
			metrics.StartMetricsServer(a.cfg.Pipeline.MetricsAddress)
		}

		cleaner, err := services.NewJobsCleaner(a.jobs, a.cfg.Pipeline.JobExpirationInDays)
		if err != nil {
			return err
		}
		defer cleaner.Stop()

		oracleClient, err := a.newOracle(ctx)
		if err != nil {
			return err
		}

		candidate, err := a.loadProfile()
		if err != nil {
			return err
		}

		analyzer := services.NewAnalyzer(a.bus, oracleClient, a.jobs, a.analyses)
		matcher := services.NewMatcher(a.bus, a.jobs, a.analyses, a.scores,
			nil, a.cfg.Pipeline.HighMatchThreshold)

		ticker := time.NewTicker(a.cfg.Pipeline.ProcessInterval)
		defer ticker.Stop()

		log.Infof("pipeline started, processing every %v", a.cfg.Pipeline.ProcessInterval)
		processPending(ctx, a, analyzer, matcher, candidate)

		for {
			select {
			case <-ctx.Done():
				log.Info("Shutting down services...")
				return nil
			case <-ticker.C:
				processPending(ctx, a, analyzer, matcher, candidate)
			}
		}
	}),
}

// processPending drains the backlog one stage at a time: new jobs get
// analyzed, analyzed jobs get scored. Per-job failures are logged and the
// rest of the batch proceeds.
func processPending(ctx context.Context, a *app, analyzer *services.Analyzer,
	matcher *services.Matcher, candidate *entities.Profile) {

	jobs, err := a.jobs.List(ctx, entities.JobStatusNew, 0)
	if err != nil {
		log.Errorf("failed to list new jobs: %v", err)
		return
	}
	for _, job := range jobs {
		if ctx.Err() != nil {
			return
		}
		if _, err = analyzer.Analyze(ctx, job.Fingerprint); err != nil {
			log.Errorf("failed to analyze %v at %v: %v", job.Title, job.Company, err)
		}
	}

	analyzed, err := a.jobs.List(ctx, entities.JobStatusAnalyzed, 0)
	if err != nil {
		log.Errorf("failed to list analyzed jobs: %v", err)
		return
	}
	for _, job := range analyzed {
		if ctx.Err() != nil {
			return
		}
		if _, err = matcher.Match(ctx, *candidate, job.Fingerprint); err != nil {
			log.Errorf("failed to match %v at %v: %v", job.Title, job.Company, err)
		}
	}
}
