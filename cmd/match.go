package main

import (
	"context"
	"fmt"

	"github.com/dkoval/jobpilot/internal/entities"
	"github.com/dkoval/jobpilot/internal/services"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var matchAll bool

var matchCmd = &cobra.Command{
	Use:   "match [fingerprint]",
	Short: "Score a job against the candidate profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {

		candidate, err := a.loadProfile()
		if err != nil {
			return err
		}

		matcher := services.NewMatcher(a.bus, a.jobs, a.analyses, a.scores,
			nil, a.cfg.Pipeline.HighMatchThreshold)

		if !matchAll {
			if len(args) == 0 {
				return fmt.Errorf("either a fingerprint or --all is required")
			}
			score, err := matcher.Match(ctx, *candidate, args[0])
			if err != nil {
				return err
			}
			return printJSON(score)
		}

		jobs, err := a.jobs.List(ctx, entities.JobStatusAnalyzed, 0)
		if err != nil {
			return err
		}

		for _, job := range jobs {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			score, err := matcher.Match(ctx, *candidate, job.Fingerprint)
			if err != nil {
				log.Errorf("failed to match %v at %v: %v", job.Title, job.Company, err)
				continue
			}
			fmt.Printf("%5.1f  %v at %v (%v)\n", score.Overall, job.Title, job.Company, score.RecommendedVariant)
		}
		return nil
	}),
}

func init() {
	matchCmd.Flags().BoolVar(&matchAll, "all", false, "score every analyzed job")
}
