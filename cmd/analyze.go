package main

import (
	"context"
	"fmt"

	"github.com/dkoval/jobpilot/internal/entities"
	"github.com/dkoval/jobpilot/internal/services"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var analyzeAll bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze [fingerprint]",
	Short: "Extract structured requirements from a job description",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {

		oracleClient, err := a.newOracle(ctx)
		if err != nil {
			return err
		}
		analyzer := services.NewAnalyzer(a.bus, oracleClient, a.jobs, a.analyses)

		if !analyzeAll {
			if len(args) == 0 {
				return fmt.Errorf("either a fingerprint or --all is required")
			}
			analysis, err := analyzer.Analyze(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(analysis)
		}

		jobs, err := a.jobs.List(ctx, entities.JobStatusNew, 0)
		if err != nil {
			return err
		}

		for _, job := range jobs {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if _, err = analyzer.Analyze(ctx, job.Fingerprint); err != nil {
				log.Errorf("failed to analyze %v at %v: %v", job.Title, job.Company, err)
				continue
			}
			fmt.Printf("analyzed %v at %v\n", job.Title, job.Company)
		}
		return nil
	}),
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeAll, "all", false, "analyze every job still in the new status")
}
