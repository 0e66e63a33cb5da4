package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dkoval/jobpilot/internal/entities"
	"github.com/dkoval/jobpilot/internal/services"
	"github.com/spf13/cobra"
)

var (
	listStatus   string
	listLimit    int
	listMinScore float64
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored jobs, matches or applications",
}

var listJobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List stored jobs, optionally by pipeline status",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {

		jobs, err := a.jobs.List(ctx, entities.JobStatus(listStatus), listLimit)
		if err != nil {
			return err
		}

		for _, job := range jobs {
			fmt.Printf("%v  [%v]  %v at %v\n", job.Fingerprint[:8], job.Status, job.Title, job.Company)
		}
		return nil
	}),
}

var listMatchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List scored jobs above a minimum overall score",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {

		scores, err := a.scores.ListAbove(ctx, listMinScore, listLimit)
		if err != nil {
			return err
		}

		for _, score := range scores {
			fmt.Printf("%5.1f  %v  (%v)\n", score.Overall, score.JobFingerprint[:8], score.RecommendedVariant)
		}
		return nil
	}),
}

var listApplicationsCmd = &cobra.Command{
	Use:   "applications",
	Short: "List recorded applications, optionally by status",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {

		tracker := services.NewTracker(a.jobs, a.scores, a.applications)
		applications, err := tracker.List(ctx, entities.ApplicationStatus(listStatus), listLimit)
		if err != nil {
			return err
		}

		for _, application := range applications {
			fmt.Printf("%v  [%v]  job %v  score %.1f\n",
				application.ID, application.Status, application.JobFingerprint[:8], application.MatchScore)
		}
		return nil
	}),
}

func init() {
	listCmd.PersistentFlags().StringVar(&listStatus, "status", "", "filter by status")
	listCmd.PersistentFlags().IntVar(&listLimit, "limit", 20, "maximum number of rows, 0 for all")
	listMatchesCmd.Flags().Float64Var(&listMinScore, "min-score", 0, "minimum overall score")

	listCmd.AddCommand(listJobsCmd)
	listCmd.AddCommand(listMatchesCmd)
	listCmd.AddCommand(listApplicationsCmd)
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
