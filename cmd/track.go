package main

import (
	"context"
	"fmt"

	"github.com/dkoval/jobpilot/internal/entities"
	"github.com/dkoval/jobpilot/internal/services"
	"github.com/spf13/cobra"
)

var (
	trackResume string
	trackNote   string
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Record and update job applications",
}

var trackApplyCmd = &cobra.Command{
	Use:   "apply <fingerprint>",
	Short: "Record an application for a stored job",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {

		tracker := services.NewTracker(a.jobs, a.scores, a.applications)
		application, err := tracker.RecordApplication(ctx, args[0], trackResume, trackNote)
		if err != nil {
			return err
		}

		fmt.Printf("application recorded: %v\n", application.ID)
		return nil
	}),
}

var trackUpdateCmd = &cobra.Command{
	Use:   "update <application-id> <status>",
	Short: "Move an application to a new status",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {

		tracker := services.NewTracker(a.jobs, a.scores, a.applications)
		application, err := tracker.UpdateStatus(ctx, args[0], entities.ApplicationStatus(args[1]), trackNote)
		if err != nil {
			return err
		}

		return printJSON(application)
	}),
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the application funnel: jobs, applications, rates",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {

		tracker := services.NewTracker(a.jobs, a.scores, a.applications)
		stats, err := tracker.Stats(ctx)
		if err != nil {
			return err
		}

		return printJSON(stats)
	}),
}

func init() {
	trackApplyCmd.Flags().StringVar(&trackResume, "resume", "", "path of the resume that was sent")
	trackApplyCmd.Flags().StringVar(&trackNote, "note", "", "note to attach to the application")
	trackUpdateCmd.Flags().StringVar(&trackNote, "note", "", "note to attach to the update")

	trackCmd.AddCommand(trackApplyCmd)
	trackCmd.AddCommand(trackUpdateCmd)
}
