package main

import (
	"context"
	"fmt"

	"github.com/dkoval/jobpilot/internal/profile"
	"github.com/dkoval/jobpilot/internal/renderer"
	"github.com/dkoval/jobpilot/internal/services"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate <fingerprint>",
	Short: "Render a customized resume for a scored job",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {

		fileRenderer, err := renderer.NewFileRenderer(a.cfg.Pipeline.TemplatePath, a.cfg.Pipeline.OutputDir)
		if err != nil {
			return err
		}

		oracleClient, err := a.newOracle(ctx)
		if err != nil {
			return err
		}

		generator := services.NewGenerator(a.bus, a.jobs, a.analyses, a.scores,
			profile.NewFileSource(a.cfg.Pipeline.ProfilePath),
			services.NewCustomizer(oracleClient), fileRenderer,
			a.cfg.Pipeline.UseAICustomization)

		artifactRef, err := generator.Generate(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Println(artifactRef)
		return nil
	}),
}
