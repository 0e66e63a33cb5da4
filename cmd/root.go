package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/asaskevich/EventBus"
	"github.com/dkoval/jobpilot/internal/clients/gemini"
	"github.com/dkoval/jobpilot/internal/clients/ollama"
	"github.com/dkoval/jobpilot/internal/config"
	"github.com/dkoval/jobpilot/internal/entities"
	"github.com/dkoval/jobpilot/internal/logger"
	"github.com/dkoval/jobpilot/internal/notifier"
	"github.com/dkoval/jobpilot/internal/profile"
	"github.com/dkoval/jobpilot/internal/repositories"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobpilot",
	Short: "jobpilot enriches scraped job postings into analyzed, scored, application-ready records",
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
}

// app holds everything a command needs: config, the record store, the event
// bus and the optional notifier. Built once per invocation, closed on exit.
type app struct {
	cfg          *config.Config
	dbContext    *repositories.DbContext
	bus          EventBus.Bus
	jobs         *repositories.Jobs
	analyses     *repositories.Analyses
	scores       *repositories.Scores
	applications *repositories.Applications
	telegram     *notifier.Telegram
}

func newApp() (*app, error) {

	cfg := config.Get()
	logger.Setup(cfg.Logger)

	dbContext, err := repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		return nil, err
	}

	if err = dbContext.Migrate(); err != nil {
		return nil, err
	}

	a := &app{
		cfg:          cfg,
		dbContext:    dbContext,
		bus:          EventBus.New(),
		jobs:         repositories.NewJobsRepository(dbContext.DB),
		analyses:     repositories.NewAnalysesRepository(dbContext.DB),
		scores:       repositories.NewScoresRepository(dbContext.DB),
		applications: repositories.NewApplicationsRepository(dbContext.DB),
	}

	if cfg.Notifier.Enabled {
		a.telegram, err = notifier.NewTelegram(cfg.Notifier.TelegramToken, cfg.Notifier.TelegramChatID, a.bus)
		if err != nil {
			log.Warnf("notifier disabled: %v", err)
		}
	}

	return a, nil
}

func (a *app) Close() {
	if a.telegram != nil {
		a.telegram.Close()
	}
	if err := a.dbContext.Close(); err != nil {
		log.Errorf("failed to close db: %v", err)
	}
	logger.Cleanup()
}

type oracle interface {
	Ping(ctx context.Context) error
	Infer(ctx context.Context, prompt string) (string, error)
}

func (a *app) newOracle(ctx context.Context) (oracle, error) {

	cfg := a.cfg.AI
	switch cfg.Provider {
	case "gemini":
		model := gemini.Model15Flash
		if cfg.GeminiModel != "" {
			model = gemini.Model(cfg.GeminiModel)
		}
		client, err := gemini.NewClient(ctx, cfg.GeminiKey, model, cfg.ProbeTimeout, cfg.GenerateTimeout)
		if err != nil {
			return nil, err
		}
		if cfg.MaxRequestsPerMinute > 0 {
			client.SetRateLimit(cfg.MaxRequestsPerMinute)
		}
		return client, nil
	default:
		model := cfg.OllamaModel
		if model == "" {
			model = "llama3.2"
		}
		client := ollama.NewClient(cfg.OllamaURL, model, cfg.ProbeTimeout, cfg.GenerateTimeout)
		if cfg.MaxRequestsPerMinute > 0 {
			client.SetRateLimit(cfg.MaxRequestsPerMinute)
		}
		return client, nil
	}
}

func (a *app) loadProfile() (*entities.Profile, error) {
	return profile.NewFileSource(a.cfg.Pipeline.ProfilePath).Load()
}

// withApp bootstraps the application, runs the command body under a
// signal-aware context and tears everything down afterwards.
func withApp(run func(ctx context.Context, a *app, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp()
		if err != nil {
			log.Errorf("failed to initialize: %v", err)
			return err
		}
		defer a.Close()

		return run(ctx, a, args)
	}
}
