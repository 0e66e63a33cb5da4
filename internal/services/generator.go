package services

import (
	"context"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/dkoval/jobpilot/internal/entities"
	"github.com/dkoval/jobpilot/internal/events"
	"github.com/dkoval/jobpilot/internal/logger"
	"github.com/dkoval/jobpilot/internal/metrics"
	"github.com/dkoval/jobpilot/internal/pipeline"
	log "github.com/sirupsen/logrus"
)

// Renderer turns a validated profile plus job metadata into an artifact
// reference. Opaque to the pipeline.
type Renderer interface {
	Render(profile entities.Profile, job entities.Job, score entities.MatchScore) (string, error)
}

type profileSource interface {
	Load() (*entities.Profile, error)
}

type Generator struct {
	bus        EventBus.Bus
	jobs       jobRepository
	analyses   analysisRepository
	scores     scoreRepository
	profiles   profileSource
	customizer *Customizer
	renderer   Renderer
	useOracle  bool
}

func NewGenerator(bus EventBus.Bus, jobs jobRepository, analyses analysisRepository,
	scores scoreRepository, profiles profileSource, customizer *Customizer,
	renderer Renderer, useOracle bool) *Generator {

	return &Generator{
		bus:        bus,
		jobs:       jobs,
		analyses:   analyses,
		scores:     scores,
		profiles:   profiles,
		customizer: customizer,
		renderer:   renderer,
		useOracle:  useOracle,
	}
}

// Generate renders a document for the job and returns the artifact reference.
// Requires a stored analysis and score; customization is attempted but its
// failure only forfeits personalization.
func (g *Generator) Generate(ctx context.Context, fingerprint string) (string, error) {

	job, err := g.jobs.Get(ctx, fingerprint)
	if err != nil {
		return "", pipeline.Failf(pipeline.StageGenerate, err, "job %v", fingerprint)
	}

	analysis, err := g.analyses.Get(ctx, fingerprint)
	if err != nil {
		return "", pipeline.Failf(pipeline.StageGenerate, err, "analysis for job %v", fingerprint)
	}

	score, err := g.scores.Get(ctx, fingerprint)
	if err != nil {
		return "", pipeline.Failf(pipeline.StageGenerate, err, "score for job %v", fingerprint)
	}

	profile, err := g.profiles.Load()
	if err != nil {
		return "", pipeline.Fail(pipeline.StageGenerate, err, "profile load failed")
	}

	start := time.Now()
	customized := g.customizer.Customize(ctx, *profile, *analysis, *score, g.useOracle)
	metrics.StageDuration.WithLabelValues(pipeline.StageCustomize).Observe(time.Since(start).Seconds())

	artifactRef, err := g.renderer.Render(customized, *job, *score)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeRender).Errorf("failed to render document: %v", err)
		return "", pipeline.Fail(pipeline.StageGenerate, err, "render failed")
	}

	g.bus.Publish(events.DocumentGeneratedTopic, events.DocumentGenerated{
		Fingerprint: fingerprint,
		Company:     job.Company,
		ArtifactRef: artifactRef,
	})

	return artifactRef, nil
}
