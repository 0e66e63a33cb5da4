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

type Matcher struct {
	bus                EventBus.Bus
	jobs               jobRepository
	analyses           analysisRepository
	scores             scoreRepository
	policy             DomainPolicy
	highMatchThreshold float64
}

func NewMatcher(bus EventBus.Bus, jobs jobRepository, analyses analysisRepository,
	scores scoreRepository, policy DomainPolicy, highMatchThreshold float64) *Matcher {

	if policy == nil {
		policy = NewDefaultDomainPolicy()
	}

	return &Matcher{
		bus:                bus,
		jobs:               jobs,
		analyses:           analyses,
		scores:             scores,
		policy:             policy,
		highMatchThreshold: highMatchThreshold,
	}
}

// Match recomputes the score for the job. Unlike analysis, scoring is never
// short-circuited: the latest score always overwrites the stored one.
func (m *Matcher) Match(ctx context.Context, profile entities.Profile, fingerprint string) (*entities.MatchScore, error) {

	job, err := m.jobs.Get(ctx, fingerprint)
	if err != nil {
		return nil, pipeline.Failf(pipeline.StageMatching, err, "job %v", fingerprint)
	}

	analysis, err := m.analyses.Get(ctx, fingerprint)
	if err != nil {
		return nil, pipeline.Failf(pipeline.StageMatching, err, "analysis for job %v", fingerprint)
	}

	start := time.Now()
	score := ComputeScore(profile, *analysis, m.policy)
	metrics.StageDuration.WithLabelValues(pipeline.StageMatching).Observe(time.Since(start).Seconds())

	if err = m.scores.Put(ctx, score); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to store score: %v", err)
		return nil, pipeline.Fail(pipeline.StageMatching, err, "store failed")
	}

	if err = m.jobs.AdvanceStatus(ctx, fingerprint, entities.JobStatusMatched); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to advance job status: %v", err)
		return nil, pipeline.Fail(pipeline.StageMatching, err, "status update failed")
	}

	if score.Overall >= m.highMatchThreshold {
		m.bus.Publish(events.JobMatchedTopic, events.JobMatched{
			Fingerprint: fingerprint,
			Title:       job.Title,
			Company:     job.Company,
			Overall:     score.Overall,
			Variant:     score.RecommendedVariant,
		})
	}

	return &score, nil
}
