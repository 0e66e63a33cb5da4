package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/dkoval/jobpilot/internal/entities"
	"github.com/dkoval/jobpilot/internal/events"
	"github.com/dkoval/jobpilot/internal/logger"
	"github.com/dkoval/jobpilot/internal/metrics"
	"github.com/dkoval/jobpilot/internal/pipeline"
	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// The instruction set is deliberately constrained: the oracle may only use
// the supplied text and must return exactly the five named fields.
const analysisPrompt = `You are a job description analyzer. Your task is to extract structured information.

CRITICAL RULES - NEVER VIOLATE:
1. ONLY extract information present in the job description
2. DO NOT invent or assume information
3. DO NOT add sections not requested
4. Return ONLY valid JSON

Extract the following from the job description:
- required_skills: list of required technical skills
- nice_to_have_skills: list of preferred/optional skills
- ats_keywords: important unique keywords that appear in the description
- role_category: type of role (e.g. "ML Engineer", "Backend Engineer", "Data Scientist")
- experience_level: required experience (e.g. "Entry", "Mid", "Senior", "Lead")

Return as JSON only, no markdown, no explanations.`

var analysisFields = []string{
	"required_skills", "nice_to_have_skills", "ats_keywords", "role_category", "experience_level",
}

type Analyzer struct {
	bus      EventBus.Bus
	oracle   oracleClient
	jobs     jobRepository
	analyses analysisRepository
	cache    *gocache.Cache
}

func NewAnalyzer(bus EventBus.Bus, oracle oracleClient, jobs jobRepository, analyses analysisRepository) *Analyzer {
	return &Analyzer{
		bus:      bus,
		oracle:   oracle,
		jobs:     jobs,
		analyses: analyses,
		cache:    gocache.New(10*time.Minute, 20*time.Minute),
	}
}

// Analyze extracts structured requirements for the job. Idempotent: a stored
// analysis is returned untouched and the oracle is not invoked again.
func (a *Analyzer) Analyze(ctx context.Context, fingerprint string) (*entities.Analysis, error) {

	if cached, found := a.cache.Get(fingerprint); found {
		analysis := cached.(entities.Analysis)
		return &analysis, nil
	}

	job, err := a.jobs.Get(ctx, fingerprint)
	if err != nil {
		return nil, pipeline.Failf(pipeline.StageAnalysis, err, "job %v", fingerprint)
	}

	if strings.TrimSpace(job.Description) == "" {
		return nil, pipeline.Fail(pipeline.StageAnalysis, pipeline.ErrInvalidInput, "job has no description")
	}

	existing, err := a.analyses.Get(ctx, fingerprint)
	if err == nil {
		a.rememberAnalysis(*existing)
		return existing, nil
	}
	if !errors.Is(err, pipeline.ErrNotFound) {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to get analysis: %v", err)
		return nil, pipeline.Fail(pipeline.StageAnalysis, err, "lookup failed")
	}

	prompt := analysisPrompt + "\n\nJob Title: " + job.Title + "\nCompany: " + job.Company +
		"\n\nJob Description:\n" + job.Description

	start := time.Now()
	response, err := a.oracle.Infer(ctx, prompt)
	metrics.StageDuration.WithLabelValues(pipeline.StageAnalysis).Observe(time.Since(start).Seconds())

	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeOracle).
				Errorf("failed to analyze job %v: %v", fingerprint, err)
		}
		return nil, pipeline.Fail(pipeline.StageAnalysis, err, "oracle call failed")
	}

	analysis, err := parseAnalysis(response)
	if err != nil {
		metrics.OracleRejectionsCounter.Inc()
		return nil, pipeline.Fail(pipeline.StageAnalysis, err, "oracle response rejected")
	}

	analysis.JobFingerprint = fingerprint
	analysis.AnalyzedAt = time.Now()

	if err = a.analyses.Put(ctx, *analysis); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to store analysis: %v", err)
		return nil, pipeline.Fail(pipeline.StageAnalysis, err, "store failed")
	}

	if err = a.jobs.AdvanceStatus(ctx, fingerprint, entities.JobStatusAnalyzed); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to advance job status: %v", err)
		return nil, pipeline.Fail(pipeline.StageAnalysis, err, "status update failed")
	}

	metrics.JobsAnalyzedCounter.Inc()
	a.rememberAnalysis(*analysis)

	a.bus.Publish(events.JobAnalyzedTopic, events.JobAnalyzed{
		Fingerprint:  fingerprint,
		Title:        job.Title,
		Company:      job.Company,
		RoleCategory: analysis.RoleCategory,
	})

	return analysis, nil
}

func (a *Analyzer) rememberAnalysis(analysis entities.Analysis) {
	if err := a.cache.Add(analysis.JobFingerprint, analysis, gocache.DefaultExpiration); err != nil {
		log.Debugf("failed to cache analysis: %v", err)
	}
}

// parseAnalysis treats the oracle output as untrusted input: the JSON must
// contain all five fields or the whole response is rejected. No partial
// analysis is ever produced.
func parseAnalysis(response string) (*entities.Analysis, error) {

	payload := extractJSONObject(response)
	if payload == "" {
		return nil, errors.Wrap(pipeline.ErrValidationFailed, "no JSON object in response")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, errors.Wrapf(pipeline.ErrValidationFailed, "response is not valid JSON: %v", err)
	}

	for _, field := range analysisFields {
		if _, ok := raw[field]; !ok {
			return nil, errors.Wrapf(pipeline.ErrValidationFailed, "missing field %q", field)
		}
	}

	var analysis entities.Analysis
	if err := json.Unmarshal([]byte(payload), &analysis); err != nil {
		return nil, errors.Wrapf(pipeline.ErrValidationFailed, "unexpected field types: %v", err)
	}

	return &analysis, nil
}

// extractJSONObject tolerates markdown fences around the payload, a common
// oracle quirk.
func extractJSONObject(response string) string {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return response[start : end+1]
}
