package services

import (
	"context"
	"time"

	"github.com/dkoval/jobpilot/internal/entities"
	"github.com/dkoval/jobpilot/internal/logger"
	"github.com/dkoval/jobpilot/internal/pipeline"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Tracker struct {
	jobs         jobRepository
	scores       scoreRepository
	applications applicationRepository
}

func NewTracker(jobs jobRepository, scores scoreRepository, applications applicationRepository) *Tracker {
	return &Tracker{
		jobs:         jobs,
		scores:       scores,
		applications: applications,
	}
}

// TrackingStats is the aggregate funnel view over all recorded applications.
type TrackingStats struct {
	TotalJobs       int64                                  `json:"total_jobs"`
	JobsByStatus    map[entities.JobStatus]int64           `json:"jobs_by_status"`
	TotalApps       int64                                  `json:"total_applications"`
	AppsByStatus    map[entities.ApplicationStatus]int64   `json:"applications_by_status"`
	AverageScore    float64                                `json:"average_match_score"`
	ApplicationRate float64                                `json:"application_rate"`
	InterviewRate   float64                                `json:"interview_rate"`
	OfferRate       float64                                `json:"offer_rate"`
}

// RecordApplication registers an application against a known job and moves
// the job to its terminal status. The job must exist; the score and resume
// reference are snapshotted into the record so later rescoring cannot rewrite
// application history.
func (t *Tracker) RecordApplication(ctx context.Context, fingerprint, resumeFile, note string) (*entities.Application, error) {

	if _, err := t.jobs.Get(ctx, fingerprint); err != nil {
		return nil, pipeline.Failf(pipeline.StageTracking, err, "job %v", fingerprint)
	}

	application := entities.Application{
		ID:             uuid.NewString(),
		JobFingerprint: fingerprint,
		ResumeFile:     resumeFile,
		Status:         entities.ApplicationSubmitted,
		AppliedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	application.AppendNote(note, time.Now())

	if score, err := t.scores.Get(ctx, fingerprint); err == nil {
		application.MatchScore = score.Overall
		application.VariantUsed = score.RecommendedVariant
	}

	if err := t.applications.Create(ctx, application); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to create application: %v", err)
		return nil, pipeline.Fail(pipeline.StageTracking, err, "store failed")
	}

	if err := t.jobs.AdvanceStatus(ctx, fingerprint, entities.JobStatusApplied); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to advance job status: %v", err)
		return nil, pipeline.Fail(pipeline.StageTracking, err, "status update failed")
	}

	return &application, nil
}

// UpdateStatus moves an application through its lifecycle. The status must be
// one of the known values; an optional note is appended to the log.
func (t *Tracker) UpdateStatus(ctx context.Context, id string, status entities.ApplicationStatus, note string) (*entities.Application, error) {

	if !status.IsValid() {
		return nil, pipeline.Failf(pipeline.StageTracking, pipeline.ErrInvalidInput, "unknown application status %q", status)
	}

	application, err := t.applications.Get(ctx, id)
	if err != nil {
		return nil, pipeline.Failf(pipeline.StageTracking, err, "application %v", id)
	}

	application.Status = status
	application.UpdatedAt = time.Now()
	application.AppendNote(note, time.Now())

	if err = t.applications.Update(ctx, *application); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to update application: %v", err)
		return nil, pipeline.Fail(pipeline.StageTracking, err, "store failed")
	}

	return application, nil
}

func (t *Tracker) Get(ctx context.Context, id string) (*entities.Application, error) {
	application, err := t.applications.Get(ctx, id)
	if err != nil {
		return nil, pipeline.Failf(pipeline.StageTracking, err, "application %v", id)
	}
	return application, nil
}

func (t *Tracker) List(ctx context.Context, status entities.ApplicationStatus, limit int) ([]entities.Application, error) {
	applications, err := t.applications.List(ctx, status, limit)
	if err != nil {
		return nil, pipeline.Fail(pipeline.StageTracking, err, "list failed")
	}
	return applications, nil
}

// Stats computes the funnel snapshot. Rates are zero when their denominator
// is zero, never NaN.
func (t *Tracker) Stats(ctx context.Context) (*TrackingStats, error) {

	totalJobs, err := t.jobs.Count(ctx)
	if err != nil {
		return nil, pipeline.Fail(pipeline.StageTracking, err, "job count failed")
	}

	jobsByStatus, err := t.jobs.CountByStatus(ctx)
	if err != nil {
		return nil, pipeline.Fail(pipeline.StageTracking, err, "job count failed")
	}

	totalApps, err := t.applications.Count(ctx)
	if err != nil {
		return nil, pipeline.Fail(pipeline.StageTracking, err, "application count failed")
	}

	appsByStatus, err := t.applications.CountByStatus(ctx)
	if err != nil {
		return nil, pipeline.Fail(pipeline.StageTracking, err, "application count failed")
	}

	stats := &TrackingStats{
		TotalJobs:    totalJobs,
		JobsByStatus: jobsByStatus,
		TotalApps:    totalApps,
		AppsByStatus: appsByStatus,
	}

	if totalApps > 0 {
		average, err := t.applications.AverageMatchScore(ctx)
		if err != nil {
			return nil, pipeline.Fail(pipeline.StageTracking, err, "score aggregation failed")
		}
		stats.AverageScore = average

		// Interviews and offers both count as having reached the interview
		// stage, offers alone count for the offer rate.
		interviews := appsByStatus[entities.ApplicationInterview] + appsByStatus[entities.ApplicationOffer]
		stats.InterviewRate = float64(interviews) / float64(totalApps)
		stats.OfferRate = float64(appsByStatus[entities.ApplicationOffer]) / float64(totalApps)
	}

	if totalJobs > 0 {
		stats.ApplicationRate = float64(totalApps) / float64(totalJobs)
	}

	return stats, nil
}
