package services

import (
	"context"
	"testing"

	"github.com/asaskevich/EventBus"
	"github.com/dkoval/jobpilot/internal/entities"
	"github.com/dkoval/jobpilot/internal/events"
	"github.com/dkoval/jobpilot/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func matcherAnalysis(fingerprint string) *entities.Analysis {
	return &entities.Analysis{
		JobFingerprint:  fingerprint,
		RequiredSkills:  []string{"Python", "Go"},
		RoleCategory:    "ML Engineer",
		ExperienceLevel: "Senior",
	}
}

func Test_Match_StoresScoreAndAdvancesStatus(t *testing.T) {

	job := testJob()

	jobs := &mockJobs{}
	jobs.On("Get", mock.Anything, job.Fingerprint).Return(job, nil)
	jobs.On("AdvanceStatus", mock.Anything, job.Fingerprint, entities.JobStatusMatched).Return(nil)

	analyses := &mockAnalyses{}
	analyses.On("Get", mock.Anything, job.Fingerprint).Return(matcherAnalysis(job.Fingerprint), nil)

	scores := &mockScores{}
	scores.On("Put", mock.Anything, mock.Anything).Return(nil)

	matcher := NewMatcher(EventBus.New(), jobs, analyses, scores, nil, 75)
	score, err := matcher.Match(context.Background(), testProfile(), job.Fingerprint)

	assert.NoError(t, err)
	assert.Equal(t, job.Fingerprint, score.JobFingerprint)
	assert.Equal(t, "ml_focused", score.RecommendedVariant)
	jobs.AssertExpectations(t)
	scores.AssertExpectations(t)
}

func Test_Match_HighScorePublishesNotification(t *testing.T) {

	job := testJob()

	jobs := &mockJobs{}
	jobs.On("Get", mock.Anything, job.Fingerprint).Return(job, nil)
	jobs.On("AdvanceStatus", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	analyses := &mockAnalyses{}
	analyses.On("Get", mock.Anything, job.Fingerprint).Return(matcherAnalysis(job.Fingerprint), nil)

	scores := &mockScores{}
	scores.On("Put", mock.Anything, mock.Anything).Return(nil)

	notifications := 0
	bus := EventBus.New()
	_ = bus.Subscribe(events.JobMatchedTopic, func(event events.JobMatched) {
		notifications++
	})

	// threshold 0 means every score qualifies
	matcher := NewMatcher(bus, jobs, analyses, scores, nil, 0)
	_, err := matcher.Match(context.Background(), testProfile(), job.Fingerprint)

	assert.NoError(t, err)
	bus.WaitAsync()
	assert.Equal(t, 1, notifications)
}

func Test_Match_LowScoreStaysQuiet(t *testing.T) {

	job := testJob()

	jobs := &mockJobs{}
	jobs.On("Get", mock.Anything, job.Fingerprint).Return(job, nil)
	jobs.On("AdvanceStatus", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	analyses := &mockAnalyses{}
	analyses.On("Get", mock.Anything, job.Fingerprint).Return(matcherAnalysis(job.Fingerprint), nil)

	scores := &mockScores{}
	scores.On("Put", mock.Anything, mock.Anything).Return(nil)

	notifications := 0
	bus := EventBus.New()
	_ = bus.Subscribe(events.JobMatchedTopic, func(event events.JobMatched) {
		notifications++
	})

	matcher := NewMatcher(bus, jobs, analyses, scores, nil, 101)
	_, err := matcher.Match(context.Background(), testProfile(), job.Fingerprint)

	assert.NoError(t, err)
	bus.WaitAsync()
	assert.Equal(t, 0, notifications)
}

func Test_Match_MissingAnalysisFails(t *testing.T) {

	job := testJob()

	jobs := &mockJobs{}
	jobs.On("Get", mock.Anything, job.Fingerprint).Return(job, nil)

	analyses := &mockAnalyses{}
	analyses.On("Get", mock.Anything, job.Fingerprint).Return(nil, pipeline.ErrNotFound)

	matcher := NewMatcher(EventBus.New(), jobs, analyses, &mockScores{}, nil, 75)
	_, err := matcher.Match(context.Background(), testProfile(), job.Fingerprint)

	assert.ErrorIs(t, err, pipeline.ErrNotFound)
}

func Test_Match_RescoringAlwaysOverwrites(t *testing.T) {

	job := testJob()

	jobs := &mockJobs{}
	jobs.On("Get", mock.Anything, job.Fingerprint).Return(job, nil)
	jobs.On("AdvanceStatus", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	analyses := &mockAnalyses{}
	analyses.On("Get", mock.Anything, job.Fingerprint).Return(matcherAnalysis(job.Fingerprint), nil)

	scores := &mockScores{}
	scores.On("Put", mock.Anything, mock.Anything).Return(nil)

	matcher := NewMatcher(EventBus.New(), jobs, analyses, scores, nil, 75)

	_, err := matcher.Match(context.Background(), testProfile(), job.Fingerprint)
	assert.NoError(t, err)
	_, err = matcher.Match(context.Background(), testProfile(), job.Fingerprint)
	assert.NoError(t, err)

	scores.AssertNumberOfCalls(t, "Put", 2)
}
