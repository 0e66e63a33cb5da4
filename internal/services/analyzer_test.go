package services

import (
	"context"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/dkoval/jobpilot/internal/entities"
	"github.com/dkoval/jobpilot/internal/events"
	"github.com/dkoval/jobpilot/internal/pipeline"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const validAnalysisResponse = `{
	"required_skills": ["Python", "Go"],
	"nice_to_have_skills": ["Kubernetes"],
	"ats_keywords": ["microservices"],
	"role_category": "Backend Engineer",
	"experience_level": "Senior"
}`

func testJob() *entities.Job {
	job := entities.NewJob("Backend Engineer", "Acme", "Berlin", "We need Go and Python.", "manual", "", time.Now())
	return &job
}

func Test_Analyze_StoresAnalysisAndAdvancesStatus(t *testing.T) {

	job := testJob()

	jobs := &mockJobs{}
	jobs.On("Get", mock.Anything, job.Fingerprint).Return(job, nil)
	jobs.On("AdvanceStatus", mock.Anything, job.Fingerprint, entities.JobStatusAnalyzed).Return(nil)

	analyses := &mockAnalyses{}
	analyses.On("Get", mock.Anything, job.Fingerprint).Return(nil, pipeline.ErrNotFound)
	analyses.On("Put", mock.Anything, mock.Anything).Return(nil)

	oracle := &mockOracle{}
	oracle.On("Infer", mock.Anything, mock.Anything).Return(validAnalysisResponse, nil).Once()

	analyzed := 0
	bus := EventBus.New()
	_ = bus.Subscribe(events.JobAnalyzedTopic, func(event events.JobAnalyzed) {
		analyzed++
	})

	analyzer := NewAnalyzer(bus, oracle, jobs, analyses)
	analysis, err := analyzer.Analyze(context.Background(), job.Fingerprint)

	assert.NoError(t, err)
	assert.Equal(t, []string{"Python", "Go"}, analysis.RequiredSkills)
	assert.Equal(t, "Backend Engineer", analysis.RoleCategory)
	assert.Equal(t, job.Fingerprint, analysis.JobFingerprint)
	bus.WaitAsync()
	assert.Equal(t, 1, analyzed)
	jobs.AssertExpectations(t)
	analyses.AssertExpectations(t)
	oracle.AssertExpectations(t)
}

func Test_Analyze_ExistingAnalysisSkipsOracle(t *testing.T) {

	job := testJob()
	existing := &entities.Analysis{
		JobFingerprint: job.Fingerprint,
		RequiredSkills: []string{"Go"},
		RoleCategory:   "Backend Engineer",
	}

	jobs := &mockJobs{}
	jobs.On("Get", mock.Anything, job.Fingerprint).Return(job, nil)

	analyses := &mockAnalyses{}
	analyses.On("Get", mock.Anything, job.Fingerprint).Return(existing, nil)

	oracle := &mockOracle{}

	analyzer := NewAnalyzer(EventBus.New(), oracle, jobs, analyses)
	analysis, err := analyzer.Analyze(context.Background(), job.Fingerprint)

	assert.NoError(t, err)
	assert.Equal(t, existing.RequiredSkills, analysis.RequiredSkills)
	oracle.AssertNotCalled(t, "Infer", mock.Anything, mock.Anything)
	analyses.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func Test_Analyze_SecondCallHitsCache(t *testing.T) {

	job := testJob()

	jobs := &mockJobs{}
	jobs.On("Get", mock.Anything, job.Fingerprint).Return(job, nil)
	jobs.On("AdvanceStatus", mock.Anything, job.Fingerprint, entities.JobStatusAnalyzed).Return(nil)

	analyses := &mockAnalyses{}
	analyses.On("Get", mock.Anything, job.Fingerprint).Return(nil, pipeline.ErrNotFound)
	analyses.On("Put", mock.Anything, mock.Anything).Return(nil)

	oracle := &mockOracle{}
	oracle.On("Infer", mock.Anything, mock.Anything).Return(validAnalysisResponse, nil).Once()

	analyzer := NewAnalyzer(EventBus.New(), oracle, jobs, analyses)

	_, err := analyzer.Analyze(context.Background(), job.Fingerprint)
	assert.NoError(t, err)
	_, err = analyzer.Analyze(context.Background(), job.Fingerprint)
	assert.NoError(t, err)

	oracle.AssertNumberOfCalls(t, "Infer", 1)
	jobs.AssertNumberOfCalls(t, "Get", 1)
}

func Test_Analyze_MissingFieldRejectsWholeResponse(t *testing.T) {

	job := testJob()

	jobs := &mockJobs{}
	jobs.On("Get", mock.Anything, job.Fingerprint).Return(job, nil)

	analyses := &mockAnalyses{}
	analyses.On("Get", mock.Anything, job.Fingerprint).Return(nil, pipeline.ErrNotFound)

	oracle := &mockOracle{}
	oracle.On("Infer", mock.Anything, mock.Anything).
		Return(`{"required_skills": ["Go"], "role_category": "Backend Engineer"}`, nil)

	analyzer := NewAnalyzer(EventBus.New(), oracle, jobs, analyses)
	_, err := analyzer.Analyze(context.Background(), job.Fingerprint)

	assert.ErrorIs(t, err, pipeline.ErrValidationFailed)
	analyses.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
	jobs.AssertNotCalled(t, "AdvanceStatus", mock.Anything, mock.Anything, mock.Anything)
}

func Test_Analyze_OracleFailureLeavesStatusUntouched(t *testing.T) {

	job := testJob()

	jobs := &mockJobs{}
	jobs.On("Get", mock.Anything, job.Fingerprint).Return(job, nil)

	analyses := &mockAnalyses{}
	analyses.On("Get", mock.Anything, job.Fingerprint).Return(nil, pipeline.ErrNotFound)

	oracle := &mockOracle{}
	oracle.On("Infer", mock.Anything, mock.Anything).
		Return("", errors.Wrap(pipeline.ErrUnavailable, "connection refused"))

	analyzer := NewAnalyzer(EventBus.New(), oracle, jobs, analyses)
	_, err := analyzer.Analyze(context.Background(), job.Fingerprint)

	assert.ErrorIs(t, err, pipeline.ErrUnavailable)
	jobs.AssertNotCalled(t, "AdvanceStatus", mock.Anything, mock.Anything, mock.Anything)
}

func Test_Analyze_EmptyDescriptionIsInvalidInput(t *testing.T) {

	job := testJob()
	job.Description = "   "

	jobs := &mockJobs{}
	jobs.On("Get", mock.Anything, job.Fingerprint).Return(job, nil)

	analyzer := NewAnalyzer(EventBus.New(), &mockOracle{}, jobs, &mockAnalyses{})
	_, err := analyzer.Analyze(context.Background(), job.Fingerprint)

	assert.ErrorIs(t, err, pipeline.ErrInvalidInput)
}

func Test_Analyze_UnknownJobIsNotFound(t *testing.T) {

	jobs := &mockJobs{}
	jobs.On("Get", mock.Anything, "missing").Return(nil, pipeline.ErrNotFound)

	analyzer := NewAnalyzer(EventBus.New(), &mockOracle{}, jobs, &mockAnalyses{})
	_, err := analyzer.Analyze(context.Background(), "missing")

	assert.ErrorIs(t, err, pipeline.ErrNotFound)
}

func Test_ParseAnalysis_ToleratesMarkdownFences(t *testing.T) {

	analysis, err := parseAnalysis("```json\n" + validAnalysisResponse + "\n```")

	assert.NoError(t, err)
	assert.Equal(t, "Senior", analysis.ExperienceLevel)
}
