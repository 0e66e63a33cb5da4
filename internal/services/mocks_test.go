package services

import (
	"context"
	"time"

	"github.com/dkoval/jobpilot/internal/entities"
	"github.com/stretchr/testify/mock"
)

type mockJobs struct {
	mock.Mock
}

func (m *mockJobs) Get(ctx context.Context, fingerprint string) (*entities.Job, error) {
	args := m.Called(ctx, fingerprint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Job), args.Error(1)
}

func (m *mockJobs) Upsert(ctx context.Context, job entities.Job) (bool, error) {
	args := m.Called(ctx, job)
	return args.Bool(0), args.Error(1)
}

func (m *mockJobs) List(ctx context.Context, status entities.JobStatus, limit int) ([]entities.Job, error) {
	args := m.Called(ctx, status, limit)
	return args.Get(0).([]entities.Job), args.Error(1)
}

func (m *mockJobs) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockJobs) CountByStatus(ctx context.Context) (map[entities.JobStatus]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[entities.JobStatus]int64), args.Error(1)
}

func (m *mockJobs) AdvanceStatus(ctx context.Context, fingerprint string, status entities.JobStatus) error {
	return m.Called(ctx, fingerprint, status).Error(0)
}

func (m *mockJobs) RemoveStale(ctx context.Context, status entities.JobStatus, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, status, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type mockAnalyses struct {
	mock.Mock
}

func (m *mockAnalyses) Get(ctx context.Context, jobFingerprint string) (*entities.Analysis, error) {
	args := m.Called(ctx, jobFingerprint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Analysis), args.Error(1)
}

func (m *mockAnalyses) Put(ctx context.Context, analysis entities.Analysis) error {
	return m.Called(ctx, analysis).Error(0)
}

type mockScores struct {
	mock.Mock
}

func (m *mockScores) Get(ctx context.Context, jobFingerprint string) (*entities.MatchScore, error) {
	args := m.Called(ctx, jobFingerprint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MatchScore), args.Error(1)
}

func (m *mockScores) Put(ctx context.Context, score entities.MatchScore) error {
	return m.Called(ctx, score).Error(0)
}

type mockApplications struct {
	mock.Mock
}

func (m *mockApplications) Create(ctx context.Context, application entities.Application) error {
	return m.Called(ctx, application).Error(0)
}

func (m *mockApplications) Get(ctx context.Context, id string) (*entities.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Application), args.Error(1)
}

func (m *mockApplications) Update(ctx context.Context, application entities.Application) error {
	return m.Called(ctx, application).Error(0)
}

func (m *mockApplications) List(ctx context.Context, status entities.ApplicationStatus, limit int) ([]entities.Application, error) {
	args := m.Called(ctx, status, limit)
	return args.Get(0).([]entities.Application), args.Error(1)
}

func (m *mockApplications) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockApplications) CountByStatus(ctx context.Context) (map[entities.ApplicationStatus]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[entities.ApplicationStatus]int64), args.Error(1)
}

func (m *mockApplications) AverageMatchScore(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

type mockOracle struct {
	mock.Mock
}

func (m *mockOracle) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockOracle) Infer(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}
