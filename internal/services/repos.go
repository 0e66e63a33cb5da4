package services

import (
	"context"
	"time"

	"github.com/dkoval/jobpilot/internal/entities"
)

// Consumer-side contracts for the record store. The store exclusively owns
// persisted state; services operate on transient copies and only commit
// through these interfaces.

type jobRepository interface {
	Get(ctx context.Context, fingerprint string) (*entities.Job, error)
	Upsert(ctx context.Context, job entities.Job) (bool, error)
	List(ctx context.Context, status entities.JobStatus, limit int) ([]entities.Job, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (map[entities.JobStatus]int64, error)
	AdvanceStatus(ctx context.Context, fingerprint string, status entities.JobStatus) error
	RemoveStale(ctx context.Context, status entities.JobStatus, cutoff time.Time) (int64, error)
}

type analysisRepository interface {
	Get(ctx context.Context, jobFingerprint string) (*entities.Analysis, error)
	Put(ctx context.Context, analysis entities.Analysis) error
}

type scoreRepository interface {
	Get(ctx context.Context, jobFingerprint string) (*entities.MatchScore, error)
	Put(ctx context.Context, score entities.MatchScore) error
}

type applicationRepository interface {
	Create(ctx context.Context, application entities.Application) error
	Get(ctx context.Context, id string) (*entities.Application, error)
	Update(ctx context.Context, application entities.Application) error
	List(ctx context.Context, status entities.ApplicationStatus, limit int) ([]entities.Application, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (map[entities.ApplicationStatus]int64, error)
	AverageMatchScore(ctx context.Context) (float64, error)
}

// oracleClient is the external inference service: untrusted, bounded by
// timeouts, never the source of factual truth.
type oracleClient interface {
	Ping(ctx context.Context) error
	Infer(ctx context.Context, prompt string) (string, error)
}
