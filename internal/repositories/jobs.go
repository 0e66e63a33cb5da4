package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/dkoval/jobpilot/internal/entities"
	"github.com/dkoval/jobpilot/internal/pipeline"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Jobs struct {
	db *gorm.DB
}

func NewJobsRepository(db *gorm.DB) *Jobs {
	return &Jobs{db: db}
}

// Upsert stores the job unless a posting with the same fingerprint already
// exists. Returns true when a new row was inserted.
func (repo *Jobs) Upsert(ctx context.Context, job entities.Job) (bool, error) {
	res := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&job)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (repo *Jobs) Get(ctx context.Context, fingerprint string) (*entities.Job, error) {
	var job entities.Job
	err := repo.db.WithContext(ctx).First(&job, "fingerprint = ?", fingerprint).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pipeline.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (repo *Jobs) List(ctx context.Context, status entities.JobStatus, limit int) ([]entities.Job, error) {
	var jobs []entities.Job
	query := repo.db.WithContext(ctx).Order("scraped_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (repo *Jobs) Count(ctx context.Context) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&entities.Job{}).Count(&count).Error
	return count, err
}

func (repo *Jobs) CountByStatus(ctx context.Context) (map[entities.JobStatus]int64, error) {
	type row struct {
		Status entities.JobStatus
		Count  int64
	}
	var rows []row
	err := repo.db.WithContext(ctx).Model(&entities.Job{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[entities.JobStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// AdvanceStatus moves the job's status forward along the pipeline. A status
// at or behind the current one is a no-op: no stage ever writes a status
// behind the stored one.
func (repo *Jobs) AdvanceStatus(ctx context.Context, fingerprint string, status entities.JobStatus) error {
	if !status.IsValid() {
		return pipeline.ErrInvalidInput
	}

	job, err := repo.Get(ctx, fingerprint)
	if err != nil {
		return err
	}

	if status.Rank() <= job.Status.Rank() {
		return nil
	}

	return repo.db.WithContext(ctx).Model(&entities.Job{}).
		Where("fingerprint = ?", fingerprint).
		Update("status", status).Error
}

// RemoveStale deletes jobs still in the given status whose scrape time is
// older than the cutoff. Used by the nightly cleaner.
func (repo *Jobs) RemoveStale(ctx context.Context, status entities.JobStatus, cutoff time.Time) (int64, error) {
	res := repo.db.WithContext(ctx).
		Delete(&entities.Job{}, "status = ? AND scraped_at < ?", status, cutoff)
	return res.RowsAffected, res.Error
}
