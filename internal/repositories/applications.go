package repositories

import (
	"context"
	"errors"

	"github.com/dkoval/jobpilot/internal/entities"
	"github.com/dkoval/jobpilot/internal/pipeline"
	"gorm.io/gorm"
)

type Applications struct {
	db *gorm.DB
}

func NewApplicationsRepository(db *gorm.DB) *Applications {
	return &Applications{db: db}
}

func (repo *Applications) Create(ctx context.Context, application entities.Application) error {
	return repo.db.WithContext(ctx).Create(&application).Error
}

func (repo *Applications) Get(ctx context.Context, id string) (*entities.Application, error) {
	var application entities.Application
	err := repo.db.WithContext(ctx).First(&application, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pipeline.ErrNotFound
		}
		return nil, err
	}
	return &application, nil
}

func (repo *Applications) Update(ctx context.Context, application entities.Application) error {
	return repo.db.WithContext(ctx).Model(&entities.Application{}).
		Where("id = ?", application.ID).
		Updates(map[string]any{
			"status":     application.Status,
			"notes":      application.Notes,
			"updated_at": application.UpdatedAt,
		}).Error
}

func (repo *Applications) List(ctx context.Context, status entities.ApplicationStatus, limit int) ([]entities.Application, error) {
	var applications []entities.Application
	query := repo.db.WithContext(ctx).Order("applied_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}

func (repo *Applications) Count(ctx context.Context) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&entities.Application{}).Count(&count).Error
	return count, err
}

func (repo *Applications) CountByStatus(ctx context.Context) (map[entities.ApplicationStatus]int64, error) {
	type row struct {
		Status entities.ApplicationStatus
		Count  int64
	}
	var rows []row
	err := repo.db.WithContext(ctx).Model(&entities.Application{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[entities.ApplicationStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

func (repo *Applications) AverageMatchScore(ctx context.Context) (float64, error) {
	var avg *float64
	err := repo.db.WithContext(ctx).Model(&entities.Application{}).
		Select("avg(match_score)").
		Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}
