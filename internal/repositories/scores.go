package repositories

import (
	"context"
	"errors"

	"github.com/dkoval/jobpilot/internal/entities"
	"github.com/dkoval/jobpilot/internal/pipeline"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Scores struct {
	db *gorm.DB
}

func NewScoresRepository(db *gorm.DB) *Scores {
	return &Scores{db: db}
}

func (repo *Scores) Get(ctx context.Context, jobFingerprint string) (*entities.MatchScore, error) {
	var score entities.MatchScore
	err := repo.db.WithContext(ctx).First(&score, "job_fingerprint = ?", jobFingerprint).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pipeline.ErrNotFound
		}
		return nil, err
	}
	return &score, nil
}

// Put replaces any previous score for the job: recency matters for ranking,
// so the latest score always wins.
func (repo *Scores) Put(ctx context.Context, score entities.MatchScore) error {
	return repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&score).Error
}

// ListAbove returns jobs scored at or above minScore, best first.
func (repo *Scores) ListAbove(ctx context.Context, minScore float64, limit int) ([]entities.MatchScore, error) {
	var scores []entities.MatchScore
	query := repo.db.WithContext(ctx).
		Where("overall >= ?", minScore).
		Order("overall DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&scores).Error; err != nil {
		return nil, err
	}
	return scores, nil
}
