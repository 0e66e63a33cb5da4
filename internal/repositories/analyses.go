package repositories

import (
	"context"
	"errors"

	"github.com/dkoval/jobpilot/internal/entities"
	"github.com/dkoval/jobpilot/internal/pipeline"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Analyses struct {
	db *gorm.DB
}

func NewAnalysesRepository(db *gorm.DB) *Analyses {
	return &Analyses{db: db}
}

func (repo *Analyses) Get(ctx context.Context, jobFingerprint string) (*entities.Analysis, error) {
	var analysis entities.Analysis
	err := repo.db.WithContext(ctx).First(&analysis, "job_fingerprint = ?", jobFingerprint).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pipeline.ErrNotFound
		}
		return nil, err
	}
	return &analysis, nil
}

// Put stores an analysis once. Conflicts are ignored so a stored analysis is
// never overwritten: the stage is idempotent.
func (repo *Analyses) Put(ctx context.Context, analysis entities.Analysis) error {
	return repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&analysis).Error
}
