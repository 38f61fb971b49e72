package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"javadocbot/internal/models"
)

// RunRecordRepository persists and queries run history rows.
type RunRecordRepository interface {
	Create(record *models.RunRecord) error
	ListRecent(limit int) ([]models.RunRecord, error)
}

type runRecordRepository struct {
	db *gorm.DB
}

func NewRunRecordRepository(db *gorm.DB) RunRecordRepository {
	return &runRecordRepository{db: db}
}

func (r *runRecordRepository) Create(record *models.RunRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to create run record: %w", err)
	}
	return nil
}

func (r *runRecordRepository) ListRecent(limit int) ([]models.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var records []models.RunRecord
	if err := r.db.Order("started_at desc").Limit(limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list run records: %w", err)
	}
	return records, nil
}
