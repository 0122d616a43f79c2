package services

import (
	"pawrate_go_backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScanHistoryDB persists completed scans for the recent-scans list.
type ScanHistoryDB interface {
	SaveScanRecordDB(record *models.ScanRecord) error
	GetScansByUserIDFromDB(userID uuid.UUID, limit int) ([]models.ScanRecord, error)
}

type DefaultScanHistoryService struct {
	db *gorm.DB
}

func NewScanHistoryDB(db *gorm.DB) ScanHistoryDB {
	return &DefaultScanHistoryService{db: db}
}

func (s *DefaultScanHistoryService) SaveScanRecordDB(record *models.ScanRecord) error {
	return s.db.Create(record).Error
}

func (s *DefaultScanHistoryService) GetScansByUserIDFromDB(userID uuid.UUID, limit int) ([]models.ScanRecord, error) {
	var records []models.ScanRecord
	result := s.db.Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}
	return records, nil
}
