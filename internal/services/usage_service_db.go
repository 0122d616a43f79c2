package services

import (
	"fmt"
	"time"

	"pawrate_go_backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UsageServiceDB is the usage ledger: one record per account tracking
// scans consumed against the current billing cycle.
type UsageServiceDB interface {
	GetUsageDB(userID uuid.UUID) (*models.UsageRecord, error)
	RecordScanDB(userID uuid.UUID) (*models.UsageRecord, error)
	AddPurchasedScansDB(userID uuid.UUID, scans int) (*models.UsageRecord, error)
}

type DefaultUsageService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewUsageServiceDB(db *gorm.DB) UsageServiceDB {
	return &DefaultUsageService{db: db, now: time.Now}
}

// cycleStartFor truncates t to the start of its calendar month in UTC.
func cycleStartFor(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// sameCycle reports whether both times fall in the same calendar month.
func sameCycle(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// ensureCurrent returns the user's usage record for the current cycle,
// creating it on first access and applying the rollover reset if the
// stored record belongs to an earlier cycle. Creation is an idempotent
// upsert keyed on user_id, so concurrent first-time callers collapse
// onto a single row.
func (s *DefaultUsageService) ensureCurrent(userID uuid.UUID) (*models.UsageRecord, error) {
	now := s.now()

	rec := models.UsageRecord{UserID: userID, CycleStart: cycleStartFor(now)}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&rec).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLedgerUnavailable, err)
	}

	var current models.UsageRecord
	if err := s.db.Where("user_id = ?", userID).First(&current).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLedgerUnavailable, err)
	}

	if !sameCycle(current.CycleStart, now) {
		// Guarded by the stale cycle_start so concurrent callers reset once.
		res := s.db.Model(&models.UsageRecord{}).
			Where("user_id = ? AND cycle_start = ?", userID, current.CycleStart).
			Updates(map[string]interface{}{
				"scans_this_month": 0,
				"purchased_scans":  0,
				"cycle_start":      cycleStartFor(now),
			})
		if res.Error != nil {
			return nil, fmt.Errorf("%w: %v", ErrLedgerUnavailable, res.Error)
		}
		if err := s.db.Where("user_id = ?", userID).First(&current).Error; err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLedgerUnavailable, err)
		}
	}

	return &current, nil
}

func (s *DefaultUsageService) GetUsageDB(userID uuid.UUID) (*models.UsageRecord, error) {
	return s.ensureCurrent(userID)
}

// RecordScanDB charges one scan to the account. The increment happens
// in SQL so concurrent scans from multiple devices never lose updates.
func (s *DefaultUsageService) RecordScanDB(userID uuid.UUID) (*models.UsageRecord, error) {
	if _, err := s.ensureCurrent(userID); err != nil {
		return nil, err
	}

	res := s.db.Model(&models.UsageRecord{}).
		Where("user_id = ?", userID).
		UpdateColumn("scans_this_month", gorm.Expr("scans_this_month + ?", 1))
	if res.Error != nil {
		return nil, fmt.Errorf("%w: %v", ErrLedgerUnavailable, res.Error)
	}

	var current models.UsageRecord
	if err := s.db.Where("user_id = ?", userID).First(&current).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLedgerUnavailable, err)
	}
	return &current, nil
}

// AddPurchasedScansDB credits a purchased scan pack against the
// current cycle. Called from the payment webhook.
func (s *DefaultUsageService) AddPurchasedScansDB(userID uuid.UUID, scans int) (*models.UsageRecord, error) {
	if _, err := s.ensureCurrent(userID); err != nil {
		return nil, err
	}

	res := s.db.Model(&models.UsageRecord{}).
		Where("user_id = ?", userID).
		UpdateColumn("purchased_scans", gorm.Expr("purchased_scans + ?", scans))
	if res.Error != nil {
		return nil, fmt.Errorf("%w: %v", ErrLedgerUnavailable, res.Error)
	}

	var current models.UsageRecord
	if err := s.db.Where("user_id = ?", userID).First(&current).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLedgerUnavailable, err)
	}
	return &current, nil
}
