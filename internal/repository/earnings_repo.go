package repository

import (
	"cashpoints/internal/models"

	"gorm.io/gorm"
)

type EarningsRepository struct {
	db *gorm.DB
}

func NewEarningsRepository(db *gorm.DB) *EarningsRepository {
	return &EarningsRepository{db: db}
}

func (r *EarningsRepository) ListByUserID(userID int64, limit, offset int) ([]models.EarningsRecord, error) {
	var list []models.EarningsRecord
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

func (r *EarningsRepository) CountByReference(referralID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.EarningsRecord{}).Where("reference_id = ?", referralID).Count(&n).Error
	return n, err
}
