package repositories

import (
	"errors"
	"outward-wms/models"

	"gorm.io/gorm"
)

type ApprovalRepository struct {
	db *gorm.DB
}

func NewApprovalRepository(db *gorm.DB) *ApprovalRepository {
	return &ApprovalRepository{db: db}
}

func (r *ApprovalRepository) Find(company, consignmentID string) (*models.Approval, error) {
	var approval models.Approval
	err := r.db.Where("company = ? AND consignment_id = ?", company, consignmentID).First(&approval).Error
	if err != nil {
		return nil, err
	}
	return &approval, nil
}

// Upsert creates the approval of a consignment or overwrites the existing one.
// created is false when an approval was already stored.
func (r *ApprovalRepository) Upsert(approval *models.Approval) (created bool, err error) {
	existing, err := r.Find(approval.Company, approval.ConsignmentID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return true, r.db.Create(approval).Error
	case err != nil:
		return false, err
	}

	approval.ID = existing.ID
	approval.CreatedAt = existing.CreatedAt
	approval.CreatedBy = existing.CreatedBy
	return false, r.db.Save(approval).Error
}
