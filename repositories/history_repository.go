package repositories

import (
	"outward-wms/models"
	"time"

	"gorm.io/gorm"
)

// InsertTransactionHistory inserts a new transaction history record.
func InsertTransactionHistory(db *gorm.DB, company, refNo, status, txType, detail string, actor int) error {
	history := models.TransactionHistory{
		Company:   company,
		RefNo:     refNo,
		Status:    status,
		Type:      txType,
		Detail:    detail,
		CreatedAt: time.Now(),
		CreatedBy: actor,
		UpdatedAt: time.Now(),
		UpdatedBy: actor,
	}

	if err := db.Create(&history).Error; err != nil {
		return err
	}

	return nil
}

func ListTransactionHistory(db *gorm.DB, company, refNo string) ([]models.TransactionHistory, error) {
	var histories []models.TransactionHistory
	err := db.Where("company = ? AND ref_no = ?", company, refNo).Order("created_at ASC").Find(&histories).Error
	return histories, err
}
