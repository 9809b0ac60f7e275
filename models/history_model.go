package models

import (
	"outward-wms/controllers/idgen"
	"outward-wms/types"
	"time"

	"gorm.io/gorm"
)

const (
	HistoryTypeOutward  = "outward"
	HistoryTypeApproval = "approval"
)

type TransactionHistory struct {
	ID        types.SnowflakeID `json:"id" gorm:"primaryKey"`
	Company   string            `json:"company" gorm:"size:100"`
	RefNo     string            `json:"ref_no" gorm:"size:32;index"`
	Status    string            `json:"status"`
	Type      string            `json:"type"`
	Detail    string            `json:"detail"`
	CreatedAt time.Time         `json:"created_at"`
	CreatedBy int               `json:"created_by"`
	UpdatedAt time.Time         `json:"updated_at"`
	UpdatedBy int               `json:"updated_by"`
	DeletedAt gorm.DeletedAt    `json:"-"`
	DeletedBy int               `json:"deleted_by"`
}

func (u *TransactionHistory) BeforeCreate(tx *gorm.DB) (err error) {
	u.ID = types.SnowflakeID(idgen.GenerateID())
	return
}
