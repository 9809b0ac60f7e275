package models

import (
	"outward-wms/controllers/idgen"
	"outward-wms/types"
	"outward-wms/wms/consignment"
	"time"

	"gorm.io/gorm"
)

const (
	ApprovalStatusPending  = "pending"
	ApprovalStatusApproved = "approved"
	ApprovalStatusRejected = "rejected"
)

// Approval is the latest approval decision of a consignment together with the
// articles and boxes it was made on.
type Approval struct {
	ID                types.SnowflakeID     `json:"id" gorm:"primaryKey"`
	ConsignmentID     string                `json:"consignment_id" gorm:"size:32;uniqueIndex:idx_company_approval"`
	Company           string                `json:"company" gorm:"size:100;uniqueIndex:idx_company_approval"`
	ApprovalAuthority string                `json:"approval_authority"`
	ApprovalDate      string                `json:"approval_date"`
	ApprovalStatus    string                `json:"approval_status" gorm:"size:20"`
	ApprovalRemark    string                `json:"approval_remark"`
	Articles          []consignment.Article `json:"articles" gorm:"serializer:json;type:text"`
	Boxes             []consignment.Box     `json:"boxes" gorm:"serializer:json;type:text"`
	CreatedAt         time.Time             `json:"created_at"`
	CreatedBy         int                   `json:"created_by"`
	UpdatedAt         time.Time             `json:"updated_at"`
	UpdatedBy         int                   `json:"updated_by"`
	DeletedAt         gorm.DeletedAt        `json:"-" gorm:"index"`
}

func (a *Approval) BeforeCreate(tx *gorm.DB) error {
	if a.ID == 0 {
		a.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return nil
}
