package models

import "gorm.io/gorm"

// Company is one tenant. Its consignments live in the database named DbName.
type Company struct {
	gorm.Model
	Code      string `json:"code" gorm:"unique;size:50"`
	Name      string `json:"name"`
	DbName    string `json:"db_name" gorm:"unique;size:100"`
	IsActive  bool   `json:"is_active" gorm:"default:true"`
	CreatedBy int    `json:"created_by"`
	UpdatedBy int    `json:"updated_by"`
	DeletedBy int    `json:"deleted_by"`
}
