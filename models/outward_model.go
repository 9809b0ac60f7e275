package models

import (
	"outward-wms/wms/consignment"

	"gorm.io/gorm"
)

const (
	OutwardStatusDraft    = "draft"
	OutwardStatusPending  = "pending"
	OutwardStatusApproved = "approved"
	OutwardStatusRejected = "rejected"
)

type OutwardRecord struct {
	gorm.Model
	ConsignmentID      string  `json:"consignment_id" gorm:"size:32;uniqueIndex:idx_company_consignment"`
	Company            string  `json:"company" gorm:"size:100;uniqueIndex:idx_company_consignment"`
	ConsignmentDate    string  `json:"consignment_date"`
	Customer           string  `json:"customer"`
	VehicleNo          string  `json:"vehicle_no"`
	Remarks            string  `json:"remarks"`
	Status             string  `json:"status" gorm:"default:'draft'"`
	TotalNetWeightGm   float64 `json:"total_net_weight_gm" gorm:"default:0"`
	TotalGrossWeightGm float64 `json:"total_gross_weight_gm" gorm:"default:0"`
	BoxCount           int     `json:"box_count" gorm:"default:0"`
	CreatedBy          int     `json:"created_by"`
	UpdatedBy          int     `json:"updated_by"`
	DeletedBy          int     `json:"deleted_by"`

	Articles []OutwardArticle `gorm:"foreignKey:OutwardID;references:ID;constraint:OnDelete:CASCADE" json:"articles"`
	Boxes    []OutwardBox     `gorm:"foreignKey:OutwardID;references:ID;constraint:OnDelete:CASCADE" json:"boxes"`
}

type OutwardArticle struct {
	gorm.Model
	OutwardID       uint    `json:"outward_id" gorm:"index"`
	ConsignmentID   string  `json:"consignment_id" gorm:"size:32"`
	LineNumber      int     `json:"line_number"`
	ArticleID       string  `json:"article_id" gorm:"size:32"`
	SkuID           *int64  `json:"sku_id"`
	MaterialType    string  `json:"material_type"`
	ItemCategory    string  `json:"item_category"`
	SubCategory     string  `json:"sub_category"`
	ItemDescription string  `json:"item_description"`
	QuantityUnits   float64 `json:"quantity_units" gorm:"default:0"`
	PackSizeGm      float64 `json:"pack_size_gm" gorm:"default:0"`
	NoOfPackets     float64 `json:"no_of_packets" gorm:"default:0"`
	Uom             string  `json:"uom" gorm:"size:20"`
	NetWeightGm     float64 `json:"net_weight_gm" gorm:"default:0"`
	TotalWeightGm   float64 `json:"total_weight_gm" gorm:"default:0"`
	BatchNumber     string  `json:"batch_number" gorm:"size:32"`
	UnitRate        float64 `json:"unit_rate" gorm:"default:0"`
}

type OutwardBox struct {
	gorm.Model
	OutwardID     uint    `json:"outward_id" gorm:"index"`
	ConsignmentID string  `json:"consignment_id" gorm:"size:32"`
	BoxID         string  `json:"box_id" gorm:"size:64"`
	BoxNumber     int     `json:"box_number"`
	Article       string  `json:"article"`
	ArticleID     string  `json:"article_id" gorm:"size:32"`
	NetWeightGm   float64 `json:"net_weight_gm" gorm:"default:0"`
	GrossWeightGm float64 `json:"gross_weight_gm" gorm:"default:0"`
	LotNumber     string  `json:"lot_number"`
}

// NewOutwardArticle maps an engine article onto its persisted row.
func NewOutwardArticle(a consignment.Article, line int) OutwardArticle {
	return OutwardArticle{
		LineNumber:      line,
		ArticleID:       a.ID,
		SkuID:           a.SkuID,
		MaterialType:    a.MaterialType,
		ItemCategory:    a.ItemCategory,
		SubCategory:     a.SubCategory,
		ItemDescription: a.ItemDescription,
		QuantityUnits:   a.QuantityUnits,
		PackSizeGm:      a.PackSizeGm,
		NoOfPackets:     a.NoOfPackets,
		Uom:             string(a.UOM),
		NetWeightGm:     consignment.ComputeNetWeight(a),
		TotalWeightGm:   a.TotalWeight,
		BatchNumber:     a.BatchNumber,
		UnitRate:        a.UnitRate,
	}
}

func (r OutwardArticle) ToArticle() consignment.Article {
	return consignment.Article{
		ID:              r.ArticleID,
		SkuID:           r.SkuID,
		MaterialType:    r.MaterialType,
		ItemCategory:    r.ItemCategory,
		SubCategory:     r.SubCategory,
		ItemDescription: r.ItemDescription,
		QuantityUnits:   r.QuantityUnits,
		PackSizeGm:      r.PackSizeGm,
		NoOfPackets:     r.NoOfPackets,
		UOM:             consignment.UOM(r.Uom),
		NetWeight:       r.NetWeightGm,
		TotalWeight:     r.TotalWeightGm,
		BatchNumber:     r.BatchNumber,
		UnitRate:        r.UnitRate,
	}
}

func NewOutwardBox(b consignment.Box) OutwardBox {
	return OutwardBox{
		BoxID:         b.ID,
		BoxNumber:     b.BoxNumber,
		Article:       b.Article,
		ArticleID:     b.ArticleID,
		NetWeightGm:   b.NetWeight,
		GrossWeightGm: b.GrossWeight,
		LotNumber:     b.LotNumber,
	}
}

func (r OutwardBox) ToBox() consignment.Box {
	return consignment.Box{
		ID:          r.BoxID,
		BoxNumber:   r.BoxNumber,
		Article:     r.Article,
		ArticleID:   r.ArticleID,
		NetWeight:   r.NetWeightGm,
		GrossWeight: r.GrossWeightGm,
		LotNumber:   r.LotNumber,
	}
}

// Domain returns the articles and boxes of the record in line order.
func (o OutwardRecord) Domain() ([]consignment.Article, []consignment.Box) {
	articles := make([]consignment.Article, 0, len(o.Articles))
	for _, a := range o.Articles {
		articles = append(articles, a.ToArticle())
	}
	boxes := make([]consignment.Box, 0, len(o.Boxes))
	for _, b := range o.Boxes {
		boxes = append(boxes, b.ToBox())
	}
	return articles, boxes
}
