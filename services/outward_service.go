package services

import (
	"errors"
	"fmt"
	"math"
	"outward-wms/models"
	"outward-wms/repositories"
	"outward-wms/wms/consignment"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
	createAttempts   = 3
)

type OutwardInput struct {
	ConsignmentID   string                `json:"consignment_id" validate:"max=32"`
	ConsignmentDate string                `json:"consignment_date" validate:"required"`
	Customer        string                `json:"customer" validate:"required"`
	VehicleNo       string                `json:"vehicle_no"`
	Remarks         string                `json:"remarks"`
	Articles        []consignment.Article `json:"articles" validate:"required,min=1"`
	Boxes           []consignment.Box     `json:"boxes"`
}

// OutwardDetail is a stored consignment with its per-article box aggregates.
type OutwardDetail struct {
	*models.OutwardRecord
	BoxStats map[string]consignment.BoxStats `json:"box_stats"`
	Summary  Summary                         `json:"summary"`
}

type OutwardPage struct {
	Items []models.OutwardRecord `json:"items"`
	Total int64                  `json:"total"`
	Page  int                    `json:"page"`
	Limit int                    `json:"limit"`
}

type OutwardService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewOutwardService(db *gorm.DB) *OutwardService {
	return &OutwardService{db: db, now: time.Now}
}

func (s *OutwardService) Create(company string, actor int, input OutwardInput) (*OutwardDetail, error) {
	if err := s.prepare(&input); err != nil {
		return nil, err
	}

	generated := input.ConsignmentID == ""
	for attempt := 1; ; attempt++ {
		record, err := s.create(company, actor, input, generated)
		if err == nil {
			zap.L().Info("consignment created",
				zap.String("company", company),
				zap.String("consignment_id", record.ConsignmentID),
				zap.Int("articles", len(record.Articles)),
				zap.Int("boxes", len(record.Boxes)))
			return detailOf(record), nil
		}
		// a concurrent insert took the generated number; draw the next one
		if generated && errors.Is(err, ErrDuplicateConsignment) && attempt < createAttempts {
			continue
		}
		return nil, err
	}
}

func (s *OutwardService) create(company string, actor int, input OutwardInput, generated bool) (*models.OutwardRecord, error) {
	var record *models.OutwardRecord
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewOutwardRepository(tx)

		consignmentID := input.ConsignmentID
		if generated {
			id, err := repo.GenerateConsignmentNumber(company, s.now())
			if err != nil {
				return fmt.Errorf("generate consignment id: %w", err)
			}
			consignmentID = id
		} else {
			var count int64
			if err := tx.Unscoped().Model(&models.OutwardRecord{}).
				Where("company = ? AND consignment_id = ?", company, consignmentID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrDuplicateConsignment
			}
		}

		record = buildRecord(input, consignmentID, company)
		record.Status = models.OutwardStatusDraft
		record.CreatedBy = actor
		record.UpdatedBy = actor

		if err := repo.Create(record); err != nil {
			if repositories.IsDuplicate(err) {
				return ErrDuplicateConsignment
			}
			return fmt.Errorf("create consignment: %w", err)
		}

		return repositories.InsertTransactionHistory(tx, company, consignmentID, record.Status, models.HistoryTypeOutward, "created", actor)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *OutwardService) Update(company, consignmentID string, actor int, input OutwardInput) (*OutwardDetail, error) {
	input.ConsignmentID = consignmentID
	if err := s.prepare(&input); err != nil {
		return nil, err
	}

	var record *models.OutwardRecord
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewOutwardRepository(tx)
		existing, err := repo.FindByConsignmentID(company, consignmentID)
		if err != nil {
			return notFound(err, "consignment "+consignmentID)
		}
		if existing.Status == models.OutwardStatusApproved {
			return fmt.Errorf("consignment %s is approved: %w", consignmentID, ErrNotEditable)
		}

		record = buildRecord(input, consignmentID, company)
		record.Model = existing.Model
		record.Status = existing.Status
		record.CreatedBy = existing.CreatedBy
		record.UpdatedBy = actor

		if err := repo.Replace(record); err != nil {
			return fmt.Errorf("update consignment: %w", err)
		}
		return repositories.InsertTransactionHistory(tx, company, consignmentID, record.Status, models.HistoryTypeOutward, "updated", actor)
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("consignment updated", zap.String("company", company), zap.String("consignment_id", consignmentID))
	return detailOf(record), nil
}

func (s *OutwardService) Get(company, consignmentID string) (*OutwardDetail, error) {
	record, err := repositories.NewOutwardRepository(s.db).FindByConsignmentID(company, consignmentID)
	if err != nil {
		return nil, notFound(err, "consignment "+consignmentID)
	}
	return detailOf(record), nil
}

func (s *OutwardService) List(params repositories.OutwardListParams) (*OutwardPage, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit <= 0 {
		params.Limit = defaultPageLimit
	}
	if params.Limit > maxPageLimit {
		params.Limit = maxPageLimit
	}

	records, total, err := repositories.NewOutwardRepository(s.db).List(params)
	if err != nil {
		return nil, fmt.Errorf("list consignments: %w", err)
	}
	return &OutwardPage{Items: records, Total: total, Page: params.Page, Limit: params.Limit}, nil
}

// All returns every consignment of the company with its lines.
func (s *OutwardService) All(company string) ([]models.OutwardRecord, error) {
	return repositories.NewOutwardRepository(s.db).All(company)
}

func (s *OutwardService) Delete(company, consignmentID string, actor int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewOutwardRepository(tx)
		record, err := repo.FindByConsignmentID(company, consignmentID)
		if err != nil {
			return notFound(err, "consignment "+consignmentID)
		}
		if err := repo.Delete(record, actor); err != nil {
			return fmt.Errorf("delete consignment: %w", err)
		}
		return repositories.InsertTransactionHistory(tx, company, consignmentID, "deleted", models.HistoryTypeOutward, "deleted", actor)
	})
}

func (s *OutwardService) History(company, consignmentID string) ([]models.TransactionHistory, error) {
	return repositories.ListTransactionHistory(s.db, company, consignmentID)
}

// prepare validates the payload, normalises units and fills in boxes when the client
// sent none.
func (s *OutwardService) prepare(input *OutwardInput) error {
	input.ConsignmentID = strings.TrimSpace(input.ConsignmentID)
	input.Customer = strings.TrimSpace(input.Customer)
	if err := validateStruct(input); err != nil {
		return err
	}

	fields := map[string]string{}
	for i := range input.Articles {
		a := &input.Articles[i]
		a.UOM = consignment.UOM(strings.ToUpper(strings.TrimSpace(string(a.UOM))))
		prefix := fmt.Sprintf("articles[%d].", i)
		if strings.TrimSpace(a.ID) == "" {
			fields[prefix+"id"] = "is required"
		}
		if !a.UOM.Known() {
			fields[prefix+"uom"] = "is not a known unit"
		}
		for field, problem := range a.Problems() {
			fields[prefix+field] = problem
		}
	}
	for i, b := range input.Boxes {
		switch {
		case math.IsNaN(b.GrossWeight) || math.IsInf(b.GrossWeight, 0):
			fields[fmt.Sprintf("boxes[%d].gross_weight", i)] = "must be a finite number"
		case b.GrossWeight < 0:
			fields[fmt.Sprintf("boxes[%d].gross_weight", i)] = "must not be negative"
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	input.Articles = consignment.Normalize(input.Articles)
	if input.Boxes == nil {
		input.Boxes = consignment.DeriveBoxesAt(input.Articles, nil, false, s.now())
	}
	return nil
}

func buildRecord(input OutwardInput, consignmentID, company string) *models.OutwardRecord {
	summary := Summarize(input.Articles, input.Boxes)
	record := &models.OutwardRecord{
		ConsignmentID:      consignmentID,
		Company:            company,
		ConsignmentDate:    input.ConsignmentDate,
		Customer:           input.Customer,
		VehicleNo:          input.VehicleNo,
		Remarks:            input.Remarks,
		TotalNetWeightGm:   summary.TotalNetWeight,
		TotalGrossWeightGm: summary.TotalGrossWeight,
		BoxCount:           summary.BoxCount,
	}
	for i, a := range input.Articles {
		record.Articles = append(record.Articles, models.NewOutwardArticle(a, i+1))
	}
	for _, b := range input.Boxes {
		record.Boxes = append(record.Boxes, models.NewOutwardBox(b))
	}
	return record
}

func detailOf(record *models.OutwardRecord) *OutwardDetail {
	articles, boxes := record.Domain()
	return &OutwardDetail{
		OutwardRecord: record,
		BoxStats:      consignment.ComputeBoxStats(boxes, articles),
		Summary:       Summarize(articles, boxes),
	}
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}
