package repositories

import (
	"errors"
	"fmt"
	"outward-wms/models"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const uniqueViolation = "23505"

type OutwardRepository struct {
	db *gorm.DB
}

func NewOutwardRepository(db *gorm.DB) *OutwardRepository {
	return &OutwardRepository{db: db}
}

type OutwardListParams struct {
	Company string
	Search  string
	Status  string
	Page    int
	Limit   int
}

// IsDuplicate reports a unique constraint violation, either translated by gorm or
// raised by postgres.
func IsDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// GenerateConsignmentNumber returns the next OW{YYMMDD}{####} id of the company for
// the day of now. Soft deleted records keep their number.
func (r *OutwardRepository) GenerateConsignmentNumber(company string, now time.Time) (string, error) {
	currentDate := now.Format("060102")
	prefix := "OW" + currentDate

	var last models.OutwardRecord
	err := r.db.Unscoped().
		Where("company = ? AND consignment_id LIKE ?", company, prefix+"____").
		Order("consignment_id DESC").
		First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Sprintf("%s%04d", prefix, 1), nil
	}
	if err != nil {
		return "", err
	}

	lastSequence, err := strconv.Atoi(strings.TrimPrefix(last.ConsignmentID, prefix))
	if err != nil {
		return "", fmt.Errorf("parse consignment id %q: %w", last.ConsignmentID, err)
	}
	return fmt.Sprintf("%s%04d", prefix, lastSequence+1), nil
}

// Create stores the header with its articles and boxes in one transaction.
func (r *OutwardRepository) Create(record *models.OutwardRecord) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		articles, boxes := record.Articles, record.Boxes
		if err := tx.Omit(clause.Associations).Create(record).Error; err != nil {
			return err
		}
		if err := insertLines(tx, record, articles, boxes); err != nil {
			return err
		}
		record.Articles, record.Boxes = articles, boxes
		return nil
	})
}

// Replace overwrites the header fields and swaps the article and box lines.
func (r *OutwardRepository) Replace(record *models.OutwardRecord) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		articles, boxes := record.Articles, record.Boxes
		if err := tx.Omit(clause.Associations).Save(record).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("outward_id = ?", record.ID).Delete(&models.OutwardArticle{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("outward_id = ?", record.ID).Delete(&models.OutwardBox{}).Error; err != nil {
			return err
		}
		if err := insertLines(tx, record, articles, boxes); err != nil {
			return err
		}
		record.Articles, record.Boxes = articles, boxes
		return nil
	})
}

func insertLines(tx *gorm.DB, record *models.OutwardRecord, articles []models.OutwardArticle, boxes []models.OutwardBox) error {
	for i := range articles {
		articles[i].ID = 0
		articles[i].OutwardID = record.ID
		articles[i].ConsignmentID = record.ConsignmentID
	}
	for i := range boxes {
		boxes[i].ID = 0
		boxes[i].OutwardID = record.ID
		boxes[i].ConsignmentID = record.ConsignmentID
	}
	if len(articles) > 0 {
		if err := tx.CreateInBatches(&articles, 100).Error; err != nil {
			return err
		}
	}
	if len(boxes) > 0 {
		if err := tx.CreateInBatches(&boxes, 100).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *OutwardRepository) FindByConsignmentID(company, consignmentID string) (*models.OutwardRecord, error) {
	var record models.OutwardRecord
	err := r.db.
		Preload("Articles", func(db *gorm.DB) *gorm.DB { return db.Order("line_number ASC") }).
		Preload("Boxes", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("company = ? AND consignment_id = ?", company, consignmentID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns one page of headers, newest first, and the total count.
func (r *OutwardRepository) List(params OutwardListParams) ([]models.OutwardRecord, int64, error) {
	query := r.db.Model(&models.OutwardRecord{}).Where("company = ?", params.Company)
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if search := strings.TrimSpace(params.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(consignment_id) LIKE ? OR LOWER(customer) LIKE ? OR LOWER(vehicle_no) LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.OutwardRecord
	err := query.
		Order("created_at DESC").Order("id DESC").
		Limit(params.Limit).
		Offset((params.Page - 1) * params.Limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// All returns every record of the company with its lines, for exports.
func (r *OutwardRepository) All(company string) ([]models.OutwardRecord, error) {
	var records []models.OutwardRecord
	err := r.db.
		Preload("Articles", func(db *gorm.DB) *gorm.DB { return db.Order("line_number ASC") }).
		Preload("Boxes", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("company = ?", company).
		Order("consignment_id ASC").
		Find(&records).Error
	return records, err
}

// Delete soft deletes the header and its lines.
func (r *OutwardRepository) Delete(record *models.OutwardRecord, actor int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(record).Update("deleted_by", actor).Error; err != nil {
			return err
		}
		if err := tx.Where("outward_id = ?", record.ID).Delete(&models.OutwardArticle{}).Error; err != nil {
			return err
		}
		if err := tx.Where("outward_id = ?", record.ID).Delete(&models.OutwardBox{}).Error; err != nil {
			return err
		}
		return tx.Delete(record).Error
	})
}

func (r *OutwardRepository) UpdateStatus(company, consignmentID, status string, actor int) error {
	res := r.db.Model(&models.OutwardRecord{}).
		Where("company = ? AND consignment_id = ?", company, consignmentID).
		Updates(map[string]interface{}{"status": status, "updated_by": actor})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
