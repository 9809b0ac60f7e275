package services

import (
	"fmt"
	"html"
	"outward-wms/models"
	"outward-wms/notify"
	"outward-wms/repositories"
	"outward-wms/wms/consignment"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ApprovalInput struct {
	ConsignmentID     string                `json:"consignment_id" validate:"required"`
	ApprovalAuthority string                `json:"approval_authority" validate:"required"`
	ApprovalDate      string                `json:"approval_date" validate:"required"`
	ApprovalStatus    string                `json:"approval_status" validate:"required"`
	ApprovalRemark    string                `json:"approval_remark"`
	Articles          []consignment.Article `json:"articles"`
	Boxes             []consignment.Box     `json:"boxes"`
}

type ApprovalService struct {
	db         *gorm.DB
	notifier   notify.Notifier
	recipients []string
}

func NewApprovalService(db *gorm.DB, notifier notify.Notifier, recipients []string) *ApprovalService {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &ApprovalService{db: db, notifier: notifier, recipients: recipients}
}

func validApprovalStatus(status string) bool {
	switch status {
	case models.ApprovalStatusPending, models.ApprovalStatusApproved, models.ApprovalStatusRejected:
		return true
	}
	return false
}

// Submit stores the approval of a consignment, creating it on first submission and
// overwriting it afterwards. The consignment status follows the approval status.
func (s *ApprovalService) Submit(company string, actor int, input ApprovalInput) (*models.Approval, bool, error) {
	input.ConsignmentID = strings.TrimSpace(input.ConsignmentID)
	input.ApprovalStatus = strings.ToLower(strings.TrimSpace(input.ApprovalStatus))
	if err := validateStruct(&input); err != nil {
		return nil, false, err
	}
	if !validApprovalStatus(input.ApprovalStatus) {
		return nil, false, fmt.Errorf("%q: %w", input.ApprovalStatus, ErrInvalidStatus)
	}

	approval := &models.Approval{
		ConsignmentID:     input.ConsignmentID,
		Company:           company,
		ApprovalAuthority: input.ApprovalAuthority,
		ApprovalDate:      input.ApprovalDate,
		ApprovalStatus:    input.ApprovalStatus,
		ApprovalRemark:    input.ApprovalRemark,
		Articles:          consignment.Normalize(input.Articles),
		Boxes:             input.Boxes,
		CreatedBy:         actor,
		UpdatedBy:         actor,
	}

	var created bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		outwards := repositories.NewOutwardRepository(tx)
		if _, err := outwards.FindByConsignmentID(company, input.ConsignmentID); err != nil {
			return notFound(err, "consignment "+input.ConsignmentID)
		}

		var err error
		created, err = repositories.NewApprovalRepository(tx).Upsert(approval)
		if err != nil {
			return fmt.Errorf("save approval: %w", err)
		}

		if err := outwards.UpdateStatus(company, input.ConsignmentID, input.ApprovalStatus, actor); err != nil {
			return fmt.Errorf("update consignment status: %w", err)
		}

		detail := "approval by " + input.ApprovalAuthority
		if input.ApprovalRemark != "" {
			detail += ": " + input.ApprovalRemark
		}
		return repositories.InsertTransactionHistory(tx, company, input.ConsignmentID, input.ApprovalStatus, models.HistoryTypeApproval, detail, actor)
	})
	if err != nil {
		return nil, false, err
	}

	zap.L().Info("approval submitted",
		zap.String("company", company),
		zap.String("consignment_id", approval.ConsignmentID),
		zap.String("status", approval.ApprovalStatus),
		zap.Bool("created", created))

	s.notify(approval)
	return approval, created, nil
}

func (s *ApprovalService) Get(company, consignmentID string) (*models.Approval, error) {
	approval, err := repositories.NewApprovalRepository(s.db).Find(company, consignmentID)
	if err != nil {
		return nil, notFound(err, "approval "+consignmentID)
	}
	return approval, nil
}

// notify never fails the submission; delivery problems are only logged.
func (s *ApprovalService) notify(approval *models.Approval) {
	if len(s.recipients) == 0 {
		return
	}

	subject := fmt.Sprintf("Consignment %s %s", approval.ConsignmentID, approval.ApprovalStatus)
	if err := s.notifier.Send(s.recipients, subject, approvalBody(approval)); err != nil {
		zap.L().Warn("approval notification failed",
			zap.String("consignment_id", approval.ConsignmentID),
			zap.Error(err))
	}
}

func approvalBody(a *models.Approval) string {
	summary := Summarize(a.Articles, a.Boxes)
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Consignment <b>%s</b> was marked <b>%s</b> by %s on %s.</p>",
		html.EscapeString(a.ConsignmentID), html.EscapeString(a.ApprovalStatus),
		html.EscapeString(a.ApprovalAuthority), html.EscapeString(a.ApprovalDate))
	if a.ApprovalRemark != "" {
		fmt.Fprintf(&b, "<p>Remark: %s</p>", html.EscapeString(a.ApprovalRemark))
	}
	fmt.Fprintf(&b, "<p>Articles: %d, boxes: %d, net weight: %.3f g, gross weight: %.3f g</p>",
		summary.ArticleCount, summary.BoxCount, summary.TotalNetWeight, summary.TotalGrossWeight)
	return b.String()
}
