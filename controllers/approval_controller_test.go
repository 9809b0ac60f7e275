package controllers_test

import (
	"errors"
	"testing"

	"outward-wms/models"
	"outward-wms/routes"
	"outward-wms/services"
	"outward-wms/testutil"
	"outward-wms/wms/consignment"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to      []string
	subject string
	body    string
}

type recordingNotifier struct {
	sent []sentMail
	err  error
}

func (n *recordingNotifier) Send(to []string, subject, body string) error {
	n.sent = append(n.sent, sentMail{to: to, subject: subject, body: body})
	return n.err
}

func approvalInput(consignmentID, status string) services.ApprovalInput {
	articles := []consignment.Article{sugarArticle(2)}
	return services.ApprovalInput{
		ConsignmentID:     consignmentID,
		ApprovalAuthority: "QA Lead",
		ApprovalDate:      "2025-03-15",
		ApprovalStatus:    status,
		ApprovalRemark:    "checked",
		Articles:          articles,
		Boxes:             consignment.DeriveBoxes(articles, nil, false),
	}
}

func TestApproval_CreateThenUpdate(t *testing.T) {
	notifier := &recordingNotifier{}
	env := testutil.Setup(t, routes.Dependencies{Notifier: notifier, Recipients: []string{"qa@example.com"}})
	created := createOutward(t, env, outwardInput(2))

	resp := env.Do("POST", "/approvals", approvalInput(created.ConsignmentID, "pending"))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var first models.Approval
	testutil.Decode(t, resp, &first)
	assert.NotZero(t, first.ID)

	resp = env.Do("POST", "/approvals", approvalInput(created.ConsignmentID, "APPROVED"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var second models.Approval
	testutil.Decode(t, resp, &second)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.ApprovalStatusApproved, second.ApprovalStatus)

	resp = env.Do("GET", "/approvals/"+created.ConsignmentID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var stored models.Approval
	testutil.Decode(t, resp, &stored)
	assert.Equal(t, models.ApprovalStatusApproved, stored.ApprovalStatus)
	assert.Len(t, stored.Articles, 1)
	assert.Len(t, stored.Boxes, 2)

	// the consignment follows the approval and is frozen once approved
	resp = env.Do("GET", "/outward/"+created.ConsignmentID, nil)
	var record outwardResponse
	testutil.Decode(t, resp, &record)
	assert.Equal(t, models.OutwardStatusApproved, record.Status)

	resp = env.Do("PUT", "/outward/"+created.ConsignmentID, outwardInput(1))
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	require.Len(t, notifier.sent, 2)
	assert.Equal(t, []string{"qa@example.com"}, notifier.sent[1].to)
	assert.Contains(t, notifier.sent[1].subject, "approved")
	assert.Contains(t, notifier.sent[1].body, "QA Lead")
}

func TestApproval_Errors(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("smtp down")}
	env := testutil.Setup(t, routes.Dependencies{Notifier: notifier, Recipients: []string{"qa@example.com"}})
	created := createOutward(t, env, outwardInput(1))

	resp := env.Do("POST", "/approvals", approvalInput("OW-NOPE", "approved"))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = env.Do("POST", "/approvals", approvalInput(created.ConsignmentID, "maybe"))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	input := approvalInput(created.ConsignmentID, "rejected")
	input.ApprovalAuthority = ""
	resp = env.Do("POST", "/approvals", input)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := testutil.Decode(t, resp, nil)
	assert.Equal(t, "is required", body.Errors["approval_authority"])

	// a failing mail server does not fail the submission
	resp = env.Do("POST", "/approvals", approvalInput(created.ConsignmentID, "rejected"))
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Len(t, notifier.sent, 1)

	resp = env.Do("GET", "/approvals/OW-NOPE", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
