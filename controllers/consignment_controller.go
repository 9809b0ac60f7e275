package controllers

import (
	"outward-wms/controllers/idgen"
	"outward-wms/wms/consignment"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ConsignmentController exposes the box derivation engine without touching storage.
type ConsignmentController struct{}

func NewConsignmentController() *ConsignmentController {
	return &ConsignmentController{}
}

type deriveRequest struct {
	Articles         []consignment.Article `json:"articles"`
	Boxes            []consignment.Box     `json:"boxes"`
	ForceRecalculate bool                  `json:"force_recalculate"`
}

type deleteBoxRequest struct {
	Box      consignment.Box       `json:"box"`
	Articles []consignment.Article `json:"articles"`
	Boxes    []consignment.Box     `json:"boxes"`
}

type applyRequest struct {
	State  consignment.Consignment `json:"state"`
	Action consignment.Action      `json:"action"`
}

func (c *ConsignmentController) NewArticle(ctx *fiber.Ctx) error {
	article := consignment.NewArticle(idgen.GenerateString(), time.Now())
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": article})
}

func (c *ConsignmentController) DeriveBoxes(ctx *fiber.Ctx) error {
	var req deriveRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badRequest(ctx, err)
	}
	if err := consignment.ValidateArticles(req.Articles); err != nil {
		return respondError(ctx, "Failed to derive boxes", err)
	}

	boxes := consignment.DeriveBoxes(req.Articles, req.Boxes, req.ForceRecalculate)
	return ctx.JSON(fiber.Map{"success": true, "data": boxes})
}

func (c *ConsignmentController) DeleteBox(ctx *fiber.Ctx) error {
	var req deleteBoxRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badRequest(ctx, err)
	}

	articles, boxes, err := consignment.DeleteBox(req.Box, req.Articles, req.Boxes)
	if err != nil {
		return respondError(ctx, "Failed to delete box", err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"articles": articles, "boxes": boxes},
	})
}

func (c *ConsignmentController) Stats(ctx *fiber.Ctx) error {
	var req deriveRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badRequest(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "data": consignment.ComputeBoxStats(req.Boxes, req.Articles)})
}

func (c *ConsignmentController) Apply(ctx *fiber.Ctx) error {
	var req applyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return badRequest(ctx, err)
	}

	if req.Action.Type == consignment.ActionAddArticle && req.Action.ArticleID == "" {
		req.Action.ArticleID = idgen.GenerateString()
	}

	next, err := req.State.Apply(req.Action)
	if err != nil {
		return respondError(ctx, "Failed to apply action", err)
	}
	return ctx.JSON(fiber.Map{"success": true, "data": next})
}
