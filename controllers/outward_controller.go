package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"outward-wms/middleware"
	"outward-wms/models"
	"outward-wms/repositories"
	"outward-wms/services"
	"outward-wms/storage"
	"outward-wms/wms/consignment"
	"outward-wms/wms/export"
	"outward-wms/wms/labels"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type OutwardController struct {
	// Archive is nil when object storage is not configured.
	Archive *storage.Archive
}

func NewOutwardController(archive *storage.Archive) *OutwardController {
	return &OutwardController{Archive: archive}
}

func (c *OutwardController) service(ctx *fiber.Ctx) *services.OutwardService {
	return services.NewOutwardService(middleware.DB(ctx))
}

func (c *OutwardController) consignmentID(ctx *fiber.Ctx) string {
	id, err := url.PathUnescape(ctx.Params("consignment_id"))
	if err != nil {
		return ctx.Params("consignment_id")
	}
	return id
}

func (c *OutwardController) CreateOutward(ctx *fiber.Ctx) error {
	var input services.OutwardInput
	if err := ctx.BodyParser(&input); err != nil {
		return badRequest(ctx, err)
	}

	detail, err := c.service(ctx).Create(middleware.Company(ctx), middleware.UserID(ctx), input)
	if err != nil {
		return respondError(ctx, "Failed to create consignment", err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Consignment " + detail.ConsignmentID + " created successfully",
		"data":    detail,
	})
}

func (c *OutwardController) GetOutwardList(ctx *fiber.Ctx) error {
	page, err := c.service(ctx).List(repositories.OutwardListParams{
		Company: middleware.Company(ctx),
		Search:  ctx.Query("search"),
		Status:  ctx.Query("status"),
		Page:    ctx.QueryInt("page", 1),
		Limit:   ctx.QueryInt("limit", 20),
	})
	if err != nil {
		return respondError(ctx, "Failed to fetch consignments", err)
	}

	return ctx.JSON(fiber.Map{"success": true, "data": page})
}

func (c *OutwardController) GetOutwardByID(ctx *fiber.Ctx) error {
	detail, err := c.service(ctx).Get(middleware.Company(ctx), c.consignmentID(ctx))
	if err != nil {
		return respondError(ctx, "Consignment not found", err)
	}
	return ctx.JSON(fiber.Map{"success": true, "data": detail})
}

func (c *OutwardController) UpdateOutward(ctx *fiber.Ctx) error {
	var input services.OutwardInput
	if err := ctx.BodyParser(&input); err != nil {
		return badRequest(ctx, err)
	}

	detail, err := c.service(ctx).Update(middleware.Company(ctx), c.consignmentID(ctx), middleware.UserID(ctx), input)
	if err != nil {
		return respondError(ctx, "Failed to update consignment", err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Consignment " + detail.ConsignmentID + " updated successfully",
		"data":    detail,
	})
}

func (c *OutwardController) DeleteOutward(ctx *fiber.Ctx) error {
	id := c.consignmentID(ctx)
	if err := c.service(ctx).Delete(middleware.Company(ctx), id, middleware.UserID(ctx)); err != nil {
		return respondError(ctx, "Failed to delete consignment", err)
	}
	return ctx.JSON(fiber.Map{"success": true, "message": "Consignment " + id + " deleted successfully"})
}

func (c *OutwardController) GetHistory(ctx *fiber.Ctx) error {
	histories, err := c.service(ctx).History(middleware.Company(ctx), c.consignmentID(ctx))
	if err != nil {
		return respondError(ctx, "Failed to fetch history", err)
	}
	return ctx.JSON(fiber.Map{"success": true, "data": histories})
}

func (c *OutwardController) ExportExcel(ctx *fiber.Ctx) error {
	records, err := c.service(ctx).All(middleware.Company(ctx))
	if err != nil {
		return respondError(ctx, "Failed to fetch consignments", err)
	}

	ctx.Set("Content-Type", export.ContentType)
	ctx.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="outward_%s.xlsx"`, time.Now().Format("20060102")))

	if err := export.Write(ctx.Response().BodyWriter(), records); err != nil {
		return respondError(ctx, "Failed to generate Excel", err)
	}
	return nil
}

func (c *OutwardController) ImportArticles(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "File is required",
			"error":   err.Error(),
		})
	}

	content, err := file.Open()
	if err != nil {
		return respondError(ctx, "Failed to open file", err)
	}
	defer content.Close()

	result, err := services.ImportArticles(middleware.DB(ctx), content)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Failed to read Excel file",
			"error":   err.Error(),
		})
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("%d of %d rows imported", result.SuccessCount, result.TotalRows),
		"data":    result,
	})
}

func (c *OutwardController) LabelsZPL(ctx *fiber.Ctx) error {
	detail, err := c.service(ctx).Get(middleware.Company(ctx), c.consignmentID(ctx))
	if err != nil {
		return respondError(ctx, "Consignment not found", err)
	}

	articles, boxes := detail.Domain()
	ctx.Set("Content-Type", "application/zpl; charset=utf-8")
	ctx.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_labels.zpl"`, detail.ConsignmentID))
	return ctx.SendString(labels.ZPL(boxes, articles, detail.ConsignmentID))
}

func (c *OutwardController) LabelPNG(ctx *fiber.Ctx) error {
	detail, err := c.service(ctx).Get(middleware.Company(ctx), c.consignmentID(ctx))
	if err != nil {
		return respondError(ctx, "Consignment not found", err)
	}

	boxID, _ := url.PathUnescape(ctx.Params("box_id"))
	articles, boxes := detail.Domain()

	var box *consignment.Box
	for i := range boxes {
		if boxes[i].ID == boxID {
			box = &boxes[i]
			break
		}
	}
	if box == nil {
		return respondError(ctx, "Box not found", fmt.Errorf("box %s: %w", boxID, consignment.ErrBoxNotFound))
	}

	var article consignment.Article
	for _, a := range articles {
		if a.Label() == box.Article {
			article = a
			break
		}
	}

	img, err := labels.PNG(labels.Payload(*box, article, detail.ConsignmentID))
	if err != nil {
		return respondError(ctx, "Failed to render label", err)
	}

	ctx.Set("Content-Type", "image/png")
	return ctx.Send(img)
}

var errArchiveDisabled = errors.New("object storage is not configured")

// ArchiveOutward uploads the consignment workbook and its label file.
func (c *OutwardController) ArchiveOutward(ctx *fiber.Ctx) error {
	if c.Archive == nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"message": "Archive unavailable",
			"error":   errArchiveDisabled.Error(),
		})
	}

	company := middleware.Company(ctx)
	detail, err := c.service(ctx).Get(company, c.consignmentID(ctx))
	if err != nil {
		return respondError(ctx, "Consignment not found", err)
	}

	var workbook bytes.Buffer
	if err := export.Write(&workbook, []models.OutwardRecord{*detail.OutwardRecord}); err != nil {
		return respondError(ctx, "Failed to generate Excel", err)
	}
	articles, boxes := detail.Domain()
	zpl := labels.ZPL(boxes, articles, detail.ConsignmentID)

	prefix := fmt.Sprintf("%s/%s/%s", company, detail.ConsignmentID, time.Now().Format("20060102150405"))
	xlsxPath, err := c.Archive.Put(ctx.UserContext(), prefix+"/outward.xlsx", export.ContentType, workbook.Bytes())
	if err != nil {
		return respondError(ctx, "Failed to archive workbook", err)
	}
	zplPath, err := c.Archive.Put(ctx.UserContext(), prefix+"/labels.zpl", "application/zpl", []byte(zpl))
	if err != nil {
		return respondError(ctx, "Failed to archive labels", err)
	}

	zap.L().Info("consignment archived", zap.String("company", company), zap.String("consignment_id", detail.ConsignmentID))
	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Consignment archived",
		"data":    fiber.Map{"workbook": xlsxPath, "labels": zplPath},
	})
}
