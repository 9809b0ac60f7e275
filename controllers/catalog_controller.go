package controllers

import (
	"outward-wms/cache"
	"outward-wms/middleware"
	"outward-wms/repositories"
	"outward-wms/services"
	"time"

	"github.com/gofiber/fiber/v2"
)

type CatalogController struct {
	Cache cache.Cache
	TTL   time.Duration
}

func NewCatalogController(c cache.Cache, ttl time.Duration) *CatalogController {
	return &CatalogController{Cache: c, TTL: ttl}
}

func (c *CatalogController) service(ctx *fiber.Ctx) *services.CatalogService {
	return services.NewCatalogService(middleware.DB(ctx), c.Cache, middleware.Company(ctx), c.TTL)
}

func (c *CatalogController) options(ctx *fiber.Ctx, values []string, err error) error {
	if err != nil {
		return respondError(ctx, "Failed to fetch options", err)
	}
	return ctx.JSON(fiber.Map{"success": true, "data": values})
}

func (c *CatalogController) GetMaterialTypes(ctx *fiber.Ctx) error {
	values, err := c.service(ctx).MaterialTypes(ctx.UserContext())
	return c.options(ctx, values, err)
}

func (c *CatalogController) GetCategories(ctx *fiber.Ctx) error {
	values, err := c.service(ctx).Categories(ctx.UserContext(), ctx.Query("material_type"))
	return c.options(ctx, values, err)
}

func (c *CatalogController) GetSubCategories(ctx *fiber.Ctx) error {
	values, err := c.service(ctx).SubCategories(ctx.UserContext(), ctx.Query("material_type"), ctx.Query("item_category"))
	return c.options(ctx, values, err)
}

func (c *CatalogController) GetItemDescriptions(ctx *fiber.Ctx) error {
	values, err := c.service(ctx).ItemDescriptions(ctx.UserContext(),
		ctx.Query("material_type"), ctx.Query("item_category"), ctx.Query("sub_category"))
	return c.options(ctx, values, err)
}

func (c *CatalogController) GetSkuID(ctx *fiber.Ctx) error {
	id, err := c.service(ctx).SkuID(repositories.CatalogFilter{
		MaterialType:    ctx.Query("material_type"),
		ItemCategory:    ctx.Query("item_category"),
		SubCategory:     ctx.Query("sub_category"),
		ItemDescription: ctx.Query("item_description"),
	})
	if err != nil {
		return respondError(ctx, "SKU not found", err)
	}
	return ctx.JSON(fiber.Map{"success": true, "data": fiber.Map{"sku_id": id}})
}

func (c *CatalogController) SearchItems(ctx *fiber.Ctx) error {
	page, err := c.service(ctx).Items(ctx.Query("search"), ctx.QueryInt("limit", 0), ctx.QueryInt("offset", 0))
	if err != nil {
		return respondError(ctx, "Failed to search items", err)
	}
	return ctx.JSON(fiber.Map{"success": true, "data": page})
}
