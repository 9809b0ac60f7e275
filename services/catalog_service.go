package services

import (
	"context"
	"fmt"
	"outward-wms/cache"
	"outward-wms/repositories"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultItemLimit = 20
	maxItemLimit     = 100
)

type CatalogItemsPage struct {
	Items  []repositories.CatalogItem `json:"items"`
	Total  int64                      `json:"total"`
	Limit  int                        `json:"limit"`
	Offset int                        `json:"offset"`
}

// CatalogService answers the dependent dropdowns of the article form. Option lists are
// cached per company.
type CatalogService struct {
	repo    *repositories.CatalogRepository
	cache   cache.Cache
	company string
	ttl     time.Duration
}

func NewCatalogService(db *gorm.DB, c cache.Cache, company string, ttl time.Duration) *CatalogService {
	if c == nil {
		c = cache.Noop{}
	}
	return &CatalogService{
		repo:    repositories.NewCatalogRepository(db),
		cache:   c,
		company: company,
		ttl:     ttl,
	}
}

func (s *CatalogService) MaterialTypes(ctx context.Context) ([]string, error) {
	return s.options(ctx, "material_type", repositories.CatalogFilter{})
}

func (s *CatalogService) Categories(ctx context.Context, materialType string) ([]string, error) {
	return s.options(ctx, "item_category", repositories.CatalogFilter{MaterialType: materialType})
}

func (s *CatalogService) SubCategories(ctx context.Context, materialType, itemCategory string) ([]string, error) {
	return s.options(ctx, "sub_category", repositories.CatalogFilter{
		MaterialType: materialType,
		ItemCategory: itemCategory,
	})
}

func (s *CatalogService) ItemDescriptions(ctx context.Context, materialType, itemCategory, subCategory string) ([]string, error) {
	return s.options(ctx, "item_description", repositories.CatalogFilter{
		MaterialType: materialType,
		ItemCategory: itemCategory,
		SubCategory:  subCategory,
	})
}

func (s *CatalogService) options(ctx context.Context, column string, filter repositories.CatalogFilter) ([]string, error) {
	key := fmt.Sprintf("catalog:%s:%s:%s|%s|%s", s.company, column, filter.MaterialType, filter.ItemCategory, filter.SubCategory)

	var cached []string
	if ok, err := s.cache.Get(ctx, key, &cached); err != nil {
		zap.L().Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		return cached, nil
	}

	values, err := s.repo.Distinct(column, filter)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", column, err)
	}

	if err := s.cache.Set(ctx, key, values, s.ttl); err != nil {
		zap.L().Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
	return values, nil
}

// SkuID resolves the full chain to the SKU id.
func (s *CatalogService) SkuID(filter repositories.CatalogFilter) (uint, error) {
	fields := map[string]string{}
	if filter.MaterialType == "" {
		fields["material_type"] = "is required"
	}
	if filter.ItemCategory == "" {
		fields["item_category"] = "is required"
	}
	if filter.SubCategory == "" {
		fields["sub_category"] = "is required"
	}
	if filter.ItemDescription == "" {
		fields["item_description"] = "is required"
	}
	if len(fields) > 0 {
		return 0, &ValidationError{Fields: fields}
	}

	sku, err := s.repo.FindSku(filter)
	if err != nil {
		return 0, notFound(err, "sku")
	}
	return sku.ID, nil
}

// Items searches the catalog. limit defaults to 20 and is capped at 100.
func (s *CatalogService) Items(search string, limit, offset int) (*CatalogItemsPage, error) {
	if limit <= 0 {
		limit = defaultItemLimit
	}
	if limit > maxItemLimit {
		limit = maxItemLimit
	}
	if offset < 0 {
		offset = 0
	}

	items, total, err := s.repo.SearchItems(strings.TrimSpace(search), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	return &CatalogItemsPage{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}
