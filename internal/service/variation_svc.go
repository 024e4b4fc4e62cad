package service

import (
	"context"
	"errors"
	"fmt"

	"goldsmith_store_v1_202610/internal/model"
	"goldsmith_store_v1_202610/internal/repository"
	"goldsmith_store_v1_202610/internal/variant"
)

// VariationCatalog 变体记录来源，无记录时返回空切片
type VariationCatalog interface {
	GetVariations(ctx context.Context, productID int64) ([]model.ProductVariation, error)
}

// VariationService 组装商品与变体目录
type VariationService struct {
	products   repository.ProductRepository
	variations VariationCatalog
}

func NewVariationService(products repository.ProductRepository, variations VariationCatalog) *VariationService {
	return &VariationService{products: products, variations: variations}
}

func (s *VariationService) GetVariations(ctx context.Context, productID int64) ([]model.ProductVariation, error) {
	return s.variations.GetVariations(ctx, productID)
}

// Product 在售商品，不存在或已下架返回 ErrProductNotFound
func (s *VariationService) Product(ctx context.Context, productID int64) (*model.Product, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, backendUnavailable(fmt.Errorf("load product %d: %w", productID, err))
	}
	if !product.IsActive {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Catalog 商品及其变体目录
func (s *VariationService) Catalog(ctx context.Context, productID int64) (*model.Product, variant.Catalog, error) {
	product, err := s.Product(ctx, productID)
	if err != nil {
		return nil, variant.Catalog{}, err
	}

	records, err := s.variations.GetVariations(ctx, productID)
	if err != nil {
		return nil, variant.Catalog{}, backendUnavailable(fmt.Errorf("load variations of %d: %w", productID, err))
	}

	catalog := variant.BuildCatalog(records, variant.Context{
		CategorySlug: product.CategorySlug(),
		MetalPurity:  product.MetalPurity,
	})
	return product, catalog, nil
}

// NewResolver 为商品详情视图创建解析器
func (s *VariationService) NewResolver(ctx context.Context, productID int64) (*model.Product, *variant.Resolver, error) {
	product, catalog, err := s.Catalog(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	return product, variant.NewResolver(catalog), nil
}

// Resolve 以服务端目录重放顾客选择，得到可加入购物车的选择快照
func (s *VariationService) Resolve(ctx context.Context, productID int64, choices map[model.VariationDimension][]string, engraving *model.EngravingPayload) (model.VariationSelection, error) {
	_, resolver, err := s.NewResolver(ctx, productID)
	if err != nil {
		return model.VariationSelection{}, err
	}
	if err := resolver.Apply(choices, engraving); err != nil {
		return model.VariationSelection{}, invalidSelection(err)
	}
	return resolver.Selection(), nil
}

// ListProducts 在售商品列表
func (s *VariationService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]model.Product, int64, error) {
	filter.ActiveOnly = true
	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, 0, backendUnavailable(fmt.Errorf("list products: %w", err))
	}
	return products, total, nil
}
