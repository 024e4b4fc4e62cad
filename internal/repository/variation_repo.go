package repository

import (
	"context"

	"gorm.io/gorm"

	"goldsmith_store_v1_202610/internal/model"
)

// VariationRepository 商品变体记录仓储
type VariationRepository interface {
	GetVariations(ctx context.Context, productID int64) ([]model.ProductVariation, error)
	Create(ctx context.Context, variation *model.ProductVariation) error
	BatchCreate(ctx context.Context, variations []model.ProductVariation) error
	UpdateStock(ctx context.Context, id int64, stock *int) error
	DeleteByProductID(ctx context.Context, productID int64) error
}

type variationRepo struct {
	db *gorm.DB
}

// NewVariationRepository 创建变体仓储
func NewVariationRepository(db *gorm.DB) VariationRepository {
	return &variationRepo{db: db}
}

// GetVariations 按 sort_order 返回商品全部变体，无记录时返回空切片
func (r *variationRepo) GetVariations(ctx context.Context, productID int64) ([]model.ProductVariation, error) {
	variations := make([]model.ProductVariation, 0)
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("sort_order ASC, id ASC").
		Find(&variations).Error
	return variations, err
}

func (r *variationRepo) Create(ctx context.Context, variation *model.ProductVariation) error {
	return r.db.WithContext(ctx).Create(variation).Error
}

func (r *variationRepo) BatchCreate(ctx context.Context, variations []model.ProductVariation) error {
	if len(variations) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(variations, 100).Error
}

func (r *variationRepo) UpdateStock(ctx context.Context, id int64, stock *int) error {
	return r.db.WithContext(ctx).
		Model(&model.ProductVariation{}).
		Where("id = ?", id).
		Update("stock_quantity", stock).Error
}

func (r *variationRepo) DeleteByProductID(ctx context.Context, productID int64) error {
	return r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&model.ProductVariation{}).Error
}
