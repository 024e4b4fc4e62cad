package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"goldsmith_store_v1_202610/internal/model"
)

// ErrCartLineNotFound 购物车行不存在
var ErrCartLineNotFound = errors.New("cart line not found")

// ==================== 接口定义 ====================

// CartRepository 购物车存储后端 (持久层与临时层共用)
type CartRepository interface {
	ListLines(ctx context.Context, ownerID string) ([]model.CartItem, error)
	FindLine(ctx context.Context, ownerID string, productID int64, signature string) (*model.CartItem, error)
	GetLine(ctx context.Context, ownerID, lineID string) (*model.CartItem, error)
	// SaveLine 按行 ID 插入或覆盖
	SaveLine(ctx context.Context, item *model.CartItem) error
	DeleteLine(ctx context.Context, ownerID, lineID string) error
	Clear(ctx context.Context, ownerID string) error
}

// CartRepositorySelector 按身份选择存储后端
type CartRepositorySelector interface {
	For(owner model.CartOwner) CartRepository
}

type cartRepositorySelector struct {
	durable   CartRepository
	ephemeral CartRepository
}

// NewCartRepositorySelector 登录用户走持久层，游客走临时层
func NewCartRepositorySelector(durable, ephemeral CartRepository) CartRepositorySelector {
	return &cartRepositorySelector{durable: durable, ephemeral: ephemeral}
}

func (s *cartRepositorySelector) For(owner model.CartOwner) CartRepository {
	if owner.Authenticated {
		return s.durable
	}
	return s.ephemeral
}

// ==================== 持久层 (gorm) ====================

type cartRepo struct {
	db *gorm.DB
}

// NewCartRepository 创建持久购物车仓储
func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepo{db: db}
}

func (r *cartRepo) ListLines(ctx context.Context, ownerID string) ([]model.CartItem, error) {
	lines := make([]model.CartItem, 0)
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC, id ASC").
		Find(&lines).Error
	return lines, err
}

func (r *cartRepo) FindLine(ctx context.Context, ownerID string, productID int64, signature string) (*model.CartItem, error) {
	var line model.CartItem
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND product_id = ? AND signature = ?", ownerID, productID, signature).
		First(&line).Error
	return r.found(&line, err)
}

func (r *cartRepo) GetLine(ctx context.Context, ownerID, lineID string) (*model.CartItem, error) {
	var line model.CartItem
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, lineID).
		First(&line).Error
	return r.found(&line, err)
}

func (r *cartRepo) SaveLine(ctx context.Context, item *model.CartItem) error {
	item.UpdatedAt = time.Now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = item.UpdatedAt
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
		}).
		Create(item).Error
}

func (r *cartRepo) DeleteLine(ctx context.Context, ownerID, lineID string) error {
	return r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, lineID).
		Delete(&model.CartItem{}).Error
}

func (r *cartRepo) Clear(ctx context.Context, ownerID string) error {
	return r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Delete(&model.CartItem{}).Error
}

func (r *cartRepo) found(line *model.CartItem, err error) (*model.CartItem, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartLineNotFound
		}
		return nil, err
	}
	return line, nil
}
