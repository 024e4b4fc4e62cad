package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"goldsmith_store_v1_202610/internal/model"
)

// RateRepository 金价快照仓储 (只追加)
type RateRepository interface {
	Create(ctx context.Context, rate *model.GoldRate) error
	Latest(ctx context.Context) (*model.GoldRate, error)
	ListSince(ctx context.Context, since time.Time) ([]model.GoldRate, error)
}

type rateRepo struct {
	db *gorm.DB
}

// NewRateRepository 创建金价仓储
func NewRateRepository(db *gorm.DB) RateRepository {
	return &rateRepo{db: db}
}

func (r *rateRepo) Create(ctx context.Context, rate *model.GoldRate) error {
	return r.db.WithContext(ctx).Create(rate).Error
}

// Latest 最新快照，表为空时返回 nil, nil
func (r *rateRepo) Latest(ctx context.Context) (*model.GoldRate, error) {
	var rate model.GoldRate
	err := r.db.WithContext(ctx).
		Order("effective_date DESC, id DESC").
		First(&rate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rate, nil
}

// ListSince 指定时间之后的快照，按生效时间升序
func (r *rateRepo) ListSince(ctx context.Context, since time.Time) ([]model.GoldRate, error) {
	var rates []model.GoldRate
	err := r.db.WithContext(ctx).
		Where("effective_date >= ?", since).
		Order("effective_date ASC, id ASC").
		Find(&rates).Error
	return rates, err
}
