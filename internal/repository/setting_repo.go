package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"goldsmith_store_v1_202610/internal/model"
)

// SettingRepository 站点配置仓储
type SettingRepository interface {
	Get(ctx context.Context, key string) (*model.SiteSetting, error)
	Set(ctx context.Context, key, value string) error
	List(ctx context.Context) ([]model.SiteSetting, error)
}

type settingRepo struct {
	db *gorm.DB
}

// NewSettingRepository 创建配置仓储
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepo{db: db}
}

// Get 读取配置，不存在时返回 nil, nil
func (r *settingRepo) Get(ctx context.Context, key string) (*model.SiteSetting, error) {
	var setting model.SiteSetting
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &setting, nil
}

// Set 写入配置 (按 key upsert)
func (r *settingRepo) Set(ctx context.Context, key, value string) error {
	setting := &model.SiteSetting{Key: key, Value: value}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(setting).Error
}

func (r *settingRepo) List(ctx context.Context) ([]model.SiteSetting, error) {
	var settings []model.SiteSetting
	err := r.db.WithContext(ctx).Order("key ASC").Find(&settings).Error
	return settings, err
}
