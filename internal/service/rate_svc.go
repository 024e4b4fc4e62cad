package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"goldsmith_store_v1_202610/internal/model"
	"goldsmith_store_v1_202610/internal/repository"
	"goldsmith_store_v1_202610/pkg/utils"
)

const (
	currentRateKey     = "current"
	defaultHistoryDays = 30
	maxHistoryDays     = 365
)

// RateProvider 金价提供者
type RateProvider interface {
	// GetCurrentRate 最新快照，尚无金价时返回 nil, nil
	GetCurrentRate(ctx context.Context) (*model.RateSnapshot, error)
	// GetRateHistory 最近 days 天的快照，按日期升序
	GetRateHistory(ctx context.Context, days int) ([]model.RateSnapshot, error)
}

// RateService 基于 gold_rates 表的金价服务
type RateService struct {
	repo   repository.RateRepository
	cache  *utils.TTLCache[*model.RateSnapshot]
	group  singleflight.Group
	logger *zap.Logger
	now    func() time.Time
}

// NewRateService 创建金价服务，cacheTTL 为当前金价的进程内缓存时长
func NewRateService(repo repository.RateRepository, cacheTTL time.Duration, logger *zap.Logger) *RateService {
	return &RateService{
		repo:   repo,
		cache:  utils.NewTTLCache[*model.RateSnapshot](cacheTTL),
		logger: logger,
		now:    time.Now,
	}
}

// GetCurrentRate 并发请求合并为一次查询
func (s *RateService) GetCurrentRate(ctx context.Context) (*model.RateSnapshot, error) {
	if snap, ok := s.cache.Get(currentRateKey); ok {
		return snap, nil
	}

	v, err, _ := s.group.Do(currentRateKey, func() (interface{}, error) {
		row, err := s.repo.Latest(ctx)
		if err != nil {
			return nil, err
		}
		if row == nil {
			return (*model.RateSnapshot)(nil), nil
		}
		snap := row.Snapshot()
		s.cache.Set(currentRateKey, snap)
		return snap, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load current rate: %w", err)
	}
	return v.(*model.RateSnapshot), nil
}

func (s *RateService) GetRateHistory(ctx context.Context, days int) ([]model.RateSnapshot, error) {
	if days <= 0 {
		days = defaultHistoryDays
	}
	if days > maxHistoryDays {
		days = maxHistoryDays
	}

	since := s.now().UTC().AddDate(0, 0, -days)
	rows, err := s.repo.ListSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("load rate history: %w", err)
	}

	history := make([]model.RateSnapshot, 0, len(rows))
	for i := range rows {
		history = append(history, *rows[i].Snapshot())
	}
	return history, nil
}

// Record 追加新快照并使当前金价缓存失效
// 补录的历史快照不会成为当前金价，下次读取按 effective_date 重新取最新
func (s *RateService) Record(ctx context.Context, snap *model.RateSnapshot) (*model.RateSnapshot, error) {
	if snap == nil || !snap.Rate24K.IsPositive() || !snap.Rate22K.IsPositive() {
		return nil, fmt.Errorf("%w: 24k/22k rates must be positive", ErrInvalidRate)
	}

	row := model.NewGoldRate(snap)
	if row.EffectiveDate.IsZero() {
		row.EffectiveDate = s.now().UTC()
	}
	if row.Source == "" {
		row.Source = "manual"
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("save rate: %w", err)
	}

	saved := row.Snapshot()
	s.cache.Delete(currentRateKey)
	s.logger.Info("gold rate recorded",
		zap.String("source", saved.Source),
		zap.String("rate_22k", saved.Rate22K.String()),
		zap.String("rate_24k", saved.Rate24K.String()),
		zap.Time("effective_date", saved.EffectiveDate),
	)
	return saved, nil
}
