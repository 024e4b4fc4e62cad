package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"goldsmith_store_v1_202610/internal/model"
	"goldsmith_store_v1_202610/internal/pricing"
	"goldsmith_store_v1_202610/internal/repository"
)

// DefaultFreeShippingThreshold 包邮门槛默认值 (整币)
const DefaultFreeShippingThreshold int64 = 50000

// FreeShippingPolicy 包邮规则
type FreeShippingPolicy struct {
	Threshold int64 `json:"threshold"`
	Enabled   bool  `json:"enabled"`
}

// Eligible 订单总额是否达到包邮门槛
func (p FreeShippingPolicy) Eligible(total int64) bool {
	return p.Enabled && total >= p.Threshold
}

// Remaining 距离包邮还差多少
func (p FreeShippingPolicy) Remaining(total int64) int64 {
	if !p.Enabled || total >= p.Threshold {
		return 0
	}
	return p.Threshold - total
}

// SettingService 站点配置服务，缺失或非法的值回退为默认值
type SettingService struct {
	repo   repository.SettingRepository
	logger *zap.Logger
}

func NewSettingService(repo repository.SettingRepository, logger *zap.Logger) *SettingService {
	return &SettingService{repo: repo, logger: logger}
}

// GSTPercent 商品税率，默认 3
func (s *SettingService) GSTPercent(ctx context.Context) (decimal.Decimal, error) {
	raw, ok, err := s.value(ctx, model.SettingGSTPercent)
	if err != nil || !ok {
		return pricing.DefaultGSTPercent, err
	}

	pct, err := decimal.NewFromString(raw)
	if err != nil || pct.IsNegative() {
		s.logger.Warn("invalid gst setting, using default", zap.String("value", raw))
		return pricing.DefaultGSTPercent, nil
	}
	return pct, nil
}

// FreeShipping 包邮规则，默认门槛 50000 且启用
func (s *SettingService) FreeShipping(ctx context.Context) (FreeShippingPolicy, error) {
	policy := FreeShippingPolicy{Threshold: DefaultFreeShippingThreshold, Enabled: true}

	raw, ok, err := s.value(ctx, model.SettingFreeShippingThreshold)
	if err != nil {
		return policy, err
	}
	if ok {
		if n, perr := strconv.ParseInt(raw, 10, 64); perr == nil && n >= 0 {
			policy.Threshold = n
		} else {
			s.logger.Warn("invalid free shipping threshold, using default", zap.String("value", raw))
		}
	}

	raw, ok, err = s.value(ctx, model.SettingFreeShippingEnabled)
	if err != nil {
		return policy, err
	}
	if ok {
		if b, perr := strconv.ParseBool(raw); perr == nil {
			policy.Enabled = b
		} else {
			s.logger.Warn("invalid free shipping flag, using default", zap.String("value", raw))
		}
	}
	return policy, nil
}

// SetGSTPercent 更新税率
func (s *SettingService) SetGSTPercent(ctx context.Context, pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%w: gst percent must be within 0-100", ErrInvalidSetting)
	}
	return s.repo.Set(ctx, model.SettingGSTPercent, pct.String())
}

// SetFreeShipping 更新包邮规则
func (s *SettingService) SetFreeShipping(ctx context.Context, policy FreeShippingPolicy) error {
	if policy.Threshold < 0 {
		return fmt.Errorf("%w: free shipping threshold must not be negative", ErrInvalidSetting)
	}
	if err := s.repo.Set(ctx, model.SettingFreeShippingThreshold, strconv.FormatInt(policy.Threshold, 10)); err != nil {
		return err
	}
	return s.repo.Set(ctx, model.SettingFreeShippingEnabled, strconv.FormatBool(policy.Enabled))
}

func (s *SettingService) value(ctx context.Context, key string) (string, bool, error) {
	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("load setting %s: %w", key, err)
	}
	if setting == nil {
		return "", false, nil
	}
	return setting.Value, true, nil
}
