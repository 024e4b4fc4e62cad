package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"goldsmith_store_v1_202610/internal/model"
)

// RecordRateReq 手工录入金价
type RecordRateReq struct {
	Rate24K       decimal.Decimal  `json:"rate_24k"`
	Rate22K       decimal.Decimal  `json:"rate_22k"`
	Rate18K       *decimal.Decimal `json:"rate_18k"`
	Silver        *decimal.Decimal `json:"silver"`
	EffectiveDate *time.Time       `json:"effective_date"`
	Source        string           `json:"source"`
}

// ToSnapshot 转换为快照
func (r RecordRateReq) ToSnapshot() *model.RateSnapshot {
	snap := &model.RateSnapshot{
		Rate24K: r.Rate24K,
		Rate22K: r.Rate22K,
		Rate18K: r.Rate18K,
		Silver:  r.Silver,
		Source:  r.Source,
	}
	if r.EffectiveDate != nil {
		snap.EffectiveDate = *r.EffectiveDate
	}
	return snap
}

// SettingsResp 站点配置
type SettingsResp struct {
	GSTPercent            decimal.Decimal `json:"gst_percent"`
	FreeShippingThreshold int64           `json:"free_shipping_threshold"`
	FreeShippingEnabled   bool            `json:"free_shipping_enabled"`
}

// UpdateSettingsReq 修改站点配置，未传字段保持不变
type UpdateSettingsReq struct {
	GSTPercent            *decimal.Decimal `json:"gst_percent"`
	FreeShippingThreshold *int64           `json:"free_shipping_threshold"`
	FreeShippingEnabled   *bool            `json:"free_shipping_enabled"`
}
