package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoldRate 金价快照记录，每次拉取新增一行，不做原地更新
type GoldRate struct {
	BaseModel
	Rate24K       decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"rate_24k"`
	Rate22K       decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"rate_22k"`
	Rate18K       *decimal.Decimal `gorm:"type:decimal(12,2)" json:"rate_18k"`
	SilverRate    *decimal.Decimal `gorm:"type:decimal(12,2)" json:"silver_rate"`
	EffectiveDate time.Time        `gorm:"index" json:"effective_date"`
	Source        string           `gorm:"size:64" json:"source"`
}

func (GoldRate) TableName() string {
	return "gold_rates"
}

// RateSnapshot 每克单价快照 (只读)
type RateSnapshot struct {
	Rate24K       decimal.Decimal  `json:"rate_24k"`
	Rate22K       decimal.Decimal  `json:"rate_22k"`
	Rate18K       *decimal.Decimal `json:"rate_18k,omitempty"`
	Silver        *decimal.Decimal `json:"silver,omitempty"`
	EffectiveDate time.Time        `json:"effective_date"`
	Source        string           `json:"source"`
}

// Snapshot 转换为只读快照
func (g *GoldRate) Snapshot() *RateSnapshot {
	return &RateSnapshot{
		Rate24K:       g.Rate24K,
		Rate22K:       g.Rate22K,
		Rate18K:       copyDecimal(g.Rate18K),
		Silver:        copyDecimal(g.SilverRate),
		EffectiveDate: g.EffectiveDate,
		Source:        g.Source,
	}
}

// NewGoldRate 由快照构造入库记录
func NewGoldRate(s *RateSnapshot) *GoldRate {
	return &GoldRate{
		Rate24K:       s.Rate24K,
		Rate22K:       s.Rate22K,
		Rate18K:       copyDecimal(s.Rate18K),
		SilverRate:    copyDecimal(s.Silver),
		EffectiveDate: s.EffectiveDate,
		Source:        s.Source,
	}
}

func copyDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
