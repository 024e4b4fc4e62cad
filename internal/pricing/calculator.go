// Package pricing 按实时金价计算首饰价格明细 (纯函数，无 I/O)
package pricing

import (
	"goldsmith_store_v1_202610/internal/model"

	"github.com/shopspring/decimal"
)

var (
	// DefaultMakingChargePercent 商品与分类均未配置工费时的兜底比例
	DefaultMakingChargePercent = decimal.NewFromInt(12)
	// DefaultGSTPercent 站点未配置 GST 时的默认税率
	DefaultGSTPercent = decimal.NewFromInt(3)

	// 18K 缺失时按 22K * 0.75 估算，非市场精确换算
	derived18KFactor = decimal.RequireFromString("0.75")
	hundred          = decimal.NewFromInt(100)
)

// ==================== 输入与输出 ====================

// Input 计价所需的商品属性
type Input struct {
	MetalPurity         model.MetalPurity
	WeightGrams         decimal.Decimal
	MakingChargePercent *decimal.Decimal
	DiamondCost         decimal.Decimal
	StoneCost           decimal.Decimal
}

// FromProduct 提取商品计价属性
func FromProduct(p *model.Product) Input {
	return Input{
		MetalPurity:         p.MetalPurity,
		WeightGrams:         p.WeightGrams,
		MakingChargePercent: p.MakingChargePercent,
		DiamondCost:         p.DiamondCost,
		StoneCost:           p.StoneCost,
	}
}

// WithWeightAdjustment 叠加变体克重增量 (结果不小于 0)
func (in Input) WithWeightAdjustment(delta decimal.Decimal) Input {
	w := in.WeightGrams.Add(delta)
	if w.IsNegative() {
		w = decimal.Zero
	}
	in.WeightGrams = w
	return in
}

// Breakdown 价格明细，金额均为整数货币单位
type Breakdown struct {
	GoldValue     int64   `json:"gold_value"`
	MakingCharges int64   `json:"making_charges"`
	Subtotal      int64   `json:"subtotal"`
	GSTAmount     int64   `json:"gst_amount"`
	Total         int64   `json:"total"`
	RateApplied   float64 `json:"rate_applied"`
}

// LineAmounts 购物车行单件金额 (含变体价格增量)
type LineAmounts struct {
	Subtotal  int64 `json:"subtotal"`
	GSTAmount int64 `json:"gst_amount"`
	Total     int64 `json:"total"`
}

// ==================== 计算 ====================

// RateFor 按成色取每克单价，快照缺失对应成色时返回 0
func RateFor(purity model.MetalPurity, rate *model.RateSnapshot) decimal.Decimal {
	if rate == nil {
		return decimal.Zero
	}
	switch purity {
	case model.MetalGold24K:
		return rate.Rate24K
	case model.MetalGold22K:
		return rate.Rate22K
	case model.MetalGold18K:
		if rate.Rate18K != nil {
			return *rate.Rate18K
		}
		return rate.Rate22K.Mul(derived18KFactor)
	case model.MetalSilver:
		if rate.Silver != nil {
			return *rate.Silver
		}
	}
	return decimal.Zero
}

// Calculate 计算价格明细
// rate 为空时返回全零明细 (金价尚未加载是正常状态)
func Calculate(in Input, rate *model.RateSnapshot, categoryDefault *decimal.Decimal, gstPercent decimal.Decimal) Breakdown {
	if rate == nil {
		return Breakdown{}
	}

	perGram := RateFor(in.MetalPurity, rate)
	goldValue := in.WeightGrams.Mul(perGram)
	making := goldValue.Mul(makingPercent(in.MakingChargePercent, categoryDefault)).Div(hundred)
	subtotal := goldValue.Add(making).Add(in.DiamondCost).Add(in.StoneCost)
	gst := subtotal.Mul(gstPercent).Div(hundred)

	// 每个字段独立取整一次，合计由取整后的小计与税额相加
	roundedSubtotal := roundUnits(subtotal)
	roundedGST := roundUnits(gst)

	return Breakdown{
		GoldValue:     roundUnits(goldValue),
		MakingCharges: roundUnits(making),
		Subtotal:      roundedSubtotal,
		GSTAmount:     roundedGST,
		Total:         roundedSubtotal + roundedGST,
		RateApplied:   perGram.InexactFloat64(),
	}
}

// LinePrice 单件购物车行金额：按调整后克重计价，再叠加变体价格增量后计税
func LinePrice(in Input, rate *model.RateSnapshot, categoryDefault *decimal.Decimal, gstPercent, priceAdjustment decimal.Decimal) LineAmounts {
	if rate == nil {
		return LineAmounts{}
	}

	base := Calculate(in, rate, categoryDefault, gstPercent)
	subtotal := base.Subtotal + roundUnits(priceAdjustment)
	if subtotal < 0 {
		subtotal = 0
	}
	gst := roundUnits(decimal.NewFromInt(subtotal).Mul(gstPercent).Div(hundred))

	return LineAmounts{
		Subtotal:  subtotal,
		GSTAmount: gst,
		Total:     subtotal + gst,
	}
}

// makingPercent 商品覆盖值 > 分类默认值 > 12%
func makingPercent(override, categoryDefault *decimal.Decimal) decimal.Decimal {
	if override != nil {
		return *override
	}
	if categoryDefault != nil {
		return *categoryDefault
	}
	return DefaultMakingChargePercent
}

// roundUnits 四舍五入到整数货币单位 (远离零)
func roundUnits(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}
