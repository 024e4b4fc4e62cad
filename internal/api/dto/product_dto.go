package dto

import (
	"github.com/shopspring/decimal"

	"goldsmith_store_v1_202610/internal/model"
	"goldsmith_store_v1_202610/internal/pricing"
	"goldsmith_store_v1_202610/internal/service"
	"goldsmith_store_v1_202610/internal/variant"
)

// ==================== 请求 DTO ====================

// EngravingReq 刻字内容
type EngravingReq struct {
	Value string `json:"value"` // 刻字选项 value，为空时取商品唯一的刻字选项
	Text  string `json:"text"`
	Font  string `json:"font"`
}

// SelectionReq 顾客在各维度上的选择 (维度 -> 选项 value)
// 价格/克重增量由服务端按目录重算，不接受客户端传入
type SelectionReq struct {
	Choices   map[string][]string `json:"choices"`
	Engraving *EngravingReq       `json:"engraving"`
}

// ToChoices 转换为领域类型
func (r SelectionReq) ToChoices() map[model.VariationDimension][]string {
	choices := make(map[model.VariationDimension][]string, len(r.Choices))
	for dim, values := range r.Choices {
		choices[model.VariationDimension(dim)] = values
	}
	return choices
}

// ToEngraving 转换为领域类型
func (r SelectionReq) ToEngraving() *model.EngravingPayload {
	if r.Engraving == nil {
		return nil
	}
	return &model.EngravingPayload{
		Value: r.Engraving.Value,
		Text:  r.Engraving.Text,
		Font:  r.Engraving.Font,
	}
}

// ==================== 响应 DTO ====================

// ProductResp 商品信息
type ProductResp struct {
	ID                  int64            `json:"id"`
	Name                string           `json:"name"`
	SKU                 string           `json:"sku"`
	Category            string           `json:"category"`
	ImageURL            string           `json:"image_url"`
	MetalPurity         string           `json:"metal_purity"`
	WeightGrams         decimal.Decimal  `json:"weight_grams"`
	MakingChargePercent *decimal.Decimal `json:"making_charge_percent"`
	StockQuantity       *int             `json:"stock_quantity"`
	InStock             bool             `json:"in_stock"`
}

// PriceResp 商品报价
type PriceResp struct {
	Product    ProductResp         `json:"product"`
	Breakdown  pricing.Breakdown   `json:"breakdown"`
	GSTPercent decimal.Decimal     `json:"gst_percent"`
	Rate       *model.RateSnapshot `json:"rate"`
}

// ProductListResp 商品列表响应
type ProductListResp struct {
	Code     int         `json:"code"`
	Message  string      `json:"message"`
	Data     []PriceResp `json:"data"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// ConfigureResp 选择重放结果
type ConfigureResp struct {
	Product            ProductResp         `json:"product"`
	State              variant.State       `json:"state"`
	Base               pricing.Breakdown   `json:"base"`
	Line               pricing.LineAmounts `json:"line"`
	AllSizesOutOfStock bool                `json:"all_sizes_out_of_stock"`
	CanAddToCart       bool                `json:"can_add_to_cart"`
}

// ==================== 转换 ====================

// ToProductResp 商品转响应
func ToProductResp(p *model.Product) ProductResp {
	inStock := p.StockQuantity == nil || *p.StockQuantity > 0
	return ProductResp{
		ID:                  p.ID,
		Name:                p.Name,
		SKU:                 p.SKU,
		Category:            p.CategorySlug(),
		ImageURL:            p.ImageURL,
		MetalPurity:         string(p.MetalPurity),
		WeightGrams:         p.WeightGrams,
		MakingChargePercent: p.MakingChargePercent,
		StockQuantity:       p.StockQuantity,
		InStock:             inStock,
	}
}

// ToPriceResp 报价转响应
func ToPriceResp(q *service.ProductQuote) PriceResp {
	return PriceResp{
		Product:    ToProductResp(q.Product),
		Breakdown:  q.Breakdown,
		GSTPercent: q.GSTPercent,
		Rate:       q.Rate,
	}
}

// ToConfigureResp 选择重放结果转响应
// 尺码全部缺货或刻字未确认时不可加购
func ToConfigureResp(cfg *service.Configuration) ConfigureResp {
	product := ToProductResp(cfg.Product)
	return ConfigureResp{
		Product:            product,
		State:              cfg.State,
		Base:               cfg.Base,
		Line:               cfg.Line,
		AllSizesOutOfStock: cfg.AllSizesOutOfStock,
		CanAddToCart:       product.InStock && !cfg.AllSizesOutOfStock && !cfg.State.EngravingPending,
	}
}
