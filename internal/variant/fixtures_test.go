package variant

import (
	"goldsmith_store_v1_202610/internal/model"

	"github.com/shopspring/decimal"
)

// ==================== 测试辅助 ====================

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func intPtr(n int) *int {
	return &n
}

// ringRecords 一枚戒指的完整变体记录
func ringRecords() []model.ProductVariation {
	return []model.ProductVariation{
		{Dimension: model.DimensionMetal, Label: "22K Yellow Gold", Value: "gold_22k", IsAvailable: true, IsDefault: true, StockQuantity: intPtr(5), ImageURL: "/img/ring-22k.jpg", SortOrder: 1},
		{Dimension: model.DimensionMetal, Label: "18K Rose Gold", Value: "gold_18k", PriceAdjustment: dec("-3000"), IsAvailable: true, StockQuantity: intPtr(0), SortOrder: 2},
		{Dimension: model.DimensionSize, Label: "12", Value: "12", WeightAdjustment: dec("0.5"), IsAvailable: true, IsDefault: true, StockQuantity: intPtr(3), SortOrder: 1},
		{Dimension: model.DimensionSize, Label: "14", Value: "14", PriceAdjustment: dec("700"), WeightAdjustment: dec("1"), IsAvailable: true, StockQuantity: intPtr(2), ImageURL: "/img/ring-14.jpg", SortOrder: 2},
		{Dimension: model.DimensionSize, Label: "16", Value: "16", IsAvailable: true, StockQuantity: intPtr(0), SortOrder: 3},
		{Dimension: model.DimensionGemstone, Label: "VS Clarity", Value: "vs", SelectionMode: model.SelectionMulti, PriceAdjustment: dec("5000"), WeightAdjustment: dec("9"), IsAvailable: true, SortOrder: 1},
		{Dimension: model.DimensionGemstone, Label: "SI Clarity", Value: "si", SelectionMode: model.SelectionMulti, PriceAdjustment: dec("2000"), IsAvailable: true, IsDefault: true, SortOrder: 2},
		{Dimension: model.DimensionCustom, Label: "Engraving", Value: "engraving", SelectionMode: model.SelectionMulti, PriceAdjustment: dec("500"), IsAvailable: true, SortOrder: 1},
		{Dimension: model.DimensionCustom, Label: "Gift Box", Value: "gift_box", SelectionMode: model.SelectionMulti, PriceAdjustment: dec("200"), IsAvailable: true, SortOrder: 2},
	}
}

func ringCatalog() Catalog {
	return BuildCatalog(ringRecords(), Context{CategorySlug: "rings", MetalPurity: model.MetalGold22K})
}
