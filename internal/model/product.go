package model

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ==================== 枚举 ====================

// MetalPurity 金属成色
type MetalPurity string

const (
	MetalGold24K MetalPurity = "gold_24k"
	MetalGold22K MetalPurity = "gold_22k"
	MetalGold18K MetalPurity = "gold_18k"
	MetalSilver  MetalPurity = "silver"
)

// Valid 是否为可识别的成色
func (p MetalPurity) Valid() bool {
	switch p {
	case MetalGold24K, MetalGold22K, MetalGold18K, MetalSilver:
		return true
	}
	return false
}

// ==================== 分类 ====================

// Category 商品分类 (提供默认工费比例 & 尺码兜底列表)
type Category struct {
	BaseModel
	Slug                       string           `gorm:"size:64;uniqueIndex" json:"slug"` // rings, bangles, chains ...
	Name                       string           `gorm:"size:128" json:"name"`
	DefaultMakingChargePercent *decimal.Decimal `gorm:"type:decimal(5,2)" json:"default_making_charge_percent"`
}

func (Category) TableName() string {
	return "categories"
}

// ==================== 商品 ====================

type Product struct {
	BaseModel
	// --- 分类 ---
	CategoryID int64     `gorm:"index" json:"category_id"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	// --- 基本信息 ---
	Name     string `gorm:"size:255" json:"name"`
	SKU      string `gorm:"size:100;index" json:"sku"`
	ImageURL string `gorm:"size:512" json:"image_url"`

	// --- 计价属性 ---
	MetalPurity         MetalPurity      `gorm:"size:20;not null" json:"metal_purity"`
	WeightGrams         decimal.Decimal  `gorm:"type:decimal(10,3)" json:"weight_grams"`          // 基础克重 (不含变体增量)
	MakingChargePercent *decimal.Decimal `gorm:"type:decimal(5,2)" json:"making_charge_percent"`  // 为空则取分类默认值
	DiamondCost         decimal.Decimal  `gorm:"type:decimal(12,2)" json:"diamond_cost"`
	StoneCost           decimal.Decimal  `gorm:"type:decimal(12,2)" json:"stone_cost"`

	// --- 库存与状态 ---
	StockQuantity *int `json:"stock_quantity"` // nil 表示不限量
	IsActive      bool `gorm:"index" json:"is_active"`

	// 自由格式规格参数，不做类型校验
	Specifications datatypes.JSON `json:"specifications"`

	// --- 关联关系 ---
	Variations []ProductVariation `gorm:"foreignKey:ProductID" json:"variations,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// CategorySlug 分类标识，未加载分类时返回空
func (p *Product) CategorySlug() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Slug
}

// CategoryMakingChargePercent 分类默认工费比例
func (p *Product) CategoryMakingChargePercent() *decimal.Decimal {
	if p.Category == nil {
		return nil
	}
	return p.Category.DefaultMakingChargePercent
}

// ==================== 变体 ====================

// VariationDimension 变体维度
type VariationDimension string

const (
	DimensionMetal       VariationDimension = "metal_type"
	DimensionSize        VariationDimension = "size"
	DimensionGemstone    VariationDimension = "gemstone_quality"
	DimensionCarat       VariationDimension = "carat_weight"
	DimensionCertificate VariationDimension = "certificate"
	DimensionCustom      VariationDimension = "custom"
)

// Dimensions 维度的固定展示顺序
var Dimensions = []VariationDimension{
	DimensionMetal,
	DimensionSize,
	DimensionGemstone,
	DimensionCarat,
	DimensionCertificate,
	DimensionCustom,
}

// AffectsWeight 仅金属与尺码会改变克重
func (d VariationDimension) AffectsWeight() bool {
	return d == DimensionMetal || d == DimensionSize
}

// Valid 是否为可识别的维度
func (d VariationDimension) Valid() bool {
	for _, dim := range Dimensions {
		if dim == d {
			return true
		}
	}
	return false
}

// SelectionMode 选择模式
type SelectionMode string

const (
	SelectionSingle SelectionMode = "single"
	SelectionMulti  SelectionMode = "multi"
)

type ProductVariation struct {
	BaseModel
	// --- 关联 ---
	ProductID int64 `gorm:"index;not null" json:"product_id"`

	// --- 维度与取值 ---
	Dimension     VariationDimension `gorm:"size:32;index" json:"dimension"`
	Label         string             `gorm:"size:128" json:"label"`
	Value         string             `gorm:"size:255" json:"value"`
	SelectionMode SelectionMode      `gorm:"size:10;default:single" json:"selection_mode"`

	// --- 价格/克重增量 ---
	PriceAdjustment  decimal.Decimal `gorm:"type:decimal(12,2)" json:"price_adjustment"`
	WeightAdjustment decimal.Decimal `gorm:"type:decimal(10,3)" json:"weight_adjustment"` // 仅金属/尺码维度生效

	// --- 可售状态 ---
	IsAvailable   bool `json:"is_available"`
	IsDefault     bool `json:"is_default"`
	StockQuantity *int `json:"stock_quantity"` // 金属/尺码库存，nil 表示不限

	ImageURL  string `gorm:"size:512" json:"image_url"`
	SortOrder int    `gorm:"default:0" json:"sort_order"`
}

func (ProductVariation) TableName() string {
	return "product_variations"
}
