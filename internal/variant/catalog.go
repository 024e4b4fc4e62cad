// Package variant 解析顾客在各变体维度上的选择，输出价格/克重增量与规范化描述
package variant

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"goldsmith_store_v1_202610/internal/model"

	"github.com/shopspring/decimal"
)

// MaxEngravingLength 刻字最大字符数
const MaxEngravingLength = 15

var (
	ErrUnknownDimension  = errors.New("unknown variation dimension")
	ErrUnknownOption     = errors.New("unknown variation option")
	ErrOptionUnavailable = errors.New("variation option is not available")
	ErrEngravingTooLong  = fmt.Errorf("engraving text exceeds %d characters", MaxEngravingLength)
	ErrEngravingPending  = errors.New("engraving text has not been saved")
	ErrIncomplete        = errors.New("variation selection is incomplete")
	ErrAdjustmentChanged = errors.New("variation adjustments do not match the catalog")
)

// ==================== 选项 ====================

// Option 目录中的一个可选项 (来自变体记录或内置兜底列表)
type Option struct {
	Dimension        model.VariationDimension
	Label            string
	Value            string
	Mode             model.SelectionMode
	PriceAdjustment  decimal.Decimal
	WeightAdjustment decimal.Decimal
	Available        bool
	Default          bool
	Stock            *int
	ImageURL         string
	Builtin          bool
}

// Selectable 可被选中：上架，且金属/尺码有库存
func (o Option) Selectable() bool {
	if !o.Available {
		return false
	}
	if o.Dimension.AffectsWeight() && o.Stock != nil && *o.Stock <= 0 {
		return false
	}
	return true
}

// IsEngraving custom 维度下表示刻字的选项
func (o Option) IsEngraving() bool {
	if o.Dimension != model.DimensionCustom {
		return false
	}
	return strings.Contains(strings.ToLower(o.Label), "engrav") ||
		strings.Contains(strings.ToLower(o.Value), "engrav")
}

// DisplayLabel 面向顾客的名称
func (o Option) DisplayLabel() string {
	return DisplayLabel(o.Label, o.Value)
}

func optionFromRecord(r model.ProductVariation) Option {
	mode := r.SelectionMode
	if mode == "" {
		mode = model.SelectionSingle
	}
	return Option{
		Dimension:        r.Dimension,
		Label:            r.Label,
		Value:            r.Value,
		Mode:             mode,
		PriceAdjustment:  r.PriceAdjustment,
		WeightAdjustment: r.WeightAdjustment,
		Available:        r.IsAvailable,
		Default:          r.IsDefault,
		Stock:            r.StockQuantity,
		ImageURL:         r.ImageURL,
	}
}

// ==================== 目录 ====================

// Context 构建目录所需的商品上下文
type Context struct {
	CategorySlug string
	MetalPurity  model.MetalPurity
}

// Catalog 按维度归组后的选项集合
type Catalog struct {
	options map[model.VariationDimension][]Option
}

// BuildCatalog 由变体记录构建目录
// 金属维度无记录时使用内置通用列表，尺码维度无记录时使用分类静态尺码
func BuildCatalog(records []model.ProductVariation, ctx Context) Catalog {
	sorted := make([]model.ProductVariation, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SortOrder < sorted[j].SortOrder
	})

	c := Catalog{options: make(map[model.VariationDimension][]Option)}
	for _, r := range sorted {
		if !r.Dimension.Valid() {
			continue
		}
		c.options[r.Dimension] = append(c.options[r.Dimension], optionFromRecord(r))
	}

	if len(c.options[model.DimensionMetal]) == 0 {
		c.options[model.DimensionMetal] = builtinMetalOptions(ctx.MetalPurity)
	}
	if len(c.options[model.DimensionSize]) == 0 {
		if sizes := builtinSizeOptions(ctx.CategorySlug); len(sizes) > 0 {
			c.options[model.DimensionSize] = sizes
		}
	}
	return c
}

// Dimensions 目录中存在选项的维度 (固定顺序)
func (c Catalog) Dimensions() []model.VariationDimension {
	var dims []model.VariationDimension
	for _, d := range model.Dimensions {
		if len(c.options[d]) > 0 {
			dims = append(dims, d)
		}
	}
	return dims
}

// Options 某维度的全部选项
func (c Catalog) Options(dim model.VariationDimension) []Option {
	return c.options[dim]
}

// Mode 维度选择模式，金属与尺码恒为单选
func (c Catalog) Mode(dim model.VariationDimension) model.SelectionMode {
	if dim.AffectsWeight() {
		return model.SelectionSingle
	}
	for _, o := range c.options[dim] {
		if o.Mode == model.SelectionMulti {
			return model.SelectionMulti
		}
	}
	return model.SelectionSingle
}

// Find 查找选项
func (c Catalog) Find(dim model.VariationDimension, value string) (Option, bool) {
	for _, o := range c.options[dim] {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}

// HasSelectable 维度下是否存在可选项
func (c Catalog) HasSelectable(dim model.VariationDimension) bool {
	for _, o := range c.options[dim] {
		if o.Selectable() {
			return true
		}
	}
	return false
}

// RequiresChoice 单选维度且存在可自动选中的选项 (刻字不会被自动选中)
func (c Catalog) RequiresChoice(dim model.VariationDimension) bool {
	if c.Mode(dim) != model.SelectionSingle {
		return false
	}
	for _, o := range c.options[dim] {
		if o.Selectable() && !o.IsEngraving() {
			return true
		}
	}
	return false
}

// ==================== 校验 ====================

// Validate 防御性校验购物车收到的选择
// 单选维度必须恰好一个可选值；价格/克重增量必须与目录重算结果一致
func (c Catalog) Validate(sel model.VariationSelection) error {
	if err := CheckEngraving(sel); err != nil {
		return err
	}

	price, weight := decimal.Zero, decimal.Zero
	counts := make(map[model.VariationDimension]int)
	engravingSelected := false
	seen := make(map[string]bool)

	for _, so := range sel.Options {
		if !so.Dimension.Valid() {
			return fmt.Errorf("%w: %s", ErrUnknownDimension, so.Dimension)
		}
		key := string(so.Dimension) + "\x00" + so.Value
		if seen[key] {
			return fmt.Errorf("%w: duplicate %s option", ErrIncomplete, so.Dimension)
		}
		seen[key] = true

		opt, ok := c.Find(so.Dimension, so.Value)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownOption, so.Dimension)
		}
		if !opt.Selectable() {
			return fmt.Errorf("%w: %s", ErrOptionUnavailable, opt.DisplayLabel())
		}
		if opt.IsEngraving() {
			engravingSelected = true
			if sel.Engraving == nil || sel.Engraving.Value != opt.Value {
				return ErrEngravingPending
			}
		}
		counts[so.Dimension]++
		price = price.Add(opt.PriceAdjustment)
		if so.Dimension.AffectsWeight() {
			weight = weight.Add(opt.WeightAdjustment)
		}
	}

	if sel.Engraving != nil && !engravingSelected {
		return fmt.Errorf("%w: engraving option not selected", ErrIncomplete)
	}

	for _, dim := range c.Dimensions() {
		if c.Mode(dim) != model.SelectionSingle {
			continue
		}
		n := counts[dim]
		if n > 1 {
			return fmt.Errorf("%w: %s accepts a single choice", ErrIncomplete, dim)
		}
		if n == 0 && c.RequiresChoice(dim) {
			return fmt.Errorf("%w: %s not selected", ErrIncomplete, dim)
		}
	}

	if !price.Equal(sel.PriceAdjustment) || !weight.Equal(sel.WeightAdjustment) {
		return ErrAdjustmentChanged
	}
	return nil
}

// CheckEngraving 不依赖目录的刻字检查
func CheckEngraving(sel model.VariationSelection) error {
	if sel.EngravingPending {
		return ErrEngravingPending
	}
	if sel.Engraving == nil {
		return nil
	}
	if utf8.RuneCountInString(sel.Engraving.Text) > MaxEngravingLength {
		return ErrEngravingTooLong
	}
	if strings.TrimSpace(sel.Engraving.Text) == "" {
		return ErrEngravingPending
	}
	return nil
}

// StockCeiling 已选金属/尺码中最小的有限库存
func (c Catalog) StockCeiling(sel model.VariationSelection) (int, bool) {
	ceiling, limited := 0, false
	for _, so := range sel.Options {
		if !so.Dimension.AffectsWeight() {
			continue
		}
		opt, ok := c.Find(so.Dimension, so.Value)
		if !ok || opt.Stock == nil {
			continue
		}
		if !limited || *opt.Stock < ceiling {
			ceiling, limited = *opt.Stock, true
		}
	}
	return ceiling, limited
}
