package variant

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"goldsmith_store_v1_202610/internal/model"

	"github.com/shopspring/decimal"
)

// ==================== 选择状态 (按维度的标签联合) ====================

// choice 单个维度的选择
type choice interface {
	has(value string) bool
}

// singleChoice 单选维度：恰好一个值
type singleChoice struct {
	value string
}

func (c singleChoice) has(value string) bool { return c.value == value }

// multiChoice 多选维度：任意子集
type multiChoice struct {
	set map[string]struct{}
}

func newMultiChoice() *multiChoice {
	return &multiChoice{set: make(map[string]struct{})}
}

func (c *multiChoice) has(value string) bool {
	_, ok := c.set[value]
	return ok
}

func (c *multiChoice) toggle(value string) {
	if c.has(value) {
		delete(c.set, value)
		return
	}
	c.set[value] = struct{}{}
}

// engravingState 刻字选项附带的内容
// pending 为 true 时选项已选中但文字未确认
type engravingState struct {
	value   string
	text    string
	font    string
	pending bool
}

// ==================== 输出 ====================

// OptionView 单个选项的展示状态
type OptionView struct {
	Label           string          `json:"label"`
	Value           string          `json:"value"`
	PriceAdjustment decimal.Decimal `json:"price_adjustment"`
	ImageURL        string          `json:"image_url,omitempty"`
	Selected        bool            `json:"selected"`
	Disabled        bool            `json:"disabled"`
	Engraving       bool            `json:"engraving,omitempty"`
}

// DimensionView 单个维度的展示状态
type DimensionView struct {
	Dimension model.VariationDimension `json:"dimension"`
	Mode      model.SelectionMode      `json:"mode"`
	Options   []OptionView             `json:"options"`
}

// State 每次变化后输出的解析结果
type State struct {
	MetalLabel       string                  `json:"metal_label"`
	Size             *string                 `json:"size"`
	PriceAdjustment  decimal.Decimal         `json:"price_adjustment"`
	WeightAdjustment decimal.Decimal         `json:"weight_adjustment"`
	DisplayImage     *string                 `json:"display_image"`
	Summary          map[string][]string     `json:"selected_options"`
	EngravingPending bool                    `json:"engraving_pending"`
	Engraving        *model.EngravingPayload `json:"engraving,omitempty"`
	Signature        string                  `json:"signature"`
	Dimensions       []DimensionView         `json:"dimensions"`
}

// ==================== Resolver ====================

// Resolver 单个商品详情视图的变体选择状态机，非并发安全
type Resolver struct {
	catalog   Catalog
	choices   map[model.VariationDimension]choice
	engraving *engravingState
	listeners []func(State)
	state     State
	batching  bool
}

// NewResolver 创建解析器并完成默认选择
func NewResolver(catalog Catalog) *Resolver {
	r := &Resolver{
		catalog: catalog,
		choices: make(map[model.VariationDimension]choice),
	}
	r.initDefaults()
	r.state = r.compute()
	return r
}

// OnChange 注册变化监听
func (r *Resolver) OnChange(fn func(State)) {
	r.listeners = append(r.listeners, fn)
}

// State 当前输出
func (r *Resolver) State() State {
	return r.state
}

// Catalog 解析器使用的目录
func (r *Resolver) Catalog() Catalog {
	return r.catalog
}

// initDefaults 单选维度：默认项 > 第一个可选项 > 不选；多选维度只预选标记为默认的项
func (r *Resolver) initDefaults() {
	for _, dim := range r.catalog.Dimensions() {
		opts := r.catalog.Options(dim)

		if r.catalog.Mode(dim) == model.SelectionSingle {
			if v, ok := pickDefault(opts); ok {
				r.choices[dim] = singleChoice{value: v}
			}
			continue
		}

		set := newMultiChoice()
		for _, o := range opts {
			if o.Default && o.Selectable() && !o.IsEngraving() {
				set.toggle(o.Value)
			}
		}
		if len(set.set) > 0 {
			r.choices[dim] = set
		}
	}
}

func pickDefault(opts []Option) (string, bool) {
	for _, o := range opts {
		if o.Default && o.Selectable() && !o.IsEngraving() {
			return o.Value, true
		}
	}
	for _, o := range opts {
		if o.Selectable() && !o.IsEngraving() {
			return o.Value, true
		}
	}
	return "", false
}

// ==================== 交互 ====================

// Select 点击某个选项
// 单选维度重复点击不会取消；多选维度切换选中状态；刻字选项进入待输入状态
func (r *Resolver) Select(dim model.VariationDimension, value string) error {
	opt, ok := r.catalog.Find(dim, value)
	if !ok {
		return fmt.Errorf("%w: %s=%q", ErrUnknownOption, dim, value)
	}
	if !opt.Selectable() {
		return fmt.Errorf("%w: %s", ErrOptionUnavailable, opt.DisplayLabel())
	}
	if opt.IsEngraving() {
		r.toggleEngraving(opt)
		return nil
	}

	if r.catalog.Mode(dim) == model.SelectionSingle {
		if cur, ok := r.choices[dim].(singleChoice); ok {
			if cur.value == value {
				return nil
			}
			if r.engraving != nil && r.engraving.value == cur.value {
				r.engraving = nil
			}
		}
		r.choices[dim] = singleChoice{value: value}
	} else {
		r.multi(dim).toggle(value)
	}

	r.changed()
	return nil
}

func (r *Resolver) toggleEngraving(opt Option) {
	dim := opt.Dimension
	if r.isSelected(dim, opt.Value) {
		if r.catalog.Mode(dim) == model.SelectionSingle {
			return
		}
		r.stripEngraving()
		r.changed()
		return
	}

	if r.catalog.Mode(dim) == model.SelectionSingle {
		r.choices[dim] = singleChoice{value: opt.Value}
	} else {
		r.multi(dim).toggle(opt.Value)
	}
	r.engraving = &engravingState{value: opt.Value, pending: true}
	r.changed()
}

// SaveEngraving 确认刻字内容
// 空文字视为取消并移除刻字选项；超长返回错误且保持待输入状态
func (r *Resolver) SaveEngraving(text, font string) error {
	if r.engraving == nil {
		return fmt.Errorf("%w: engraving option not selected", ErrIncomplete)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		r.stripEngraving()
		r.changed()
		return nil
	}
	if utf8.RuneCountInString(text) > MaxEngravingLength {
		return ErrEngravingTooLong
	}

	r.engraving.text = text
	r.engraving.font = strings.TrimSpace(font)
	r.engraving.pending = false
	r.changed()
	return nil
}

// CancelEngraving 取消尚未确认的刻字
func (r *Resolver) CancelEngraving() {
	if r.engraving == nil || !r.engraving.pending {
		return
	}
	r.stripEngraving()
	r.changed()
}

// EngravingPending 刻字选项已选中但文字未确认
func (r *Resolver) EngravingPending() bool {
	return r.engraving != nil && r.engraving.pending
}

// AllSizesOutOfStock 尺码全部缺货 (仅报告，由调用方禁用加购)
func (r *Resolver) AllSizesOutOfStock() bool {
	opts := r.catalog.Options(model.DimensionSize)
	if len(opts) == 0 {
		return false
	}
	for _, o := range opts {
		if o.Selectable() {
			return false
		}
	}
	return true
}

// Apply 在服务端重放顾客的选择
// 未出现在 choices 中的维度保持默认；多选维度以 choices 为准整体替换
func (r *Resolver) Apply(choices map[model.VariationDimension][]string, engraving *model.EngravingPayload) error {
	for dim := range choices {
		if !dim.Valid() {
			return fmt.Errorf("%w: %s", ErrUnknownDimension, dim)
		}
	}

	r.batching = true
	defer func() {
		r.batching = false
		r.changed()
	}()

	for _, dim := range model.Dimensions {
		values, ok := choices[dim]
		if !ok {
			continue
		}

		if r.catalog.Mode(dim) == model.SelectionSingle {
			if len(values) != 1 {
				return fmt.Errorf("%w: %s accepts a single choice", ErrIncomplete, dim)
			}
			if err := r.Select(dim, values[0]); err != nil {
				return err
			}
			continue
		}

		r.clearDimension(dim)
		for _, v := range dedupe(values) {
			if err := r.Select(dim, v); err != nil {
				return err
			}
		}
	}

	if engraving == nil {
		return nil
	}
	if r.engraving == nil {
		opt, ok := r.findEngravingOption(engraving.Value)
		if !ok {
			return fmt.Errorf("%w: engraving is not offered", ErrUnknownOption)
		}
		if err := r.Select(opt.Dimension, opt.Value); err != nil {
			return err
		}
	}
	return r.SaveEngraving(engraving.Text, engraving.Font)
}

// ==================== 输出 ====================

// Selection 输出给购物车的选择快照
func (r *Resolver) Selection() model.VariationSelection {
	return r.selectionWith(r.state.PriceAdjustment, r.state.WeightAdjustment)
}

func (r *Resolver) selectionWith(price, weight decimal.Decimal) model.VariationSelection {
	sel := model.VariationSelection{
		PriceAdjustment:  price,
		WeightAdjustment: weight,
		EngravingPending: r.EngravingPending(),
	}
	for _, dim := range r.catalog.Dimensions() {
		for _, o := range r.catalog.Options(dim) {
			if !r.isSelected(dim, o.Value) {
				continue
			}
			sel.Options = append(sel.Options, model.SelectedOption{
				Dimension: dim,
				Label:     o.DisplayLabel(),
				Value:     o.Value,
			})
		}
	}
	if r.engraving != nil && !r.engraving.pending {
		sel.Engraving = &model.EngravingPayload{
			Value: r.engraving.value,
			Text:  r.engraving.text,
			Font:  r.engraving.font,
		}
	}
	return sel
}

func (r *Resolver) compute() State {
	st := State{
		PriceAdjustment:  decimal.Zero,
		WeightAdjustment: decimal.Zero,
	}
	var metalImage, sizeImage *string

	for _, dim := range r.catalog.Dimensions() {
		view := DimensionView{Dimension: dim, Mode: r.catalog.Mode(dim)}
		for _, o := range r.catalog.Options(dim) {
			selected := r.isSelected(dim, o.Value)
			view.Options = append(view.Options, OptionView{
				Label:           o.DisplayLabel(),
				Value:           o.Value,
				PriceAdjustment: o.PriceAdjustment,
				ImageURL:        o.ImageURL,
				Selected:        selected,
				Disabled:        !o.Selectable(),
				Engraving:       o.IsEngraving(),
			})
			if !selected {
				continue
			}

			st.PriceAdjustment = st.PriceAdjustment.Add(o.PriceAdjustment)
			if dim.AffectsWeight() {
				st.WeightAdjustment = st.WeightAdjustment.Add(o.WeightAdjustment)
			}

			// 只有金属/尺码的图片可以替换主图，其余维度图片仅作色块
			label := o.DisplayLabel()
			switch dim {
			case model.DimensionMetal:
				st.MetalLabel = label
				if o.ImageURL != "" {
					img := o.ImageURL
					metalImage = &img
				}
			case model.DimensionSize:
				size := label
				st.Size = &size
				if o.ImageURL != "" {
					img := o.ImageURL
					sizeImage = &img
				}
			}
		}
		st.Dimensions = append(st.Dimensions, view)
	}

	if metalImage != nil {
		st.DisplayImage = metalImage
	} else {
		st.DisplayImage = sizeImage
	}

	st.EngravingPending = r.EngravingPending()
	sel := r.selectionWith(st.PriceAdjustment, st.WeightAdjustment)
	st.Engraving = sel.Engraving
	st.Summary = sel.Summary()
	st.Signature = Signature(sel)
	return st
}

func (r *Resolver) changed() {
	if r.batching {
		return
	}
	r.state = r.compute()
	for _, fn := range r.listeners {
		fn(r.state)
	}
}

// ==================== 内部工具 ====================

func (r *Resolver) isSelected(dim model.VariationDimension, value string) bool {
	c, ok := r.choices[dim]
	return ok && c.has(value)
}

func (r *Resolver) multi(dim model.VariationDimension) *multiChoice {
	if c, ok := r.choices[dim].(*multiChoice); ok {
		return c
	}
	c := newMultiChoice()
	r.choices[dim] = c
	return c
}

func (r *Resolver) clearDimension(dim model.VariationDimension) {
	delete(r.choices, dim)
	if r.engraving == nil {
		return
	}
	if opt, ok := r.catalog.Find(dim, r.engraving.value); ok && opt.IsEngraving() {
		r.engraving = nil
	}
}

func (r *Resolver) stripEngraving() {
	if r.engraving == nil {
		return
	}
	value := r.engraving.value
	r.engraving = nil
	for dim, c := range r.choices {
		switch cur := c.(type) {
		case singleChoice:
			if cur.value == value {
				delete(r.choices, dim)
			}
		case *multiChoice:
			if cur.has(value) {
				cur.toggle(value)
			}
		}
	}
}

func (r *Resolver) findEngravingOption(value string) (Option, bool) {
	for _, o := range r.catalog.Options(model.DimensionCustom) {
		if o.IsEngraving() && o.Selectable() && (value == "" || o.Value == value) {
			return o, true
		}
	}
	return Option{}, false
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
