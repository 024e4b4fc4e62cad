package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ==================== 购物车归属 ====================

// CartOwner 购物车归属身份 (登录用户 / 本地游客)
type CartOwner struct {
	ID            string
	Authenticated bool
}

// UserOwner 登录用户
func UserOwner(userID int64) CartOwner {
	return CartOwner{ID: strconv.FormatInt(userID, 10), Authenticated: true}
}

// GuestOwner 游客 (本地标识)
func GuestOwner(guestID string) CartOwner {
	return CartOwner{ID: guestID}
}

func (o CartOwner) String() string {
	if o.Authenticated {
		return "user:" + o.ID
	}
	return "guest:" + o.ID
}

// ==================== 变体选择 (边界类型) ====================

// SelectedOption 单个已选项 (展示用 label + 稳定 value)
type SelectedOption struct {
	Dimension VariationDimension `json:"dimension"`
	Label     string             `json:"label"`
	Value     string             `json:"value"`
}

// EngravingPayload 刻字内容
type EngravingPayload struct {
	Value string `json:"value"` // 对应的 custom 选项 value
	Text  string `json:"text"`
	Font  string `json:"font,omitempty"`
}

// VariationSelection 变体解析器输出、购物车行捕获的选择快照
type VariationSelection struct {
	Options          []SelectedOption  `json:"options"`
	Engraving        *EngravingPayload `json:"engraving,omitempty"`
	EngravingPending bool              `json:"engraving_pending,omitempty"`
	PriceAdjustment  decimal.Decimal   `json:"price_adjustment"`
	WeightAdjustment decimal.Decimal   `json:"weight_adjustment"`
}

// Summary 维度 -> label 列表，仅用于展示
func (s VariationSelection) Summary() map[string][]string {
	summary := make(map[string][]string)
	for _, opt := range s.Options {
		key := string(opt.Dimension)
		summary[key] = append(summary[key], opt.Label)
	}
	if s.Engraving != nil {
		text := fmt.Sprintf("%q", s.Engraving.Text)
		if s.Engraving.Font != "" {
			text += " (" + s.Engraving.Font + ")"
		}
		summary["engraving"] = []string{text}
	}
	return summary
}

// OptionsFor 某维度下的已选项
func (s VariationSelection) OptionsFor(dim VariationDimension) []SelectedOption {
	var out []SelectedOption
	for _, opt := range s.Options {
		if opt.Dimension == dim {
			out = append(out, opt)
		}
	}
	return out
}

// ==================== 购物车行 ====================

// CartItem 购物车行，持久层与临时层共用同一结构
type CartItem struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	OwnerID   string `gorm:"size:64;not null;uniqueIndex:idx_cart_line,priority:1" json:"owner_id"`
	ProductID int64  `gorm:"not null;uniqueIndex:idx_cart_line,priority:2" json:"product_id"`
	Signature string `gorm:"size:64;not null;uniqueIndex:idx_cart_line,priority:3" json:"signature"`
	Quantity  int    `gorm:"not null" json:"quantity"`

	// --- 加入时捕获的变体信息 ---
	PriceAdjustment  decimal.Decimal `gorm:"type:decimal(12,2)" json:"price_adjustment"`
	WeightAdjustment decimal.Decimal `gorm:"type:decimal(10,3)" json:"weight_adjustment"`
	Selection        datatypes.JSON  `json:"selection"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// SetSelection 写入选择快照
func (c *CartItem) SetSelection(sel VariationSelection) error {
	raw, err := json.Marshal(sel)
	if err != nil {
		return err
	}
	c.Selection = datatypes.JSON(raw)
	c.PriceAdjustment = sel.PriceAdjustment
	c.WeightAdjustment = sel.WeightAdjustment
	return nil
}

// DecodeSelection 读取选择快照
func (c *CartItem) DecodeSelection() (VariationSelection, error) {
	var sel VariationSelection
	if len(c.Selection) == 0 || strings.TrimSpace(string(c.Selection)) == "null" {
		return sel, nil
	}
	err := json.Unmarshal(c.Selection, &sel)
	return sel, err
}
