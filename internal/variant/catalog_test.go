package variant

import (
	"errors"
	"testing"

	"goldsmith_store_v1_202610/internal/model"
)

func TestBuildCatalog_BuiltinFallbacks(t *testing.T) {
	c := BuildCatalog(nil, Context{CategorySlug: "rings", MetalPurity: model.MetalGold18K})

	metals := c.Options(model.DimensionMetal)
	if len(metals) != 3 {
		t.Fatalf("metal options = %d, want 3", len(metals))
	}
	for _, m := range metals {
		if !m.Builtin {
			t.Errorf("metal %s should be builtin", m.Value)
		}
		if m.Default != (m.Value == string(model.MetalGold18K)) {
			t.Errorf("metal %s default = %v", m.Value, m.Default)
		}
	}

	sizes := c.Options(model.DimensionSize)
	if len(sizes) != 9 || sizes[0].Value != "6" {
		t.Errorf("ring sizes = %+v", sizes)
	}

	earrings := BuildCatalog(nil, Context{CategorySlug: "earrings", MetalPurity: model.MetalGold22K})
	if len(earrings.Options(model.DimensionSize)) != 0 {
		t.Error("earrings should have no size dimension")
	}
}

func TestBuildCatalog_SortOrderAndUnknownDimensions(t *testing.T) {
	records := []model.ProductVariation{
		{Dimension: model.DimensionSize, Value: "14", IsAvailable: true, SortOrder: 2},
		{Dimension: model.DimensionSize, Value: "12", IsAvailable: true, SortOrder: 1},
		{Dimension: "colour", Value: "red", IsAvailable: true},
	}
	c := BuildCatalog(records, Context{CategorySlug: "rings"})

	sizes := c.Options(model.DimensionSize)
	if len(sizes) != 2 || sizes[0].Value != "12" || sizes[1].Value != "14" {
		t.Errorf("sizes not ordered by sort order: %+v", sizes)
	}
	for _, d := range c.Dimensions() {
		if d == "colour" {
			t.Error("unknown dimension should be dropped")
		}
	}
}

func TestCatalog_ModeAlwaysSingleForMetalAndSize(t *testing.T) {
	records := []model.ProductVariation{
		{Dimension: model.DimensionMetal, Value: "gold_22k", SelectionMode: model.SelectionMulti, IsAvailable: true},
		{Dimension: model.DimensionCertificate, Value: "igi", SelectionMode: model.SelectionSingle, IsAvailable: true},
		{Dimension: model.DimensionCertificate, Value: "gia", SelectionMode: model.SelectionMulti, IsAvailable: true},
	}
	c := BuildCatalog(records, Context{})

	if got := c.Mode(model.DimensionMetal); got != model.SelectionSingle {
		t.Errorf("metal mode = %s", got)
	}
	if got := c.Mode(model.DimensionCertificate); got != model.SelectionMulti {
		t.Errorf("certificate mode = %s", got)
	}
}

func TestOption_Selectable(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
		want bool
	}{
		{"available untracked", Option{Dimension: model.DimensionSize, Available: true}, true},
		{"size out of stock", Option{Dimension: model.DimensionSize, Available: true, Stock: intPtr(0)}, false},
		{"metal in stock", Option{Dimension: model.DimensionMetal, Available: true, Stock: intPtr(1)}, true},
		{"gemstone stock ignored", Option{Dimension: model.DimensionGemstone, Available: true, Stock: intPtr(0)}, true},
		{"unavailable", Option{Dimension: model.DimensionCustom}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opt.Selectable(); got != tt.want {
				t.Errorf("Selectable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCatalog_Validate(t *testing.T) {
	c := ringCatalog()
	valid := NewResolver(c).Selection()

	if err := c.Validate(valid); err != nil {
		t.Fatalf("default selection should validate: %v", err)
	}

	tampered := valid
	tampered.PriceAdjustment = dec("1")
	if err := c.Validate(tampered); !errors.Is(err, ErrAdjustmentChanged) {
		t.Errorf("tampered price err = %v", err)
	}

	missingMetal := valid
	missingMetal.Options = missingMetal.OptionsFor(model.DimensionSize)
	missingMetal.PriceAdjustment = dec("0")
	if err := c.Validate(missingMetal); !errors.Is(err, ErrIncomplete) {
		t.Errorf("missing metal err = %v", err)
	}

	unknown := valid
	unknown.Options = append(append([]model.SelectedOption{}, valid.Options...),
		model.SelectedOption{Dimension: model.DimensionCertificate, Value: "gia"})
	if err := c.Validate(unknown); !errors.Is(err, ErrUnknownOption) {
		t.Errorf("unknown option err = %v", err)
	}

	soldOut := model.VariationSelection{
		Options: []model.SelectedOption{
			{Dimension: model.DimensionMetal, Value: "gold_22k"},
			{Dimension: model.DimensionSize, Value: "16"},
		},
	}
	if err := c.Validate(soldOut); !errors.Is(err, ErrOptionUnavailable) {
		t.Errorf("sold out size err = %v", err)
	}

	pending := valid
	pending.EngravingPending = true
	if err := c.Validate(pending); !errors.Is(err, ErrEngravingPending) {
		t.Errorf("pending engraving err = %v", err)
	}
}

func TestCatalog_StockCeiling(t *testing.T) {
	c := ringCatalog()
	sel := NewResolver(c).Selection()

	ceiling, limited := c.StockCeiling(sel)
	if !limited || ceiling != 3 {
		t.Errorf("StockCeiling() = %d,%v want 3,true", ceiling, limited)
	}

	builtin := BuildCatalog(nil, Context{CategorySlug: "rings", MetalPurity: model.MetalGold22K})
	if _, limited := builtin.StockCeiling(NewResolver(builtin).Selection()); limited {
		t.Error("builtin options carry no stock limit")
	}
}

func TestDisplayLabel(t *testing.T) {
	tests := []struct {
		label, value, want string
	}{
		{"Rose Gold", "rg", "Rose Gold"},
		{"", "7", "7"},
		{"", "size: 6", "size: 6"},
		{"", "3f2b8c1e-9a4d-4c1b-8e2f-1a2b3c4d5e6f", PlaceholderLabel},
		{"", "64f1a2b3c4d5e6f7a8b9c0d1", PlaceholderLabel},
		{"", "https://cdn.example.com/a.png", PlaceholderLabel},
		{"", "/uploads/a.png", PlaceholderLabel},
		{"  ", "", PlaceholderLabel},
	}
	for _, tt := range tests {
		if got := DisplayLabel(tt.label, tt.value); got != tt.want {
			t.Errorf("DisplayLabel(%q, %q) = %q, want %q", tt.label, tt.value, got, tt.want)
		}
	}
}
