package variant

import (
	"net/url"
	"regexp"
	"strings"

	"goldsmith_store_v1_202610/internal/model"

	"github.com/google/uuid"
)

// PlaceholderLabel label 与 value 都不适合展示时的占位名
const PlaceholderLabel = "Option"

var opaqueTokenPattern = regexp.MustCompile(`^[0-9a-fA-F]{24,}$`)

// DisplayLabel 取面向顾客的名称
// label 为空时：value 不像 ID/URL 则用 value，否则用占位名
func DisplayLabel(label, value string) string {
	if l := strings.TrimSpace(label); l != "" {
		return l
	}
	v := strings.TrimSpace(value)
	if v == "" || looksOpaque(v) {
		return PlaceholderLabel
	}
	return v
}

func looksOpaque(v string) bool {
	if uuid.Validate(v) == nil {
		return true
	}
	if opaqueTokenPattern.MatchString(v) {
		return true
	}
	if strings.Contains(v, "://") {
		if u, err := url.Parse(v); err == nil && u.Scheme != "" {
			return true
		}
	}
	return strings.HasPrefix(v, "/") || strings.HasPrefix(v, "data:")
}

// ==================== 内置兜底选项 ====================

var builtinMetals = []struct {
	purity model.MetalPurity
	label  string
}{
	{model.MetalGold22K, "22K Gold"},
	{model.MetalGold18K, "18K Gold"},
	{model.MetalGold24K, "24K Gold"},
}

// 分类静态尺码表
var builtinSizes = map[string][]string{
	"rings":     {"6", "8", "10", "12", "14", "16", "18", "20", "22"},
	"bangles":   {"2.2", "2.4", "2.6", "2.8"},
	"bracelets": {"6.5 in", "7 in", "7.5 in", "8 in"},
	"chains":    {"16 in", "18 in", "20 in", "22 in", "24 in"},
	"necklaces": {"16 in", "18 in", "20 in", "22 in"},
}

func builtinMetalOptions(purity model.MetalPurity) []Option {
	opts := make([]Option, 0, len(builtinMetals))
	for _, m := range builtinMetals {
		opts = append(opts, Option{
			Dimension: model.DimensionMetal,
			Label:     m.label,
			Value:     string(m.purity),
			Mode:      model.SelectionSingle,
			Available: true,
			Default:   m.purity == purity,
			Builtin:   true,
		})
	}
	return opts
}

func builtinSizeOptions(categorySlug string) []Option {
	sizes := builtinSizes[strings.ToLower(categorySlug)]
	opts := make([]Option, 0, len(sizes))
	for _, s := range sizes {
		opts = append(opts, Option{
			Dimension: model.DimensionSize,
			Label:     s,
			Value:     s,
			Mode:      model.SelectionSingle,
			Available: true,
			Builtin:   true,
		})
	}
	return opts
}
