package variant

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"goldsmith_store_v1_202610/internal/model"
)

// Signature 选择的规范化指纹，同一商品同一签名合并为一行
// 与选项点击顺序无关；刻字内容与价格/克重增量参与计算
func Signature(sel model.VariationSelection) string {
	parts := make([]string, 0, len(sel.Options))
	for _, o := range sel.Options {
		parts = append(parts, strconv.Quote(string(o.Dimension))+"="+strconv.Quote(o.Value)+":"+strconv.Quote(o.Label))
	}
	sort.Strings(parts)

	var b strings.Builder
	b.WriteString(strings.Join(parts, ","))
	b.WriteString(";engraving=")
	if sel.Engraving != nil {
		b.WriteString(strconv.Quote(sel.Engraving.Text) + ":" + strconv.Quote(sel.Engraving.Font))
	}
	b.WriteString(";price=")
	b.WriteString(sel.PriceAdjustment.StringFixed(2))
	b.WriteString(";weight=")
	b.WriteString(sel.WeightAdjustment.StringFixed(3))

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

