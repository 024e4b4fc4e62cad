package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"goldsmith_store_v1_202610/internal/model"
	"goldsmith_store_v1_202610/internal/pricing"
	"goldsmith_store_v1_202610/internal/repository"
	"goldsmith_store_v1_202610/internal/variant"
)

// ==================== 输出结构 ====================

// CartLine 购物车行 (按当前金价重算)
type CartLine struct {
	ID          string                   `json:"id"`
	ProductID   int64                    `json:"product_id"`
	ProductName string                   `json:"product_name"`
	ImageURL    string                   `json:"image_url"`
	Signature   string                   `json:"signature"`
	Quantity    int                      `json:"quantity"`
	Selection   model.VariationSelection `json:"selection"`
	Summary     map[string][]string      `json:"selected_options"`
	Unit        pricing.LineAmounts      `json:"unit"`
	Subtotal    int64                    `json:"subtotal"`
	GSTAmount   int64                    `json:"gst_amount"`
	Total       int64                    `json:"total"`
	Available   bool                     `json:"available"`
	AddedAt     time.Time                `json:"added_at"`
}

// CartTotals 购物车汇总
type CartTotals struct {
	Lines                []CartLine          `json:"lines"`
	ItemCount            int                 `json:"item_count"`
	Subtotal             int64               `json:"subtotal"`
	GSTAmount            int64               `json:"gst_amount"`
	Total                int64               `json:"total"`
	GSTPercent           decimal.Decimal     `json:"gst_percent"`
	FreeShipping         FreeShippingPolicy  `json:"free_shipping"`
	FreeShippingEligible bool                `json:"free_shipping_eligible"`
	AmountToFreeShipping int64               `json:"amount_to_free_shipping"`
	Rate                 *model.RateSnapshot `json:"rate"`
}

// MergeEntry 单个游客行的合并结果
type MergeEntry struct {
	ProductID int64  `json:"product_id"`
	Signature string `json:"signature"`
	Requested int    `json:"requested"`
	Added     int    `json:"added"`
	Reason    string `json:"reason,omitempty"`
}

// MergeReport 游客购物车合并报告
type MergeReport struct {
	Merged  []MergeEntry `json:"merged"`
	Clamped []MergeEntry `json:"clamped"`
	Skipped []MergeEntry `json:"skipped"`
}

// ==================== 服务 ====================

// CartService 购物车服务，按身份路由到持久层或临时层
type CartService struct {
	carts      repository.CartRepositorySelector
	variations *VariationService
	rates      RateProvider
	settings   *SettingService
	logger     *zap.Logger
}

func NewCartService(
	carts repository.CartRepositorySelector,
	variations *VariationService,
	rates RateProvider,
	settings *SettingService,
	logger *zap.Logger,
) *CartService {
	return &CartService{
		carts:      carts,
		variations: variations,
		rates:      rates,
		settings:   settings,
		logger:     logger,
	}
}

// Add 加入购物车，相同商品+相同签名累加数量
func (s *CartService) Add(ctx context.Context, owner model.CartOwner, productID int64, quantity int, sel model.VariationSelection) (*model.CartItem, error) {
	if quantity < 1 {
		return nil, invalidSelection(errors.New("quantity must be at least 1"))
	}
	if err := variant.CheckEngraving(sel); err != nil {
		return nil, invalidSelection(err)
	}

	product, catalog, err := s.variations.Catalog(ctx, productID)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return nil, err
		}
		return nil, backendUnavailable(err)
	}
	if err := catalog.Validate(sel); err != nil {
		return nil, invalidSelection(err)
	}

	repo := s.carts.For(owner)
	signature := variant.Signature(sel)

	existing, err := repo.FindLine(ctx, owner.ID, productID, signature)
	if err != nil && !errors.Is(err, repository.ErrCartLineNotFound) {
		return nil, backendUnavailable(err)
	}

	already := 0
	if existing != nil {
		already = existing.Quantity
	}
	if ceiling, limited := stockCeiling(product, catalog, sel); limited && already+quantity > ceiling {
		return nil, &InsufficientStockError{Available: ceiling, AlreadyInCart: already}
	}

	if existing != nil {
		existing.Quantity += quantity
		if err := repo.SaveLine(ctx, existing); err != nil {
			return nil, backendUnavailable(err)
		}
		return existing, nil
	}

	line := &model.CartItem{
		ID:        uuid.NewString(),
		OwnerID:   owner.ID,
		ProductID: productID,
		Signature: signature,
		Quantity:  quantity,
	}
	if err := line.SetSelection(sel); err != nil {
		return nil, invalidSelection(err)
	}
	if err := repo.SaveLine(ctx, line); err != nil {
		return nil, backendUnavailable(err)
	}
	return line, nil
}

// SetQuantity 直接覆盖数量，小于 1 时删除该行；不重新校验库存
func (s *CartService) SetQuantity(ctx context.Context, owner model.CartOwner, lineID string, quantity int) error {
	if quantity < 1 {
		return s.Remove(ctx, owner, lineID)
	}

	repo := s.carts.For(owner)
	line, err := repo.GetLine(ctx, owner.ID, lineID)
	if err != nil {
		if errors.Is(err, repository.ErrCartLineNotFound) {
			return ErrLineNotFound
		}
		return backendUnavailable(err)
	}

	line.Quantity = quantity
	if err := repo.SaveLine(ctx, line); err != nil {
		return backendUnavailable(err)
	}
	return nil
}

// Remove 删除行，行不存在时不报错
func (s *CartService) Remove(ctx context.Context, owner model.CartOwner, lineID string) error {
	if err := s.carts.For(owner).DeleteLine(ctx, owner.ID, lineID); err != nil {
		return backendUnavailable(err)
	}
	return nil
}

// Clear 清空购物车
func (s *CartService) Clear(ctx context.Context, owner model.CartOwner) error {
	if err := s.carts.For(owner).Clear(ctx, owner.ID); err != nil {
		return backendUnavailable(err)
	}
	return nil
}

// CompleteCheckout 下单完成后清空购物车
func (s *CartService) CompleteCheckout(ctx context.Context, owner model.CartOwner) error {
	if err := s.Clear(ctx, owner); err != nil {
		return err
	}
	s.logger.Info("cart cleared after checkout", zap.String("owner", owner.String()))
	return nil
}

// Lines 当前金价下的购物车行
func (s *CartService) Lines(ctx context.Context, owner model.CartOwner) ([]CartLine, error) {
	totals, err := s.Totals(ctx, owner)
	if err != nil {
		return nil, err
	}
	return totals.Lines, nil
}

// Totals 每次调用都按最新金价、税率与包邮规则重算
func (s *CartService) Totals(ctx context.Context, owner model.CartOwner) (*CartTotals, error) {
	items, err := s.carts.For(owner).ListLines(ctx, owner.ID)
	if err != nil {
		return nil, backendUnavailable(err)
	}

	rate, err := s.rates.GetCurrentRate(ctx)
	if err != nil {
		return nil, backendUnavailable(err)
	}
	gst, err := s.settings.GSTPercent(ctx)
	if err != nil {
		return nil, backendUnavailable(err)
	}
	policy, err := s.settings.FreeShipping(ctx)
	if err != nil {
		return nil, backendUnavailable(err)
	}

	totals := &CartTotals{
		Lines:        make([]CartLine, 0, len(items)),
		GSTPercent:   gst,
		FreeShipping: policy,
		Rate:         rate,
	}

	products := make(map[int64]*model.Product)
	for i := range items {
		line, err := s.priceLine(ctx, &items[i], products, rate, gst)
		if err != nil {
			return nil, backendUnavailable(err)
		}
		totals.Lines = append(totals.Lines, line)
		if !line.Available {
			continue
		}
		totals.ItemCount += line.Quantity
		totals.Subtotal += line.Subtotal
		totals.GSTAmount += line.GSTAmount
		totals.Total += line.Total
	}

	totals.FreeShippingEligible = policy.Eligible(totals.Total)
	totals.AmountToFreeShipping = policy.Remaining(totals.Total)
	return totals, nil
}

func (s *CartService) priceLine(ctx context.Context, item *model.CartItem, products map[int64]*model.Product, rate *model.RateSnapshot, gst decimal.Decimal) (CartLine, error) {
	sel, err := item.DecodeSelection()
	if err != nil {
		s.logger.Warn("cart line has unreadable selection", zap.String("line_id", item.ID), zap.Error(err))
	}

	line := CartLine{
		ID:        item.ID,
		ProductID: item.ProductID,
		Signature: item.Signature,
		Quantity:  item.Quantity,
		Selection: sel,
		Summary:   sel.Summary(),
		AddedAt:   item.CreatedAt,
	}

	product, ok := products[item.ProductID]
	if !ok {
		product, err = s.variations.Product(ctx, item.ProductID)
		if err != nil && !errors.Is(err, ErrProductNotFound) {
			return line, err
		}
		products[item.ProductID] = product
	}
	if product == nil {
		return line, nil
	}

	// 以加入时捕获的增量计价
	sel.PriceAdjustment = item.PriceAdjustment
	sel.WeightAdjustment = item.WeightAdjustment

	line.ProductName = product.Name
	line.ImageURL = product.ImageURL
	line.Available = true
	line.Unit = linePrice(product, sel, rate, gst)
	qty := int64(item.Quantity)
	line.Subtotal = line.Unit.Subtotal * qty
	line.GSTAmount = line.Unit.GSTAmount * qty
	line.Total = line.Unit.Total * qty
	return line, nil
}

// ==================== 游客合并 ====================

// MergeGuestCart 登录后把游客购物车并入用户购物车
// 每行走与 Add 相同的库存校验；超出库存时截断到剩余可售数量，无剩余则跳过
func (s *CartService) MergeGuestCart(ctx context.Context, guestID string, userID int64) (*MergeReport, error) {
	guest := model.GuestOwner(guestID)
	user := model.UserOwner(userID)
	guestRepo := s.carts.For(guest)

	lines, err := guestRepo.ListLines(ctx, guest.ID)
	if err != nil {
		return nil, backendUnavailable(err)
	}

	report := &MergeReport{}
	for _, line := range lines {
		entry := MergeEntry{ProductID: line.ProductID, Signature: line.Signature, Requested: line.Quantity}

		if err := s.mergeLine(ctx, user, line, &entry, report); err != nil {
			return report, err
		}
		// 处理完即删除，重试时不会重复合并
		if err := guestRepo.DeleteLine(ctx, guest.ID, line.ID); err != nil {
			return report, backendUnavailable(err)
		}
	}

	if err := guestRepo.Clear(ctx, guest.ID); err != nil {
		return report, backendUnavailable(err)
	}

	s.logger.Info("guest cart merged",
		zap.String("guest", guestID),
		zap.Int64("user_id", userID),
		zap.Int("merged", len(report.Merged)),
		zap.Int("clamped", len(report.Clamped)),
		zap.Int("skipped", len(report.Skipped)),
	)
	return report, nil
}

func (s *CartService) mergeLine(ctx context.Context, user model.CartOwner, line model.CartItem, entry *MergeEntry, report *MergeReport) error {
	sel, err := line.DecodeSelection()
	if err != nil {
		entry.Reason = "unreadable selection"
		report.Skipped = append(report.Skipped, *entry)
		return nil
	}

	_, err = s.Add(ctx, user, line.ProductID, line.Quantity, sel)
	var stockErr *InsufficientStockError
	switch {
	case err == nil:
		entry.Added = line.Quantity
		report.Merged = append(report.Merged, *entry)
		return nil
	case errors.As(err, &stockErr):
		remaining := stockErr.Remaining()
		if remaining == 0 {
			entry.Reason = stockErr.Error()
			report.Skipped = append(report.Skipped, *entry)
			return nil
		}
		if _, err := s.Add(ctx, user, line.ProductID, remaining, sel); err != nil {
			return err
		}
		entry.Added = remaining
		entry.Reason = stockErr.Error()
		report.Clamped = append(report.Clamped, *entry)
		return nil
	case errors.Is(err, ErrProductNotFound), errors.Is(err, ErrInvalidSelection):
		entry.Reason = err.Error()
		report.Skipped = append(report.Skipped, *entry)
		return nil
	default:
		return err
	}
}

// stockCeiling 商品库存与所选金属/尺码库存的较小值
func stockCeiling(product *model.Product, catalog variant.Catalog, sel model.VariationSelection) (int, bool) {
	ceiling, limited := 0, false
	if product.StockQuantity != nil {
		ceiling, limited = *product.StockQuantity, true
	}
	if c, ok := catalog.StockCeiling(sel); ok && (!limited || c < ceiling) {
		ceiling, limited = c, true
	}
	if ceiling < 0 {
		ceiling = 0
	}
	return ceiling, limited
}
