package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"goldsmith_store_v1_202610/internal/model"
	"goldsmith_store_v1_202610/internal/pricing"
	"goldsmith_store_v1_202610/internal/repository"
	"goldsmith_store_v1_202610/internal/variant"
)

// ProductQuote 商品基础报价
type ProductQuote struct {
	Product    *model.Product
	Breakdown  pricing.Breakdown
	Rate       *model.RateSnapshot
	GSTPercent decimal.Decimal
}

// Configuration 按顾客选择重放后的报价
type Configuration struct {
	Product            *model.Product
	State              variant.State
	Selection          model.VariationSelection
	Base               pricing.Breakdown
	Line               pricing.LineAmounts
	AllSizesOutOfStock bool
	Rate               *model.RateSnapshot
}

// PriceService 报价服务
type PriceService struct {
	variations *VariationService
	rates      RateProvider
	settings   *SettingService
}

func NewPriceService(variations *VariationService, rates RateProvider, settings *SettingService) *PriceService {
	return &PriceService{variations: variations, rates: rates, settings: settings}
}

// QuoteProduct 当前金价下的基础报价，尚无金价时各项为 0
func (s *PriceService) QuoteProduct(ctx context.Context, productID int64) (*ProductQuote, error) {
	product, err := s.variations.Product(ctx, productID)
	if err != nil {
		return nil, err
	}
	rate, gst, err := s.pricingInputs(ctx)
	if err != nil {
		return nil, err
	}

	return &ProductQuote{
		Product:    product,
		Breakdown:  pricing.Calculate(pricing.FromProduct(product), rate, product.CategoryMakingChargePercent(), gst),
		Rate:       rate,
		GSTPercent: gst,
	}, nil
}

// QuoteProducts 在售商品列表及基础报价
func (s *PriceService) QuoteProducts(ctx context.Context, filter repository.ProductFilter) ([]ProductQuote, int64, error) {
	products, total, err := s.variations.ListProducts(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	rate, gst, err := s.pricingInputs(ctx)
	if err != nil {
		return nil, 0, err
	}

	quotes := make([]ProductQuote, 0, len(products))
	for i := range products {
		p := &products[i]
		quotes = append(quotes, ProductQuote{
			Product:    p,
			Breakdown:  pricing.Calculate(pricing.FromProduct(p), rate, p.CategoryMakingChargePercent(), gst),
			Rate:       rate,
			GSTPercent: gst,
		})
	}
	return quotes, total, nil
}

// Configure 以服务端目录重放选择，客户端传来的增量一律不采信
func (s *PriceService) Configure(ctx context.Context, productID int64, choices map[model.VariationDimension][]string, engraving *model.EngravingPayload) (*Configuration, error) {
	product, resolver, err := s.variations.NewResolver(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := resolver.Apply(choices, engraving); err != nil {
		return nil, invalidSelection(err)
	}

	rate, gst, err := s.pricingInputs(ctx)
	if err != nil {
		return nil, err
	}

	sel := resolver.Selection()
	return &Configuration{
		Product:            product,
		State:              resolver.State(),
		Selection:          sel,
		Base:               pricing.Calculate(pricing.FromProduct(product), rate, product.CategoryMakingChargePercent(), gst),
		Line:               linePrice(product, sel, rate, gst),
		AllSizesOutOfStock: resolver.AllSizesOutOfStock(),
		Rate:               rate,
	}, nil
}

func (s *PriceService) pricingInputs(ctx context.Context) (*model.RateSnapshot, decimal.Decimal, error) {
	rate, err := s.rates.GetCurrentRate(ctx)
	if err != nil {
		return nil, decimal.Zero, backendUnavailable(err)
	}
	gst, err := s.settings.GSTPercent(ctx)
	if err != nil {
		return nil, decimal.Zero, backendUnavailable(fmt.Errorf("load gst: %w", err))
	}
	return rate, gst, nil
}

// linePrice 单件价格：克重增量参与金价计算，价格增量直接计入小计
func linePrice(product *model.Product, sel model.VariationSelection, rate *model.RateSnapshot, gst decimal.Decimal) pricing.LineAmounts {
	in := pricing.FromProduct(product).WithWeightAdjustment(sel.WeightAdjustment)
	return pricing.LinePrice(in, rate, product.CategoryMakingChargePercent(), gst, sel.PriceAdjustment)
}
