package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"goldsmith_store_v1_202610/internal/model"
	"goldsmith_store_v1_202610/internal/repository"
)

// ==================== 测试环境 ====================

type testEnv struct {
	db         *gorm.DB
	redis      *miniredis.Miniredis
	products   repository.ProductRepository
	variations repository.VariationRepository
	rateRepo   repository.RateRepository
	rates      *RateService
	settings   *SettingService
	catalog    *VariationService
	prices     *PriceService
	carts      *CartService
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&model.Category{},
		&model.Product{},
		&model.ProductVariation{},
		&model.CartItem{},
		&model.GoldRate{},
		&model.SiteSetting{},
	))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := zap.NewNop()
	env := &testEnv{
		db:         db,
		redis:      mr,
		products:   repository.NewProductRepository(db),
		variations: repository.NewVariationRepository(db),
		rateRepo:   repository.NewRateRepository(db),
	}
	env.rates = NewRateService(env.rateRepo, time.Minute, log)
	env.settings = NewSettingService(repository.NewSettingRepository(db), log)
	env.catalog = NewVariationService(env.products, env.variations)
	env.prices = NewPriceService(env.catalog, env.rates, env.settings)
	selector := repository.NewCartRepositorySelector(
		repository.NewCartRepository(db),
		repository.NewGuestCartRepository(client, time.Hour),
	)
	env.carts = NewCartService(selector, env.catalog, env.rates, env.settings, log)
	return env
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func intPtr(n int) *int {
	return &n
}

// seedRate 22K 6000 / 24K 6500
func (e *testEnv) seedRate(t *testing.T) {
	t.Helper()
	_, err := e.rates.Record(context.Background(), &model.RateSnapshot{
		Rate24K: dec("6500"),
		Rate22K: dec("6000"),
		Source:  "test",
	})
	require.NoError(t, err)
}

// seedRing 10g 22K 戒指，工费 12%，库存 stock
func (e *testEnv) seedRing(t *testing.T, stock *int) *model.Product {
	t.Helper()
	ctx := context.Background()

	category, err := e.products.GetCategoryBySlug(ctx, "rings")
	if err != nil {
		category = &model.Category{Slug: "rings", Name: "Rings"}
		require.NoError(t, e.products.CreateCategory(ctx, category))
	}

	pct := dec("12")
	product := &model.Product{
		CategoryID:          category.ID,
		Name:                "Lotus Ring",
		MetalPurity:         model.MetalGold22K,
		WeightGrams:         dec("10"),
		MakingChargePercent: &pct,
		StockQuantity:       stock,
		IsActive:            true,
	}
	require.NoError(t, e.products.Create(ctx, product))

	require.NoError(t, e.variations.BatchCreate(ctx, []model.ProductVariation{
		{ProductID: product.ID, Dimension: model.DimensionSize, Label: "12", Value: "12", IsAvailable: true, IsDefault: true, SortOrder: 1},
		{ProductID: product.ID, Dimension: model.DimensionSize, Label: "14", Value: "14", PriceAdjustment: dec("500"), WeightAdjustment: dec("0.5"), IsAvailable: true, StockQuantity: intPtr(2), SortOrder: 2},
		{ProductID: product.ID, Dimension: model.DimensionGemstone, Label: "VS Clarity", Value: "vs", SelectionMode: model.SelectionMulti, PriceAdjustment: dec("1200"), IsAvailable: true, SortOrder: 1},
		{ProductID: product.ID, Dimension: model.DimensionCustom, Label: "Engraving", Value: "engraving", SelectionMode: model.SelectionMulti, PriceAdjustment: dec("300"), IsAvailable: true, SortOrder: 1},
	}))
	return product
}

// selection 以服务端目录重放选择
func (e *testEnv) selection(t *testing.T, productID int64, choices map[model.VariationDimension][]string, engraving *model.EngravingPayload) model.VariationSelection {
	t.Helper()
	_, resolver, err := e.catalog.NewResolver(context.Background(), productID)
	require.NoError(t, err)
	require.NoError(t, resolver.Apply(choices, engraving))
	return resolver.Selection()
}

func (e *testEnv) defaultSelection(t *testing.T, productID int64) model.VariationSelection {
	return e.selection(t, productID, nil, nil)
}
