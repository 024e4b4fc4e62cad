package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"goldsmith_store_v1_202610/internal/middleware"
	"goldsmith_store_v1_202610/internal/model"
	"goldsmith_store_v1_202610/internal/repository"
	"goldsmith_store_v1_202610/internal/service"
)

type testServer struct {
	db         *gorm.DB
	router     *gin.Engine
	redis      *miniredis.Miniredis
	products   repository.ProductRepository
	variations repository.VariationRepository
	rates      *service.RateService
	syncer     *fakeSyncer
}

type fakeSyncer struct {
	snap  *model.RateSnapshot
	err   error
	calls int
}

func (f *fakeSyncer) SyncNow(ctx context.Context) (*model.RateSnapshot, error) {
	f.calls++
	return f.snap, f.err
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

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
	products := repository.NewProductRepository(db)
	variationRepo := repository.NewVariationRepository(db)
	rates := service.NewRateService(repository.NewRateRepository(db), time.Minute, log)
	settings := service.NewSettingService(repository.NewSettingRepository(db), log)
	variations := service.NewVariationService(products, variationRepo)
	prices := service.NewPriceService(variations, rates, settings)
	carts := service.NewCartService(
		repository.NewCartRepositorySelector(
			repository.NewCartRepository(db),
			repository.NewGuestCartRepository(client, time.Hour),
		),
		variations, rates, settings, log,
	)
	syncer := &fakeSyncer{}

	productCtl := NewProductController(prices)
	cartCtl := NewCartController(carts, variations)
	rateCtl := NewRateController(rates, syncer)
	settingCtl := NewSettingController(settings)

	r := gin.New()
	api := r.Group("/api")
	api.GET("/products", productCtl.GetProducts)
	api.GET("/products/:id/price", productCtl.GetPrice)
	api.GET("/products/:id/variations", productCtl.GetVariations)
	api.POST("/products/:id/configure", productCtl.Configure)

	cart := api.Group("/cart", middleware.OptionalAuth(), middleware.CartIdentity())
	cart.GET("", cartCtl.GetCart)
	cart.DELETE("", cartCtl.Clear)
	cart.POST("/items", cartCtl.AddItem)
	cart.PUT("/items/:line_id", cartCtl.UpdateItem)
	cart.DELETE("/items/:line_id", cartCtl.RemoveItem)
	cart.POST("/checkout-complete", cartCtl.CheckoutComplete)
	api.POST("/cart/merge", middleware.JWTAuth(), middleware.CartIdentity(), cartCtl.Merge)

	api.GET("/rates/current", rateCtl.GetCurrent)
	api.GET("/rates/history", rateCtl.GetHistory)
	admin := api.Group("", middleware.JWTAuth(), middleware.RequireRole(middleware.RoleAdmin))
	admin.POST("/rates", rateCtl.Record)
	admin.POST("/rates/sync", middleware.SyncRateLimit(middleware.SyncTypeRate, time.Minute), rateCtl.Sync)
	admin.PUT("/settings", settingCtl.UpdateSettings)
	api.GET("/settings", settingCtl.GetSettings)

	return &testServer{
		db:         db,
		router:     r,
		redis:      mr,
		products:   products,
		variations: variationRepo,
		rates:      rates,
		syncer:     syncer,
	}
}

// ==================== 数据准备 ====================

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func intPtr(n int) *int {
	return &n
}

func (s *testServer) seedRate(t *testing.T) {
	t.Helper()
	_, err := s.rates.Record(context.Background(), &model.RateSnapshot{
		Rate24K: dec("6500"),
		Rate22K: dec("6000"),
		Source:  "test",
	})
	require.NoError(t, err)
}

// seedRing 10g 22K 戒指，工费 12%
func (s *testServer) seedRing(t *testing.T, stock *int) *model.Product {
	t.Helper()
	ctx := context.Background()

	category, err := s.products.GetCategoryBySlug(ctx, "rings")
	if err != nil {
		category = &model.Category{Slug: "rings", Name: "Rings"}
		require.NoError(t, s.products.CreateCategory(ctx, category))
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
	require.NoError(t, s.products.Create(ctx, product))

	require.NoError(t, s.variations.BatchCreate(ctx, []model.ProductVariation{
		{ProductID: product.ID, Dimension: model.DimensionSize, Label: "12", Value: "12", IsAvailable: true, IsDefault: true, SortOrder: 1},
		{ProductID: product.ID, Dimension: model.DimensionSize, Label: "14", Value: "14", PriceAdjustment: dec("500"), WeightAdjustment: dec("0.5"), IsAvailable: true, StockQuantity: intPtr(2), SortOrder: 2},
		{ProductID: product.ID, Dimension: model.DimensionCustom, Label: "Engraving", Value: "engraving", SelectionMode: model.SelectionMulti, PriceAdjustment: dec("300"), IsAvailable: true, SortOrder: 1},
	}))
	return product
}

// ==================== 请求工具 ====================

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func bearer(t *testing.T, userID int64, role string) map[string]string {
	t.Helper()
	token, err := middleware.GenerateAccessToken(userID, role)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}
