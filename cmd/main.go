package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"goldsmith_store_v1_202610/internal/config"
	"goldsmith_store_v1_202610/internal/controller"
	"goldsmith_store_v1_202610/internal/middleware"
	"goldsmith_store_v1_202610/internal/model"
	"goldsmith_store_v1_202610/internal/repository"
	"goldsmith_store_v1_202610/internal/router"
	"goldsmith_store_v1_202610/internal/service"
	"goldsmith_store_v1_202610/internal/task"
	"goldsmith_store_v1_202610/pkg/database"
	"goldsmith_store_v1_202610/pkg/goldrate"
	"goldsmith_store_v1_202610/pkg/logger"
	"goldsmith_store_v1_202610/pkg/utils"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	// 1. 配置与日志
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	log, err := logger.New(logger.Options{Level: cfg.Log.Level, Development: cfg.Log.Development})
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// 2. 初始化存储
	db, rdb := initStorage(cfg, log)

	// 3. 初始化依赖
	deps := initDependencies(cfg, db, rdb, log)

	// 4. 启动定时任务
	if err := deps.Tasks.Start(); err != nil {
		log.Fatal("start tasks", zap.Error(err))
	}

	// 5. 初始化路由并启动服务
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery())
	router.InitRoutes(r, *deps.Controllers)

	startServer(cfg, r, log)
	deps.Tasks.Stop()
	rdb.Close()
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Redis       *redis.Client
	Repos       *Repositories
	Services    *Services
	Controllers *router.Controllers
	Tasks       *task.TaskManager
}

// Repositories 仓库集合
type Repositories struct {
	Product   repository.ProductRepository
	Variation repository.VariationRepository
	Rate      repository.RateRepository
	Setting   repository.SettingRepository
	Cart      repository.CartRepositorySelector
}

// Services 服务集合
type Services struct {
	Rate      *service.RateService
	Setting   *service.SettingService
	Variation *service.VariationService
	Price     *service.PriceService
	Cart      *service.CartService
}

// ==================== 初始化函数 ====================

// initStorage 初始化数据库与 Redis
func initStorage(cfg *config.Config, log *zap.Logger) (*gorm.DB, *redis.Client) {
	var models []interface{}
	if cfg.Database.AutoMigrate {
		models = []interface{}{
			// Catalog
			&model.Category{}, &model.Product{}, &model.ProductVariation{},
			// Cart
			&model.CartItem{},
			// Pricing
			&model.GoldRate{}, &model.SiteSetting{},
		}
	}

	db, err := database.InitDB(cfg.Database.DSN, logger.GormLevel(cfg.Log.Level), models...)
	if err != nil {
		log.Fatal("init database", zap.Error(err))
	}
	log.Info("database connected")

	rdb, err := database.InitRedis(context.Background(), database.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("init redis", zap.Error(err))
	}
	log.Info("redis connected", zap.String("addr", cfg.Redis.Addr))

	return db, rdb
}

// initDependencies 初始化所有依赖
func initDependencies(cfg *config.Config, db *gorm.DB, rdb *redis.Client, log *zap.Logger) *Dependencies {
	middleware.SetJWTConfig(&middleware.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenTTL: cfg.JWT.TokenTTL,
		Issuer:         cfg.JWT.Issuer,
	})

	// -------- Repo 层 --------
	repos := &Repositories{
		Product:   repository.NewProductRepository(db),
		Variation: repository.NewVariationRepository(db),
		Rate:      repository.NewRateRepository(db),
		Setting:   repository.NewSettingRepository(db),
		Cart: repository.NewCartRepositorySelector(
			repository.NewCartRepository(db),
			repository.NewGuestCartRepository(rdb, cfg.Cart.GuestTTL),
		),
	}

	// -------- 业务服务 --------
	services := &Services{
		Rate:    service.NewRateService(repos.Rate, cfg.RateFeed.CacheTTL, log.Named("rate")),
		Setting: service.NewSettingService(repos.Setting, log.Named("setting")),
	}
	services.Variation = service.NewVariationService(repos.Product, repos.Variation)
	services.Price = service.NewPriceService(services.Variation, services.Rate, services.Setting)
	services.Cart = service.NewCartService(repos.Cart, services.Variation, services.Rate, services.Setting, log.Named("cart"))

	// -------- 定时任务 --------
	tasks := initTasks(cfg, services, log)

	// -------- Controller 层 --------
	controllers := &router.Controllers{
		Product: controller.NewProductController(services.Price),
		Cart:    controller.NewCartController(services.Cart, services.Variation),
		Rate:    controller.NewRateController(services.Rate, tasks),
		Setting: controller.NewSettingController(services.Setting),
	}

	return &Dependencies{
		DB:          db,
		Redis:       rdb,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
		Tasks:       tasks,
	}
}

// ==================== 定时任务 ====================

// initTasks 金价源未配置时同步任务不启用
func initTasks(cfg *config.Config, services *Services, log *zap.Logger) *task.TaskManager {
	deps := &task.TaskManagerDeps{
		Recorder: services.Rate,
		Logger:   log.Named("task"),
	}
	if cfg.RateFeed.URL != "" {
		client := utils.NewHTTPClient(utils.HTTPClientOptions{
			Timeout:  cfg.RateFeed.Timeout,
			ProxyURL: cfg.RateFeed.ProxyURL,
			Debug:    cfg.Log.Level == "debug",
		})
		deps.Fetcher = goldrate.NewClient(client, cfg.RateFeed.URL, cfg.RateFeed.APIKey)
	} else {
		log.Warn("rate feed url not configured, rate sync disabled")
	}

	return task.NewTaskManager(deps, &task.TaskManagerConfig{
		RateEnabled: cfg.RateFeed.URL != "",
		RateCron:    cfg.RateFeed.Cron,
	})
}

// ==================== 服务启动 ====================

// startServer 启动服务，收到退出信号后优雅关闭
func startServer(cfg *config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
		return
	}
	log.Info("server exited")
}
