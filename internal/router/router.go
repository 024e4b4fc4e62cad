package router

import (
	"github.com/gin-gonic/gin"

	"goldsmith_store_v1_202610/internal/controller"
	"goldsmith_store_v1_202610/internal/middleware"
)

// Controllers 路由依赖的控制器集合
type Controllers struct {
	Product *controller.ProductController
	Cart    *controller.CartController
	Rate    *controller.RateController
	Setting *controller.SettingController
}

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine, ctl Controllers) {
	api := r.Group("/api")
	{
		// product 商品与变体
		products := api.Group("/products")
		{
			// GET /api/products
			products.GET("", ctl.Product.GetProducts)
			products.GET("/:id/price", ctl.Product.GetPrice)
			products.GET("/:id/variations", ctl.Product.GetVariations)
			// POST /api/products/:id/configure
			products.POST("/:id/configure", ctl.Product.Configure)
		}

		// cart 购物车，登录可选，游客通过 X-Guest-ID 识别
		cart := api.Group("/cart", middleware.OptionalAuth(), middleware.CartIdentity())
		{
			cart.GET("", ctl.Cart.GetCart)
			cart.DELETE("", ctl.Cart.Clear)
			cart.POST("/items", ctl.Cart.AddItem)
			cart.PUT("/items/:line_id", ctl.Cart.UpdateItem)
			cart.DELETE("/items/:line_id", ctl.Cart.RemoveItem)
			cart.POST("/checkout-complete", ctl.Cart.CheckoutComplete)
		}
		// 合并必须登录
		api.POST("/cart/merge", middleware.JWTAuth(), middleware.CartIdentity(), ctl.Cart.Merge)

		// rate 金价
		rates := api.Group("/rates")
		{
			rates.GET("/current", ctl.Rate.GetCurrent)
			rates.GET("/history", ctl.Rate.GetHistory)

			admin := rates.Group("", middleware.JWTAuth(), middleware.RequireRole(middleware.RoleAdmin))
			admin.POST("", ctl.Rate.Record)
			// POST /api/rates/sync 全局冷却
			admin.POST("/sync",
				middleware.SyncRateLimit(middleware.SyncTypeRate, middleware.GetInterval(middleware.SyncTypeRate)),
				ctl.Rate.Sync)
		}

		// settings 站点配置
		settings := api.Group("/settings")
		{
			settings.GET("", ctl.Setting.GetSettings)
			settings.PUT("", middleware.JWTAuth(), middleware.RequireRole(middleware.RoleAdmin), ctl.Setting.UpdateSettings)
		}
	}
}
