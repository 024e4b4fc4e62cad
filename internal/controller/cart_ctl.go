package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"goldsmith_store_v1_202610/internal/api/dto"
	"goldsmith_store_v1_202610/internal/middleware"
	"goldsmith_store_v1_202610/internal/service"
)

// CartController 购物车接口，归属由 CartIdentity 中间件解析
type CartController struct {
	carts      *service.CartService
	variations *service.VariationService
}

func NewCartController(carts *service.CartService, variations *service.VariationService) *CartController {
	return &CartController{carts: carts, variations: variations}
}

// GetCart 购物车明细与汇总
// @Summary 购物车
// @Tags Cart
// @Router /api/cart [get]
func (ctrl *CartController) GetCart(c *gin.Context) {
	totals, err := ctrl.carts.Totals(c.Request.Context(), middleware.GetCartOwner(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, totals)
}

// AddItem 加入购物车
// @Summary 加入购物车
// @Tags Cart
// @Param body body dto.AddCartItemReq true "商品与选择"
// @Router /api/cart/items [post]
func (ctrl *CartController) AddItem(c *gin.Context) {
	var req dto.AddCartItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondStatus(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	sel, err := ctrl.variations.Resolve(ctx, req.ProductID, req.ToChoices(), req.ToEngraving())
	if err != nil {
		respondError(c, err)
		return
	}

	line, err := ctrl.carts.Add(ctx, middleware.GetCartOwner(c), req.ProductID, req.Quantity, sel)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, line)
}

// UpdateItem 修改数量
// @Summary 修改购物车行数量 (0 删除)
// @Tags Cart
// @Param line_id path string true "行ID"
// @Router /api/cart/items/{line_id} [put]
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	var req dto.UpdateCartItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondStatus(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if err := ctrl.carts.SetQuantity(c.Request.Context(), middleware.GetCartOwner(c), c.Param("line_id"), *req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}

// RemoveItem 删除行
// @Summary 删除购物车行
// @Tags Cart
// @Router /api/cart/items/{line_id} [delete]
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	if err := ctrl.carts.Remove(c.Request.Context(), middleware.GetCartOwner(c), c.Param("line_id")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}

// Clear 清空购物车
// @Summary 清空购物车
// @Tags Cart
// @Router /api/cart [delete]
func (ctrl *CartController) Clear(c *gin.Context) {
	if err := ctrl.carts.Clear(c.Request.Context(), middleware.GetCartOwner(c)); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}

// Merge 登录后合并游客购物车 (需 JWT + X-Guest-ID)
// @Summary 合并游客购物车
// @Tags Cart
// @Router /api/cart/merge [post]
func (ctrl *CartController) Merge(c *gin.Context) {
	guestID := middleware.GetGuestID(c)
	if guestID == "" {
		respondStatus(c, http.StatusBadRequest, "missing "+middleware.HeaderGuestID+" header")
		return
	}

	report, err := ctrl.carts.MergeGuestCart(c.Request.Context(), guestID, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, report)
}

// CheckoutComplete 下单完成回调，清空购物车
// @Summary 下单完成
// @Tags Cart
// @Router /api/cart/checkout-complete [post]
func (ctrl *CartController) CheckoutComplete(c *gin.Context) {
	if err := ctrl.carts.CompleteCheckout(c.Request.Context(), middleware.GetCartOwner(c)); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}
