package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"goldsmith_store_v1_202610/internal/api/dto"
	"goldsmith_store_v1_202610/internal/repository"
	"goldsmith_store_v1_202610/internal/service"
)

type ProductController struct {
	prices *service.PriceService
}

func NewProductController(prices *service.PriceService) *ProductController {
	return &ProductController{prices: prices}
}

// ==================== 查询接口 ====================

// GetProducts 在售商品列表 (含当前金价下的基础报价)
// @Summary 商品列表
// @Tags Product
// @Param category query string false "分类 slug"
// @Param keyword query string false "名称搜索"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} dto.ProductListResp
// @Router /api/products [get]
func (ctrl *ProductController) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	quotes, total, err := ctrl.prices.QuoteProducts(c.Request.Context(), repository.ProductFilter{
		CategorySlug: c.Query("category"),
		Keyword:      c.Query("keyword"),
		Page:         page,
		PageSize:     pageSize,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	list := make([]dto.PriceResp, 0, len(quotes))
	for i := range quotes {
		list = append(list, dto.ToPriceResp(&quotes[i]))
	}

	c.JSON(http.StatusOK, dto.ProductListResp{
		Code:     0,
		Message:  "success",
		Data:     list,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// GetPrice 商品基础报价
// @Summary 当前金价下的价格明细
// @Tags Product
// @Param id path int true "商品ID"
// @Success 200 {object} dto.PriceResp
// @Router /api/products/{id}/price [get]
func (ctrl *ProductController) GetPrice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	quote, err := ctrl.prices.QuoteProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, dto.ToPriceResp(quote))
}

// GetVariations 默认选择下的变体状态
// @Summary 变体目录与默认选择
// @Tags Product
// @Param id path int true "商品ID"
// @Success 200 {object} dto.ConfigureResp
// @Router /api/products/{id}/variations [get]
func (ctrl *ProductController) GetVariations(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	cfg, err := ctrl.prices.Configure(c.Request.Context(), id, nil, nil)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, dto.ToConfigureResp(cfg))
}

// Configure 重放顾客选择并报价
// @Summary 按选择计算价格
// @Tags Product
// @Param id path int true "商品ID"
// @Param body body dto.SelectionReq true "选择"
// @Success 200 {object} dto.ConfigureResp
// @Router /api/products/{id}/configure [post]
func (ctrl *ProductController) Configure(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.SelectionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondStatus(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	cfg, err := ctrl.prices.Configure(c.Request.Context(), id, req.ToChoices(), req.ToEngraving())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, dto.ToConfigureResp(cfg))
}
