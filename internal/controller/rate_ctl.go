package controller

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"goldsmith_store_v1_202610/internal/api/dto"
	"goldsmith_store_v1_202610/internal/middleware"
	"goldsmith_store_v1_202610/internal/model"
	"goldsmith_store_v1_202610/internal/service"
)

// RateSyncer 立即从行情源拉取一次金价
type RateSyncer interface {
	SyncNow(ctx context.Context) (*model.RateSnapshot, error)
}

type RateController struct {
	rates  *service.RateService
	syncer RateSyncer
}

func NewRateController(rates *service.RateService, syncer RateSyncer) *RateController {
	return &RateController{rates: rates, syncer: syncer}
}

// GetCurrent 当前金价
// @Summary 最新金价快照
// @Tags Rate
// @Router /api/rates/current [get]
func (ctrl *RateController) GetCurrent(c *gin.Context) {
	snap, err := ctrl.rates.GetCurrentRate(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if snap == nil {
		respondStatus(c, http.StatusNotFound, "no gold rate recorded yet")
		return
	}
	respondOK(c, snap)
}

// GetHistory 历史金价
// @Summary 最近 N 天金价
// @Tags Rate
// @Param days query int false "天数" default(30)
// @Router /api/rates/history [get]
func (ctrl *RateController) GetHistory(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil {
		respondStatus(c, http.StatusBadRequest, "invalid days")
		return
	}

	history, err := ctrl.rates.GetRateHistory(c.Request.Context(), days)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, history)
}

// Record 手工录入金价 (管理员)
// @Summary 录入金价
// @Tags Rate
// @Param body body dto.RecordRateReq true "金价"
// @Router /api/rates [post]
func (ctrl *RateController) Record(c *gin.Context) {
	var req dto.RecordRateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondStatus(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	snap, err := ctrl.rates.Record(c.Request.Context(), req.ToSnapshot())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, snap)
}

// Sync 立即同步行情源 (管理员，受冷却限制)
// @Summary 同步金价
// @Tags Rate
// @Router /api/rates/sync [post]
func (ctrl *RateController) Sync(c *gin.Context) {
	if ctrl.syncer == nil {
		respondStatus(c, http.StatusServiceUnavailable, "rate feed is not configured")
		return
	}

	snap, err := ctrl.syncer.SyncNow(c.Request.Context())
	if err != nil {
		respondStatus(c, http.StatusBadGateway, "rate feed sync failed: "+err.Error())
		return
	}
	middleware.MarkSyncExecuted(middleware.SyncTypeRate)
	respondOK(c, snap)
}
