package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"goldsmith_store_v1_202610/internal/api/dto"
	"goldsmith_store_v1_202610/internal/service"
)

type SettingController struct {
	settings *service.SettingService
}

func NewSettingController(settings *service.SettingService) *SettingController {
	return &SettingController{settings: settings}
}

// GetSettings 读取站点配置
// @Router /api/settings [get]
func (ctrl *SettingController) GetSettings(c *gin.Context) {
	resp, err := ctrl.current(c)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// UpdateSettings 修改站点配置 (管理员)
// @Router /api/settings [put]
func (ctrl *SettingController) UpdateSettings(c *gin.Context) {
	var req dto.UpdateSettingsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondStatus(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	if req.GSTPercent != nil {
		if err := ctrl.settings.SetGSTPercent(ctx, *req.GSTPercent); err != nil {
			respondError(c, err)
			return
		}
	}

	if req.FreeShippingThreshold != nil || req.FreeShippingEnabled != nil {
		policy, err := ctrl.settings.FreeShipping(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		if req.FreeShippingThreshold != nil {
			policy.Threshold = *req.FreeShippingThreshold
		}
		if req.FreeShippingEnabled != nil {
			policy.Enabled = *req.FreeShippingEnabled
		}
		if err := ctrl.settings.SetFreeShipping(ctx, policy); err != nil {
			respondError(c, err)
			return
		}
	}

	resp, err := ctrl.current(c)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

func (ctrl *SettingController) current(c *gin.Context) (*dto.SettingsResp, error) {
	ctx := c.Request.Context()
	gst, err := ctrl.settings.GSTPercent(ctx)
	if err != nil {
		return nil, err
	}
	policy, err := ctrl.settings.FreeShipping(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.SettingsResp{
		GSTPercent:            gst,
		FreeShippingThreshold: policy.Threshold,
		FreeShippingEnabled:   policy.Enabled,
	}, nil
}
