package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"goldsmith_store_v1_202610/internal/service"
)

// respondOK 统一成功响应
func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    data,
	})
}

// respondError 按领域错误映射 HTTP 状态码
func respondError(c *gin.Context, err error) {
	var stockErr *service.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{
			"code":    http.StatusConflict,
			"message": stockErr.Error(),
			"data": gin.H{
				"available":       stockErr.Available,
				"already_in_cart": stockErr.AlreadyInCart,
			},
		})
	case errors.Is(err, service.ErrProductNotFound), errors.Is(err, service.ErrLineNotFound):
		respondStatus(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidSelection),
		errors.Is(err, service.ErrInvalidRate),
		errors.Is(err, service.ErrInvalidSetting):
		respondStatus(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrBackendUnavailable):
		respondStatus(c, http.StatusServiceUnavailable, "cart is temporarily unavailable, please retry")
	default:
		respondStatus(c, http.StatusInternalServerError, "internal error")
	}
}

func respondStatus(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"code":    status,
		"message": message,
	})
}

// pathID 解析路径中的正整数 ID
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondStatus(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}
