package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"goldsmith_store_v1_202610/internal/model"
)

// HeaderGuestID 游客购物车标识 (客户端本地保存)
const HeaderGuestID = "X-Guest-ID"

const (
	ContextKeyCartOwner = "cart_owner"
	ContextKeyGuestID   = "guest_id"
)

// CartIdentity 解析购物车归属，需在 OptionalAuth / JWTAuth 之后
// 登录用户按用户 ID；游客按 X-Guest-ID，缺失或非法时签发新的 ID 并通过响应头返回
func CartIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		guestID := c.GetHeader(HeaderGuestID)
		if uuid.Validate(guestID) != nil {
			guestID = ""
		}

		if userID := GetUserID(c); userID > 0 {
			c.Set(ContextKeyCartOwner, model.UserOwner(userID))
		} else {
			if guestID == "" {
				guestID = uuid.NewString()
			}
			c.Header(HeaderGuestID, guestID)
			c.Set(ContextKeyCartOwner, model.GuestOwner(guestID))
		}

		if guestID != "" {
			c.Set(ContextKeyGuestID, guestID)
		}
		c.Next()
	}
}

// GetCartOwner 当前请求的购物车归属
func GetCartOwner(c *gin.Context) model.CartOwner {
	if owner, exists := c.Get(ContextKeyCartOwner); exists {
		return owner.(model.CartOwner)
	}
	return model.CartOwner{}
}

// GetGuestID 请求携带的游客标识 (登录用户合并游客车时使用)
func GetGuestID(c *gin.Context) string {
	return c.GetString(ContextKeyGuestID)
}
