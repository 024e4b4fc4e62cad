package dto

// AddCartItemReq 加入购物车
type AddCartItemReq struct {
	ProductID int64 `json:"product_id" binding:"required,gt=0"`
	Quantity  int   `json:"quantity" binding:"required,gte=1"`
	SelectionReq
}

// UpdateCartItemReq 修改数量，0 表示删除
type UpdateCartItemReq struct {
	Quantity *int `json:"quantity" binding:"required"`
}
