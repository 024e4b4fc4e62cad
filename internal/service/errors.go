package service

import (
	"errors"
	"fmt"
)

// InsufficientStockError 加购数量超出可售库存
type InsufficientStockError struct {
	Available     int
	AlreadyInCart int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Only %d items available, you already have %d in your cart", e.Available, e.AlreadyInCart)
}

// Remaining 还能再加购的数量
func (e *InsufficientStockError) Remaining() int {
	if n := e.Available - e.AlreadyInCart; n > 0 {
		return n
	}
	return 0
}

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrBackendUnavailable = errors.New("cart storage unavailable")
	ErrLineNotFound       = errors.New("cart line not found")
	ErrInvalidRate        = errors.New("invalid gold rate")
	ErrInvalidSetting     = errors.New("invalid setting value")
)

func invalidSelection(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidSelection, err)
}

// backendUnavailable 存储层错误统一包装，已包装的原样返回
func backendUnavailable(err error) error {
	if errors.Is(err, ErrBackendUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
}
