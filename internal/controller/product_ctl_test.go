package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goldsmith_store_v1_202610/internal/api/dto"
)

func TestProductController_GetPrice(t *testing.T) {
	s := setupServer(t)
	s.seedRate(t)
	ring := s.seedRing(t, intPtr(5))

	w, env := s.do(t, http.MethodGet, fmt.Sprintf("/api/products/%d/price", ring.ID), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.PriceResp
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, int64(60000), resp.Breakdown.GoldValue)
	assert.Equal(t, int64(7200), resp.Breakdown.MakingCharges)
	assert.Equal(t, int64(69216), resp.Breakdown.Total)
	assert.Equal(t, "rings", resp.Product.Category)
	assert.True(t, resp.Product.InStock)
}

func TestProductController_GetPriceErrors(t *testing.T) {
	s := setupServer(t)

	w, _ := s.do(t, http.MethodGet, "/api/products/abc/price", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/products/999/price", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductController_NoRateReturnsZeroBreakdown(t *testing.T) {
	s := setupServer(t)
	ring := s.seedRing(t, nil)

	w, env := s.do(t, http.MethodGet, fmt.Sprintf("/api/products/%d/price", ring.ID), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.PriceResp
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Zero(t, resp.Breakdown.Total)
	assert.Nil(t, resp.Rate)
}

func TestProductController_GetProducts(t *testing.T) {
	s := setupServer(t)
	s.seedRate(t)
	s.seedRing(t, nil)
	s.seedRing(t, nil)

	w, _ := s.do(t, http.MethodGet, "/api/products?category=rings&page_size=1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ProductListResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.Total)
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, 1, resp.PageSize)
}

func TestProductController_GetVariations(t *testing.T) {
	s := setupServer(t)
	s.seedRate(t)
	ring := s.seedRing(t, intPtr(5))

	w, env := s.do(t, http.MethodGet, fmt.Sprintf("/api/products/%d/variations", ring.ID), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ConfigureResp
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	require.NotNil(t, resp.State.Size)
	assert.Equal(t, "12", *resp.State.Size)
	assert.Equal(t, int64(69216), resp.Line.Total)
	assert.True(t, resp.CanAddToCart)
}

func TestProductController_Configure(t *testing.T) {
	s := setupServer(t)
	s.seedRate(t)
	ring := s.seedRing(t, intPtr(5))
	path := fmt.Sprintf("/api/products/%d/configure", ring.ID)

	t.Run("larger size", func(t *testing.T) {
		w, env := s.do(t, http.MethodPost, path, dto.SelectionReq{
			Choices: map[string][]string{"size": {"14"}},
		}, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.ConfigureResp
		require.NoError(t, json.Unmarshal(env.Data, &resp))
		// 10.5g: 63000 + 7560 + 500
		assert.Equal(t, int64(71060), resp.Line.Subtotal)
		assert.Equal(t, int64(2132), resp.Line.GSTAmount)
		assert.Equal(t, int64(73192), resp.Line.Total)
		assert.Equal(t, int64(69216), resp.Base.Total)
	})

	t.Run("unknown option", func(t *testing.T) {
		w, _ := s.do(t, http.MethodPost, path, dto.SelectionReq{
			Choices: map[string][]string{"size": {"30"}},
		}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("engraving too long", func(t *testing.T) {
		w, _ := s.do(t, http.MethodPost, path, dto.SelectionReq{
			Engraving: &dto.EngravingReq{Text: "forever and always yours"},
		}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
