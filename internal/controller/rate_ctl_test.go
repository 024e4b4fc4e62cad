package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goldsmith_store_v1_202610/internal/middleware"
	"goldsmith_store_v1_202610/internal/model"
)

func TestRateController_Current(t *testing.T) {
	s := setupServer(t)

	w, _ := s.do(t, http.MethodGet, "/api/rates/current", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	s.seedRate(t)
	w, env := s.do(t, http.MethodGet, "/api/rates/current", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var snap model.RateSnapshot
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.True(t, snap.Rate22K.Equal(dec("6000")))
}

func TestRateController_History(t *testing.T) {
	s := setupServer(t)
	s.seedRate(t)

	w, env := s.do(t, http.MethodGet, "/api/rates/history?days=7", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var history []model.RateSnapshot
	require.NoError(t, json.Unmarshal(env.Data, &history))
	assert.Len(t, history, 1)

	w, _ = s.do(t, http.MethodGet, "/api/rates/history?days=week", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRateController_Record(t *testing.T) {
	s := setupServer(t)
	body := map[string]interface{}{"rate_24k": "7000", "rate_22k": "6400"}

	w, _ := s.do(t, http.MethodPost, "/api/rates", body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/rates", body, bearer(t, 1, middleware.RoleCustomer))
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := bearer(t, 1, middleware.RoleAdmin)
	w, env := s.do(t, http.MethodPost, "/api/rates", body, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var snap model.RateSnapshot
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.Equal(t, "manual", snap.Source)

	w, _ = s.do(t, http.MethodPost, "/api/rates", map[string]interface{}{"rate_24k": "0", "rate_22k": "6400"}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRateController_Sync(t *testing.T) {
	s := setupServer(t)
	middleware.ResetSyncLimit(middleware.SyncTypeRate)
	t.Cleanup(func() { middleware.ResetSyncLimit(middleware.SyncTypeRate) })
	admin := bearer(t, 1, middleware.RoleAdmin)

	s.syncer.err = errors.New("feed timeout")
	w, _ := s.do(t, http.MethodPost, "/api/rates/sync", nil, admin)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	s.syncer.err = nil
	s.syncer.snap = &model.RateSnapshot{Rate24K: dec("7000"), Rate22K: dec("6400"), Source: "feed"}
	w, _ = s.do(t, http.MethodPost, "/api/rates/sync", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)

	// 成功后进入冷却
	w, _ = s.do(t, http.MethodPost, "/api/rates/sync", nil, admin)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, 2, s.syncer.calls)
}
