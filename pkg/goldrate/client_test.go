package goldrate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FetchCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rate_24k": 6500.5, "rate_22k": "6000", "rate_18k": 0, "silver": 82, "date": "2026-10-14", "source": "mcx"}`))
	}))
	defer srv.Close()

	client := NewClient(resty.New(), srv.URL, "secret")
	snap, err := client.FetchCurrent(context.Background())
	require.NoError(t, err)

	assert.True(t, snap.Rate24K.Equal(decimal.RequireFromString("6500.5")))
	assert.True(t, snap.Rate22K.Equal(decimal.NewFromInt(6000)))
	assert.Nil(t, snap.Rate18K, "zero 18k rate falls back to derivation")
	require.NotNil(t, snap.Silver)
	assert.Equal(t, "mcx", snap.Source)
	assert.Equal(t, time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC), snap.EffectiveDate)
}

func TestClient_FetchCurrentErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/down" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rate_24k": 0, "rate_22k": 6000}`))
	}))
	defer srv.Close()

	_, err := NewClient(resty.New(), srv.URL+"/down", "").FetchCurrent(context.Background())
	assert.True(t, errors.Is(err, ErrFeedUnavailable))

	_, err = NewClient(resty.New(), srv.URL+"/bad", "").FetchCurrent(context.Background())
	assert.True(t, errors.Is(err, ErrInvalidQuote))

	_, err = NewClient(resty.New(), "", "").FetchCurrent(context.Background())
	assert.True(t, errors.Is(err, ErrFeedUnavailable))
}

func TestQuote_SnapshotDefaults(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
	snap, err := Quote{Rate24K: decimal.NewFromInt(6500), Rate22K: decimal.NewFromInt(6000)}.Snapshot(now)
	require.NoError(t, err)
	assert.Equal(t, now, snap.EffectiveDate)
	assert.Equal(t, "feed", snap.Source)

	_, err = Quote{Rate24K: decimal.NewFromInt(1), Rate22K: decimal.NewFromInt(1), Date: "yesterday"}.Snapshot(now)
	assert.ErrorIs(t, err, ErrInvalidQuote)
}
