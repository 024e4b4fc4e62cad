// Package goldrate 拉取外部金价源
package goldrate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"goldsmith_store_v1_202610/internal/model"
)

var (
	ErrFeedUnavailable = errors.New("gold rate feed unavailable")
	ErrInvalidQuote    = errors.New("gold rate feed returned an invalid quote")
)

// Quote 金价源响应 (每克单价)
type Quote struct {
	Rate24K decimal.Decimal  `json:"rate_24k"`
	Rate22K decimal.Decimal  `json:"rate_22k"`
	Rate18K *decimal.Decimal `json:"rate_18k"`
	Silver  *decimal.Decimal `json:"silver"`
	Date    string           `json:"date"`
	Source  string           `json:"source"`
}

// Client 金价源客户端
type Client struct {
	http   *resty.Client
	url    string
	apiKey string
}

// NewClient 创建金价源客户端
func NewClient(http *resty.Client, url, apiKey string) *Client {
	return &Client{http: http, url: url, apiKey: apiKey}
}

// FetchCurrent 拉取当前金价
func (c *Client) FetchCurrent(ctx context.Context) (*model.RateSnapshot, error) {
	if c.url == "" {
		return nil, fmt.Errorf("%w: feed url not configured", ErrFeedUnavailable)
	}

	var quote Quote
	req := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetResult(&quote)
	if c.apiKey != "" {
		req.SetHeader("x-api-key", c.apiKey)
	}

	resp, err := req.Get(c.url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d", ErrFeedUnavailable, resp.StatusCode())
	}

	return quote.Snapshot(time.Now())
}

// Snapshot 校验并转换为快照，日期缺失时使用 now
func (q Quote) Snapshot(now time.Time) (*model.RateSnapshot, error) {
	if !q.Rate24K.IsPositive() || !q.Rate22K.IsPositive() {
		return nil, fmt.Errorf("%w: 24k/22k rates must be positive", ErrInvalidQuote)
	}

	effective := now
	if q.Date != "" {
		parsed, err := parseDate(q.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidQuote, err)
		}
		effective = parsed.UTC()
	}

	source := strings.TrimSpace(q.Source)
	if source == "" {
		source = "feed"
	}

	return &model.RateSnapshot{
		Rate24K:       q.Rate24K,
		Rate22K:       q.Rate22K,
		Rate18K:       positiveOrNil(q.Rate18K),
		Silver:        positiveOrNil(q.Silver),
		EffectiveDate: effective,
		Source:        source,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}

func positiveOrNil(d *decimal.Decimal) *decimal.Decimal {
	if d == nil || !d.IsPositive() {
		return nil
	}
	v := *d
	return &v
}
