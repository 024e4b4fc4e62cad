package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"goldsmith_store_v1_202610/internal/model"
)

// DefaultGuestCartTTL 游客购物车默认保留时长
const DefaultGuestCartTTL = 7 * 24 * time.Hour

// ==================== 临时层 (redis) ====================

// 每个游客一个 hash：field = 行 ID，value = 行 JSON
type guestCartRepo struct {
	client  redis.UniversalClient
	baseTTL time.Duration
}

// NewGuestCartRepository 创建游客购物车仓储
func NewGuestCartRepository(client redis.UniversalClient, ttl time.Duration) CartRepository {
	if ttl <= 0 {
		ttl = DefaultGuestCartTTL
	}
	return &guestCartRepo{client: client, baseTTL: ttl}
}

func (r *guestCartRepo) ListLines(ctx context.Context, ownerID string) ([]model.CartItem, error) {
	raw, err := r.client.HGetAll(ctx, guestCartKey(ownerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall failed: %w", err)
	}

	lines := make([]model.CartItem, 0, len(raw))
	for field, data := range raw {
		var line model.CartItem
		if err := json.Unmarshal([]byte(data), &line); err != nil {
			return nil, fmt.Errorf("unmarshal cart line %s failed: %w", field, err)
		}
		lines = append(lines, line)
	}

	sort.Slice(lines, func(i, j int) bool {
		if lines[i].CreatedAt.Equal(lines[j].CreatedAt) {
			return lines[i].ID < lines[j].ID
		}
		return lines[i].CreatedAt.Before(lines[j].CreatedAt)
	})
	return lines, nil
}

func (r *guestCartRepo) FindLine(ctx context.Context, ownerID string, productID int64, signature string) (*model.CartItem, error) {
	lines, err := r.ListLines(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for i := range lines {
		if lines[i].ProductID == productID && lines[i].Signature == signature {
			return &lines[i], nil
		}
	}
	return nil, ErrCartLineNotFound
}

func (r *guestCartRepo) GetLine(ctx context.Context, ownerID, lineID string) (*model.CartItem, error) {
	data, err := r.client.HGet(ctx, guestCartKey(ownerID), lineID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCartLineNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis hget failed: %w", err)
	}

	var line model.CartItem
	if err := json.Unmarshal(data, &line); err != nil {
		return nil, fmt.Errorf("unmarshal cart line failed: %w", err)
	}
	return &line, nil
}

// SaveLine 写入行并刷新整车 TTL (MULTI/EXEC)
func (r *guestCartRepo) SaveLine(ctx context.Context, item *model.CartItem) error {
	item.UpdatedAt = time.Now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = item.UpdatedAt
	}

	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal cart line failed: %w", err)
	}

	key := guestCartKey(item.OwnerID)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, item.ID, data)
		pipe.Expire(ctx, key, r.ttl())
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save line failed: %w", err)
	}
	return nil
}

func (r *guestCartRepo) DeleteLine(ctx context.Context, ownerID, lineID string) error {
	if err := r.client.HDel(ctx, guestCartKey(ownerID), lineID).Err(); err != nil {
		return fmt.Errorf("redis hdel failed: %w", err)
	}
	return nil
}

func (r *guestCartRepo) Clear(ctx context.Context, ownerID string) error {
	if err := r.client.Del(ctx, guestCartKey(ownerID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// ttl 基础 TTL 加随机抖动，避免同时过期
func (r *guestCartRepo) ttl() time.Duration {
	jitter := time.Duration(rand.Intn(60)) * time.Minute
	return r.baseTTL + jitter
}

func guestCartKey(guestID string) string {
	return fmt.Sprintf("cart:guest:%s", guestID)
}
