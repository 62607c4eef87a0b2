package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

// AvailabilityCache はスクリーンごとの空き時間帯ビューのキャッシュを管理する
// 値はシリアライズ済みのレスポンス（JSON）をそのまま保持する
type AvailabilityCache struct {
	client *redis.Client
}

// NewAvailabilityCache は新しいAvailabilityCacheインスタンスを作成する
func NewAvailabilityCache(client *redis.Client) *AvailabilityCache {
	return &AvailabilityCache{client: client}
}

// Get は指定スクリーン・日付の空き時間帯をキャッシュから取得する
func (c *AvailabilityCache) Get(ctx context.Context, screenID string, date time.Time) ([]byte, error) {
	val, err := c.client.Get(ctx, c.key(screenID, date)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	return val, nil
}

// Set は空き時間帯をキャッシュに保存する
func (c *AvailabilityCache) Set(ctx context.Context, screenID string, date time.Time, payload []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(screenID, date), payload, ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate は指定スクリーンの該当日付のキャッシュを無効化する
// 予約の作成・確定・キャンセル・失効のたびに呼び出される
func (c *AvailabilityCache) Invalidate(ctx context.Context, screenID string, days ...time.Time) error {
	if len(days) == 0 {
		return nil
	}
	keys := make([]string, len(days))
	for i, d := range days {
		keys[i] = c.key(screenID, d)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func (c *AvailabilityCache) key(screenID string, date time.Time) string {
	return fmt.Sprintf("availability:%s:%s", screenID, date.Format("2006-01-02"))
}
