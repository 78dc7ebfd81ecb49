package services

import (
	"context"
	"encoding/json"
	"fmt"

	"showwise/internal/notify"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "showwise:notifications:"

// RedisTracker keeps the notification record in one Redis hash per event, field per
// kind, so several app instances share it
type RedisTracker struct {
	rdb *redis.Client
}

func NewRedisTracker(rdb *redis.Client) *RedisTracker {
	return &RedisTracker{rdb: rdb}
}

// InitRedis connects to Redis and verifies the connection
func InitRedis(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return rdb, nil
}

func redisKey(eventID uint) string {
	return fmt.Sprintf("%s%d", redisKeyPrefix, eventID)
}

func (t *RedisTracker) IsSent(ctx context.Context, eventID uint, kind notify.Kind) (bool, error) {
	ok, err := t.rdb.HExists(ctx, redisKey(eventID), string(kind)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check notification record: %w", err)
	}
	return ok, nil
}

// MarkSent uses HSETNX so the first delivery recorded for a pair wins
func (t *RedisTracker) MarkSent(ctx context.Context, d notify.Delivery) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode delivery: %w", err)
	}
	if err := t.rdb.HSetNX(ctx, redisKey(d.EventID), string(d.Kind), payload).Err(); err != nil {
		return fmt.Errorf("failed to record notification: %w", err)
	}
	return nil
}

func (t *RedisTracker) Deliveries(ctx context.Context, eventID uint) ([]notify.Delivery, error) {
	fields, err := t.rdb.HGetAll(ctx, redisKey(eventID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load notification records: %w", err)
	}

	var deliveries []notify.Delivery
	for _, kind := range notify.Kinds() {
		raw, ok := fields[string(kind)]
		if !ok {
			continue
		}
		var d notify.Delivery
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			return nil, fmt.Errorf("failed to decode %s record of event %d: %w", kind, eventID, err)
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, nil
}
