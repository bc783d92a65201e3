package telephony

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StatusCache keeps the most recent provider status per call in redis
// with a TTL. It exists for operator visibility; nothing reads it on
// the request path.
type StatusCache struct {
	rdb *redis.Client
	ttl time.Duration

	clock func() time.Time
}

func NewStatusCache(rdb *redis.Client, ttl time.Duration) *StatusCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &StatusCache{rdb: rdb, ttl: ttl, clock: time.Now}
}

type statusValue struct {
	CallStatus string    `json:"callStatus"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// Record stores the latest status for a call. Best-effort: callers
// should log failures and keep going.
func (c *StatusCache) Record(ctx context.Context, callSid, callStatus string) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	if callSid == "" {
		return fmt.Errorf("telephony: call sid is required")
	}

	key := fmt.Sprintf("call:%s:status", callSid)
	b, err := json.Marshal(statusValue{CallStatus: callStatus, ReceivedAt: c.clock().UTC()})
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}

// Last returns the most recent recorded status for a call, if any.
func (c *StatusCache) Last(ctx context.Context, callSid string) (string, bool, error) {
	if c == nil || c.rdb == nil {
		return "", false, nil
	}
	key := fmt.Sprintf("call:%s:status", callSid)
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, err
	}
	var v statusValue
	if err := json.Unmarshal(b, &v); err != nil {
		return "", false, err
	}
	return v.CallStatus, true, nil
}
