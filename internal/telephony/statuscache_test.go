package telephony

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestStatusCache_RecordAndLast(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewStatusCache(rdb, time.Hour)
	ctx := context.Background()

	if err := c.Record(ctx, "CA123", "ringing"); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if err := c.Record(ctx, "CA123", "completed"); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	status, ok, err := c.Last(ctx, "CA123")
	if err != nil {
		t.Fatalf("last failed: %v", err)
	}
	if !ok || status != "completed" {
		t.Fatalf("expected latest status, got %q (found=%v)", status, ok)
	}

	_, ok, err = c.Last(ctx, "CA999")
	if err != nil {
		t.Fatalf("last failed: %v", err)
	}
	if ok {
		t.Fatalf("expected no status for unknown call")
	}
}

func TestStatusCache_NilReceiverIsNoop(t *testing.T) {
	var c *StatusCache
	if err := c.Record(context.Background(), "CA123", "ringing"); err != nil {
		t.Fatalf("expected noop, got %v", err)
	}
}

func TestStatusCache_RequiresCallSid(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewStatusCache(rdb, time.Hour)

	if err := c.Record(context.Background(), "", "ringing"); err == nil {
		t.Fatalf("expected error for empty call sid")
	}
}
