package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestNilEntityNeverHits(t *testing.T) {
	c := NewEntity[item](nil, "funko:", time.Minute, nil)
	if c != nil {
		t.Fatal("expected nil cache without a client")
	}
	ctx := context.Background()
	c.Set(ctx, "1", item{ID: "1"})
	if _, ok := c.Get(ctx, "1"); ok {
		t.Error("nil cache hit")
	}
	c.Delete(ctx, "1")
	c.Clear(ctx)
}

func testRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: redis not reachable: %v", err)
	}
	t.Cleanup(func() {
		keys, _ := client.Keys(context.Background(), "test:funko:*").Result()
		if len(keys) > 0 {
			client.Del(context.Background(), keys...)
		}
		client.Close()
	})
	return client
}

func TestEntityRoundTrip(t *testing.T) {
	c := NewEntity[item](testRedisClient(t), "test:funko:", time.Minute, nil)
	ctx := context.Background()

	if _, ok := c.Get(ctx, "42"); ok {
		t.Fatal("unexpected hit on empty cache")
	}
	c.Set(ctx, "42", item{ID: "42", Name: "Groot"})
	got, ok := c.Get(ctx, "42")
	if !ok || got.Name != "Groot" {
		t.Fatalf("Get = %+v, %v", got, ok)
	}
	c.Delete(ctx, "42")
	if _, ok := c.Get(ctx, "42"); ok {
		t.Error("hit after delete")
	}
}

func TestEntityClear(t *testing.T) {
	client := testRedisClient(t)
	c := NewEntity[item](client, "test:funko:", time.Minute, nil)
	other := NewEntity[item](client, "test:other:", time.Minute, nil)
	t.Cleanup(func() { other.Delete(context.Background(), "1") })
	ctx := context.Background()

	c.Set(ctx, "1", item{ID: "1"})
	c.Set(ctx, "2", item{ID: "2"})
	other.Set(ctx, "1", item{ID: "1"})

	c.Clear(ctx)
	for _, key := range []string{"1", "2"} {
		if _, ok := c.Get(ctx, key); ok {
			t.Errorf("%s survived Clear", key)
		}
	}
	if _, ok := other.Get(ctx, "1"); !ok {
		t.Error("Clear removed entries of another prefix")
	}
}
