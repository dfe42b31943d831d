package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// Backend tests run against live services when their URL is exported:
//
//	RUNMAP_TEST_REDIS=redis://localhost:6379/15
//	RUNMAP_TEST_MONGO=mongodb://localhost:27017
func openBackend(t *testing.T, env string) Cache {
	t.Helper()
	url := os.Getenv(env)
	if url == "" {
		t.Skipf("%s not set", env)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	c, err := Open(ctx, url)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func exerciseBackend(t *testing.T, c Cache) {
	ctx := context.Background()
	key := "runmap-test:" + t.Name()
	_ = c.Delete(ctx, key)

	if _, hit, err := c.Get(ctx, key); hit || err != nil {
		t.Fatalf("fresh key: hit=%v err=%v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("payload"), time.Minute); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "payload" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("deleted key still hits")
	}
}

func TestRedisCache(t *testing.T) {
	exerciseBackend(t, openBackend(t, "RUNMAP_TEST_REDIS"))
}

func TestMongoCache(t *testing.T) {
	exerciseBackend(t, openBackend(t, "RUNMAP_TEST_MONGO"))
}
