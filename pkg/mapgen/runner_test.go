package mapgen

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/runmap/pkg/cache"
	rerrors "github.com/matzehuels/runmap/pkg/errors"
	"github.com/matzehuels/runmap/pkg/mapio"
)

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, log.New(io.Discard))
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestRunnerCachesMaps(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	opts := Options{Config: DefaultConfig(), Seed: 5}

	first, hit, err := r.GenerateWithCacheInfo(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("first generation reported a cache hit")
	}

	second, hit, err := r.GenerateWithCacheInfo(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !hit {
		t.Error("second generation missed the cache")
	}

	a, _ := mapio.MarshalMap(first.Map)
	b, _ := mapio.MarshalMap(second.Map)
	if diff := cmp.Diff(string(a), string(b)); diff != "" {
		t.Errorf("cached map differs (-fresh +cached):\n%s", diff)
	}
	if diff := cmp.Diff(first.Result, second.Result); diff != "" {
		t.Errorf("cached result differs (-fresh +cached):\n%s", diff)
	}
	if len(first.Misses) != len(second.Misses) {
		t.Errorf("misses = %d, cached %d", len(first.Misses), len(second.Misses))
	}

	opts.Refresh = true
	if _, hit, _ := r.GenerateWithCacheInfo(ctx, opts); hit {
		t.Error("refresh should bypass the cache")
	}
}

func TestRunnerWithoutCache(t *testing.T) {
	r := NewRunner(nil, nil, log.New(io.Discard))
	out, err := r.Generate(context.Background(), Options{Config: DefaultConfig(), Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	if out.Map == nil || out.Map.Seed != 1 {
		t.Fatalf("unexpected output %+v", out)
	}
}

func TestRunnerCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(nil, nil, log.New(io.Discard)).Generate(ctx, Options{Config: DefaultConfig()})
	if !rerrors.Is(err, rerrors.ErrCodeTimeout) {
		t.Errorf("got %v, want TIMEOUT", err)
	}
}

func TestRunnerRender(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	out, err := r.Generate(ctx, Options{Config: DefaultConfig(), Seed: 3})
	if err != nil {
		t.Fatal(err)
	}

	data, hit, err := r.RenderWithCacheInfo(ctx, out.Map, "DOT", false)
	if err != nil {
		t.Fatal(err)
	}
	if hit || !strings.HasPrefix(string(data), "digraph G {") {
		t.Errorf("first render: hit=%v data=%.20q", hit, data)
	}
	if _, hit, _ := r.RenderWithCacheInfo(ctx, out.Map, "dot", false); !hit {
		t.Error("second render missed the cache")
	}
	if _, hit, _ := r.RenderWithCacheInfo(ctx, out.Map, "dot", true); hit {
		t.Error("detailed render should use its own key")
	}

	data, err = r.Render(ctx, out.Map, "json", false)
	if err != nil {
		t.Fatal(err)
	}
	if m, err := mapio.UnmarshalMap(data); err != nil || m.ID != out.Map.ID {
		t.Errorf("json render: %v", err)
	}

	if _, err := r.Render(ctx, out.Map, "gif", false); !rerrors.Is(err, rerrors.ErrCodeInvalidFormat) {
		t.Errorf("gif: got %v, want INVALID_FORMAT", err)
	}
}
