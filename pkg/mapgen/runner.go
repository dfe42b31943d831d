package mapgen

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/runmap/pkg/cache"
	rerrors "github.com/matzehuels/runmap/pkg/errors"
	"github.com/matzehuels/runmap/pkg/mapio"
	"github.com/matzehuels/runmap/pkg/observability"
	"github.com/matzehuels/runmap/pkg/render/dot"
	"github.com/matzehuels/runmap/pkg/runmap"
	"github.com/matzehuels/runmap/pkg/runmap/slot"
)

// Artifact formats produced by [Runner.Render].
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// ArtifactFormats lists every format [Runner.Render] accepts.
var ArtifactFormats = []string{FormatJSON, FormatDOT, FormatSVG}

// Options selects one generation.
type Options struct {
	Config Config
	Seed   uint64
	// Refresh skips the cache lookup. The fresh map is still stored.
	Refresh bool
}

// Output is a generated map with its allocation report.
type Output struct {
	Map    *runmap.Map   `json:"-"`
	Result slot.Result   `json:"result"`
	Misses []runmap.Miss `json:"misses,omitempty"`
}

// cachedOutput is the cache payload of an Output.
type cachedOutput struct {
	Map json.RawMessage `json:"map"`
	Output
}

// Runner encapsulates generation with caching.
// Both CLI and server use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Every call builds
// its own RNG, so multiple goroutines can safely share one Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// GenerateWithCacheInfo generates the map for opts and reports whether it
// came from the cache.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, opts Options) (*Output, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, rerrors.Wrap(rerrors.ErrCodeTimeout, err, "generate seed %d", opts.Seed)
	}
	cfg := opts.Config.Normalize()
	key := r.Keyer.MapKey(cfg.Hash(), opts.Seed)
	logger := r.Logger.With("seed", opts.Seed)

	if !opts.Refresh {
		if out, ok := r.lookup(ctx, key); ok {
			logger.Debug("map cache hit", "id", out.Map.ID)
			return out, true, nil
		}
	}

	start := time.Now()
	observability.Generate().OnGenerateStart(ctx, opts.Seed)
	diag := runmap.NewDiagnostics(logger)
	m, res, err := Generate(cfg, opts.Seed, nil, diag)
	duration := time.Since(start)
	if err != nil {
		observability.Generate().OnGenerateComplete(ctx, opts.Seed, 0, diag.Count(""), duration, err)
		return nil, false, err
	}
	observability.Generate().OnGenerateComplete(ctx, opts.Seed, m.NodeCount(), diag.Count(""), duration, nil)

	out := &Output{Map: m, Result: res, Misses: diag.Misses}
	logger.Info("generated map",
		"id", m.ID,
		"floors", m.FloorCount(),
		"nodes", m.NodeCount(),
		"misses", len(out.Misses),
		"duration", duration)

	r.store(ctx, key, out)
	return out, false, nil
}

// Generate is a convenience wrapper that calls GenerateWithCacheInfo and discards the cache hit info.
func (r *Runner) Generate(ctx context.Context, opts Options) (*Output, error) {
	out, _, err := r.GenerateWithCacheInfo(ctx, opts)
	return out, err
}

func (r *Runner) lookup(ctx context.Context, key string) (*Output, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "map")
		return nil, false
	}
	var cached cachedOutput
	if err := json.Unmarshal(data, &cached); err != nil {
		observability.Cache().OnCacheMiss(ctx, "map")
		return nil, false
	}
	m, err := mapio.UnmarshalMap(cached.Map)
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, "map")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "map")
	out := cached.Output
	out.Map = m
	return &out, true
}

func (r *Runner) store(ctx context.Context, key string, out *Output) {
	mapData, err := mapio.MarshalMap(out.Map)
	if err != nil {
		return
	}
	data, err := json.Marshal(cachedOutput{Map: mapData, Output: *out})
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLMap); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "map", len(data))
}

// RenderWithCacheInfo encodes m in format (json, dot or svg) with caching
// and returns cache hit info. detailed only affects dot and svg.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, m *runmap.Map, format string, detailed bool) ([]byte, bool, error) {
	format, err := rerrors.ValidateFormat(format, ArtifactFormats...)
	if err != nil {
		return nil, false, err
	}
	mapData, err := mapio.MarshalMap(m)
	if err != nil {
		return nil, false, fmt.Errorf("serialize map for cache key: %w", err)
	}
	if format == FormatJSON {
		return mapData, false, nil
	}

	key := r.Keyer.ArtifactKey(cache.Hash(mapData), cache.ArtifactKeyOpts{Format: format, Detail: detailed})
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	data := []byte(dot.ToDOT(m, dot.Options{Detailed: detailed}))
	if format == FormatSVG {
		if data, err = dot.RenderSVG(ctx, string(data)); err != nil {
			return nil, false, rerrors.Wrap(rerrors.ErrCodeInternal, err, "render svg")
		}
	}

	if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return data, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, m *runmap.Map, format string, detailed bool) ([]byte, error) {
	data, _, err := r.RenderWithCacheInfo(ctx, m, format, detailed)
	return data, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
