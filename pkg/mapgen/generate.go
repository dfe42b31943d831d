// Package mapgen runs the complete generation pass and the cache-aware
// runner the CLI and the preview server share.
//
// A pass is layout, connect, allocate and validate, in that order, over one
// RNG:
//
//	cfg := mapgen.DefaultConfig()
//	m, res, err := mapgen.Generate(cfg, 42, nil, nil)
//
// Generate does no I/O. [Runner] adds caching, logging and observability
// hooks on top.
package mapgen

import (
	"fmt"

	"github.com/google/uuid"

	rerrors "github.com/matzehuels/runmap/pkg/errors"
	"github.com/matzehuels/runmap/pkg/runmap"
	"github.com/matzehuels/runmap/pkg/runmap/connect"
	"github.com/matzehuels/runmap/pkg/runmap/layout"
	"github.com/matzehuels/runmap/pkg/runmap/slot"
)

// MapNamespace is the UUID namespace of map IDs.
var MapNamespace = uuid.MustParse("8f0c6f0e-3b8e-4f0a-9a5e-2d7c1e6b4a10")

// MapID returns the deterministic ID of the map generated from configHash
// and seed.
func MapID(configHash string, seed uint64) string {
	return uuid.NewSHA1(MapNamespace, fmt.Appendf(nil, "%s:%d", configHash, seed)).String()
}

// Generate builds a complete map from cfg. rng defaults to runmap.NewRand(seed)
// and diag may be nil.
//
// Soft misses are reported through diag and the returned slot.Result. Fatal
// errors, contradicting fixed floors or a map failing validation, return a
// nil map.
func Generate(cfg Config, seed uint64, rng runmap.Rand, diag *runmap.Diagnostics) (*runmap.Map, slot.Result, error) {
	cfg = cfg.Normalize()
	if rng == nil {
		rng = runmap.NewRand(seed)
	}

	m := runmap.New(layout.Counts(cfg.Layout, rng))
	m.Seed = seed
	m.ID = MapID(cfg.Hash(), seed)

	connect.Connect(m, cfg.Connect, rng, diag)

	res, err := slot.Allocate(m, cfg.Slots, rng, diag)
	if err != nil {
		return nil, res, err
	}
	if err := m.Validate(); err != nil {
		return nil, res, rerrors.Wrap(rerrors.ErrCodeInternal, err, "generated map %s", m.ID)
	}
	return m, res, nil
}
