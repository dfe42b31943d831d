package cli

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"

	rerrors "github.com/matzehuels/runmap/pkg/errors"
	"github.com/matzehuels/runmap/pkg/mapgen"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	config   string // config file (.toml, .yaml, .yml, .json)
	seed     string // decimal or 0x-prefixed seed; random when empty
	output   string // output path; derived from the seed when empty
	format   string // json, dot or svg
	detailed bool   // detailed labels in dot/svg
	cache    string // cache location; "" is the local file cache
	refresh  bool   // skip the cache lookup
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	opts := generateOpts{format: mapgen.FormatJSON}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a run map",
		Long: `Generate a run map from a config file and a seed.

The same config and seed always produce the same map. Maps are cached
locally; use --cache none to disable caching or pass a redis:// or
mongodb:// URL to share a cache.`,
		Example: `  runmap generate --seed 42
  runmap generate --config act2.toml --seed 0x2a --format svg -o act2.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "config file (toml, yaml or json)")
	cmd.Flags().StringVarP(&opts.seed, "seed", "s", "", "seed, decimal or 0x hex (default random)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default map-<seed>.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: json, dot, svg")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label nodes with type and id (dot, svg)")
	cmd.Flags().StringVar(&opts.cache, "cache", "", "cache location: none, a directory, redis:// or mongodb:// URL")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "regenerate even if the map is cached")

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, opts generateOpts) error {
	ctx := cmd.Context()
	format, err := rerrors.ValidateFormat(opts.format, mapgen.ArtifactFormats...)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(opts.config)
	if err != nil {
		return err
	}
	seed, err := parseSeedFlag(opts.seed, rand.Uint64())
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	out, cached, err := runner.GenerateWithCacheInfo(ctx, mapgen.Options{Config: cfg, Seed: seed, Refresh: opts.refresh})
	if err != nil {
		return err
	}
	data, err := runner.Render(ctx, out.Map, format, opts.detailed)
	if err != nil {
		return err
	}

	path := opts.output
	if path == "" {
		path = fmt.Sprintf("map-%d.%s", seed, format)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return rerrors.Wrap(rerrors.ErrCodeInvalidPath, err, "write %s", path)
	}

	m := out.Map
	printSuccess("Generated map %s", StyleHighlight.Render(m.ID))
	printStats(m.FloorCount(), m.NodeCount(), m.EdgeCount(), cached)
	printKeyValue("seed", fmt.Sprint(seed))
	printTypeCounts(m, &out.Result)
	if n := len(out.Misses); n > 0 {
		printWarning("%d soft misses (run with -v for details)", n)
		for _, miss := range out.Misses {
			c.Logger.Debug(miss.Message, "stage", miss.Stage)
		}
	}
	printFile(path)
	printNewline()
	if format == mapgen.FormatJSON {
		printNextStep("Preview it", fmt.Sprintf("%s render %s -f svg", appName, path))
	}
	return nil
}
