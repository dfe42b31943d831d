package cli

import (
	"context"
	"fmt"
	"maps"
	"os"
	"runtime"
	"slices"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	rerrors "github.com/matzehuels/runmap/pkg/errors"
	"github.com/matzehuels/runmap/pkg/mapgen"
	"github.com/matzehuels/runmap/pkg/runmap"
	"github.com/matzehuels/runmap/pkg/runmap/slot"
)

// statsOpts holds the command-line flags for the stats command.
type statsOpts struct {
	config  string
	seed    string // first seed
	count   int    // number of consecutive seeds
	workers int
}

// seedStats is the outcome of generating one seed.
type seedStats struct {
	Seed      uint64
	Nodes     int
	Edges     int
	Crossings int
	Counts    map[runmap.NodeType]int
	Shortfall map[runmap.NodeType]int
	Misses    []runmap.Miss
	Err       error
}

// typeSummary aggregates one node type over all successful runs.
type typeSummary struct {
	Type      runmap.NodeType
	Min, Max  int
	Mean      float64
	Shortfall int // runs that placed fewer than requested
}

// statsSummary aggregates a stats run.
type statsSummary struct {
	Runs      int
	Failures  int
	Crossings int
	Types     []typeSummary
	Misses    map[string]int // by stage
}

// statsCommand creates the stats command.
func (c *CLI) statsCommand() *cobra.Command {
	opts := statsOpts{count: 200, workers: runtime.GOMAXPROCS(0)}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Generate many seeds and summarize the results",
		Long: `Stats generates --count consecutive seeds in parallel and prints how many
nodes of each type were placed, how often a type fell short of its drawn
count, and which generator stages recorded soft misses.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStats(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "config file (toml, yaml or json)")
	cmd.Flags().StringVarP(&opts.seed, "seed", "s", "", "first seed (default 0)")
	cmd.Flags().IntVarP(&opts.count, "count", "n", opts.count, "number of seeds")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", opts.workers, "parallel workers")

	return cmd
}

func (c *CLI) runStats(ctx context.Context, opts statsOpts) error {
	if opts.count < 1 {
		return rerrors.New(rerrors.ErrCodeInvalidInput, "--count must be positive")
	}
	cfg, err := loadConfig(opts.config)
	if err != nil {
		return err
	}
	first, err := parseSeedFlag(opts.seed, 0)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, os.Stderr, fmt.Sprintf("Generating 0/%d maps", opts.count))
	spinner.Start()
	results, err := collectStats(ctx, cfg, first, opts.count, opts.workers, func(done int) {
		spinner.SetMessage(fmt.Sprintf("Generating %d/%d maps", done, opts.count))
	})
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Generated %d maps", opts.count))

	for _, r := range results {
		if r.Err != nil {
			c.Logger.Warn("generation failed", "seed", r.Seed, "error", r.Err)
		}
	}

	sum := summarize(results)
	fmt.Println(StyleTitle.Render(fmt.Sprintf("Seeds %d..%d", first, first+uint64(opts.count)-1)))
	fmt.Println(typeTable(sum).Render())
	if len(sum.Misses) > 0 {
		fmt.Println(missTable(sum).Render())
	}
	if sum.Crossings > 0 {
		printError("%d edge crossings across all maps", sum.Crossings)
	}
	if sum.Failures > 0 {
		printWarning("%d of %d seeds failed", sum.Failures, sum.Runs)
	} else {
		printSuccess("All %d maps valid", sum.Runs)
	}
	return nil
}

// collectStats generates count seeds starting at first with up to workers
// goroutines. Each run owns its RNG and diagnostics. onDone is called after
// every finished run with the number of finished runs.
func collectStats(ctx context.Context, cfg mapgen.Config, first uint64, count, workers int, onDone func(int)) ([]seedStats, error) {
	results := make([]seedStats, count)
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i := range count {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = runSeed(cfg, first+uint64(i))
			if onDone != nil {
				onDone(int(done.Add(1)))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, rerrors.Wrap(rerrors.ErrCodeTimeout, err, "stats interrupted")
	}
	return results, nil
}

func runSeed(cfg mapgen.Config, seed uint64) seedStats {
	diag := runmap.NewDiagnostics(nil)
	m, res, err := mapgen.Generate(cfg, seed, nil, diag)
	s := seedStats{Seed: seed, Misses: diag.Misses, Err: err}
	if err != nil {
		return s
	}
	s.Nodes, s.Edges = m.NodeCount(), m.EdgeCount()
	s.Crossings = runmap.CountCrossings(m)
	s.Counts = make(map[runmap.NodeType]int, len(runmap.NodeTypes))
	s.Shortfall = make(map[runmap.NodeType]int, len(slot.Order))
	for _, t := range runmap.NodeTypes {
		s.Counts[t] = m.CountType(t)
	}
	for _, t := range slot.Order {
		s.Shortfall[t] = res.Shortfall(t)
	}
	return s
}

func summarize(results []seedStats) statsSummary {
	sum := statsSummary{Runs: len(results), Misses: make(map[string]int)}
	ok := 0
	for _, r := range results {
		for _, miss := range r.Misses {
			sum.Misses[miss.Stage]++
		}
		if r.Err != nil {
			sum.Failures++
			continue
		}
		ok++
		sum.Crossings += r.Crossings
	}

	for _, t := range runmap.NodeTypes {
		ts := typeSummary{Type: t}
		total, seen := 0, false
		for _, r := range results {
			if r.Err != nil {
				continue
			}
			n := r.Counts[t]
			if !seen || n < ts.Min {
				ts.Min = n
			}
			if !seen || n > ts.Max {
				ts.Max = n
			}
			seen = true
			total += n
			if r.Shortfall[t] > 0 {
				ts.Shortfall++
			}
		}
		if ok > 0 {
			ts.Mean = float64(total) / float64(ok)
		}
		sum.Types = append(sum.Types, ts)
	}
	return sum
}

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)

func newStatsTable(headers ...string) *table.Table {
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			if col > 0 {
				return cell.Foreground(colorCyan).Align(lipgloss.Right)
			}
			return cell
		})
}

func typeTable(sum statsSummary) *table.Table {
	t := newStatsTable("Type", "Min", "Mean", "Max", "Short runs")
	for _, ts := range sum.Types {
		t.Row(
			typeStyles[ts.Type].Render(ts.Type.String()),
			fmt.Sprint(ts.Min),
			fmt.Sprintf("%.2f", ts.Mean),
			fmt.Sprint(ts.Max),
			fmt.Sprint(ts.Shortfall),
		)
	}
	return t
}

func missTable(sum statsSummary) *table.Table {
	t := newStatsTable("Stage", "Misses", "Per map")
	for _, stage := range slices.Sorted(maps.Keys(sum.Misses)) {
		n := sum.Misses[stage]
		t.Row(stage, fmt.Sprint(n), fmt.Sprintf("%.2f", float64(n)/float64(max(sum.Runs, 1))))
	}
	return t
}
