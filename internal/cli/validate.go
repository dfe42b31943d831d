package cli

import (
	"github.com/spf13/cobra"

	rerrors "github.com/matzehuels/runmap/pkg/errors"
	"github.com/matzehuels/runmap/pkg/mapio"
	"github.com/matzehuels/runmap/pkg/runmap"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <map.json>",
		Short: "Check a stored map's structure and edge crossings",
		Long: `Validate loads a stored map, checks its structural invariants (consecutive
floor edges, no dead ends, no unreachable nodes, a single boss) and counts
crossing edges between floors. A map with crossings is reported as invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := mapio.ImportJSON(args[0])
			if err != nil {
				return err
			}
			if err := checkCrossings(m); err != nil {
				return err
			}
			printSuccess("%s is valid", args[0])
			printStats(m.FloorCount(), m.NodeCount(), m.EdgeCount(), false)
			printTypeCounts(m, nil)
			return nil
		},
	}
}

// checkCrossings reports every pair of floors whose edges cross.
func checkCrossings(m *runmap.Map) error {
	total := 0
	for f := 0; f+1 < len(m.Floors); f++ {
		if n := runmap.CountLayerCrossings(m.Floors[f], m.Floors[f+1]); n > 0 {
			printError("%d crossings between floors %d and %d", n, f, f+1)
			total += n
		}
	}
	if total > 0 {
		return rerrors.New(rerrors.ErrCodeInvalidMap, "map %s has %d edge crossings", m.ID, total)
	}
	return nil
}
