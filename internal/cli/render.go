package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	rerrors "github.com/matzehuels/runmap/pkg/errors"
	"github.com/matzehuels/runmap/pkg/mapgen"
	"github.com/matzehuels/runmap/pkg/mapio"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output path; derived from the input when empty
	format   string // dot or svg
	detailed bool   // label nodes with type and id
}

// renderCommand creates the render command for exporting stored maps.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: mapgen.FormatSVG}

	cmd := &cobra.Command{
		Use:   "render <map.json>",
		Short: "Render a stored map to DOT or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input with the format's extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label nodes with type and id")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts renderOpts) error {
	ctx := cmd.Context()
	format, err := rerrors.ValidateFormat(opts.format, mapgen.FormatDOT, mapgen.FormatSVG)
	if err != nil {
		return err
	}
	m, err := mapio.ImportJSON(input)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded map", "id", m.ID, "nodes", m.NodeCount(), "edges", m.EdgeCount())

	prog := newProgress(c.Logger)
	data, err := mapgen.NewRunner(nil, nil, c.Logger).Render(ctx, m, format, opts.detailed)
	if err != nil {
		return err
	}
	prog.done("Rendered " + format)

	path := outputPath(opts.output, input, format)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return rerrors.Wrap(rerrors.ErrCodeInvalidPath, err, "write %s", path)
	}
	printSuccess("Rendered %s", m.ID)
	printFile(path)
	return nil
}

// outputPath returns output, or input with its extension replaced by format.
func outputPath(output, input, format string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
}
