// Package dot exports run maps as Graphviz diagrams for previewing and
// debugging generator settings.
//
// Each floor becomes one rank, ordered bottom to top like the map is
// played, and nodes keep their column order within the rank. Fill colours
// encode node types.
//
//	src := dot.ToDOT(m, dot.Options{})
//	svg, err := dot.RenderSVG(ctx, src)
package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/runmap/pkg/runmap"
)

// Options configures DOT export.
type Options struct {
	// Detailed adds the node type and position to labels.
	// When false, only the type's short symbol is shown.
	Detailed bool
}

var fillColors = map[runmap.NodeType]string{
	runmap.Battle: "#d9d9d9",
	runmap.Elite:  "#e06666",
	runmap.Shop:   "#f6b26b",
	runmap.Rest:   "#93c47d",
	runmap.Event:  "#6fa8dc",
	runmap.Boss:   "#8e7cc3",
}

var symbols = map[runmap.NodeType]string{
	runmap.Battle: "B",
	runmap.Elite:  "E",
	runmap.Shop:   "$",
	runmap.Rest:   "R",
	runmap.Event:  "?",
	runmap.Boss:   "BOSS",
}

// ToDOT converts m to Graphviz DOT format.
// The result can be rendered with [RenderSVG].
func ToDOT(m *runmap.Map, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fontsize=14, width=0.6, fixedsize=true];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")

	for f, floor := range m.Floors {
		fmt.Fprintf(&buf, "\n  subgraph floor_%d {\n    rank=same;\n", f)
		for _, n := range floor {
			fmt.Fprintf(&buf, "    %q [%s];\n", n.ID, strings.Join(fmtAttrs(n, opts.Detailed), ", "))
		}
		// Invisible edges pin column order inside the rank.
		for i := 1; i < len(floor); i++ {
			fmt.Fprintf(&buf, "    %q -> %q [style=invis];\n", floor[i-1].ID, floor[i].ID)
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, n := range m.Nodes() {
		for _, t := range n.Next() {
			fmt.Fprintf(&buf, "  %q -> %q;\n", n.ID, t.ID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *runmap.Node, detailed bool) string {
	if !detailed {
		return symbols[n.Type]
	}
	return fmt.Sprintf("%s\n%s", n.Type, n.ID)
}

func fmtAttrs(n *runmap.Node, detailed bool) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(n, detailed)),
		fmt.Sprintf("fillcolor=%q", fillColors[n.Type]),
	}
	if detailed {
		attrs = append(attrs, "shape=box", "fixedsize=false")
	}
	if n.Type == runmap.Boss {
		attrs = append(attrs, "shape=doublecircle", "width=0.9")
	}
	if n.Completed {
		attrs = append(attrs, "penwidth=3")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root tag with one whose size
// matches its viewBox so the SVG scales cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
