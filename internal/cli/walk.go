package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	rerrors "github.com/matzehuels/runmap/pkg/errors"
	"github.com/matzehuels/runmap/pkg/mapio"
	"github.com/matzehuels/runmap/pkg/runmap"
)

// walkCommand creates the walk command.
func (c *CLI) walkCommand() *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "walk <map.json>",
		Short: "Walk a stored map interactively",
		Long: `Walk opens a stored map and lets you pick a path from the first floor to
the boss, one reachable node at a time. With --save the completed nodes are
written back to the file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := mapio.ImportJSON(args[0])
			if err != nil {
				return err
			}
			final, err := tea.NewProgram(newWalkModel(m), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return rerrors.Wrap(rerrors.ErrCodeInternal, err, "walk")
			}
			w := final.(walkModel)
			printInfo("Visited %d rooms", len(w.path))
			if w.finished() {
				printSuccess("Reached the boss")
			}
			if save && len(w.path) > 0 {
				if err := mapio.ExportJSON(m, args[0]); err != nil {
					return err
				}
				printFile(args[0])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "write completed nodes back to the map file")
	return cmd
}

// =============================================================================
// walkModel - Interactive map walker
// =============================================================================

var (
	walkCurrentStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	walkChoiceStyle  = lipgloss.NewStyle().Underline(true)
	walkDoneStyle    = lipgloss.NewStyle().Foreground(colorDim)
	walkHintStyle    = lipgloss.NewStyle().Foreground(colorGray)
)

// walkModel is the bubbletea model of the walk command. It only moves
// through the map with its collaborator queries: Selectable, Reachable and
// Complete.
type walkModel struct {
	m       *runmap.Map
	current *runmap.Node // nil before the first step
	choices []*runmap.Node
	cursor  int
	path    []*runmap.Node
}

func newWalkModel(m *runmap.Map) walkModel {
	w := walkModel{m: m}
	w.choices = w.selectable(m.Floors[0])
	return w
}

// selectable filters candidates down to the nodes the player may enter next.
func (w walkModel) selectable(candidates []*runmap.Node) []*runmap.Node {
	var out []*runmap.Node
	for _, n := range candidates {
		if w.m.Selectable(w.current, n) {
			out = append(out, n)
		}
	}
	return out
}

func (w walkModel) finished() bool {
	return w.current != nil && w.current.Type == runmap.Boss
}

func (w walkModel) Init() tea.Cmd {
	return nil
}

func (w walkModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return w, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return w, tea.Quit
	case "left", "h":
		if w.cursor > 0 {
			w.cursor--
		}
	case "right", "l":
		if w.cursor < len(w.choices)-1 {
			w.cursor++
		}
	case "enter", " ":
		if len(w.choices) == 0 {
			return w, nil
		}
		next := w.choices[w.cursor]
		w.m.Complete(next)
		w.current = next
		w.path = append(w.path, next)
		w.choices = w.selectable(w.m.Reachable(next))
		w.cursor = 0
	}
	return w, nil
}

func (w walkModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Run Map"))
	b.WriteString(StyleDim.Render("  " + w.m.ID))
	b.WriteString("\n\n")

	choice := map[*runmap.Node]bool{}
	for _, n := range w.choices {
		choice[n] = true
	}
	var selected *runmap.Node
	if len(w.choices) > 0 {
		selected = w.choices[w.cursor]
	}

	for f := len(w.m.Floors) - 1; f >= 0; f-- {
		fmt.Fprintf(&b, "%s ", StyleDim.Render(fmt.Sprintf("%2d", f)))
		for _, n := range w.m.Floors[f] {
			b.WriteString(w.renderNode(n, choice[n], n == selected))
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case w.finished():
		b.WriteString(StyleSuccess.Render("Boss reached. Press q to quit."))
	case selected != nil:
		fmt.Fprintf(&b, "Next: %s %s", typeStyles[selected.Type].Render(selected.Type.String()), StyleDim.Render(selected.ID))
	}
	b.WriteString("\n")
	b.WriteString(walkHintStyle.Render("←/→ choose  ⏎ enter room  q quit"))
	return b.String()
}

func (w walkModel) renderNode(n *runmap.Node, isChoice, isSelected bool) string {
	label := fmt.Sprintf("%-6s", n.Type.String())
	style := typeStyles[n.Type]
	switch {
	case n == w.current:
		style = style.Inherit(walkCurrentStyle)
	case isSelected:
		label = "▸" + label[:5]
		style = style.Inherit(walkChoiceStyle)
	case isChoice:
		style = style.Inherit(walkChoiceStyle)
	case n.Completed:
		style = walkDoneStyle
	}
	return style.Render(label)
}
