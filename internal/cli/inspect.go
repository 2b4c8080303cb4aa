package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/geograph/pkg/attr"
	gio "github.com/matzehuels/geograph/pkg/io"
	"github.com/matzehuels/geograph/pkg/network"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// inspectCommand opens an interactive node browser over a built topology.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <topology.json>",
		Short: "Browse the nodes of a built topology",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := gio.ImportJSON(args[0])
			if err != nil {
				return err
			}
			if g.NodeCount() == 0 {
				printWarning("Topology has no nodes")
				return nil
			}
			_, err = tea.NewProgram(NewNodeListModel(g), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

// NodeListModel is the bubbletea model for browsing topology nodes. The
// selected node's attributes and incident edges are shown below the list.
type NodeListModel struct {
	Graph  *network.Graph
	Nodes  []*network.Node
	Cursor int
	Height int
	Offset int
}

// NewNodeListModel creates a node list over g.
func NewNodeListModel(g *network.Graph) NodeListModel {
	return NodeListModel{Graph: g, Nodes: g.Nodes(), Height: 12}
}

func (m NodeListModel) Init() tea.Cmd {
	return nil
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = len(m.Nodes) - 1
			m.Offset = max(0, m.Cursor-m.Height+1)
		}
	case tea.WindowSizeMsg:
		m.Height = max(5, msg.Height/2-6)
	}
	return m, nil
}

func (m NodeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Topology Nodes"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Nodes))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			n.ID,
			fmt.Sprintf("%.6g, %.6g", n.Pos[0], n.Pos[1]),
			fmt.Sprint(m.Graph.Degree(n.ID)),
			fmt.Sprint(len(n.Attrs)),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "Position", "Degree", "Attrs").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Nodes))))
	b.WriteString("\n\n")
	b.WriteString(m.detail())
	return b.String()
}

// detail describes the node under the cursor.
func (m NodeListModel) detail() string {
	if len(m.Nodes) == 0 {
		return ""
	}
	n := m.Nodes[m.Cursor]

	var b strings.Builder
	b.WriteString(StyleHighlight.Render(n.ID))
	b.WriteString("\n")
	writeAttrs(&b, n.Attrs)
	for _, e := range m.Graph.Incident(n.ID) {
		arrow := "—"
		if e.Directed {
			arrow = "→"
			if e.To == n.ID {
				arrow = "←"
			}
		}
		fmt.Fprintf(&b, "  %s %s %s\n", StyleValue.Render(e.ID), StyleDim.Render(arrow), e.Other(n.ID))
	}
	return b.String()
}

func writeAttrs(b *strings.Builder, set attr.Set) {
	for _, k := range set.Keys() {
		fmt.Fprintf(b, "  %s %v\n", StyleDim.Render(k+":"), set[k])
	}
}
