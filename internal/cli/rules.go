package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/geograph/pkg/config"
)

// rulesCommand lists the merge rules of the active configuration.
func (c *CLI) rulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Validate and list the configured merge rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if len(cfg.Rules) == 0 {
				printWarning("No merge rules configured: colocated points stay distinct")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), rulesTable(cfg))
			return nil
		},
	}
}

// rulesTable renders the rules in evaluation order.
func rulesTable(cfg *config.Config) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rows := make([][]string, 0, len(cfg.Rules))
	for i, r := range cfg.Rules {
		clauses := make([]string, len(r.When))
		for j, w := range r.When {
			clauses[j] = w.Describe()
		}
		name := r.Name
		if name == "" {
			name = "—"
		}
		rows = append(rows, []string{fmt.Sprint(i + 1), name, r.Action, strings.Join(clauses, "\nand ")})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Rule", "Action", "When").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			switch col {
			case 0:
				return lipgloss.NewStyle().Foreground(colorDim)
			case 2:
				return StyleHighlight
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
