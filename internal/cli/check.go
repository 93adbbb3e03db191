package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/spore/pkg/errors"
	"github.com/matzehuels/spore/pkg/pipeline"
)

// checkCommand creates the check command, which reports overlapping node
// pairs without moving anything.
func (c *CLI) checkCommand() *cobra.Command {
	var (
		flags  layoutFlags
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "check [diagram]",
		Short: "Report overlapping nodes",
		Long: `Report every pair of nodes closer than the spacing.

With --strict the command fails when any overlap is found, which makes it
usable as a lint step.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := pipeline.LoadDiagram(args[0])
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, flags.noCache, false)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			opts := flags.options(c, cmd.Flags())
			report, err := runner.Check(ctx, d, opts)
			if err != nil {
				return err
			}

			if report.Clean() {
				printSuccess("No overlaps among %d nodes", report.Nodes)
				return nil
			}
			printWarning("%d overlapping pairs among %d nodes", len(report.Pairs), report.Nodes)
			fmt.Println(overlapTable(report.Pairs))
			if strict {
				return errors.New(errors.ErrCodeInvalidInput, "%d overlapping pairs", len(report.Pairs))
			}
			return nil
		},
	}

	flags.register(cmd.Flags())
	for _, name := range []string{"cost", "root", "root-ref", "mode", "max-iterations", "edge-policy", "padding", "seed", "assert-connected", "algorithm"} {
		cmd.Flags().Lookup(name).Hidden = true
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit with an error when overlaps are found")
	return cmd
}

// overlapTable renders overlap pairs with the distance each would have to
// move apart.
func overlapTable(pairs []pipeline.OverlapPair) string {
	rows := make([][]string, len(pairs))
	for i, p := range pairs {
		rows[i] = []string{p.A, p.B, fmt.Sprintf("%.1f", p.DX), fmt.Sprintf("%.1f", p.DY)}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("A", "B", "DX", "DY").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col >= 2 {
				return lipgloss.NewStyle().Foreground(colorYellow)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
