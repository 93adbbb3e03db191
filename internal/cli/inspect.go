package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/spore/pkg/core/spore"
	"github.com/matzehuels/spore/pkg/pipeline"
)

// inspectCommand creates the inspect command, which runs a layout with a
// recorder attached and steps through the checkpoints interactively.
func (c *CLI) inspectCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "inspect [diagram]",
		Short: "Step through the phases of a layout run",
		Long: `Run a layout and step through every checkpoint it records: detected
overlaps, structure graphs, spanning trees and moved positions.

Nothing is written and the cache is not used.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := pipeline.LoadDiagram(args[0])
			if err != nil {
				return err
			}

			var rec spore.Recorder
			opts := flags.options(c, cmd.Flags())
			opts.Observer = rec.Observe
			prog := newProgress(loggerFromContext(cmd.Context()))
			if _, err := pipeline.ComputeLayout(d, opts); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Recorded %d checkpoints", len(rec.Checkpoints)))

			p := tea.NewProgram(NewInspectModel(rec.Checkpoints), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("inspect: %w", err)
			}
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().Lookup("refresh").Hidden = true
	cmd.Flags().Lookup("no-cache").Hidden = true
	return cmd
}
