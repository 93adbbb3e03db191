package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/spore/pkg/store"
)

// runsCommand creates the runs command for browsing the run history.
func (c *CLI) runsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List, show and delete recorded runs",
		Long: `Manage the run history written by --record and by the HTTP server.`,
	}

	cmd.AddCommand(c.runsListCommand())
	cmd.AddCommand(c.runsShowCommand())
	cmd.AddCommand(c.runsDeleteCommand())

	return cmd
}

func (c *CLI) runsListCommand() *cobra.Command {
	var opts store.ListOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			recs, err := st.List(ctx, opts)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				printInfo("No runs recorded")
				return nil
			}
			fmt.Println(runTable(recs, time.Now()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", store.DefaultListLimit, "maximum number of runs")
	cmd.Flags().StringVar(&opts.Source, "source", "", "only runs from this source (cli, api)")
	return cmd
}

func (c *CLI) runsShowCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show one recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			rec, err := st.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(rec)
			}

			fmt.Println(StyleTitle.Render(rec.Name))
			printKeyValue("ID", rec.ID)
			printKeyValue("Created", rec.CreatedAt.Local().Format(time.DateTime))
			printKeyValue("Source", rec.Source)
			printKeyValue("Algorithm", rec.Algorithm)
			printKeyValue("Nodes", strconv.Itoa(rec.Nodes))
			printKeyValue("Edges", strconv.Itoa(rec.Edges))
			printKeyValue("Passes", strconv.Itoa(rec.Stats.Iterations))
			printKeyValue("Remaining", strconv.Itoa(rec.Stats.Remaining))
			printKeyValue("Duration", rec.Duration.Round(time.Microsecond).String())
			printKeyValue("Cached", strconv.FormatBool(rec.CacheHit))
			if rec.Stats.CapReached {
				printWarning("Pass limit reached with overlaps left")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full record as JSON")
	return cmd
}

func (c *CLI) runsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(ctx, args[0]); err != nil {
				return err
			}
			printSuccess("Deleted run %s", args[0])
			return nil
		},
	}
}

// runTable renders run summaries relative to now.
func runTable(recs []*store.Record, now time.Time) string {
	rows := make([][]string, len(recs))
	for i, r := range recs {
		rows[i] = []string{
			r.ID,
			r.Name,
			r.Algorithm,
			strconv.Itoa(r.Nodes),
			strconv.Itoa(r.Stats.Remaining),
			r.Source,
			formatRelativeTime(r.CreatedAt, now),
		}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "Algorithm", "Nodes", "Left", "Source", "Created").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0 || col == 6:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
