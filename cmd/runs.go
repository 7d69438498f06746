package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/ppc-cli/internal/store"
)

var (
	runsLimit  int
	runsClient string
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List persisted optimization runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		runs, err := st.ListRuns(ctx, store.RunFilter{
			Client: runsClient,
			Limit:  runsLimit,
		})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCLIENT\tREPORT\tSTATUS\tPAUSED\tBIDS\tCREATED")
		for _, run := range runs {
			paused, bids := 0, 0
			if run.Result != nil {
				paused = run.Result.Summary.KeywordsToPause
				bids = run.Result.Summary.BidsToAdjust
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
				run.ID, run.Client, run.ReportFile, run.Status,
				paused, bids, run.CreatedAt.Format("2006-01-02 15:04"),
			)
		}
		return w.Flush()
	},
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "max runs to list")
	runsCmd.Flags().StringVar(&runsClient, "client", "", "filter by client name")
	rootCmd.AddCommand(runsCmd)
}
