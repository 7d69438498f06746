package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/ppc-cli/internal/export"
	"github.com/sells-group/ppc-cli/internal/optimizer"
	"github.com/sells-group/ppc-cli/internal/report"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <report.xlsx>",
	Short: "Write recommended placement adjustments into a copy of the bulksheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		client := clientConfigFromFlags()

		rep, err := report.Load(path)
		if err != nil {
			return err
		}
		if len(rep.Snapshot.Placements) == 0 {
			return eris.Errorf("export: report %s has no placement rows", path)
		}

		engine, err := optimizer.New(optimizer.RuleConfigFor(client))
		if err != nil {
			return err
		}
		result, err := engine.Run(rep.Snapshot)
		if err != nil {
			return err
		}

		if err := export.WriteBulksheet(exportOut, result.Placements, rep.Meta); err != nil {
			return err
		}

		zap.L().Info("export: complete",
			zap.String("source", path),
			zap.String("destination", exportOut),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "optimized.xlsx", "destination workbook path")
	exportCmd.Flags().Float64Var(&optTargetACOS, "target-acos", 0, "target ACOS as a fraction (e.g. 0.2); 0 uses client defaults")
	exportCmd.Flags().BoolVar(&optMarketLeader, "market-leader", false, "client is a market leader (lowers default target ACOS)")
	exportCmd.Flags().BoolVar(&optLargeInventory, "large-inventory", false, "client has a large inventory (lowers default target ACOS)")
	rootCmd.AddCommand(exportCmd)
}
