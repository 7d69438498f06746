package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/ppc-cli/internal/advisor"
	"github.com/sells-group/ppc-cli/internal/model"
	"github.com/sells-group/ppc-cli/internal/optimizer"
	"github.com/sells-group/ppc-cli/internal/report"
	"github.com/sells-group/ppc-cli/internal/store"
	"github.com/sells-group/ppc-cli/pkg/anthropic"
)

var (
	optClientName     string
	optTargetACOS     float64
	optMinCR          float64
	optMarketLeader   bool
	optLargeInventory bool
	optFormat         string
	optOutDir         string
	optCSVCharset     string
	optSave           bool
	optRecommend      bool
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize <report.xlsx> [report2.xlsx ...]",
	Short: "Run the optimization pipeline over one or more bulk reports",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client := clientConfigFromFlags()

		var st store.Store
		if optSave {
			var err error
			st, err = openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()
		}

		g, gCtx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Optimize.MaxConcurrentReports)

		for _, path := range args {
			g.Go(func() error {
				result, err := runOptimization(gCtx, path, client)

				if st != nil {
					saveRun(gCtx, st, path, client, result, err)
				}
				if err != nil {
					return eris.Wrapf(err, "optimize %s", path)
				}
				return writeResult(path, result, len(args) > 1)
			})
		}
		return g.Wait()
	},
}

func init() {
	optimizeCmd.Flags().StringVar(&optClientName, "client", "", "client name for run records")
	optimizeCmd.Flags().Float64Var(&optTargetACOS, "target-acos", 0, "target ACOS as a fraction (e.g. 0.2); 0 uses client defaults")
	optimizeCmd.Flags().Float64Var(&optMinCR, "min-conversion-rate", 0, "minimum conversion rate as a fraction; 0 uses the default")
	optimizeCmd.Flags().BoolVar(&optMarketLeader, "market-leader", false, "client is a market leader (lowers default target ACOS)")
	optimizeCmd.Flags().BoolVar(&optLargeInventory, "large-inventory", false, "client has a large inventory (lowers default target ACOS)")
	optimizeCmd.Flags().StringVar(&optFormat, "format", "json", "output format: json or yaml")
	optimizeCmd.Flags().StringVar(&optOutDir, "out", "", "directory for result files (default: stdout for a single report)")
	optimizeCmd.Flags().StringVar(&optCSVCharset, "csv-charset", "", "source charset for CSV reports (e.g. windows-1252)")
	optimizeCmd.Flags().BoolVar(&optSave, "save", false, "persist the run to the configured store")
	optimizeCmd.Flags().BoolVar(&optRecommend, "recommend", false, "generate prose recommendations (requires an Anthropic key)")
	rootCmd.AddCommand(optimizeCmd)
}

// clientConfigFromFlags merges command-line overrides over the configured
// client settings.
func clientConfigFromFlags() model.ClientConfig {
	client := cfg.Client
	if optClientName != "" {
		client.Name = optClientName
	}
	if optTargetACOS > 0 {
		client.TargetACOS = optTargetACOS
	}
	if optMinCR > 0 {
		client.MinConversionRate = optMinCR
	}
	if optMarketLeader {
		client.IsMarketLeader = true
	}
	if optLargeInventory {
		client.HasLargeInventory = true
	}
	return client
}

// runOptimization loads one report and runs the full pipeline over it.
func runOptimization(ctx context.Context, path string, client model.ClientConfig) (*model.OptimizationResult, error) {
	rep, err := loadReport(path)
	if err != nil {
		return nil, err
	}

	engine, err := optimizer.New(optimizer.RuleConfigFor(client))
	if err != nil {
		return nil, err
	}

	result, err := engine.Run(rep.Snapshot)
	if err != nil {
		return nil, err
	}

	if optRecommend {
		result.Recommendations = newAdvisor().Recommend(ctx, result, client)
	}
	return result, nil
}

func loadReport(path string) (*report.Report, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return report.LoadCSV(path, optCSVCharset)
	}
	return report.Load(path)
}

// newAdvisor returns the Anthropic advisor when a key is configured and the
// static fallback otherwise.
func newAdvisor() advisor.Advisor {
	if cfg.Anthropic.Key == "" {
		zap.L().Warn("advisor: no Anthropic key configured, using static recommendations")
		return advisor.Static{}
	}
	return advisor.NewAnthropic(
		anthropic.NewClient(cfg.Anthropic.Key),
		cfg.Anthropic.Model,
		time.Duration(cfg.Anthropic.TimeoutSecs)*time.Second,
	)
}

func openStore(ctx context.Context) (store.Store, error) {
	if cfg.Store.Driver == "" {
		return nil, eris.New("no store configured: set store.driver to postgres or sqlite")
	}
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func saveRun(ctx context.Context, st store.Store, path string, client model.ClientConfig, result *model.OptimizationResult, runErr error) {
	run := &model.Run{
		Client:     client.Name,
		ReportFile: filepath.Base(path),
		Status:     model.RunStatusComplete,
		Result:     result,
	}
	if runErr != nil {
		run.Status = model.RunStatusFailed
	}
	if err := st.SaveRun(ctx, run); err != nil {
		zap.L().Warn("optimize: failed to persist run", zap.String("report", path), zap.Error(err))
	}
}

func encodeResult(result *model.OptimizationResult, format string) ([]byte, error) {
	switch format {
	case "yaml":
		out, err := yaml.Marshal(result)
		return out, eris.Wrap(err, "encode yaml")
	case "json":
		out, err := json.MarshalIndent(result, "", "  ")
		return out, eris.Wrap(err, "encode json")
	default:
		return nil, eris.Errorf("unknown format %q (want json or yaml)", format)
	}
}

// writeResult prints a single result to stdout or writes one file per
// report next to --out.
func writeResult(reportPath string, result *model.OptimizationResult, multi bool) error {
	data, err := encodeResult(result, optFormat)
	if err != nil {
		return err
	}

	if optOutDir == "" && !multi {
		fmt.Println(string(data))
		return nil
	}

	dir := optOutDir
	if dir == "" {
		dir = "."
	}
	base := strings.TrimSuffix(filepath.Base(reportPath), filepath.Ext(reportPath))
	outPath := filepath.Join(dir, base+".optimization."+optFormat)
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return eris.Wrapf(err, "write %s", outPath)
	}
	zap.L().Info("optimize: result written", zap.String("path", outPath))
	return nil
}
