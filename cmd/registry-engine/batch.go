package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/registry-engine/internal/batch"
	"github.com/pdiddy/registry-engine/internal/ledger"
	"github.com/pdiddy/registry-engine/internal/metrics"
	"github.com/pdiddy/registry-engine/pkg/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Analyze every registry document in a directory",
	Long: `Batch analyzes every .txt, .json, and .yaml document in --input-dir with
a pool of workers and writes <id>-analysis.yaml to --output-dir. Documents
whose input is older than their analysis are skipped unless --force is set.
Each analysis is recorded in the audit ledger unless --no-ledger is set.`,
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}

	cfg := types.BatchConfig{
		InputDir:  viper.GetString("batch.input_dir"),
		OutputDir: viper.GetString("batch.output_dir"),
		Workers:   viper.GetInt("batch.workers"),
	}
	cfg.Force, _ = cmd.Flags().GetBool("force")

	runner := &batch.Runner{
		Engine:  engine,
		Ingest:  ingestConfig(),
		Metrics: metrics.New(),
		Logger:  logger,
	}

	if noLedger, _ := cmd.Flags().GetBool("no-ledger"); !noLedger {
		store, err := ledger.Open(ledgerConfig(cmd))
		if err != nil {
			return err
		}
		defer store.Close()
		runner.Ledger = store
	}

	summary, err := runner.Run(context.Background(), cfg, os.Stdout)
	if err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("metrics-file"); path != "" {
		if err := runner.Metrics.WriteFile(path); err != nil {
			return err
		}
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d document(s) failed analysis", summary.Failed)
	}
	return nil
}

func init() {
	batchCmd.Flags().String("input-dir", "registry/raw", "directory of registry documents")
	batchCmd.Flags().String("output-dir", "registry/analysis", "directory for <id>-analysis.yaml files")
	batchCmd.Flags().Int("workers", 4, "number of documents analyzed concurrently")
	batchCmd.Flags().Bool("force", false, "re-analyze documents whose analysis is up to date")
	batchCmd.Flags().String("metrics-file", "", "write Prometheus text-format metrics to this file")
	batchCmd.Flags().Bool("no-ledger", false, "do not record analyses in the audit ledger")
	batchCmd.Flags().String("ledger-dir", "registry/ledger", "directory holding ledger.db")

	viper.BindPFlag("batch.input_dir", batchCmd.Flags().Lookup("input-dir"))
	viper.BindPFlag("batch.output_dir", batchCmd.Flags().Lookup("output-dir"))
	viper.BindPFlag("batch.workers", batchCmd.Flags().Lookup("workers"))

	rootCmd.AddCommand(batchCmd)
}
