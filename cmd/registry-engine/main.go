// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the registry-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/registry-engine/internal/analyze"
	"github.com/pdiddy/registry-engine/internal/logging"
	"github.com/pdiddy/registry-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built from configuration before any subcommand runs.
var logger = zap.NewNop()

// rootCmd is the base command for the registry-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "registry-engine",
	Short: "Parse Korean real-estate registries and analyze auction rights",
	Long: `registry-engine reads certified copies of Korean real-estate registries
(등기사항전부증명서), normalizes them into ordered registration events, and
determines the extinguishment base right (말소기준권리), which rights survive
an auction, and which hard-stop conditions disqualify the listing.

Documents may be extracted text (.txt), a structured registry table (.json),
or hand-normalized YAML (.yaml). Analysis output goes to stdout; logs go to
stderr.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(types.LogConfig{
			Level:  viper.GetString("log.level"),
			Format: viper.GetString("log.format"),
		})
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./registry-engine.yaml or ~/.config/registry-engine/registry-engine.yaml)")
	rootCmd.PersistentFlags().String("policy", "", "policy YAML file overriding the default tables")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "json", "log format: json or console")

	viper.BindPFlag("policy_file", rootCmd.PersistentFlags().Lookup("policy"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("registry-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "registry-engine"))
		}
	}

	viper.SetEnvPrefix("REGISTRY_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newEngine builds an engine from the configured policy file.
func newEngine() (*analyze.Engine, error) {
	path := viper.GetString("policy_file")
	policy, err := analyze.LoadPolicy(path)
	if err != nil {
		return nil, err
	}
	if path != "" {
		logger.Debug("policy loaded", zap.String("path", path))
	}
	return analyze.NewEngine(policy)
}

// ingestConfig returns the adapter settings.
func ingestConfig() types.IngestConfig {
	cfg := types.DefaultIngestConfig()
	if viper.IsSet("ingest.text_cancel_confidence") {
		cfg.TextCancelConfidence = viper.GetFloat64("ingest.text_cancel_confidence")
	}
	if viper.IsSet("ingest.table_cancel_confidence") {
		cfg.TableCancelConfidence = viper.GetFloat64("ingest.table_cancel_confidence")
	}
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
