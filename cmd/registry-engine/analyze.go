package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/registry-engine/internal/analyze"
	"github.com/pdiddy/registry-engine/internal/ingest"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze FILE",
	Short: "Determine the base right, dispositions, and hard stops",
	Long: `Analyze classifies every event of a registry document, determines the
extinguishment base right, assigns each right SURVIVE, EXTINGUISH, or
UNCERTAIN, and evaluates the hard-stop rules.

With --corroborate, a second rendering of the same registry (for example the
structured table for a text extraction) is analyzed as well; hard stops that
only one rendering raises are demoted to warnings.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}
	r, err := analyzeFile(engine, args[0], cmd)
	if err != nil {
		return err
	}
	logger.Info("document analyzed",
		zap.String("document", r.DocumentID()),
		zap.String("resolution", string(r.ResolutionMethod())),
		zap.Float64("confidence", r.Confidence()),
		zap.Int("hard_stops", len(r.HardStops())),
	)

	if summaryOnly, _ := cmd.Flags().GetBool("summary"); summaryOnly {
		fmt.Println(r.Summary().Text)
		return nil
	}
	return printResult(r, cmd)
}

// analyzeFile loads and analyzes path, corroborating when requested.
func analyzeFile(engine *analyze.Engine, path string, cmd *cobra.Command) (*analyze.Result, error) {
	cfg := ingestConfig()
	doc, err := ingest.Load(path, cfg)
	if err != nil {
		return nil, err
	}

	other, _ := cmd.Flags().GetString("corroborate")
	if other == "" {
		return engine.Analyze(doc)
	}
	second, err := ingest.Load(other, cfg)
	if err != nil {
		return nil, err
	}
	return engine.AnalyzeCorroborated(doc, second)
}

func printResult(v any, cmd *cobra.Command) error {
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	_, err = os.Stdout.Write(data)
	return err
}

func init() {
	analyzeCmd.Flags().String("corroborate", "", "second rendering of the same registry to cross-check hard stops")
	analyzeCmd.Flags().Bool("json", false, "output the analysis as JSON")
	analyzeCmd.Flags().Bool("summary", false, "print only the one-line summary")

	rootCmd.AddCommand(analyzeCmd)
}
