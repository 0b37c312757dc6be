package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/registry-engine/internal/ingest"
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Normalize a registry document into ordered events",
	Long: `Parse reads a registry document and prints the normalized document:
title, 갑구 and 을구 events with registration sequences, dates, receipts,
and adapter cancellation evidence. No classification or analysis is run.
The YAML output can be edited by hand and fed back to analyze.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := ingest.Load(args[0], ingestConfig())
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		}
		data, err := ingest.WriteYAML(doc)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

func init() {
	parseCmd.Flags().Bool("json", false, "output the document as JSON")

	rootCmd.AddCommand(parseCmd)
}
