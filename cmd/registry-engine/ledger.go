// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/registry-engine/internal/ledger"
	"github.com/pdiddy/registry-engine/pkg/types"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect the analysis audit ledger (list, show, verify, export)",
	Long: `Ledger inspects the SQLite audit trail written by batch runs. Each entry
records the document and policy digests, the result digest, the base right,
hard stops, and the full report.`,
}

// --- list subcommand ---

var ledgerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded analyses",
	RunE:  runLedgerList,
}

func runLedgerList(cmd *cobra.Command, args []string) error {
	store, err := ledger.Open(ledgerConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(context.Background(), queryOptsFromFlags(cmd))
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No entries found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-5s  %-20s  %-6s  %-16s  %-10s  %-6s  %s\n",
		"ID", "Document", "Base", "Resolution", "Confidence", "Review", "Hard stops")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for _, e := range entries {
		doc := e.DocumentID
		if len(doc) > 20 {
			doc = doc[:17] + "..."
		}
		base := "-"
		if e.BaseSeq != nil {
			base = strconv.Itoa(*e.BaseSeq)
		}
		stops := make([]string, len(e.HardStops))
		for i, c := range e.HardStops {
			stops[i] = string(c)
		}
		fmt.Fprintf(os.Stdout, "%-5d  %-20s  %-6s  %-16s  %-10.4f  %-6t  %s\n",
			e.ID, doc, base, e.Resolution, e.Confidence, e.NeedsReview, strings.Join(stops, ","))
	}
	return nil
}

// --- show subcommand ---

var ledgerShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Print the stored report of one entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid entry id %q", args[0])
		}

		store, err := ledger.Open(ledgerConfig(cmd))
		if err != nil {
			return err
		}
		defer store.Close()

		rep, err := store.Report(context.Background(), id)
		if err != nil {
			return err
		}
		return printResult(rep, cmd)
	},
}

// --- verify subcommand ---

var ledgerVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that repeated analyses produced identical results",
	Long: `Verify groups ledger entries by document and policy digest and reports
every group whose recorded results differ. Analysis is deterministic, so any
mismatch points at a changed binary or a corrupted ledger.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := ledger.Open(ledgerConfig(cmd))
		if err != nil {
			return err
		}
		defer store.Close()

		mismatches, err := store.Verify(context.Background())
		if err != nil {
			return err
		}
		if len(mismatches) == 0 {
			fmt.Println("ledger consistent")
			return nil
		}
		for _, m := range mismatches {
			fmt.Printf("mismatch %s: %d distinct results (document %s)\n",
				m.DocumentID, len(m.ResultDigests), m.DocumentDigest[:12])
		}
		return fmt.Errorf("%d document(s) with inconsistent results", len(mismatches))
	},
}

// --- export subcommand ---

var ledgerExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export ledger entries to YAML or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		store, err := ledger.Open(ledgerConfig(cmd))
		if err != nil {
			return err
		}
		defer store.Close()

		opts := queryOptsFromFlags(cmd)
		var path string
		switch format {
		case "yaml", "":
			path, err = store.ExportYAML(context.Background(), opts)
		case "json":
			path, err = store.ExportJSON(context.Background(), opts)
		default:
			return fmt.Errorf("unsupported format %q: use yaml or json", format)
		}
		if err != nil {
			return err
		}
		fmt.Println("Exported to", path)
		return nil
	},
}

// --- shared helpers ---

func ledgerConfig(cmd *cobra.Command) types.LedgerConfig {
	dir, _ := cmd.Flags().GetString("ledger-dir")
	if !cmd.Flags().Changed("ledger-dir") && viper.IsSet("ledger.dir") {
		dir = viper.GetString("ledger.dir")
	}
	if dir == "" {
		dir = "registry/ledger"
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")
	return types.LedgerConfig{Dir: dir, MaxResults: maxResults}
}

func queryOptsFromFlags(cmd *cobra.Command) ledger.QueryOptions {
	doc, _ := cmd.Flags().GetString("document")
	run, _ := cmd.Flags().GetString("run")
	code, _ := cmd.Flags().GetString("hard-stop")
	review, _ := cmd.Flags().GetBool("review")
	limit, _ := cmd.Flags().GetInt("limit")

	return ledger.QueryOptions{
		DocumentID: doc,
		RunID:      run,
		HardStop:   types.HardStopCode(code),
		ReviewOnly: review,
		MaxResults: limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	ledgerCmd.PersistentFlags().String("ledger-dir", "registry/ledger", "directory holding ledger.db")
	ledgerCmd.PersistentFlags().Int("max-results", 100, "maximum number of entries listed")

	for _, c := range []*cobra.Command{ledgerListCmd, ledgerExportCmd} {
		c.Flags().String("document", "", "filter by document id")
		c.Flags().String("run", "", "filter by run id")
		c.Flags().String("hard-stop", "", "filter by hard-stop code, e.g. HS-TRUST")
		c.Flags().Bool("review", false, "only entries that need manual review")
		c.Flags().Int("limit", 0, "maximum entries (0 = use default)")
	}
	ledgerListCmd.Flags().Bool("json", false, "output entries as JSON")
	ledgerShowCmd.Flags().Bool("json", false, "output the report as JSON")
	ledgerExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	// Wire subcommands.
	ledgerCmd.AddCommand(ledgerListCmd)
	ledgerCmd.AddCommand(ledgerShowCmd)
	ledgerCmd.AddCommand(ledgerVerifyCmd)
	ledgerCmd.AddCommand(ledgerExportCmd)

	rootCmd.AddCommand(ledgerCmd)
}
