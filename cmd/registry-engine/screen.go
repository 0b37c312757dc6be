package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/registry-engine/internal/screen"
)

var screenCmd = &cobra.Command{
	Use:   "screen FILE",
	Short: "Route a listing to PASS, REVIEW, or REJECT",
	Long: `Screen analyzes a registry document and reduces the result to a listing
verdict: a RED, YELLOW, or GREEN zone and a REJECT, REVIEW, or PASS route.
Results that need manual review are never passed or rejected automatically.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}
		r, err := analyzeFile(engine, args[0], cmd)
		if err != nil {
			return err
		}

		v := screen.Screen(r)
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printResult(v, cmd)
		}
		screen.Write(os.Stdout, v)
		return nil
	},
}

func init() {
	screenCmd.Flags().String("corroborate", "", "second rendering of the same registry to cross-check hard stops")
	screenCmd.Flags().Bool("json", false, "output the verdict as JSON")

	rootCmd.AddCommand(screenCmd)
}
