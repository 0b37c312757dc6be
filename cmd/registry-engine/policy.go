package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/registry-engine/internal/analyze"
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Print the effective policy tables",
	Long: `Policy prints the priority order, override lists, hard-stop rules,
markers, and confidence constants in effect after applying --policy to the
defaults. The output is a valid policy file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}
		data, err := analyze.MarshalPolicy(engine.Policy())
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(policyCmd)
}
