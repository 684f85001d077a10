// =============================================================================
// Card Transaction ETL - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base that all subcommands attach to:
//
//   card-etl
//   ├── process   (run the batch pipeline)
//   ├── validate  (check configuration and schema without processing)
//   └── version
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// cfgFile holds the path to the configuration file, overridable via --config.
var cfgFile string

// verbose forces debug logging when set.
var verbose bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "card-etl",
	Short: "Card Transaction ETL - validate and partition daily card-transaction batches",
	Long: `Card Transaction ETL ingests daily card-transaction batches delivered as
CSV, validates every record against the transaction schema, and splits each
batch into two line-delimited JSON outputs: structurally valid records and
rejected records with their validation errors.

Batches are read from the landing zone and results are written to the green
zone. Output names derive from the input name:

  card_transaction_2025-11-10.csv
    -> card_transaction_2025-11-10_valid.jsonl
    -> card_transaction_2025-11-10_invalid.jsonl

Example Usage:
  card-etl process                      # Process every pending batch
  card-etl process --file a/b/day.csv   # Process one batch by key
  card-etl process --event event.json   # Process the batch named by an event
  card-etl validate                     # Check config and schema only`,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and runs it.
// Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
