// =============================================================================
// Ventas Semaforo - Process Command
// =============================================================================
//
// This file defines the 'process' command, which runs one reconciliation.
//
// COMMAND USAGE:
//   semaforo process [flags]
//
// FLAGS:
//   --dry-run     : Derive the columns without writing the output workbook
//
// PROCESSING PIPELINE:
//   1. Resolve the sales and drivers workbooks
//   2. Preview both sheets and validate their columns
//   3. Read both sheets and derive the four output columns
//   4. Write the output workbook
//   5. Print the run summary
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/ventas-semaforo/internal/converter"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// dryRun derives the output without writing it.
var dryRun bool

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Derive the reconciliation columns and write the output workbook",
	Long: `The process command reads the configured sales and drivers worksheets,
validates that every configured column is present, derives STATUS,
COD ECOM FINAL, COD AC FINAL and NOMBRE AC FINAL for every sale and writes
the enriched sales table to the output directory.

A missing input file, sheet or column stops the run before anything is
written.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess()
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Derive the columns without writing the output workbook",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runProcess() error {
	fmt.Println("=== Ventas Semaforo ===")

	conv := converter.New(appConfig, converter.WithDryRun(dryRun))
	result := conv.Run()
	if !result.Success {
		return result.Error
	}

	printSummary(result)
	return nil
}

// printSummary prints the run statistics.
func printSummary(result converter.Result) {
	stats := result.Stats

	fmt.Printf("Sales:           %s\n", filepath.Base(result.SalesFile))
	fmt.Printf("Drivers:         %s\n", filepath.Base(result.DriversFile))
	if result.OutputFile != "" {
		fmt.Printf("Output:          %s\n", result.OutputFile)
	} else {
		fmt.Println("Output:          (dry run, not written)")
	}

	fmt.Println("\n=== Processing Complete ===")
	fmt.Printf("Rows processed:  %d\n", stats.RowsProcessed)
	fmt.Printf("Driver rows:     %d\n", stats.DriverRows)
	fmt.Printf("Status fixed:    %d\n", stats.StatusCorrected)
	fmt.Printf("Agents found:    %d\n", stats.AgentsResolved)
	fmt.Printf("Client codes:    %d\n", stats.ClientCodesResolved)
	fmt.Printf("Time elapsed:    %s\n", stats.ProcessingTime)

	statuses := make([]string, 0, len(stats.StatusCounts))
	for s := range stats.StatusCounts {
		statuses = append(statuses, s)
	}
	sort.Strings(statuses)

	fmt.Println("\nStatus breakdown:")
	for _, s := range statuses {
		fmt.Printf("  %-22s %d\n", s, stats.StatusCounts[s])
	}
}
