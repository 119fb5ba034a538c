// =============================================================================
// Ventas Semaforo - Validate Command
// =============================================================================
//
// This file defines the 'validate' command. It checks the configuration, the
// input workbooks and the required columns without deriving anything.
//
// COMMAND USAGE:
//   semaforo validate
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/ventas-semaforo/internal/converter"
)

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check configuration, input files and required columns",
	Long: `The validate command loads the configuration, locates the sales and drivers
workbooks and checks that both sheets carry every configured column. Nothing
is derived or written.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		if err := converter.New(appConfig).Validate(); err != nil {
			return err
		}
		fmt.Println("Configuration, input files and columns are valid.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
