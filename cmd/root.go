// =============================================================================
// Ventas Semaforo - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (semaforo)
//   ├── processCmd (semaforo process)
//   ├── validateCmd (semaforo validate)
//   └── versionCmd (semaforo version)
//
// CONFIGURATION:
//   Before any command that needs it, the root command:
//   1. Loads a .env file from the working directory, if present
//   2. Loads config.yaml merged with editable.yaml (see internal/config)
//   3. Sets up the global zap logger
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/ventas-semaforo/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the base configuration file.
var cfgFile string

// editableFile holds the path to the optional override file.
var editableFile string

// verbose forces debug logging.
var verbose bool

// appConfig is the configuration loaded by PersistentPreRunE.
var appConfig *config.Config

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "semaforo",
	Short: "Ventas Semaforo - reconcile a sales ledger against the drivers table",
	Long: `Ventas Semaforo reads a sales worksheet and a drivers (reference) worksheet,
derives four columns for every sale and writes the enriched sales table to a
new workbook:

  STATUS           whether the commercial-agent code could be resolved
  COD ECOM FINAL   alternate client code
  COD AC FINAL     resolved agent code
  NOMBRE AC FINAL  resolved agent name

Column names, input files and output naming are configured in config.yaml,
with per-run overrides in editable.yaml and SEMAFORO_* environment variables.

Example Usage:
  semaforo process                         # Run with ./config.yaml
  semaforo process --editable ./marzo.yaml # Override inputs for one run
  semaforo process --dry-run               # Derive without writing output
  semaforo validate                        # Check files and columns only`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !needsConfig(cmd) {
			return nil
		}
		return initConfig()
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the base configuration file",
	)

	rootCmd.PersistentFlags().StringVar(
		&editableFile,
		"editable",
		"editable.yaml",
		"Path to the editable override file (skipped if missing)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}

// needsConfig reports whether cmd runs against the loaded configuration.
// The bare root command and "version" do not.
func needsConfig(cmd *cobra.Command) bool {
	return cmd.HasParent() && cmd.Name() != "version"
}

// initConfig loads .env, the configuration and the logger.
func initConfig() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return eris.Wrap(err, "load .env")
	}

	cfg, err := config.Load(config.LoadOptions{
		BaseFile:     cfgFile,
		EditableFile: editableFile,
	})
	if err != nil {
		return err
	}

	if verbose {
		cfg.Log.Level = "debug"
	}
	if err := config.InitLogger(cfg.Log); err != nil {
		return err
	}

	zap.L().Debug("configuration loaded",
		zap.String("config", cfgFile),
		zap.String("editable", editableFile),
		zap.String("inputs_dir", cfg.Inputs.Dir),
		zap.String("engine", cfg.Inputs.Engine),
	)

	appConfig = cfg
	return nil
}
