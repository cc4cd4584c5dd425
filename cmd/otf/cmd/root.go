package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceFootprint/internal/config"
	"github.com/OpenTraceLab/OpenTraceFootprint/internal/logger"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Loaded by the root pre-run hook
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "otf",
	Short: "OpenTraceFootprint - PCB footprint generator",
	Long: `OpenTraceFootprint (otf) generates PCB footprints from composable
component descriptions and derives their courtyards from a clearance policy.

Examples:
  otf catalog                           # List built-in parts
  otf generate C_0603 -o lib.pretty     # Write one footprint
  otf generate all --kicad-version 7.0  # Write every part for KiCad 7
  otf inspect R_0603.kicad_mod          # Summarise a footprint file
  otf courtyard R_0603.kicad_mod -w     # Re-derive the courtyard in place`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			loaded.Log.Level = "debug"
		}
		if err := logger.Init(loaded.Log.Level, loaded.Log.JSON); err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
