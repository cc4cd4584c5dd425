package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceFootprint/internal/logger"
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/kicad/footprint"
)

var (
	courtyardWrite   bool
	courtyardOutput  string
	courtyardVersion string
)

var courtyardCmd = &cobra.Command{
	Use:   "courtyard <file.kicad_mod>",
	Short: "Re-derive the courtyard of a footprint file",
	Long: `Read a KiCad footprint, discard any authored courtyard, derive a new one
under the configured policy and write the footprint back out.

Without --write or --output the result is printed to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runCourtyard,
}

func init() {
	rootCmd.AddCommand(courtyardCmd)
	courtyardCmd.Flags().BoolVarP(&courtyardWrite, "write", "w", false, "rewrite the input file in place")
	courtyardCmd.Flags().StringVarP(&courtyardOutput, "output", "o", "", "write into this directory")
	courtyardCmd.Flags().StringVar(&courtyardVersion, "kicad-version", "", "target KiCad release, e.g. 7.0")
}

func runCourtyard(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	filename := args[0]

	if courtyardWrite && courtyardOutput != "" {
		return fmt.Errorf("--write and --output are mutually exclusive")
	}

	c, err := footprint.ParseFile(filename)
	if err != nil {
		return err
	}
	obj, err := applyPolicy(c)
	if err != nil {
		return err
	}

	e, err := exporterFor(courtyardVersion)
	if err != nil {
		return err
	}

	cy := obj.Courtyard()
	logger.Debug(ctx, "courtyard derived",
		logger.String("footprint", obj.FootprintName()),
		logger.String("class", string(cy.Class)),
		logger.Float64("margin_mm", cy.Margin.MM()),
	)

	switch {
	case courtyardOutput != "":
		path, err := writeFootprint(ctx, e, obj, courtyardOutput)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
	case courtyardWrite:
		data, err := e.Export(obj)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filename, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", filename, err)
		}
		logger.Info(ctx, "footprint rewritten", logger.String("path", filename))
		fmt.Fprintln(cmd.OutOrStdout(), filename)
	default:
		data, err := e.Export(obj)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	return nil
}
