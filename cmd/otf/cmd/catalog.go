package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/parts"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the built-in parts",
	Args:  cobra.NoArgs,
	RunE:  runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tFOOTPRINT\tPADS\tSUMMARY")

	for _, p := range parts.Catalog() {
		obj, err := p.Build()
		if err != nil {
			return fmt.Errorf("preset %s: %w", p.Name, err)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", p.Name, obj.FootprintName(), len(obj.Pads()), p.Summary)
	}

	return w.Flush()
}
