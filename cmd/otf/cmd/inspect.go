package cmd

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/chewxy/sexp"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceFootprint/internal/logger"
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/board"
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/kicad/footprint"
	kicad "github.com/OpenTraceLab/OpenTraceFootprint/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/kicad/sexp/kicadsexp"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.kicad_mod>",
	Short: "Summarise a footprint file",
	Long: `Parse a KiCad footprint and print its structure, classification and the
courtyard derived under the configured policy.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	filename := args[0]

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	// Structural pass with a generic reader, independent of ours
	exprs, serr := sexp.ParseString(string(data))
	if serr != nil {
		logger.Warn(ctx, "generic s-expression pass failed", logger.ErrorF(serr))
	}
	leaves := 0
	for _, e := range exprs {
		if !e.IsLeaf() {
			leaves += e.LeafCount()
		}
	}

	c, err := footprint.ParseFile(filename)
	if err != nil {
		return err
	}
	// ParseFile succeeded, so the tree parses
	tree, _ := kicadsexp.ParseString(string(data))
	obj, err := applyPolicy(c)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File: %s (%d bytes)\n", filename, len(data))
	if serr == nil {
		fmt.Fprintf(out, "  S-expressions: %d, leaf count: %d\n", len(exprs), leaves)
	}
	if len(tree) > 0 {
		fmt.Fprintf(out, "  Elements: %s\n", formatCounts(kicad.CountNodes(tree[0])))
	}
	printSummary(out, obj)

	logger.Debug(ctx, "footprint inspected",
		logger.String("path", filename),
		logger.String("footprint", obj.FootprintName()),
	)
	return nil
}

func printSummary(out io.Writer, obj board.ComposableObject) {
	fmt.Fprintf(out, "Footprint: %s\n", obj.FootprintName())
	fmt.Fprintf(out, "  Type: %s\n", obj.FunctionalType())
	fmt.Fprintf(out, "  Package: %s\n", obj.Package())
	fmt.Fprintf(out, "  Reference prefix: %s\n", obj.ReferencePrefix())
	fmt.Fprintf(out, "  Pads: %d\n", len(obj.Pads()))
	fmt.Fprintf(out, "  Graphics: %d\n", len(obj.Graphics()))
	fmt.Fprintf(out, "  Bounding box: %s\n", formatBox(obj.BoundingBox()))

	cy := obj.Courtyard()
	if cy.IsEmpty() {
		fmt.Fprintf(out, "  Courtyard: none\n")
		return
	}
	fmt.Fprintf(out, "  Courtyard: %s (%s, margin %s mm)\n", formatBox(cy.Box), cy.Class, cy.Margin)
}

func formatBox(bb geom.BoundingBox) string {
	return fmt.Sprintf("(%s, %s)-(%s, %s) %sx%s mm",
		bb.Min.X, bb.Min.Y, bb.Max.X, bb.Max.Y, bb.Width(), bb.Height())
}

func formatCounts(counts map[string]int) string {
	keys := lo.Keys(counts)
	slices.Sort(keys)
	return strings.Join(lo.Map(keys, func(k string, _ int) string {
		return fmt.Sprintf("%s=%d", k, counts[k])
	}), " ")
}
