package cmd

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/OpenTraceLab/OpenTraceFootprint/internal/logger"
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/board"
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/parts"
)

var (
	generateOutput  string
	generateVersion string
	generateStdout  bool
	generateJobs    int
)

var generateCmd = &cobra.Command{
	Use:   "generate <preset|all>...",
	Short: "Generate footprints from the built-in catalog",
	Long: `Generate footprint files for one or more catalog presets.

Use "all" to generate every preset. Files are written to --output (or the
configured output directory), inside a <library>.pretty directory named
after the footprint library, and named after the footprint.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "output directory (default from config)")
	generateCmd.Flags().StringVar(&generateVersion, "kicad-version", "", "target KiCad release, e.g. 7.0")
	generateCmd.Flags().BoolVar(&generateStdout, "stdout", false, "print to stdout instead of writing files")
	generateCmd.Flags().IntVarP(&generateJobs, "jobs", "j", runtime.NumCPU(), "presets exported in parallel")
}

func resolvePresets(args []string) ([]parts.Preset, error) {
	if lo.Contains(args, "all") {
		return parts.Catalog(), nil
	}

	presets := make([]parts.Preset, 0, len(args))
	for _, name := range lo.Uniq(args) {
		p, ok := parts.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown preset %q (see 'otf catalog')", name)
		}
		presets = append(presets, p)
	}
	return presets, nil
}

// libraryDir returns the KiCad library directory for obj under dir.
func libraryDir(dir string, obj board.ComposableObject) string {
	if c, ok := obj.(board.Classifier); ok && c.LibraryName() != "" {
		return filepath.Join(dir, c.LibraryName()+".pretty")
	}
	return dir
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	presets, err := resolvePresets(args)
	if err != nil {
		return err
	}

	e, err := exporterFor(generateVersion)
	if err != nil {
		return err
	}

	dir := cfg.Export.OutputDir
	if generateOutput != "" {
		dir = generateOutput
	}

	// Each preset is independent; results are kept by index so output
	// order follows the arguments.
	results := make([][]byte, len(presets))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(max(generateJobs, 1))

	for i, p := range presets {
		i, p := i, p
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}

			obj, err := p.Build()
			if err != nil {
				return fmt.Errorf("preset %s: %w", p.Name, err)
			}
			if obj, err = applyPolicy(obj); err != nil {
				return fmt.Errorf("preset %s: %w", p.Name, err)
			}

			if generateStdout {
				data, err := e.Export(obj)
				if err != nil {
					return fmt.Errorf("preset %s: %w", p.Name, err)
				}
				results[i] = data
				return nil
			}

			path, err := writeFootprint(egCtx, e, obj, libraryDir(dir, obj))
			if err != nil {
				return fmt.Errorf("preset %s: %w", p.Name, err)
			}
			results[i] = []byte(path + "\n")
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, r := range results {
		if _, err := out.Write(r); err != nil {
			return err
		}
	}

	logger.Debug(ctx, "generation finished", logger.Int("count", len(presets)))
	return nil
}
