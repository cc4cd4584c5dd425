package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/OpenTraceLab/OpenTraceFootprint/internal/logger"
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/board"
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/courtyard"
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/export"
)

// policied is implemented by *board.Component and every part embedding it.
type policied interface {
	WithPolicy(courtyard.Policy) (*board.Component, error)
}

// exporterFor returns the configured exporter, with the KiCad release
// overridden when version is non-empty.
func exporterFor(version string) (export.Exporter, error) {
	c := *cfg
	if version != "" {
		c.Export.KiCadVersion = version
	}
	return c.Exporter()
}

// applyPolicy re-derives the courtyard under the configured policy when
// the object supports it.
func applyPolicy(obj board.ComposableObject) (board.ComposableObject, error) {
	p, ok := obj.(policied)
	if !ok {
		return obj, nil
	}
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}
	return p.WithPolicy(policy)
}

// writeFootprint exports obj into dir and returns the written path.
func writeFootprint(ctx context.Context, e export.Exporter, obj board.ComposableObject, dir string) (string, error) {
	data, err := e.Export(obj)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, export.Filename(e, obj))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	logger.Info(ctx, "footprint written",
		logger.String("footprint", obj.FootprintName()),
		logger.String("format", e.Format()),
		logger.String("path", path),
		logger.Int("pads", len(obj.Pads())),
	)
	return path, nil
}
