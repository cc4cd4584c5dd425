// Package export defines the contract between composable objects and
// file-format targets, and a registry to select targets by name.
package export

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/board"
)

// Exporter translates a ComposableObject into a target file format.
// Export must be deterministic and must not return partial output
// together with an error.
type Exporter interface {
	Format() string
	Extension() string
	Export(obj board.ComposableObject) ([]byte, error)
}

// ErrExportValidation is matched by every *ValidationError via errors.Is.
var ErrExportValidation = errors.New("export: validation failed")

// ErrUnknownFormat is returned by Lookup for unregistered formats.
var ErrUnknownFormat = errors.New("export: unknown format")

// ValidationError reports object data the target format cannot represent.
type ValidationError struct {
	Format string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s export: %s: %s", e.Format, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrExportValidation }

// ValidateIdentifier checks that name is non-empty and free of control
// characters, whitespace and any rune in illegal.
func ValidateIdentifier(format, field, name, illegal string) error {
	if name == "" {
		return &ValidationError{Format: format, Field: field, Reason: "must not be empty"}
	}
	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return &ValidationError{Format: format, Field: field, Reason: fmt.Sprintf("%q contains whitespace or control characters", name)}
		}
		if strings.ContainsRune(illegal, r) {
			return &ValidationError{Format: format, Field: field, Reason: fmt.Sprintf("%q contains illegal character %q", name, r)}
		}
	}
	return nil
}

var (
	mu        sync.RWMutex
	exporters = make(map[string]Exporter)
)

// Register makes an exporter available by its format name. Registering the
// same name twice replaces the earlier exporter.
func Register(e Exporter) {
	mu.Lock()
	defer mu.Unlock()
	exporters[strings.ToLower(e.Format())] = e
}

// Lookup returns the exporter registered for format.
func Lookup(format string) (Exporter, error) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := exporters[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return e, nil
}

// Formats returns the registered format names, sorted.
func Formats() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(exporters))
	for name := range exporters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Filename returns the output file name for obj in the format of e.
func Filename(e Exporter, obj board.ComposableObject) string {
	return obj.FootprintName() + e.Extension()
}
