package footprint

import (
	"fmt"
	"regexp"

	vlib "github.com/mcuadros/go-version"
)

// DefaultVersion is the KiCad release whose file format is written by default.
const DefaultVersion = "8.0"

// release maps a KiCad major release to its footprint file format.
type release struct {
	name   string
	format int
}

// Known releases, oldest first.
var releases = []release{
	{"6.0", 20211014},
	{"7.0", 20221018},
	{"8.0", 20240108},
	{"9.0", 20241229},
}

// dialect holds the syntax switches that differ between releases.
type dialect struct {
	release string
	format  int
	// 8.0 renamed tstamp to uuid, quoted the generator and moved
	// reference/value texts into properties.
	uuidKey          string
	quotedGenerator  bool
	generatorVersion bool
	properties       bool
	hideYes          bool
	// 7.0 wrapped widths in (stroke (width w) (type t)).
	stroke bool
	// 9.0 writes (embedded_fonts no).
	embeddedFonts bool
}

var versionPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+){0,3}$`)

// resolveDialect picks the newest known release not newer than version.
func resolveDialect(version string) (dialect, error) {
	if !versionPattern.MatchString(version) {
		return dialect{}, fmt.Errorf("invalid KiCad version %q", version)
	}

	var picked *release
	for i := range releases {
		if vlib.CompareSimple(version, releases[i].name) >= 0 {
			picked = &releases[i]
		}
	}
	if picked == nil {
		return dialect{}, fmt.Errorf("unsupported KiCad version %q (need %s or later)", version, releases[0].name)
	}

	atLeast := func(v string) bool { return vlib.CompareSimple(picked.name, v) >= 0 }

	d := dialect{
		release:          picked.name,
		format:           picked.format,
		uuidKey:          "tstamp",
		stroke:           atLeast("7.0"),
		quotedGenerator:  atLeast("8.0"),
		generatorVersion: atLeast("8.0"),
		properties:       atLeast("8.0"),
		hideYes:          atLeast("8.0"),
		embeddedFonts:    atLeast("9.0"),
	}
	if atLeast("8.0") {
		d.uuidKey = "uuid"
	}
	return d, nil
}

// Versions lists the KiCad releases the exporter can target.
func Versions() []string {
	out := make([]string, len(releases))
	for i, r := range releases {
		out[i] = r.name
	}
	return out
}
