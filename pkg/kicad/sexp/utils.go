// Package sexp provides navigation and typed extraction helpers over parsed
// KiCad s-expressions. Coordinates in footprint files are millimetres and are
// returned as fixed-precision geom values.
package sexp

import (
	"fmt"
	"strconv"

	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceFootprint/pkg/kicad/sexp/kicadsexp"
)

// S-expression navigation helpers

// FindNode searches for a child node with the given key (first symbol)
// Example: FindNode(sexp, "at") finds (at 100 50) in a list
func FindNode(s kicadsexp.Sexp, key string) (kicadsexp.Sexp, bool) {
	for _, item := range SexpToSlice(s) {
		if item == nil {
			continue
		}

		if item.IsLeaf() {
			if sym, ok := item.(kicadsexp.Symbol); ok && string(sym) == key {
				return item, true
			}
			continue
		}

		if name, err := GetNodeName(item); err == nil && name == key {
			return item, true
		}
	}

	return nil, false
}

// FindAllNodes finds all child nodes with the given key, in document order
func FindAllNodes(s kicadsexp.Sexp, key string) []kicadsexp.Sexp {
	var results []kicadsexp.Sexp

	for _, item := range SexpToSlice(s) {
		if item == nil || item.IsLeaf() {
			continue
		}
		if name, err := GetNodeName(item); err == nil && name == key {
			results = append(results, item)
		}
	}

	return results
}

// CountNodes counts the child lists of s by key.
// Example: CountNodes((footprint "x" (pad 1) (pad 2))) returns {pad: 2}
func CountNodes(s kicadsexp.Sexp) map[string]int {
	counts := make(map[string]int)
	for _, item := range GetListItems(s) {
		if item == nil || item.IsLeaf() {
			continue
		}
		if name, err := GetNodeName(item); err == nil {
			counts[name]++
		}
	}
	return counts
}

// GetListItems returns all items in a list (excluding the first symbol/key)
// Example: GetListItems((layers "F.Cu" "B.Cu")) returns ["F.Cu", "B.Cu"]
func GetListItems(s kicadsexp.Sexp) []kicadsexp.Sexp {
	allItems := SexpToSlice(s)
	if len(allItems) <= 1 {
		return []kicadsexp.Sexp{}
	}
	return allItems[1:]
}

// SexpToSlice converts an s-expression list to a Go slice
func SexpToSlice(s kicadsexp.Sexp) []kicadsexp.Sexp {
	if s == nil || s.IsLeaf() {
		return nil
	}

	if l, ok := s.(*kicadsexp.List); ok {
		return l.Elements()
	}

	var items []kicadsexp.Sexp
	for s != nil && !s.IsLeaf() && s.LeafCount() > 0 {
		if head := s.Head(); head != nil {
			items = append(items, head)
		}
		s = s.Tail()
	}
	return items
}

// Typed value extraction helpers

// GetString extracts an atom at the given index in a list, quoted or not.
// Index 0 is the key, 1 is first value, etc.
func GetString(s kicadsexp.Sexp, index int) (string, error) {
	if s == nil || s.IsLeaf() {
		return "", fmt.Errorf("expected list, got leaf")
	}

	items := SexpToSlice(s)
	if index < 0 || index >= len(items) {
		return "", fmt.Errorf("index %d out of bounds (length %d)", index, len(items))
	}

	if v, ok := kicadsexp.Atom(items[index]); ok {
		return v, nil
	}

	return "", fmt.Errorf("expected atom at index %d, got %T", index, items[index])
}

// GetFloat extracts a float64 value at the given index
func GetFloat(s kicadsexp.Sexp, index int) (float64, error) {
	str, err := GetString(s, index)
	if err != nil {
		return 0, err
	}

	val, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse float %q: %w", str, err)
	}

	return val, nil
}

// GetInt extracts an int value at the given index
func GetInt(s kicadsexp.Sexp, index int) (int, error) {
	str, err := GetString(s, index)
	if err != nil {
		return 0, err
	}

	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("failed to parse int %q: %w", str, err)
	}

	return val, nil
}

// GetCoord extracts a millimetre value at the given index
func GetCoord(s kicadsexp.Sexp, index int) (geom.Coord, error) {
	mm, err := GetFloat(s, index)
	if err != nil {
		return 0, err
	}
	return geom.MM(mm), nil
}

// Domain-specific extraction helpers

// GetPoint extracts X,Y from (keyword X Y), e.g. (start X Y) or (xy X Y)
func GetPoint(s kicadsexp.Sexp) (geom.Point, error) {
	if s == nil || s.IsLeaf() {
		return geom.Point{}, fmt.Errorf("expected position list")
	}

	x, err := GetCoord(s, 1)
	if err != nil {
		return geom.Point{}, fmt.Errorf("failed to parse X: %w", err)
	}

	y, err := GetCoord(s, 2)
	if err != nil {
		return geom.Point{}, fmt.Errorf("failed to parse Y: %w", err)
	}

	return geom.Point{X: x, Y: y}, nil
}

// GetAt extracts a position and optional rotation from an (at X Y [angle]) node
func GetAt(s kicadsexp.Sexp) (geom.Point, float64, error) {
	key, err := GetNodeName(s)
	if err != nil {
		return geom.Point{}, 0, err
	}
	if key != "at" {
		return geom.Point{}, 0, fmt.Errorf("expected 'at', got %q", key)
	}

	p, err := GetPoint(s)
	if err != nil {
		return geom.Point{}, 0, err
	}

	// Angle is optional
	angle, err := GetFloat(s, 3)
	if err != nil {
		angle = 0
	}

	return p, geom.NormalizeAngle(angle), nil
}

// GetSize extracts (size W H)
func GetSize(s kicadsexp.Sexp) (geom.Size, error) {
	w, err := GetCoord(s, 1)
	if err != nil {
		return geom.Size{}, fmt.Errorf("failed to parse width: %w", err)
	}
	h, err := GetCoord(s, 2)
	if err != nil {
		return geom.Size{}, fmt.Errorf("failed to parse height: %w", err)
	}
	return geom.Size{W: w, H: h}, nil
}

// GetStrings returns every atom after the key, e.g. (layers "F.Cu" "F.Mask")
func GetStrings(s kicadsexp.Sexp) []string {
	var out []string
	for _, item := range GetListItems(s) {
		if v, ok := kicadsexp.Atom(item); ok {
			out = append(out, v)
		}
	}
	return out
}

// GetChildString returns the first value of the child node named key, e.g.
// GetChildString(fp, "descr").
func GetChildString(s kicadsexp.Sexp, key string) (string, bool) {
	node, ok := FindNode(s, key)
	if !ok || node.IsLeaf() {
		return "", false
	}
	v, err := GetString(node, 1)
	if err != nil {
		return "", false
	}
	return v, true
}

// HasSymbol checks if a list contains a specific bare symbol
func HasSymbol(s kicadsexp.Sexp, symbol string) bool {
	for _, item := range SexpToSlice(s) {
		if sym, ok := item.(kicadsexp.Symbol); ok && string(sym) == symbol {
			return true
		}
	}
	return false
}

// GetNodeName returns the first symbol of a list (the node type/name)
func GetNodeName(s kicadsexp.Sexp) (string, error) {
	if s == nil {
		return "", fmt.Errorf("nil node")
	}

	if s.IsLeaf() {
		if sym, ok := s.(kicadsexp.Symbol); ok {
			return string(sym), nil
		}
		return "", fmt.Errorf("expected symbol leaf")
	}

	if sym, ok := s.Head().(kicadsexp.Symbol); ok {
		return string(sym), nil
	}

	return "", fmt.Errorf("expected symbol at head of list")
}
