package board

import (
	"errors"
	"fmt"
)

// ErrConstruction is matched by every *ConstructionError via errors.Is.
var ErrConstruction = errors.New("board: invalid construction parameters")

// ConstructionError reports invalid parameters passed to a constructor.
// Constructors never return a partially built value alongside it.
type ConstructionError struct {
	Object string // What was being built ("pad", "package", ...)
	Field  string
	Reason string
	Err    error
}

func (e *ConstructionError) Error() string {
	msg := e.Object
	if e.Field != "" {
		msg += " " + e.Field
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return "invalid " + msg
}

func (e *ConstructionError) Unwrap() error { return e.Err }

func (e *ConstructionError) Is(target error) bool { return target == ErrConstruction }

func constructionErr(object, field, format string, args ...any) error {
	return &ConstructionError{Object: object, Field: field, Reason: fmt.Sprintf(format, args...)}
}
