package zon

import (
	"errors"
	"fmt"
)

var (
	// ErrIO marks stream open/read/write failures. They are always fatal.
	ErrIO = errors.New("zone file i/o")

	// ErrMalformedNumber matches every *MalformedNumberError via errors.Is.
	ErrMalformedNumber = errors.New("malformed number")
)

// MalformedNumberError reports a coordinate field that is not a finite number.
type MalformedNumberError struct {
	Line  int    // 1-based line number
	Field int    // 0-based field index, 2..7
	Name  string // x1, y1, z1, x2, y2 or z2
	Value string // offending field text after trimming
	Err   error  // underlying conversion error
}

func (e *MalformedNumberError) Error() string {
	return fmt.Sprintf("line %d: field %d (%s): malformed number %q", e.Line, e.Field, e.Name, e.Value)
}

func (e *MalformedNumberError) Is(target error) bool { return target == ErrMalformedNumber }

func (e *MalformedNumberError) Unwrap() error { return e.Err }

// ShortLineWarning describes a data line with fewer than ten fields.
// It is never returned as an error; it only shows up in diagnostics when
// Options.ReportShortLines is set.
type ShortLineWarning struct {
	Line   int
	Fields int
}

func (w *ShortLineWarning) Error() string {
	return fmt.Sprintf("line %d: %d fields, need at least %d", w.Line, w.Fields, fieldCount)
}

// DiagnosticKind classifies a recorded line problem.
type DiagnosticKind uint8

const (
	KindMalformedNumber DiagnosticKind = iota + 1
	KindShortLine
)

func (k DiagnosticKind) String() string {
	switch k {
	case KindMalformedNumber:
		return "malformed_number"
	case KindShortLine:
		return "short_line"
	default:
		return fmt.Sprintf("DiagnosticKind(%d)", uint8(k))
	}
}

// Diagnostic is a line-level problem collected instead of aborting.
type Diagnostic struct {
	Line   int
	Kind   DiagnosticKind
	Reason string
	Err    error
}

func newDiagnostic(line int, kind DiagnosticKind, err error) Diagnostic {
	return Diagnostic{Line: line, Kind: kind, Reason: err.Error(), Err: err}
}

func ioErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}
