package hanoi

import (
	"errors"
	"fmt"
)

var (
	ErrParse         = errors.New("parse failure")
	ErrEmptySource   = errors.New("empty source peg")
	ErrSizeViolation = errors.New("size violation")
	ErrDiskCount     = errors.New("invalid disk count")
)

// CompileError reports why a command text was rejected. Line numbers count
// non-empty lines only, starting at 1.
type CompileError struct {
	Kind  error
	Line  int
	Lines []int // every failing line, parse failures only
	Peg   Peg
	Disk  int
}

func (e *CompileError) Error() string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case ErrParse:
		if len(e.Lines) > 1 {
			return fmt.Sprintf("line %d: %s: expected <source>,<destination> using A-C or 1-3 (%d lines rejected)", e.Line, e.Kind, len(e.Lines))
		}
		return fmt.Sprintf("line %d: %s: expected <source>,<destination> using A-C or 1-3", e.Line, e.Kind)
	case ErrEmptySource:
		return fmt.Sprintf("line %d: %s: peg %s has no disks", e.Line, e.Kind, e.Peg)
	case ErrSizeViolation:
		return fmt.Sprintf("line %d: %s: disk %d cannot go onto a smaller disk on peg %s", e.Line, e.Kind, e.Disk, e.Peg)
	}
	return fmt.Sprintf("line %d: %v", e.Line, e.Kind)
}

func (e *CompileError) Unwrap() error { return e.Kind }

// KindName is a stable short code for the failure kind, used in API payloads.
func (e *CompileError) KindName() string {
	switch e.Kind {
	case ErrParse:
		return "parse_failure"
	case ErrEmptySource:
		return "empty_source"
	case ErrSizeViolation:
		return "size_violation"
	}
	return "unknown"
}
