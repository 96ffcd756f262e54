package model

import "fmt"

// PathError reports a missing or invalid snapshot root or category folder.
type PathError struct {
	Path string
	Op   string
	Err  error
}

func (e *PathError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %q: invalid path", e.Op, e.Path)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// FormatError reports a required database or map-tree file that is absent or unreadable.
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unreadable record file %q: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("missing record file %q", e.Path)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// AlignmentError reports a structured record whose stored id does not match its position.
type AlignmentError struct {
	// Kind names the record list ("common event", "switch", ...).
	Kind     string
	Position int
	Expected int
	Got      int
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("%s ids are not properly ordered at position %d: %s != %s",
		e.Kind, e.Position, IDString(e.Got), IDString(e.Expected))
}

// IOError reports a failed copy, delete, or write.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
