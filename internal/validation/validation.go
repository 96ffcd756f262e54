// Package validation provides pre-flight checks for snapshot roots before scan, transfer, and submit.
package validation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/klauern/cusubmit/internal/lcf"
	"github.com/klauern/cusubmit/internal/model"
)

// Error represents a validation failure with context.
type Error struct {
	// Field is the name of the field or component that failed validation
	Field string
	// Message describes the validation failure
	Message string
	// Err is the underlying error (if any)
	Err error
}

// Error returns a formatted validation error message.
func (ve *Error) Error() string {
	if ve.Err != nil {
		return fmt.Sprintf("validation failed for %q: %s: %v", ve.Field, ve.Message, ve.Err)
	}
	return fmt.Sprintf("validation failed for %q: %s", ve.Field, ve.Message)
}

// Unwrap returns the underlying error for errors.Is/As.
func (ve *Error) Unwrap() error {
	return ve.Err
}

// Errors collects multiple validation errors.
type Errors []error

// Error returns a formatted error message for all validation failures.
func (ve Errors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}
	return fmt.Sprintf("%d validation errors:\n- %s", len(ve), errors.Join(ve...))
}

// Result contains the outcome of a validation check.
type Result struct {
	// Valid indicates whether all validations passed
	Valid bool
	// Warnings contains non-fatal validation issues
	Warnings []string
	// Errors contains validation failures that prevent the operation
	Errors []error
}

// AddError adds an error to the validation result.
func (r *Result) AddError(err error) {
	r.Valid = false
	r.Errors = append(r.Errors, err)
}

// AddWarning adds a warning to the validation result.
func (r *Result) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// HasErrors returns true if there are any validation errors.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Error returns the combined validation error.
func (r *Result) Error() error {
	if !r.HasErrors() {
		return nil
	}
	if len(r.Errors) == 1 {
		return r.Errors[0]
	}
	return Errors(r.Errors)
}

// Summary returns a human-readable summary of the validation result.
func (r *Result) Summary() string {
	if r.Valid && len(r.Warnings) == 0 {
		return "All validations passed"
	}
	var msg string
	if r.Valid {
		msg = "Validation passed with warnings"
	} else {
		msg = "Validation failed"
	}
	if len(r.Warnings) > 0 {
		msg += fmt.Sprintf(" (%d warning(s))", len(r.Warnings))
	}
	return msg
}

// ValidateRoot checks that a snapshot root exists and is a directory.
// role names the snapshot in error messages ("base", "modified", "destination").
func ValidateRoot(fs afero.Fs, root, role string) error {
	op := fmt.Sprintf("open %s snapshot", role)
	if root == "" {
		return &model.PathError{Path: root, Op: op, Err: errors.New("path cannot be empty")}
	}

	info, err := fs.Stat(root)
	if err != nil {
		return &model.PathError{Path: root, Op: op, Err: err}
	}
	if !info.IsDir() {
		return &model.PathError{Path: root, Op: op, Err: errors.New("not a directory")}
	}
	return nil
}

// ValidateSnapshot checks the root and the presence of the database and map-tree files.
func ValidateSnapshot(fs afero.Fs, root, role string) error {
	if err := ValidateRoot(fs, root, role); err != nil {
		return err
	}

	for _, path := range []string{lcf.MapTreePath(root), lcf.DatabasePath(root)} {
		info, err := fs.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				return &model.FormatError{Path: path}
			}
			return &model.FormatError{Path: path, Err: err}
		}
		if info.IsDir() {
			return &model.FormatError{Path: path, Err: errors.New("is a directory")}
		}
	}
	return nil
}

// ValidatePair validates the base and modified snapshots of a scan.
func ValidatePair(fs afero.Fs, base, modified string) error {
	if err := ValidateSnapshot(fs, base, "base"); err != nil {
		return err
	}
	if err := ValidateSnapshot(fs, modified, "modified"); err != nil {
		return err
	}

	absBase, errBase := filepath.Abs(base)
	absModified, errModified := filepath.Abs(modified)
	if errBase == nil && errModified == nil && absBase == absModified {
		return &Error{
			Field:   "modified",
			Message: "base and modified snapshots are the same directory",
		}
	}
	return nil
}

// ValidateDestination checks a transfer destination. Missing category folders
// are warnings since transfer skips those assets individually.
func ValidateDestination(fs afero.Fs, root string) (*Result, error) {
	result := &Result{Valid: true}

	if err := ValidateSnapshot(fs, root, "destination"); err != nil {
		result.AddError(err)
		return result, result.Error()
	}

	for _, info := range model.Categories() {
		dir := filepath.Join(root, info.Folder)
		if fi, err := fs.Stat(dir); err != nil || !fi.IsDir() {
			result.AddWarning(fmt.Sprintf("category folder %q is missing; %s assets will be skipped", info.Folder, info.Category))
		}
	}

	if err := validateWritePermission(fs, root); err != nil {
		result.AddError(err)
	}

	return result, result.Error()
}

// ValidateOutputDir checks that a submission package can be created at path.
func ValidateOutputDir(fs afero.Fs, path string) (*Result, error) {
	result := &Result{Valid: true}

	if path == "" {
		result.AddError(&Error{Field: "output", Message: "package name cannot be empty"})
		return result, result.Error()
	}

	info, err := fs.Stat(path)
	switch {
	case err == nil && !info.IsDir():
		result.AddError(&Error{
			Field:   "output",
			Message: fmt.Sprintf("path exists and is not a directory: %s", path),
		})
	case err == nil:
		entries, readErr := afero.ReadDir(fs, path)
		if readErr == nil && len(entries) > 0 {
			result.AddWarning(fmt.Sprintf("package directory %q is not empty; files will be overwritten", path))
		}
	case !os.IsNotExist(err):
		result.AddError(&Error{
			Field:   "output",
			Message: fmt.Sprintf("cannot access path: %s", path),
			Err:     err,
		})
	}

	return result, result.Error()
}

// validateWritePermission checks if the destination directory is writable.
func validateWritePermission(fs afero.Fs, path string) error {
	f, err := afero.TempFile(fs, path, ".cusubmit-write-test-*")
	if err != nil {
		return &Error{
			Field:   "write permission",
			Message: fmt.Sprintf("destination directory is not writable: %s", path),
			Err:     err,
		}
	}
	name := f.Name()
	_ = f.Close()
	_ = fs.Remove(name)

	return nil
}
