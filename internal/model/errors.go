package model

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
)

var (
	// ErrSheetNotFound is returned when a workbook lacks the expected data sheet
	ErrSheetNotFound = errors.New("sheet not found")

	// ErrNoDocuments is returned when discovery finds nothing to consolidate
	ErrNoDocuments = errors.New("no status reports found")
)

// DocumentError means a whole document could not be read. The pipeline
// drops the document and continues with the next one.
type DocumentError struct {
	Path string
	Err  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("document %s: %v", filepath.Base(e.Path), e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// CoercionError means a value expected to be numeric was not
type CoercionError struct {
	Field string
	Raw   string
	Err   error
}

func (e *CoercionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: cannot use %q as a number", e.Field, e.Raw)
	}
	return fmt.Sprintf("cannot use %q as a number", e.Raw)
}

func (e *CoercionError) Unwrap() error {
	return e.Err
}

// AggregateDivisionError is returned when consumption is reported against a
// portfolio whose total budget is zero
type AggregateDivisionError struct {
	Consumed float64
}

func (e *AggregateDivisionError) Error() string {
	return "consumed budget " + strconv.FormatFloat(e.Consumed, 'f', -1, 64) +
		" reported against a total budget of 0"
}
