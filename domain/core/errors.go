package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound        = errors.New("resource not found")
	ErrSessionNotFound = fmt.Errorf("%w: session", ErrNotFound)

	// Parse errors
	ErrParse           = errors.New("parse error")
	ErrInvalidEncoding = fmt.Errorf("%w: input is not valid UTF-8", ErrParse)
	ErrMalformedCSV    = fmt.Errorf("%w: malformed CSV", ErrParse)
	ErrMissingColumn   = fmt.Errorf("%w: required column missing", ErrParse)
	ErrEmptyInput      = fmt.Errorf("%w: no header row", ErrParse)
	ErrTooLarge        = fmt.Errorf("%w: input too large", ErrParse)
	ErrUnreadableSheet = fmt.Errorf("%w: unreadable workbook", ErrParse)

	// Input errors
	ErrUnknownTab = errors.New("unknown tab")
)

// Error constructors with context
func NewMissingColumnError(column string) error {
	return fmt.Errorf("%w: %q", ErrMissingColumn, column)
}

func NewMalformedCSVError(line int, cause error) error {
	if line > 0 {
		return fmt.Errorf("%w at line %d: %v", ErrMalformedCSV, line, cause)
	}
	return fmt.Errorf("%w: %v", ErrMalformedCSV, cause)
}

func NewTooLargeError(size, limit int64) error {
	return fmt.Errorf("%w: %d bytes exceeds the %d byte limit", ErrTooLarge, size, limit)
}

func NewUnknownTabError(tab string) error {
	return fmt.Errorf("%w: %q", ErrUnknownTab, tab)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsParseError(err error) bool {
	return errors.Is(err, ErrParse)
}
