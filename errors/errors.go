// Package errors provides the error vocabulary shared by the blok runtime:
// sentinel errors for the conditions the runtime reports, a small
// classification (invalid input vs. fatal contract violation) and helpers
// that wrap errors with the component and method they came from.
package errors

import (
	"errors"
	"fmt"
)

// Class tells callers how an error is meant to be handled.
type Class int

const (
	// ClassInvalid marks errors caused by a caller asking for something the
	// graph does not currently hold (undefined key, missing source).
	ClassInvalid Class = iota
	// ClassFatal marks contract violations: the graph or a node declaration
	// is wrong and retrying will not help.
	ClassFatal
)

func (c Class) String() string {
	switch c {
	case ClassInvalid:
		return "invalid"
	case ClassFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

var (
	// Registry
	ErrUnknownName = errors.New("unknown name")

	// Property system
	ErrNoSuchProperty = errors.New("no such property")
	ErrTypeMismatch   = errors.New("property type mismatch")
	ErrAccessDenied   = errors.New("property access denied")

	// Sockets and wiring
	ErrKeyNotDefined   = errors.New("key not defined")
	ErrInvalidRange    = errors.New("invalid range")
	ErrNotProduced     = errors.New("data not produced")
	ErrNoSource        = errors.New("no source")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrIncompatible    = errors.New("incompatible format")

	// Execution
	ErrConcurrentExecution = errors.New("concurrent execution")

	// Configuration
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ClassifiedError wraps an error with its class and origin.
type ClassifiedError struct {
	Class     Class
	Err       error
	Component string
	Operation string
}

func (ce *ClassifiedError) Error() string {
	return ce.Err.Error()
}

func (ce *ClassifiedError) Unwrap() error {
	return ce.Err
}

// Wrap annotates err following the pattern
// "component.method: action failed: err".
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

// WrapInvalid wraps err and classifies it as invalid.
func WrapInvalid(err error, component, method, action string) error {
	return wrapClass(ClassInvalid, err, component, method, action)
}

// WrapFatal wraps err and classifies it as fatal.
func WrapFatal(err error, component, method, action string) error {
	return wrapClass(ClassFatal, err, component, method, action)
}

func wrapClass(class Class, err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return &ClassifiedError{
		Class:     class,
		Err:       Wrap(err, component, method, action),
		Component: component,
		Operation: method,
	}
}

// IsInvalid reports whether err was classified as invalid, or is one of the
// sentinels that always mean invalid input.
func IsInvalid(err error) bool {
	if err == nil {
		return false
	}
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ClassInvalid
	}
	return errors.Is(err, ErrKeyNotDefined) ||
		errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrNotProduced) ||
		errors.Is(err, ErrNoSource) ||
		errors.Is(err, ErrIndexOutOfRange) ||
		errors.Is(err, ErrIncompatible) ||
		errors.Is(err, ErrUnknownName) ||
		errors.Is(err, ErrInvalidConfig)
}

// IsFatal reports whether err was classified as fatal, or is one of the
// contract-violation sentinels.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ClassFatal
	}
	return errors.Is(err, ErrTypeMismatch) ||
		errors.Is(err, ErrAccessDenied) ||
		errors.Is(err, ErrNoSuchProperty) ||
		errors.Is(err, ErrConcurrentExecution)
}

// Is, As and Join re-export the standard helpers so callers only need one
// errors import.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

func Join(errs ...error) error { return errors.Join(errs...) }

// New re-exports errors.New.
func New(text string) error { return errors.New(text) }
