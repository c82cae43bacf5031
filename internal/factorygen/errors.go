package factorygen

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by ProcessingError.
var (
	// ErrNotType is returned when the factory directive is not on a type.
	ErrNotType = errors.New("factory directive must be placed on a type declaration")

	// ErrGenericFactory is returned when the designated type is generic.
	ErrGenericFactory = errors.New("factory type must not declare type parameters")

	// ErrUnbackedMethods is returned when the designated interface declares
	// methods the generated factory has no implementation for.
	ErrUnbackedMethods = errors.New("factory interface must not declare methods beyond adapt.Factory")

	// ErrUnexported is returned when a factory written outside the designated
	// package would reference an unexported identifier.
	ErrUnexported = errors.New("identifier must be exported to be used from the output package")

	// ErrDuplicateTarget is returned when two adapters share a raw target type.
	ErrDuplicateTarget = errors.New("duplicate target type")

	// ErrTypeArity is returned when an adapter wants type arguments but its
	// target declares no type parameters.
	ErrTypeArity = errors.New("type argument mismatch")

	// ErrUnknownRenderer is returned for an unregistered output format.
	ErrUnknownRenderer = errors.New("unknown renderer")
)

// ProcessingError is an invariant violation found while generating the
// factory for one element. It is reported as a diagnostic against Element
// and does not stop other generation work.
type ProcessingError struct {
	Element Element
	Err     error
}

func (e *ProcessingError) Error() string {
	return e.Err.Error()
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

func processingError(el Element, err error) *ProcessingError {
	return &ProcessingError{Element: el, Err: err}
}

func processingErrorf(el Element, sentinel error, format string, args ...any) *ProcessingError {
	return processingError(el, fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...)))
}

// IsProcessingErr returns true if err is or wraps a *ProcessingError.
func IsProcessingErr(err error) bool {
	var perr *ProcessingError
	return errors.As(err, &perr)
}

// IsNotTypeErr returns true if err is or wraps ErrNotType.
func IsNotTypeErr(err error) bool {
	return errors.Is(err, ErrNotType)
}

// IsGenericFactoryErr returns true if err is or wraps ErrGenericFactory.
func IsGenericFactoryErr(err error) bool {
	return errors.Is(err, ErrGenericFactory)
}

// IsUnbackedMethodsErr returns true if err is or wraps ErrUnbackedMethods.
func IsUnbackedMethodsErr(err error) bool {
	return errors.Is(err, ErrUnbackedMethods)
}

// IsUnexportedErr returns true if err is or wraps ErrUnexported.
func IsUnexportedErr(err error) bool {
	return errors.Is(err, ErrUnexported)
}

// IsDuplicateTargetErr returns true if err is or wraps ErrDuplicateTarget.
func IsDuplicateTargetErr(err error) bool {
	return errors.Is(err, ErrDuplicateTarget)
}

// IsTypeArityErr returns true if err is or wraps ErrTypeArity.
func IsTypeArityErr(err error) bool {
	return errors.Is(err, ErrTypeArity)
}
