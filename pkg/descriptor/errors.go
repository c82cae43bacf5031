package descriptor

import "errors"

var (
	// ErrInvalidDescriptor is returned when a descriptor has malformed names.
	ErrInvalidDescriptor = errors.New("descriptor: invalid descriptor")

	// ErrDuplicateAdapter is returned when two descriptors share a generated name.
	ErrDuplicateAdapter = errors.New("descriptor: duplicate adapter")

	// ErrFrozen is returned when appending to an accumulator that has been frozen.
	ErrFrozen = errors.New("descriptor: accumulator is frozen")

	// ErrUnknownFormat is returned for manifest formats other than YAML and JSON.
	ErrUnknownFormat = errors.New("descriptor: unknown manifest format")
)

// IsInvalidDescriptorErr returns true if err is or wraps ErrInvalidDescriptor.
func IsInvalidDescriptorErr(err error) bool {
	return errors.Is(err, ErrInvalidDescriptor)
}

// IsDuplicateAdapterErr returns true if err is or wraps ErrDuplicateAdapter.
func IsDuplicateAdapterErr(err error) bool {
	return errors.Is(err, ErrDuplicateAdapter)
}

// IsFrozenErr returns true if err is or wraps ErrFrozen.
func IsFrozenErr(err error) bool {
	return errors.Is(err, ErrFrozen)
}

// IsUnknownFormatErr returns true if err is or wraps ErrUnknownFormat.
func IsUnknownFormatErr(err error) bool {
	return errors.Is(err, ErrUnknownFormat)
}
