package serialization

import "github.com/pkg/errors"

// Common errors.
var (
	ErrOutOfBounds       = errors.New("tensor extends beyond data section")
	ErrOffsetOverlap     = errors.New("tensor offsets overlap or leave gaps")
	ErrInvalidTensorName = errors.New("invalid tensor name")
	ErrHeaderTooLarge    = errors.New("header exceeds maximum size")
	ErrUnsupportedDType  = errors.New("unsupported dtype")
)

// MaxHeaderSize bounds the JSON header accepted by Read.
const MaxHeaderSize = 100 * 1024 * 1024
