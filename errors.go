package hll

import "github.com/pkg/errors"

var (
	// ErrInvalidPrecision is returned when a precision outside [MinPrecision, MaxPrecision] is
	// requested, either at construction or in an encoded header.
	ErrInvalidPrecision = errors.New("hll: precision out of range")

	// ErrPrecisionMismatch is returned when merging estimators built with different precisions.
	ErrPrecisionMismatch = errors.New("hll: precision mismatch")

	// ErrMalformedEncoding is returned by Decode and the Unmarshal methods for any input that does
	// not describe exactly 2^p valid registers.
	ErrMalformedEncoding = errors.New("hll: malformed encoding")
)

func checkPrecision(p uint8) error {
	if p < MinPrecision || p > MaxPrecision {
		return errors.Wrapf(ErrInvalidPrecision, "p=%d, want [%d,%d]", p, MinPrecision, MaxPrecision)
	}
	return nil
}
