package noncereuse

import "errors"

var (
	// ErrMismatchedR is returned when two signatures expected to share a
	// nonce carry different r components, meaning the technique does not
	// apply to the pair.
	ErrMismatchedR = errors.New("r values of signatures do not match")

	// ErrDegeneratePair is returned when the divisor s1*r2 - r1*s2 is zero
	// modulo the group order, e.g. for two identical signatures.
	ErrDegeneratePair = errors.New("signature pair is degenerate")
)
