package bigint

import "errors"

var (
	// ErrUnderflow is returned when a subtraction would produce a negative result.
	ErrUnderflow = errors.New("bigint: subtraction underflow")

	// ErrDivisionByZero is returned by division and modular operations with a zero divisor or modulus.
	ErrDivisionByZero = errors.New("bigint: division by zero")

	// ErrNotInvertible is returned by ModInverse when gcd(a, m) != 1.
	ErrNotInvertible = errors.New("bigint: value is not invertible")

	// ErrBufferTooSmall is returned by FillBytes when the value does not fit the requested length.
	ErrBufferTooSmall = errors.New("bigint: value does not fit in buffer")

	// ErrRandomnessExhausted is returned when a random source keeps producing out-of-range values.
	ErrRandomnessExhausted = errors.New("bigint: random source failed to produce an in-range value")
)
