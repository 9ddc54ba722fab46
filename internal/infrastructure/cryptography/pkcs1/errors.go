package pkcs1

import "errors"

var (
	// ErrMessageTooLong is returned when a message or DigestInfo does not fit the block.
	ErrMessageTooLong = errors.New("pkcs1: message too long for RSA key size")
	// ErrInvalidPadding is returned when a decrypted block is not a well-formed type 2 block.
	ErrInvalidPadding = errors.New("pkcs1: invalid padding")
	// ErrUnsupportedDigest is returned for a digest algorithm without a DigestInfo prefix.
	ErrUnsupportedDigest = errors.New("pkcs1: unsupported digest algorithm")
	// ErrInvalidDigestLength is returned when a precomputed digest has the wrong size for its algorithm.
	ErrInvalidDigestLength = errors.New("pkcs1: digest length does not match algorithm")
	// ErrRandomSource is returned when padding bytes could not be drawn from the random source.
	ErrRandomSource = errors.New("pkcs1: random source failed")
)
