package cryptography

import (
	"errors"

	"github.com/MGTheTrain/rsa-engine/internal/domain/rsakey"
	"github.com/MGTheTrain/rsa-engine/internal/infrastructure/cryptography/pkcs1"
)

var (
	// ErrInvalidCiphertextLength is returned when a ciphertext is not exactly Size() bytes.
	ErrInvalidCiphertextLength = errors.New("rsa: ciphertext length does not match modulus size")
	// ErrInvalidSignatureLength is returned when a signature is not exactly Size() bytes.
	ErrInvalidSignatureLength = errors.New("rsa: signature length does not match modulus size")
	// ErrGenerationFailed is returned when key generation gives up.
	ErrGenerationFailed = errors.New("rsa: key generation failed")
	// ErrRandomnessUnavailable is returned when the random source fails or keeps yielding unusable bytes.
	ErrRandomnessUnavailable = errors.New("rsa: randomness unavailable")
	// ErrInvalidKeySize is returned for a requested modulus size that is odd or below MinKeyBits.
	ErrInvalidKeySize = errors.New("rsa: key size must be even and at least 512 bits")
	// ErrInvalidExponent is returned for a public exponent that is even, below 3, or too large for the key.
	ErrInvalidExponent = errors.New("rsa: invalid public exponent")
	// ErrPaddingMismatch is returned when the padding scheme does not belong to the operation.
	ErrPaddingMismatch = errors.New("rsa: padding scheme does not match operation")
	// ErrComputationFault is returned when a CRT result fails the public-exponent check.
	ErrComputationFault = errors.New("rsa: private key computation failed consistency check")
	// ErrInputOutOfRange is returned by the raw operations for input that is not Size() bytes or not below n.
	ErrInputOutOfRange = errors.New("rsa: input out of range")
)

// Errors from the key model and the padding layer, re-exported so callers can match on one package.
var (
	ErrInvalidKey        = rsakey.ErrInvalidKey
	ErrMessageTooLong    = pkcs1.ErrMessageTooLong
	ErrInvalidPadding    = pkcs1.ErrInvalidPadding
	ErrUnsupportedDigest = pkcs1.ErrUnsupportedDigest
)
