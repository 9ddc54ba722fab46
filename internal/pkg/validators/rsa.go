package validators

import (
	"fmt"

	"github.com/MGTheTrain/rsa-engine/internal/domain/cryptoalg"
	"github.com/go-playground/validator/v10"
)

const minRSABits = 512

// RSABitsValidation accepts an even modulus size of at least 512 bits.
func RSABitsValidation(fl validator.FieldLevel) bool {
	bits := fl.Field().Int()
	return bits >= minRSABits && bits%2 == 0
}

// RSAExponentValidation accepts an odd public exponent greater than 1.
func RSAExponentValidation(fl validator.FieldLevel) bool {
	e := fl.Field().Uint()
	return e > 1 && e%2 == 1
}

// DigestValidation accepts the names of digests usable in PKCS#1 v1.5 signatures.
func DigestValidation(fl validator.FieldLevel) bool {
	return cryptoalg.DigestAlgorithm(fl.Field().String()).IsSupported()
}

// Register adds the rsa_bits, rsa_exponent and digest tags to v.
func Register(v *validator.Validate) error {
	for tag, fn := range map[string]validator.Func{
		"rsa_bits":     RSABitsValidation,
		"rsa_exponent": RSAExponentValidation,
		"digest":       DigestValidation,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %s validation: %w", tag, err)
		}
	}
	return nil
}
