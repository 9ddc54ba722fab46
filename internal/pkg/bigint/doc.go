// Package bigint provides the arbitrary-precision unsigned integer arithmetic the RSA engine is built on.
//
// Values are immutable once constructed: every operation returns a new Uint and never modifies its operands.
// Modular exponentiation runs a square-and-multiply-always ladder whose control flow does not depend on the
// exponent bits, so it is safe to use with private exponents. The remaining operations (division, GCD,
// inversion) are variable-time and intended for key generation and public values.
//
// ModPow itself starts by reducing the base with a variable-time division, and the modulus is a secret prime
// when the caller runs the CRT half-exponentiations. That reduction leaks timing that depends on the base and
// the prime, not on the exponent.
package bigint
