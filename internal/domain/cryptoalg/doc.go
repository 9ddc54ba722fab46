// Package cryptoalg defines the contracts and closed variant types for RSA operations: the digest algorithms a
// signature can be bound to, the padding schemes an operation applies, and the RSAProcessor interface that
// callers program against.
package cryptoalg
