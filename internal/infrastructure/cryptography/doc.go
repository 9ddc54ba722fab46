// Package cryptography implements the RSA engine: key generation, the PKCS#1 v1.5 encrypt, decrypt, sign
// and verify primitives, and the RSAProcessor that wraps them with logging and metrics.
//
// The primitives are pure functions of their arguments. Randomness is always passed in as an io.Reader.
//
// The private operation keeps the exponent out of its control flow, but the reductions modulo p and q and the
// Garner recombination use variable-time bigint division and multiplication over the secret primes. Their
// timing depends on the ciphertext and on p and q.
package cryptography
