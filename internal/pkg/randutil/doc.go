// Package randutil provides the randomness sources handed to key generation and encryption padding: the
// operating system CSPRNG for normal use and a seeded ChaCha20 keystream for reproducible runs and tests.
package randutil
