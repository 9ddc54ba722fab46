// Package pkcs1 implements the PKCS#1 v1.5 block formats: encryption padding (block type 2) and signature
// padding (block type 1) with the DigestInfo prefixes of the supported digest algorithms.
//
// Decoding and signature comparison take time independent of where or whether a check fails. The package
// works on byte blocks only; the modular arithmetic lives in the parent package.
package pkcs1
