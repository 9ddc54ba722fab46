package cryptoalg

import "fmt"

// PaddingKind tags the block format of a PaddingScheme.
type PaddingKind int

// Padding kinds. The zero value is not a valid kind.
const (
	PaddingPKCS1Encryption PaddingKind = iota + 1
	PaddingPKCS1Signature
)

// PaddingScheme selects the encode and decode rules an RSA operation applies. Values are built with
// PKCS1Encryption or PKCS1Signature; the zero value matches no scheme.
type PaddingScheme struct {
	kind   PaddingKind
	digest DigestAlgorithm
}

// PKCS1Encryption is the PKCS#1 v1.5 encryption padding (block type 2).
func PKCS1Encryption() PaddingScheme {
	return PaddingScheme{kind: PaddingPKCS1Encryption}
}

// PKCS1Signature is the PKCS#1 v1.5 signature padding (block type 1) bound to digest.
func PKCS1Signature(digest DigestAlgorithm) PaddingScheme {
	return PaddingScheme{kind: PaddingPKCS1Signature, digest: digest}
}

// Kind returns the padding kind.
func (p PaddingScheme) Kind() PaddingKind { return p.kind }

// Digest returns the digest of a signature scheme, or "" for encryption.
func (p PaddingScheme) Digest() DigestAlgorithm { return p.digest }

func (p PaddingScheme) String() string {
	switch p.kind {
	case PaddingPKCS1Encryption:
		return "pkcs1-encryption"
	case PaddingPKCS1Signature:
		return fmt.Sprintf("pkcs1-signature(%s)", p.digest)
	default:
		return "invalid"
	}
}
