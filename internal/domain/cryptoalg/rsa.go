package cryptoalg

import (
	"context"

	"github.com/MGTheTrain/rsa-engine/internal/domain/rsakey"
)

// RSAProcessor handles RSA key generation, PKCS#1 v1.5 encryption and PKCS#1 v1.5 signatures.
// A processor holds its own source of randomness; keys are passed in per call and never retained.
type RSAProcessor interface {
	// GenerateKey generates an RSA key pair whose modulus has exactly bits bits.
	// bits must be even and at least 512; 2048 or more is recommended.
	GenerateKey(ctx context.Context, bits int) (*rsakey.Key, error)

	// Encrypt encrypts plaintext with PKCS#1 v1.5 encryption padding.
	// NOTE: plaintext may be at most Size()-11 bytes.
	Encrypt(plainText []byte, publicKey rsakey.PublicView) ([]byte, error)

	// Decrypt decrypts a ciphertext of exactly Size() bytes with the private key.
	Decrypt(ciphertext []byte, privateKey *rsakey.Key) ([]byte, error)

	// Sign hashes data with digest and signs it with PKCS#1 v1.5 signature padding.
	Sign(data []byte, digest DigestAlgorithm, privateKey *rsakey.Key) ([]byte, error)

	// Verify checks a PKCS#1 v1.5 signature over data.
	// Returns false, not an error, when the signature does not match.
	Verify(data, signature []byte, digest DigestAlgorithm, publicKey rsakey.PublicView) (bool, error)
}
