package pkcs1

import (
	"crypto/subtle"
	"fmt"

	"github.com/MGTheTrain/rsa-engine/internal/domain/cryptoalg"
)

// EncodeSignature builds the k byte block 00 || 01 || FF..FF || 00 || DigestInfo(alg) || hashed.
// hashed must already be the digest of the message under alg.
func EncodeSignature(alg cryptoalg.DigestAlgorithm, hashed []byte, k int) ([]byte, error) {
	entry, err := lookup(alg)
	if err != nil {
		return nil, err
	}
	if len(hashed) != entry.size {
		return nil, fmt.Errorf("%w: got %d bytes, %s needs %d", ErrInvalidDigestLength, len(hashed), alg, entry.size)
	}

	tLen := len(entry.prefix) + len(hashed)
	if k < tLen+Overhead {
		return nil, fmt.Errorf("%w: %s DigestInfo needs a %d byte modulus", ErrMessageTooLong, alg, tLen+Overhead)
	}

	em := make([]byte, k)
	em[1] = 1
	for i := 2; i < k-tLen-1; i++ {
		em[i] = 0xff
	}
	copy(em[k-tLen:k-len(hashed)], entry.prefix)
	copy(em[k-len(hashed):], hashed)
	return em, nil
}

// VerifySignatureBlock rebuilds the block expected for hashed and compares it with recovered in constant
// time. A mismatch is reported as false; errors are reserved for an unusable digest or key size.
func VerifySignatureBlock(alg cryptoalg.DigestAlgorithm, hashed, recovered []byte, k int) (bool, error) {
	expected, err := EncodeSignature(alg, hashed, k)
	if err != nil {
		return false, err
	}
	// ConstantTimeCompare returns 0 for differing lengths.
	return subtle.ConstantTimeCompare(expected, recovered) == 1, nil
}
