package cryptography

import (
	"errors"
	"fmt"
	"io"

	"github.com/MGTheTrain/rsa-engine/internal/domain/cryptoalg"
	"github.com/MGTheTrain/rsa-engine/internal/domain/rsakey"
	"github.com/MGTheTrain/rsa-engine/internal/infrastructure/cryptography/pkcs1"
	"github.com/MGTheTrain/rsa-engine/internal/pkg/bigint"
)

// Encrypt pads msg with PKCS#1 v1.5 encryption padding drawn from rng and returns msg^e mod n as exactly
// Size() bytes. padding must be cryptoalg.PKCS1Encryption().
func Encrypt(rng io.Reader, pub rsakey.PublicView, msg []byte, padding cryptoalg.PaddingScheme) ([]byte, error) {
	if padding.Kind() != cryptoalg.PaddingPKCS1Encryption {
		return nil, fmt.Errorf("%w: encrypt with %s", ErrPaddingMismatch, padding)
	}
	n, e, err := publicParams(pub)
	if err != nil {
		return nil, err
	}
	k := pub.Size()

	em, err := pkcs1.EncodeEncryption(rng, msg, k)
	if err != nil {
		if errors.Is(err, pkcs1.ErrRandomSource) {
			return nil, fmt.Errorf("%w: %w", ErrRandomnessUnavailable, err)
		}
		return nil, err
	}
	defer clear(em)

	return publicOp(n, e, bigint.FromBytes(em), k)
}

// Decrypt reverses Encrypt. A ciphertext of the wrong length fails with ErrInvalidCiphertextLength. A
// ciphertext that is not below n, or whose block is not well-formed, fails with ErrInvalidPadding.
func Decrypt(key *rsakey.Key, ciphertext []byte, padding cryptoalg.PaddingScheme) ([]byte, error) {
	if padding.Kind() != cryptoalg.PaddingPKCS1Encryption {
		return nil, fmt.Errorf("%w: decrypt with %s", ErrPaddingMismatch, padding)
	}
	if err := checkPrivate(key); err != nil {
		return nil, err
	}
	k := key.Size()
	if len(ciphertext) != k {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidCiphertextLength, len(ciphertext), k)
	}

	c := bigint.FromBytes(ciphertext)
	if c.Cmp(key.N()) >= 0 {
		return nil, ErrInvalidPadding
	}
	m, err := privateOp(key, c)
	if err != nil {
		return nil, err
	}
	em, err := m.FillBytes(k)
	m.Wipe()
	if err != nil {
		return nil, err
	}
	defer clear(em)

	return pkcs1.DecodeEncryption(em, k)
}

// Sign hashes msg with digest and returns the PKCS#1 v1.5 signature over it.
func Sign(key *rsakey.Key, msg []byte, digest cryptoalg.DigestAlgorithm) ([]byte, error) {
	hashed, err := pkcs1.Digest(digest, msg)
	if err != nil {
		return nil, err
	}
	return SignDigest(key, hashed, digest)
}

// SignDigest signs a precomputed digest. hashed must be the output of digest.
func SignDigest(key *rsakey.Key, hashed []byte, digest cryptoalg.DigestAlgorithm) ([]byte, error) {
	if err := checkPrivate(key); err != nil {
		return nil, err
	}
	k := key.Size()
	em, err := pkcs1.EncodeSignature(digest, hashed, k)
	if err != nil {
		return nil, err
	}

	s, err := privateOp(key, bigint.FromBytes(em))
	if err != nil {
		return nil, err
	}
	return s.FillBytes(k)
}

// Verify reports whether sig is a valid PKCS#1 v1.5 signature over msg. A signature that does not match,
// including one whose value is not below n, yields false and no error.
func Verify(pub rsakey.PublicView, msg, sig []byte, digest cryptoalg.DigestAlgorithm) (bool, error) {
	hashed, err := pkcs1.Digest(digest, msg)
	if err != nil {
		return false, err
	}
	return VerifyDigest(pub, hashed, sig, digest)
}

// VerifyDigest is Verify for a precomputed digest.
func VerifyDigest(pub rsakey.PublicView, hashed, sig []byte, digest cryptoalg.DigestAlgorithm) (bool, error) {
	n, e, err := publicParams(pub)
	if err != nil {
		return false, err
	}
	k := pub.Size()
	if len(sig) != k {
		return false, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidSignatureLength, len(sig), k)
	}

	s := bigint.FromBytes(sig)
	if s.Cmp(n) >= 0 {
		return false, nil
	}
	m, err := bigint.ModPow(s, e, n)
	if err != nil {
		return false, err
	}
	em, err := m.FillBytes(k)
	if err != nil {
		return false, err
	}
	return pkcs1.VerifySignatureBlock(digest, hashed, em, k)
}

// RawPublic computes in^e mod n without padding. in must be Size() bytes and below n.
func RawPublic(pub rsakey.PublicView, in []byte) ([]byte, error) {
	n, e, err := publicParams(pub)
	if err != nil {
		return nil, err
	}
	x, err := rawInput(n, pub.Size(), in)
	if err != nil {
		return nil, err
	}
	return publicOp(n, e, x, pub.Size())
}

// RawPrivate computes in^d mod n without padding, using CRT when the key has it. in must be Size() bytes and
// below n.
func RawPrivate(key *rsakey.Key, in []byte) ([]byte, error) {
	if err := checkPrivate(key); err != nil {
		return nil, err
	}
	x, err := rawInput(key.N(), key.Size(), in)
	if err != nil {
		return nil, err
	}
	m, err := privateOp(key, x)
	if err != nil {
		return nil, err
	}
	return m.FillBytes(key.Size())
}

func rawInput(n *bigint.Uint, k int, in []byte) (*bigint.Uint, error) {
	if len(in) != k {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInputOutOfRange, len(in), k)
	}
	x := bigint.FromBytes(in)
	if x.Cmp(n) >= 0 {
		return nil, fmt.Errorf("%w: value is not below the modulus", ErrInputOutOfRange)
	}
	return x, nil
}

func publicParams(pub rsakey.PublicView) (n, e *bigint.Uint, err error) {
	if pub == nil {
		return nil, nil, fmt.Errorf("%w: public key cannot be nil", ErrInvalidKey)
	}
	if key, ok := pub.(*rsakey.Key); ok && key == nil {
		return nil, nil, fmt.Errorf("%w: public key cannot be nil", ErrInvalidKey)
	}
	n, e = pub.N(), pub.E()
	if n == nil || e == nil {
		return nil, nil, fmt.Errorf("%w: modulus or public exponent unset", ErrInvalidKey)
	}
	return n, e, nil
}

func checkPrivate(key *rsakey.Key) error {
	if key == nil {
		return fmt.Errorf("%w: private key cannot be nil", ErrInvalidKey)
	}
	if !key.IsPrivate() {
		return fmt.Errorf("%w: private exponent unset", ErrInvalidKey)
	}
	return nil
}

func publicOp(n, e, x *bigint.Uint, k int) ([]byte, error) {
	c, err := bigint.ModPow(x, e, n)
	if err != nil {
		return nil, err
	}
	return c.FillBytes(k)
}

// privateOp returns c^d mod n for c < n. With CRT parameters it computes m1 = c^dp mod p and
// m2 = c^dq mod q, recombines them with Garner's formula m = m2 + q*(qinv*(m1-m2) mod p), and checks
// m^e mod n == c before returning.
func privateOp(key *rsakey.Key, c *bigint.Uint) (*bigint.Uint, error) {
	n := key.N()
	crt, ok := key.CRT()
	if !ok {
		return bigint.ModPow(c, key.D(), n)
	}

	m1, err := bigint.ModPow(c, crt.DP, crt.P)
	if err != nil {
		return nil, err
	}
	m2, err := bigint.ModPow(c, crt.DQ, crt.Q)
	if err != nil {
		return nil, err
	}

	// m1 + p - (m2 mod p) is positive, so the subtraction cannot underflow.
	m2p, _ := m2.Mod(crt.P)
	diff, err := m1.Add(crt.P).Sub(m2p)
	if err != nil {
		return nil, err
	}
	h, _ := crt.QInv.Mul(diff).Mod(crt.P)
	m := m2.Add(h.Mul(crt.Q))
	for _, v := range []*bigint.Uint{m1, m2, m2p, diff, h} {
		v.Wipe()
	}

	check, err := bigint.ModPow(m, key.E(), n)
	if err != nil {
		return nil, err
	}
	if !check.Equal(c) {
		m.Wipe()
		return nil, ErrComputationFault
	}
	return m, nil
}
