package pkcs1

import (
	"crypto/md5"  // #nosec G501 -- MD5 is only offered for verifying legacy signatures
	"crypto/sha1" // #nosec G505 -- SHA-1 is only offered for verifying legacy signatures
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	"github.com/MGTheTrain/rsa-engine/internal/domain/cryptoalg"
	"golang.org/x/crypto/sha3"
)

type digestSpec struct {
	// prefix is the DER encoding of DigestInfo up to, but not including, the digest bytes.
	prefix  []byte
	size    int
	newHash func() hash.Hash
}

var digests = map[cryptoalg.DigestAlgorithm]digestSpec{
	cryptoalg.MD5: {
		prefix:  []byte{0x30, 0x20, 0x30, 0x0c, 0x06, 0x08, 0x2a, 0x86, 0x48, 0x86, 0xf7, 0x0d, 0x02, 0x05, 0x05, 0x00, 0x04, 0x10},
		size:    md5.Size,
		newHash: md5.New,
	},
	cryptoalg.SHA1: {
		prefix:  []byte{0x30, 0x21, 0x30, 0x09, 0x06, 0x05, 0x2b, 0x0e, 0x03, 0x02, 0x1a, 0x05, 0x00, 0x04, 0x14},
		size:    sha1.Size,
		newHash: sha1.New,
	},
	cryptoalg.SHA224: {
		prefix:  []byte{0x30, 0x2d, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x04, 0x05, 0x00, 0x04, 0x1c},
		size:    sha256.Size224,
		newHash: sha256.New224,
	},
	cryptoalg.SHA256: {
		prefix:  []byte{0x30, 0x31, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x01, 0x05, 0x00, 0x04, 0x20},
		size:    sha256.Size,
		newHash: sha256.New,
	},
	cryptoalg.SHA384: {
		prefix:  []byte{0x30, 0x41, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x02, 0x05, 0x00, 0x04, 0x30},
		size:    sha512.Size384,
		newHash: sha512.New384,
	},
	cryptoalg.SHA512: {
		prefix:  []byte{0x30, 0x51, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x03, 0x05, 0x00, 0x04, 0x40},
		size:    sha512.Size,
		newHash: sha512.New,
	},
	cryptoalg.SHA512_224: {
		prefix:  []byte{0x30, 0x2d, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x05, 0x05, 0x00, 0x04, 0x1c},
		size:    sha512.Size224,
		newHash: sha512.New512_224,
	},
	cryptoalg.SHA512_256: {
		prefix:  []byte{0x30, 0x31, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x06, 0x05, 0x00, 0x04, 0x20},
		size:    sha512.Size256,
		newHash: sha512.New512_256,
	},
	cryptoalg.SHA3_256: {
		prefix:  []byte{0x30, 0x31, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x08, 0x05, 0x00, 0x04, 0x20},
		size:    32,
		newHash: sha3.New256,
	},
	cryptoalg.SHA3_384: {
		prefix:  []byte{0x30, 0x41, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x09, 0x05, 0x00, 0x04, 0x30},
		size:    48,
		newHash: sha3.New384,
	},
	cryptoalg.SHA3_512: {
		prefix:  []byte{0x30, 0x51, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x0a, 0x05, 0x00, 0x04, 0x40},
		size:    64,
		newHash: sha3.New512,
	},
}

func lookup(alg cryptoalg.DigestAlgorithm) (digestSpec, error) {
	entry, ok := digests[alg]
	if !ok {
		return digestSpec{}, fmt.Errorf("%w: %q", ErrUnsupportedDigest, alg)
	}
	return entry, nil
}

// Digest hashes msg with alg.
func Digest(alg cryptoalg.DigestAlgorithm, msg []byte) ([]byte, error) {
	entry, err := lookup(alg)
	if err != nil {
		return nil, err
	}
	h := entry.newHash()
	h.Write(msg)
	return h.Sum(nil), nil
}

// Size returns the output length of alg in bytes.
func Size(alg cryptoalg.DigestAlgorithm) (int, error) {
	entry, err := lookup(alg)
	if err != nil {
		return 0, err
	}
	return entry.size, nil
}

// Prefix returns a copy of the DigestInfo prefix of alg.
func Prefix(alg cryptoalg.DigestAlgorithm) ([]byte, error) {
	entry, err := lookup(alg)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), entry.prefix...), nil
}
