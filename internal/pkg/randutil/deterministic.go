package randutil

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/hkdf"
)

const streamInfo = "rsa-engine/randutil deterministic stream"

// DeterministicReader is an io.Reader over the ChaCha20 keystream keyed by HKDF-SHA256 of a seed, with an
// all-zero nonce. Two readers built from the same seed return the same bytes however the reads are split.
//
// It is not safe for concurrent use and must never stand in for crypto/rand outside reproducible runs.
type DeterministicReader struct {
	cipher *chacha20.Cipher
}

// NewDeterministicReader returns the stream for seed.
func NewDeterministicReader(seed []byte) (*DeterministicReader, error) {
	return newDeterministicReader(seed, streamInfo)
}

// DeriveDeterministicReader returns the index'th independent stream for seed. It lets parallel workers each
// draw from their own reproducible stream.
func DeriveDeterministicReader(seed []byte, index int) (*DeterministicReader, error) {
	return newDeterministicReader(seed, streamInfo+"/"+strconv.Itoa(index))
}

func newDeterministicReader(seed []byte, info string) (*DeterministicReader, error) {
	key := make([]byte, chacha20.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, seed, nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("failed to derive stream key: %w", err)
	}
	c, err := chacha20.NewUnauthenticatedCipher(key, make([]byte, chacha20.NonceSize))
	if err != nil {
		return nil, fmt.Errorf("failed to create keystream: %w", err)
	}
	clear(key)
	return &DeterministicReader{cipher: c}, nil
}

// Read fills p with the next len(p) keystream bytes. It never fails.
func (r *DeterministicReader) Read(p []byte) (int, error) {
	clear(p)
	r.cipher.XORKeyStream(p, p)
	return len(p), nil
}

// Factory returns the randomness source for the index'th job of a batch.
type Factory func(index int) (io.Reader, error)

// SystemFactory hands every job crypto/rand.Reader.
func SystemFactory() Factory {
	return func(int) (io.Reader, error) {
		return rand.Reader, nil
	}
}

// DeterministicFactory hands job i the stream DeriveDeterministicReader(seed, i).
func DeterministicFactory(seed []byte) Factory {
	seed = append([]byte(nil), seed...)
	return func(index int) (io.Reader, error) {
		return DeriveDeterministicReader(seed, index)
	}
}
