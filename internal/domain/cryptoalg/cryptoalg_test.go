//go:build unit
// +build unit

package cryptoalg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigestAlgorithm(t *testing.T) {
	for _, d := range DigestAlgorithms() {
		assert.True(t, d.IsSupported(), d.String())
	}

	tests := []DigestAlgorithm{"", "md4", "SHA256", "sha-256"}
	for _, d := range tests {
		assert.False(t, d.IsSupported(), d.String())
	}
}

func TestPaddingScheme(t *testing.T) {
	enc := PKCS1Encryption()
	assert.Equal(t, PaddingPKCS1Encryption, enc.Kind())
	assert.Equal(t, DigestAlgorithm(""), enc.Digest())
	assert.Equal(t, "pkcs1-encryption", enc.String())

	sig := PKCS1Signature(SHA256)
	assert.Equal(t, PaddingPKCS1Signature, sig.Kind())
	assert.Equal(t, SHA256, sig.Digest())
	assert.Equal(t, "pkcs1-signature(sha256)", sig.String())

	var zero PaddingScheme
	assert.Equal(t, PaddingKind(0), zero.Kind())
	assert.Equal(t, "invalid", zero.String())
}
