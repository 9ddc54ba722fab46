package cryptoalg

// DigestAlgorithm names the message digest bound into a PKCS#1 v1.5 signature.
type DigestAlgorithm string

// Supported digest algorithms. Each has a DigestInfo prefix in PKCS#1.
const (
	MD5        DigestAlgorithm = "md5"
	SHA1       DigestAlgorithm = "sha1"
	SHA224     DigestAlgorithm = "sha224"
	SHA256     DigestAlgorithm = "sha256"
	SHA384     DigestAlgorithm = "sha384"
	SHA512     DigestAlgorithm = "sha512"
	SHA512_224 DigestAlgorithm = "sha512-224"
	SHA512_256 DigestAlgorithm = "sha512-256"
	SHA3_256   DigestAlgorithm = "sha3-256"
	SHA3_384   DigestAlgorithm = "sha3-384"
	SHA3_512   DigestAlgorithm = "sha3-512"
)

// DigestAlgorithms lists every supported digest in a stable order.
func DigestAlgorithms() []DigestAlgorithm {
	return []DigestAlgorithm{
		MD5, SHA1, SHA224, SHA256, SHA384, SHA512, SHA512_224, SHA512_256, SHA3_256, SHA3_384, SHA3_512,
	}
}

// IsSupported reports whether d is one of the supported digest algorithms.
func (d DigestAlgorithm) IsSupported() bool {
	for _, known := range DigestAlgorithms() {
		if d == known {
			return true
		}
	}
	return false
}

func (d DigestAlgorithm) String() string {
	return string(d)
}
