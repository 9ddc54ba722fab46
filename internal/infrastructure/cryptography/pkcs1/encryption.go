package pkcs1

import (
	"crypto/subtle"
	"fmt"
	"io"
)

const (
	// Overhead is the number of block bytes PKCS#1 v1.5 encryption reserves: 00 02, eight padding bytes, 00.
	Overhead = 11
	// minPaddingLen is the shortest padding string a type 2 block may carry.
	minPaddingLen = 8
	// maxZeroRedraws bounds how many zero bytes the padding loop tolerates before it gives up on the source.
	maxZeroRedraws = 1 << 12
)

// MaxMessageLen returns the longest message that fits a k byte block.
func MaxMessageLen(k int) int {
	return max(k-Overhead, 0)
}

// EncodeEncryption builds the k byte block 00 || 02 || PS || 00 || msg, where PS is k-len(msg)-3 non-zero
// bytes read from rng. A zero byte in PS is replaced by drawing one more byte from rng, so the block is a
// deterministic function of the rng byte stream.
func EncodeEncryption(rng io.Reader, msg []byte, k int) ([]byte, error) {
	if k < Overhead || len(msg) > k-Overhead {
		return nil, fmt.Errorf("%w: %d bytes, at most %d allowed", ErrMessageTooLong, len(msg), MaxMessageLen(k))
	}

	em := make([]byte, k)
	em[1] = 2
	ps, mm := em[2:len(em)-len(msg)-1], em[len(em)-len(msg):]
	if err := nonZeroRandomBytes(ps, rng); err != nil {
		return nil, err
	}
	em[len(em)-len(msg)-1] = 0
	copy(mm, msg)
	return em, nil
}

func nonZeroRandomBytes(s []byte, rng io.Reader) error {
	if _, err := io.ReadFull(rng, s); err != nil {
		return fmt.Errorf("%w: %w", ErrRandomSource, err)
	}

	redraws := 0
	for i := range s {
		for s[i] == 0 {
			if redraws == maxZeroRedraws {
				return fmt.Errorf("%w: too many zero bytes", ErrRandomSource)
			}
			redraws++
			if _, err := io.ReadFull(rng, s[i:i+1]); err != nil {
				return fmt.Errorf("%w: %w", ErrRandomSource, err)
			}
		}
	}
	return nil
}

// DecodeEncryption checks that block is a well-formed k byte type 2 block and returns the message after the
// separator. Every byte of the block is examined whether or not an earlier check has already failed, and all
// failures report the same ErrInvalidPadding.
func DecodeEncryption(block []byte, k int) ([]byte, error) {
	if k < Overhead || len(block) != k {
		return nil, ErrInvalidPadding
	}

	valid, index := scanEncryptionBlock(block)
	if valid == 0 {
		return nil, ErrInvalidPadding
	}
	out := make([]byte, len(block)-index-1)
	copy(out, block[index+1:])
	return out, nil
}

// scanEncryptionBlock returns valid = 1 and the separator index for a well-formed block, valid = 0
// otherwise. Its control flow depends only on len(block).
func scanEncryptionBlock(block []byte) (valid, index int) {
	firstByteIsZero := subtle.ConstantTimeByteEq(block[0], 0)
	secondByteIsTwo := subtle.ConstantTimeByteEq(block[1], 2)

	// lookingForIndex is 1 until the first zero byte after the header has been seen.
	lookingForIndex := 1
	for i := 2; i < len(block); i++ {
		equals0 := subtle.ConstantTimeByteEq(block[i], 0)
		index = subtle.ConstantTimeSelect(lookingForIndex&equals0, i, index)
		lookingForIndex = subtle.ConstantTimeSelect(equals0, 0, lookingForIndex)
	}

	// PS occupies block[2:index].
	validPS := subtle.ConstantTimeLessOrEq(2+minPaddingLen, index)

	valid = firstByteIsZero & secondByteIsTwo & (^lookingForIndex & 1) & validPS
	index = subtle.ConstantTimeSelect(valid, index, 0)
	return valid, index
}
