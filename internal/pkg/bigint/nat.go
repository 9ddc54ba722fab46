package bigint

import (
	"encoding/hex"
	"math/bits"
)

const (
	limbBits  = 64
	limbBytes = 8
)

// Uint is an immutable arbitrary-precision non-negative integer.
//
// limbs is a little-endian representation in base 2^64. The representation is canonical: the most significant
// limb is never zero, and zero is the empty slice. Two values are equal exactly when their limbs are equal.
type Uint struct {
	limbs []uint64
}

// Zero returns the value 0.
func Zero() *Uint {
	return &Uint{}
}

// One returns the value 1.
func One() *Uint {
	return FromUint64(1)
}

// FromUint64 returns v as a Uint.
func FromUint64(v uint64) *Uint {
	if v == 0 {
		return &Uint{}
	}
	return &Uint{limbs: []uint64{v}}
}

// FromBytes interprets b as a big-endian unsigned integer. Leading zero bytes are ignored.
func FromBytes(b []byte) *Uint {
	limbs := make([]uint64, (len(b)+limbBytes-1)/limbBytes)
	for i := 0; i < len(b); i++ {
		limbs[i/limbBytes] |= uint64(b[len(b)-1-i]) << (8 * (i % limbBytes))
	}
	return newUint(limbs)
}

func newUint(limbs []uint64) *Uint {
	return &Uint{limbs: trim(limbs)}
}

func trim(limbs []uint64) []uint64 {
	n := len(limbs)
	for n > 0 && limbs[n-1] == 0 {
		n--
	}
	return limbs[:n]
}

// padded returns a copy of x's limbs extended with zero limbs to length n.
func (x *Uint) padded(n int) []uint64 {
	out := make([]uint64, n)
	copy(out, x.limbs)
	return out
}

// Clone returns a copy of x that shares no storage with it.
func (x *Uint) Clone() *Uint {
	out := &Uint{limbs: make([]uint64, len(x.limbs))}
	copy(out.limbs, x.limbs)
	return out
}

// Bytes returns the minimal big-endian encoding of x. Zero encodes as an empty slice.
func (x *Uint) Bytes() []byte {
	out, _ := x.FillBytes((x.BitLen() + 7) / 8)
	return out
}

// FillBytes returns x as a big-endian byte slice of exactly size bytes, zero-padded on the left.
//
// The output length depends only on size, never on the value, which is what cryptographic encodings need.
func (x *Uint) FillBytes(size int) ([]byte, error) {
	if (x.BitLen()+7)/8 > size {
		return nil, ErrBufferTooSmall
	}
	out := make([]byte, size)
	for i, limb := range x.limbs {
		for j := 0; j < limbBytes; j++ {
			pos := size - 1 - (i*limbBytes + j)
			if pos < 0 {
				break
			}
			out[pos] = byte(limb >> (8 * j))
		}
	}
	return out, nil
}

// Uint64 returns the low 64 bits of x. The result is x itself when BitLen() <= 64.
func (x *Uint) Uint64() uint64 {
	if len(x.limbs) == 0 {
		return 0
	}
	return x.limbs[0]
}

// BitLen returns the number of significant bits in x. BitLen of zero is 0.
func (x *Uint) BitLen() int {
	if len(x.limbs) == 0 {
		return 0
	}
	top := len(x.limbs) - 1
	return top*limbBits + bits.Len64(x.limbs[top])
}

// Bit returns the value of the i'th bit of x.
func (x *Uint) Bit(i int) uint {
	w := i / limbBits
	if i < 0 || w >= len(x.limbs) {
		return 0
	}
	return uint(x.limbs[w]>>(uint(i)%limbBits)) & 1
}

// IsZero reports whether x == 0.
func (x *Uint) IsZero() bool {
	return len(x.limbs) == 0
}

// IsOdd reports whether x is odd.
func (x *Uint) IsOdd() bool {
	return len(x.limbs) > 0 && x.limbs[0]&1 == 1
}

func (x *Uint) isOne() bool {
	return len(x.limbs) == 1 && x.limbs[0] == 1
}

// TrailingZeroBits returns the number of consecutive zero bits at the bottom of x. It returns 0 for zero.
func (x *Uint) TrailingZeroBits() uint {
	for i, limb := range x.limbs {
		if limb != 0 {
			return uint(i*limbBits + bits.TrailingZeros64(limb))
		}
	}
	return 0
}

// Cmp returns -1, 0 or +1 depending on whether x is less than, equal to or greater than y.
func (x *Uint) Cmp(y *Uint) int {
	switch {
	case len(x.limbs) < len(y.limbs):
		return -1
	case len(x.limbs) > len(y.limbs):
		return 1
	}
	for i := len(x.limbs) - 1; i >= 0; i-- {
		switch {
		case x.limbs[i] < y.limbs[i]:
			return -1
		case x.limbs[i] > y.limbs[i]:
			return 1
		}
	}
	return 0
}

// Equal reports whether x and y have the same value.
func (x *Uint) Equal(y *Uint) bool {
	return x.Cmp(y) == 0
}

// String returns x in hexadecimal with a 0x prefix.
func (x *Uint) String() string {
	if x.IsZero() {
		return "0x0"
	}
	s := hex.EncodeToString(x.Bytes())
	if s[0] == '0' {
		s = s[1:]
	}
	return "0x" + s
}

// Wipe overwrites the limbs of x with zeros, leaving x equal to zero.
//
// It is the only mutating method and exists so owners of secret values can clear them when they are done.
func (x *Uint) Wipe() {
	for i := range x.limbs {
		x.limbs[i] = 0
	}
	x.limbs = x.limbs[:0]
}
