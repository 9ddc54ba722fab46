package bigint

import "math/bits"

// Add returns x + y.
func (x *Uint) Add(y *Uint) *Uint {
	a, b := x.limbs, y.limbs
	if len(a) < len(b) {
		a, b = b, a
	}
	z := make([]uint64, len(a)+1)
	var c uint64
	for i := range a {
		var bi uint64
		if i < len(b) {
			bi = b[i]
		}
		z[i], c = bits.Add64(a[i], bi, c)
	}
	z[len(a)] = c
	return newUint(z)
}

// Sub returns x - y, or ErrUnderflow if y > x.
func (x *Uint) Sub(y *Uint) (*Uint, error) {
	if x.Cmp(y) < 0 {
		return nil, ErrUnderflow
	}
	return x.sub(y), nil
}

// sub returns x - y. The caller guarantees x >= y.
func (x *Uint) sub(y *Uint) *Uint {
	z := make([]uint64, len(x.limbs))
	var b uint64
	for i := range x.limbs {
		var yi uint64
		if i < len(y.limbs) {
			yi = y.limbs[i]
		}
		z[i], b = bits.Sub64(x.limbs[i], yi, b)
	}
	if b != 0 {
		panic("bigint: internal error: sub underflow")
	}
	return newUint(z)
}

// Mul returns x * y.
func (x *Uint) Mul(y *Uint) *Uint {
	if x.IsZero() || y.IsZero() {
		return Zero()
	}
	return newUint(mulLimbs(x.limbs, y.limbs))
}

func mulLimbs(a, b []uint64) []uint64 {
	z := make([]uint64, len(a)+len(b))
	for i, ai := range a {
		var c uint64
		for j, bj := range b {
			hi, lo := bits.Mul64(ai, bj)
			var cc uint64
			lo, cc = bits.Add64(lo, z[i+j], 0)
			hi += cc
			lo, cc = bits.Add64(lo, c, 0)
			hi += cc
			z[i+j] = lo
			c = hi
		}
		z[i+len(b)] = c
	}
	return z
}

// Lsh returns x << n.
func (x *Uint) Lsh(n uint) *Uint {
	if x.IsZero() {
		return Zero()
	}
	w, s := int(n/limbBits), n%limbBits
	z := make([]uint64, len(x.limbs)+w+1)
	if s == 0 {
		copy(z[w:], x.limbs)
		return newUint(z)
	}
	var carry uint64
	for i, limb := range x.limbs {
		z[i+w] = limb<<s | carry
		carry = limb >> (limbBits - s)
	}
	z[len(x.limbs)+w] = carry
	return newUint(z)
}

// Rsh returns x >> n.
func (x *Uint) Rsh(n uint) *Uint {
	w, s := int(n/limbBits), n%limbBits
	if w >= len(x.limbs) {
		return Zero()
	}
	src := x.limbs[w:]
	z := make([]uint64, len(src))
	if s == 0 {
		copy(z, src)
		return newUint(z)
	}
	for i := range src {
		z[i] = src[i] >> s
		if i+1 < len(src) {
			z[i] |= src[i+1] << (limbBits - s)
		}
	}
	return newUint(z)
}
