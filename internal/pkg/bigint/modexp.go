package bigint

import "math/bits"

// ctAssign sets dst <- src if on == 1 and leaves dst unchanged if on == 0, without branching on on.
// Both slices must have the same length.
func ctAssign(on uint64, dst, src []uint64) {
	mask := -on
	for i := range dst {
		dst[i] ^= mask & (dst[i] ^ src[i])
	}
}

func wipe(xs ...[]uint64) {
	for _, x := range xs {
		for i := range x {
			x[i] = 0
		}
	}
}

// montgomery holds the precomputed constants for arithmetic modulo an odd m in Montgomery form,
// with R = 2^(64*n) and n = len(m).
type montgomery struct {
	m     []uint64
	m0inv uint64   // -m[0]⁻¹ mod 2^64
	rr    []uint64 // R² mod m
}

func newMontgomery(m *Uint) *montgomery {
	n := len(m.limbs)
	rr := One().Lsh(uint(2 * limbBits * n)).mod(m)
	return &montgomery{
		m:     m.padded(n),
		m0inv: minusInverse(m.limbs[0]),
		rr:    rr.padded(n),
	}
}

// minusInverse computes -x⁻¹ mod 2^64 for odd x. Each Newton step doubles the number of correct low bits,
// starting from the three bits that x⁻¹ = x already gets right modulo 8.
func minusInverse(x uint64) uint64 {
	y := x
	for i := 0; i < 5; i++ {
		y *= 2 - x*y
	}
	return -y
}

// mul sets z = x * y / R mod m. x and y must be reduced and have len(m) limbs; z may alias either of them.
// t is scratch space of len(m)+2 limbs.
func (mm *montgomery) mul(z, x, y, t []uint64) {
	n := len(mm.m)
	for i := range t {
		t[i] = 0
	}
	for i := 0; i < n; i++ {
		// t += x[i] * y
		var c, cc uint64
		xi := x[i]
		for j := 0; j < n; j++ {
			hi, lo := bits.Mul64(xi, y[j])
			lo, cc = bits.Add64(lo, t[j], 0)
			hi += cc
			lo, cc = bits.Add64(lo, c, 0)
			hi += cc
			t[j] = lo
			c = hi
		}
		t[n], cc = bits.Add64(t[n], c, 0)
		t[n+1] = cc

		// t = (t + u*m) / 2^64, where u makes the low limb vanish
		u := t[0] * mm.m0inv
		hi, lo := bits.Mul64(u, mm.m[0])
		_, cc = bits.Add64(lo, t[0], 0)
		c = hi + cc
		for j := 1; j < n; j++ {
			hi, lo = bits.Mul64(u, mm.m[j])
			lo, cc = bits.Add64(lo, t[j], 0)
			hi += cc
			lo, cc = bits.Add64(lo, c, 0)
			hi += cc
			t[j-1] = lo
			c = hi
		}
		t[n-1], cc = bits.Add64(t[n], c, 0)
		t[n] = t[n+1] + cc
		t[n+1] = 0
	}

	// t < 2m here. Subtract m unless that borrows, selecting with a mask rather than a branch.
	var b uint64
	for j := 0; j < n; j++ {
		z[j], b = bits.Sub64(t[j], mm.m[j], b)
	}
	_, b = bits.Sub64(t[n], 0, b)
	ctAssign(b, z, t[:n])
}

// exp returns x^e mod m for x < m. It also returns the number of modular multiplications performed,
// which depends only on len(e) and never on the exponent bits.
func (mm *montgomery) exp(x []uint64, e []uint64) ([]uint64, int) {
	n := len(mm.m)
	t := make([]uint64, n+2)
	one := make([]uint64, n)
	one[0] = 1

	base := make([]uint64, n)
	mm.mul(base, x, mm.rr, t)
	acc := make([]uint64, n)
	mm.mul(acc, one, mm.rr, t)
	prod := make([]uint64, n)

	ops := 0
	for i := len(e) - 1; i >= 0; i-- {
		w := e[i]
		for j := limbBits - 1; j >= 0; j-- {
			mm.mul(acc, acc, acc, t)
			mm.mul(prod, acc, base, t)
			ops += 2
			ctAssign((w>>uint(j))&1, acc, prod)
		}
	}

	out := make([]uint64, n)
	mm.mul(out, acc, one, t)
	wipe(t, base, acc, prod)
	return out, ops
}

// plainExp is the even-modulus counterpart of montgomery.exp. It runs the same ladder over schoolbook
// multiplication followed by reduction.
func plainExp(x *Uint, e []uint64, m *Uint) (*Uint, int) {
	n := len(m.limbs)
	acc := One().padded(n)
	base := x.padded(n)
	prod := make([]uint64, n)

	ops := 0
	for i := len(e) - 1; i >= 0; i-- {
		w := e[i]
		for j := limbBits - 1; j >= 0; j-- {
			sq := newUint(mulLimbs(acc, acc)).mod(m)
			copy(acc, sq.padded(n))
			pr := newUint(mulLimbs(acc, base)).mod(m)
			copy(prod, pr.padded(n))
			ops += 2
			ctAssign((w>>uint(j))&1, acc, prod)
		}
	}
	out := newUint(append([]uint64(nil), acc...))
	wipe(acc, base, prod)
	return out, ops
}

// ModPow returns base^exp mod m.
//
// Every bit of the exponent, up to its limb-aligned width, costs one squaring and one multiplication, and the
// multiplication result is kept or discarded with a mask. Timing therefore reveals the exponent's limb count
// but not its bits. Odd moduli use Montgomery multiplication; even moduli fall back to plain reduction.
func ModPow(base, exp, m *Uint) (*Uint, error) {
	if m.IsZero() {
		return nil, ErrDivisionByZero
	}
	out, _ := modPow(base, exp, m)
	return out, nil
}

func modPow(base, exp, m *Uint) (*Uint, int) {
	if m.isOne() {
		return Zero(), 0
	}
	x := base.mod(m)
	if !m.IsOdd() {
		return plainExp(x, exp.limbs, m)
	}
	mm := newMontgomery(m)
	out, ops := mm.exp(x.padded(len(m.limbs)), exp.limbs)
	return newUint(out), ops
}
