package bigint

import "math/bits"

// DivMod returns the quotient and remainder of x / y.
func (x *Uint) DivMod(y *Uint) (q, r *Uint, err error) {
	if y.IsZero() {
		return nil, nil, ErrDivisionByZero
	}
	q, r = x.divmod(y)
	return q, r, nil
}

// Mod returns x mod m.
func (x *Uint) Mod(m *Uint) (*Uint, error) {
	if m.IsZero() {
		return nil, ErrDivisionByZero
	}
	return x.mod(m), nil
}

func (x *Uint) mod(m *Uint) *Uint {
	_, r := x.divmod(m)
	return r
}

// divmod is DivMod without the zero check.
func (x *Uint) divmod(y *Uint) (*Uint, *Uint) {
	if x.Cmp(y) < 0 {
		return Zero(), x.Clone()
	}
	if len(y.limbs) == 1 {
		q, r := divWord(x.limbs, y.limbs[0])
		return newUint(q), FromUint64(r)
	}
	q, r := divLimbs(x.limbs, y.limbs)
	return newUint(q), newUint(r)
}

func divWord(u []uint64, v uint64) ([]uint64, uint64) {
	q := make([]uint64, len(u))
	var r uint64
	for i := len(u) - 1; i >= 0; i-- {
		q[i], r = bits.Div64(r, u[i], v)
	}
	return q, r
}

// modWord returns x mod v for a single-limb divisor.
func (x *Uint) modWord(v uint64) uint64 {
	var r uint64
	for i := len(x.limbs) - 1; i >= 0; i-- {
		r = bits.Rem64(r, x.limbs[i], v)
	}
	return r
}

// divLimbs implements Knuth's algorithm D (TAOCP vol. 2, 4.3.1) for a divisor of at least two limbs.
// u must have at least as many limbs as v.
func divLimbs(u, v []uint64) (q, r []uint64) {
	n := len(v)
	m := len(u) - n

	// Normalize so the top limb of the divisor has its high bit set.
	s := uint(bits.LeadingZeros64(v[n-1]))
	vn := make([]uint64, n)
	for i := n - 1; i > 0; i-- {
		vn[i] = v[i]<<s | v[i-1]>>(limbBits-s)
	}
	vn[0] = v[0] << s

	un := make([]uint64, len(u)+1)
	un[len(u)] = u[len(u)-1] >> (limbBits - s)
	for i := len(u) - 1; i > 0; i-- {
		un[i] = u[i]<<s | u[i-1]>>(limbBits-s)
	}
	un[0] = u[0] << s

	q = make([]uint64, m+1)
	vTop, vNext := vn[n-1], vn[n-2]
	for j := m; j >= 0; j-- {
		var qhat, rhat uint64
		rhatOverflow := false
		if un[j+n] >= vTop {
			qhat = ^uint64(0)
			var c uint64
			rhat, c = bits.Add64(un[j+n-1], vTop, 0)
			rhatOverflow = c != 0
		} else {
			qhat, rhat = bits.Div64(un[j+n], un[j+n-1], vTop)
		}

		for !rhatOverflow {
			hi, lo := bits.Mul64(qhat, vNext)
			if hi < rhat || (hi == rhat && lo <= un[j+n-2]) {
				break
			}
			qhat--
			var c uint64
			rhat, c = bits.Add64(rhat, vTop, 0)
			rhatOverflow = c != 0
		}

		// un[j:j+n+1] -= qhat * vn
		var borrow, carry uint64
		for i := 0; i < n; i++ {
			hi, lo := bits.Mul64(qhat, vn[i])
			var c uint64
			lo, c = bits.Add64(lo, carry, 0)
			carry = hi + c
			un[i+j], borrow = bits.Sub64(un[i+j], lo, borrow)
		}
		un[j+n], borrow = bits.Sub64(un[j+n], carry, borrow)

		// qhat was one too large; add the divisor back.
		if borrow != 0 {
			qhat--
			var c uint64
			for i := 0; i < n; i++ {
				un[i+j], c = bits.Add64(un[i+j], vn[i], c)
			}
			un[j+n] += c
		}
		q[j] = qhat
	}

	r = make([]uint64, n)
	for i := 0; i < n-1; i++ {
		r[i] = un[i]>>s | un[i+1]<<(limbBits-s)
	}
	r[n-1] = un[n-1] >> s
	return q, r
}
