package bigint

// GCD returns the greatest common divisor of a and b using the binary GCD algorithm. GCD(0, 0) is 0.
func GCD(a, b *Uint) *Uint {
	if a.IsZero() {
		return b.Clone()
	}
	if b.IsZero() {
		return a.Clone()
	}
	za, zb := a.TrailingZeroBits(), b.TrailingZeroBits()
	shift := min(za, zb)

	u := a.Rsh(za)
	v := b.Rsh(zb)
	for !v.IsZero() {
		v = v.Rsh(v.TrailingZeroBits())
		if u.Cmp(v) > 0 {
			u, v = v, u
		}
		v = v.sub(u)
	}
	return u.Lsh(shift)
}

// LCM returns the least common multiple of a and b. LCM with a zero operand is 0.
func LCM(a, b *Uint) *Uint {
	if a.IsZero() || b.IsZero() {
		return Zero()
	}
	q, _ := a.divmod(GCD(a, b))
	return q.Mul(b)
}

// ModInverse returns x such that a*x ≡ 1 (mod m), with 0 <= x < m.
//
// It runs the extended Euclidean algorithm, keeping the Bézout coefficient of a reduced modulo m so the
// computation stays within unsigned arithmetic.
func ModInverse(a, m *Uint) (*Uint, error) {
	if m.IsZero() {
		return nil, ErrDivisionByZero
	}
	if m.isOne() {
		return Zero(), nil
	}

	// Invariant: oldR ≡ oldS*a and r ≡ s*a (mod m).
	oldR, r := m.Clone(), a.mod(m)
	oldS, s := Zero(), One()
	for !r.IsZero() {
		q, rem := oldR.divmod(r)
		oldR, r = r, rem

		qs := q.Mul(s).mod(m)
		next := oldS.Add(m).sub(qs).mod(m)
		oldS, s = s, next
	}
	if !oldR.isOne() {
		return nil, ErrNotInvertible
	}
	return oldS, nil
}
