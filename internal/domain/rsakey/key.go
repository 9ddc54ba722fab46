package rsakey

import (
	"fmt"

	"github.com/MGTheTrain/rsa-engine/internal/pkg/bigint"
)

// PublicView is the read-only public half of a key. Both public-only and private keys satisfy it.
type PublicView interface {
	// N returns the modulus, or nil for a destroyed key.
	N() *bigint.Uint
	// E returns the public exponent, or nil for a destroyed key.
	E() *bigint.Uint
	// Modulus returns n as exactly Size() bytes.
	Modulus() ([]byte, error)
	// PublicExponent returns e in its minimal encoding.
	PublicExponent() ([]byte, error)
	// Size returns the modulus length in bytes, ⌈bitlen(n)/8⌉.
	Size() int
	// BitLen returns the bit length of the modulus.
	BitLen() int
}

// Components holds the numeric parameters of a key. A nil field is unset.
type Components struct {
	N, E   *bigint.Uint
	D      *bigint.Uint
	P, Q   *bigint.Uint
	DP, DQ *bigint.Uint
	QInv   *bigint.Uint
}

// CRT holds the Chinese Remainder Theorem parameters of a private key.
type CRT struct {
	P, Q   *bigint.Uint
	DP, DQ *bigint.Uint
	QInv   *bigint.Uint
}

// Key is an RSA key. It owns one parameter set: n and e always, d optionally, and the CRT values when the
// primes are known. Private fields of a public-only key are nil rather than zero.
type Key struct {
	n, e *bigint.Uint
	d    *bigint.Uint
	crt  *CRT
}

// New builds a key from c after checking every invariant that the present fields allow. It accepts three shapes:
// public (n, e), private without CRT (n, e, d), and full CRT (all fields). Any other combination, or any
// inconsistency between fields, yields ErrInvalidKey and no key.
func New(c Components) (*Key, error) {
	if err := validate(c); err != nil {
		return nil, err
	}
	k := &Key{n: c.N, e: c.E, d: c.D}
	if c.P != nil {
		k.crt = &CRT{P: c.P, Q: c.Q, DP: c.DP, DQ: c.DQ, QInv: c.QInv}
	}
	return k.Clone(), nil
}

// NewPublicKey builds a public-only key.
func NewPublicKey(n, e *bigint.Uint) (*Key, error) {
	return New(Components{N: n, E: e})
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidKey}, args...)...)
}

func validate(c Components) error {
	if c.N == nil || c.E == nil {
		return invalid("modulus and public exponent are required")
	}
	if !c.N.IsOdd() || c.N.BitLen() < 2 {
		return invalid("modulus must be odd and greater than one")
	}
	if !c.E.IsOdd() || c.E.BitLen() < 2 || c.E.Cmp(c.N) >= 0 {
		return invalid("public exponent must be odd and in (1, n)")
	}

	crtFields := []*bigint.Uint{c.P, c.Q, c.DP, c.DQ, c.QInv}
	present := 0
	for _, f := range crtFields {
		if f != nil {
			present++
		}
	}

	if c.D == nil {
		if present != 0 {
			return invalid("CRT parameters given without a private exponent")
		}
		return nil
	}
	if c.D.IsZero() || c.D.Cmp(c.N) >= 0 {
		return invalid("private exponent must be in (0, n)")
	}

	switch present {
	case 0:
		return nil
	case len(crtFields):
		return validateCRT(c)
	default:
		return invalid("CRT parameters must be given all together")
	}
}

func validateCRT(c Components) error {
	one := bigint.One()
	if c.P.Cmp(one) <= 0 || c.Q.Cmp(one) <= 0 {
		return invalid("primes must be greater than one")
	}
	if !c.P.Mul(c.Q).Equal(c.N) {
		return invalid("n != p*q")
	}
	// Primes and CRT values are exported at half the modulus width.
	half := ((c.N.BitLen()+7)/8 + 1) / 2
	if c.P.BitLen() > 8*half || c.Q.BitLen() > 8*half {
		return invalid("primes must fit in %d bytes", half)
	}

	pMinusOne, _ := c.P.Sub(one)
	qMinusOne, _ := c.Q.Sub(one)

	dp, _ := c.D.Mod(pMinusOne)
	if !dp.Equal(c.DP) {
		return invalid("dp != d mod (p-1)")
	}
	dq, _ := c.D.Mod(qMinusOne)
	if !dq.Equal(c.DQ) {
		return invalid("dq != d mod (q-1)")
	}

	if c.QInv.Cmp(c.P) >= 0 {
		return invalid("qinv must be reduced modulo p")
	}
	check, _ := c.QInv.Mul(c.Q).Mod(c.P)
	if !check.Equal(one) {
		return invalid("qinv*q != 1 mod p")
	}

	lambda := bigint.LCM(pMinusOne, qMinusOne)
	ed, _ := c.E.Mul(c.D).Mod(lambda)
	if !ed.Equal(one) {
		return invalid("e*d != 1 mod lcm(p-1, q-1)")
	}
	return nil
}

// N returns the modulus.
func (k *Key) N() *bigint.Uint { return k.n }

// E returns the public exponent.
func (k *Key) E() *bigint.Uint { return k.e }

// D returns the private exponent, or nil for a public-only key.
func (k *Key) D() *bigint.Uint { return k.d }

// CRT returns the CRT parameters and whether the key has them.
func (k *Key) CRT() (*CRT, bool) {
	return k.crt, k.crt != nil
}

// IsPrivate reports whether the key holds a private exponent.
func (k *Key) IsPrivate() bool { return k.d != nil }

// Size returns the modulus length in bytes. It mirrors RSA_size.
func (k *Key) Size() int {
	return (k.BitLen() + 7) / 8
}

// BitLen returns the bit length of the modulus.
func (k *Key) BitLen() int {
	if k.n == nil {
		return 0
	}
	return k.n.BitLen()
}

// Public returns a public-only copy of the key.
func (k *Key) Public() *Key {
	if k.n == nil {
		return &Key{}
	}
	return &Key{n: copyUint(k.n), e: copyUint(k.e)}
}

// Clone returns a deep copy that shares no storage with k.
func (k *Key) Clone() *Key {
	out := &Key{n: copyUint(k.n), e: copyUint(k.e), d: copyUint(k.d)}
	if k.crt != nil {
		out.crt = &CRT{
			P:    copyUint(k.crt.P),
			Q:    copyUint(k.crt.Q),
			DP:   copyUint(k.crt.DP),
			DQ:   copyUint(k.crt.DQ),
			QInv: copyUint(k.crt.QInv),
		}
	}
	return out
}

// Destroy wipes every parameter held by this instance and leaves it unusable. Clones are unaffected.
func (k *Key) Destroy() {
	for _, v := range []*bigint.Uint{k.n, k.e, k.d} {
		if v != nil {
			v.Wipe()
		}
	}
	if k.crt != nil {
		for _, v := range []*bigint.Uint{k.crt.P, k.crt.Q, k.crt.DP, k.crt.DQ, k.crt.QInv} {
			v.Wipe()
		}
	}
	k.n, k.e, k.d, k.crt = nil, nil, nil, nil
}

func copyUint(x *bigint.Uint) *bigint.Uint {
	if x == nil {
		return nil
	}
	return x.Clone()
}

var _ PublicView = (*Key)(nil)
