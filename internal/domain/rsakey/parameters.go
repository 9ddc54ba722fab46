package rsakey

import (
	"fmt"

	"github.com/MGTheTrain/rsa-engine/internal/pkg/bigint"
)

// Parameters is the big-endian byte form of a key. An empty slice marks an absent field.
type Parameters struct {
	N, E   []byte
	D      []byte
	P, Q   []byte
	DP, DQ []byte
	QInv   []byte
}

func fromBuffer(b []byte) *bigint.Uint {
	if len(b) == 0 {
		return nil
	}
	return bigint.FromBytes(b)
}

// FromParameters builds a key from byte buffers with the same rules as New.
func FromParameters(p Parameters) (*Key, error) {
	return New(Components{
		N:    fromBuffer(p.N),
		E:    fromBuffer(p.E),
		D:    fromBuffer(p.D),
		P:    fromBuffer(p.P),
		Q:    fromBuffer(p.Q),
		DP:   fromBuffer(p.DP),
		DQ:   fromBuffer(p.DQ),
		QInv: fromBuffer(p.QInv),
	})
}

// halfSize is the export width of the CRT values.
func (k *Key) halfSize() int {
	return (k.Size() + 1) / 2
}

func export(x *bigint.Uint, size int) ([]byte, error) {
	out, err := x.FillBytes(size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return out, nil
}

// Modulus returns n as exactly Size() bytes.
func (k *Key) Modulus() ([]byte, error) {
	if k.n == nil {
		return nil, invalid("key has been destroyed")
	}
	return export(k.n, k.Size())
}

// PublicExponent returns e in its minimal encoding.
func (k *Key) PublicExponent() ([]byte, error) {
	if k.e == nil {
		return nil, invalid("key has been destroyed")
	}
	return k.e.Bytes(), nil
}

// PrivateExponent returns d as exactly Size() bytes.
func (k *Key) PrivateExponent() ([]byte, error) {
	if k.d == nil {
		return nil, invalid("key has no private exponent")
	}
	return export(k.d, k.Size())
}

// Primes returns p and q, each ⌈Size()/2⌉ bytes wide.
func (k *Key) Primes() (p, q []byte, err error) {
	if k.crt == nil {
		return nil, nil, invalid("key has no CRT parameters")
	}
	if p, err = export(k.crt.P, k.halfSize()); err != nil {
		return nil, nil, err
	}
	if q, err = export(k.crt.Q, k.halfSize()); err != nil {
		return nil, nil, err
	}
	return p, q, nil
}

// CRTValues returns dp, dq and qinv, each ⌈Size()/2⌉ bytes wide.
func (k *Key) CRTValues() (dp, dq, qinv []byte, err error) {
	if k.crt == nil {
		return nil, nil, nil, invalid("key has no CRT parameters")
	}
	size := k.halfSize()
	if dp, err = export(k.crt.DP, size); err != nil {
		return nil, nil, nil, err
	}
	if dq, err = export(k.crt.DQ, size); err != nil {
		return nil, nil, nil, err
	}
	if qinv, err = export(k.crt.QInv, size); err != nil {
		return nil, nil, nil, err
	}
	return dp, dq, qinv, nil
}

// Parameters exports every field the key holds. Absent fields stay empty, so the result round-trips through
// FromParameters.
func (k *Key) Parameters() (Parameters, error) {
	var out Parameters
	var err error
	if out.N, err = k.Modulus(); err != nil {
		return Parameters{}, err
	}
	if out.E, err = k.PublicExponent(); err != nil {
		return Parameters{}, err
	}
	if k.d == nil {
		return out, nil
	}
	if out.D, err = k.PrivateExponent(); err != nil {
		return Parameters{}, err
	}
	if k.crt == nil {
		return out, nil
	}
	if out.P, out.Q, err = k.Primes(); err != nil {
		return Parameters{}, err
	}
	if out.DP, out.DQ, out.QInv, err = k.CRTValues(); err != nil {
		return Parameters{}, err
	}
	return out, nil
}
