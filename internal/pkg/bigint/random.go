package bigint

import (
	"fmt"
	"io"
)

// maxRejections bounds rejection sampling so a broken random source cannot hang the caller.
const maxRejections = 128

// RandomBits returns a uniformly random value of at most bits bits read from rng.
func RandomBits(rng io.Reader, bits int) (*Uint, error) {
	if bits <= 0 {
		return Zero(), nil
	}
	buf := make([]byte, (bits+7)/8)
	if _, err := io.ReadFull(rng, buf); err != nil {
		return nil, fmt.Errorf("bigint: read random bytes: %w", err)
	}
	if excess := uint(len(buf)*8 - bits); excess > 0 {
		buf[0] &= 0xff >> excess
	}
	return FromBytes(buf), nil
}

// RandomBelow returns a uniformly random value in [0, bound) using rejection sampling.
func RandomBelow(rng io.Reader, bound *Uint) (*Uint, error) {
	if bound.IsZero() {
		return nil, ErrDivisionByZero
	}
	bitLen := bound.BitLen()
	for i := 0; i < maxRejections; i++ {
		v, err := RandomBits(rng, bitLen)
		if err != nil {
			return nil, err
		}
		if v.Cmp(bound) < 0 {
			return v, nil
		}
	}
	return nil, ErrRandomnessExhausted
}

// RandomRange returns a uniformly random value in [lo, hi].
func RandomRange(rng io.Reader, lo, hi *Uint) (*Uint, error) {
	width, err := hi.Sub(lo)
	if err != nil {
		return nil, err
	}
	v, err := RandomBelow(rng, width.Add(One()))
	if err != nil {
		return nil, err
	}
	return v.Add(lo), nil
}
