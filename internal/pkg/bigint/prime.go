package bigint

import "io"

// smallPrimes are used for trial division before Miller–Rabin. Most random odd candidates have a small factor,
// and ruling them out costs one word division each instead of a modular exponentiation.
var smallPrimes = sieve(2000)

func sieve(limit int) []uint64 {
	composite := make([]bool, limit+1)
	var primes []uint64
	for i := 2; i <= limit; i++ {
		if composite[i] {
			continue
		}
		primes = append(primes, uint64(i))
		for j := i * i; j <= limit; j += i {
			composite[j] = true
		}
	}
	return primes
}

// IsProbablePrime reports whether candidate is prime, using trial division followed by Miller–Rabin with rounds
// independent witnesses drawn uniformly from [2, candidate-2] using rng.
//
// A prime is never reported as composite. A composite passes with probability at most 4^(-rounds).
// rounds <= 0 performs trial division only, which is exact for candidates below 2000².
func IsProbablePrime(candidate *Uint, rounds int, rng io.Reader) (bool, error) {
	if candidate.BitLen() <= 1 {
		return false, nil
	}
	if !candidate.IsOdd() {
		return candidate.BitLen() == 2 && candidate.limbs[0] == 2, nil
	}
	for _, p := range smallPrimes {
		if len(candidate.limbs) == 1 && candidate.limbs[0] == p {
			return true, nil
		}
		if candidate.modWord(p) == 0 {
			return false, nil
		}
	}
	last := smallPrimes[len(smallPrimes)-1]
	if len(candidate.limbs) == 1 && candidate.limbs[0] < last*last {
		return true, nil
	}
	if rounds <= 0 {
		return true, nil
	}
	return millerRabin(candidate, rounds, rng)
}

func millerRabin(n *Uint, rounds int, rng io.Reader) (bool, error) {
	nMinusOne := n.sub(One())
	s := nMinusOne.TrailingZeroBits()
	d := nMinusOne.Rsh(s)

	mm := newMontgomery(n)
	size := len(n.limbs)
	lo, hi := FromUint64(2), nMinusOne.sub(One())

NextWitness:
	for i := 0; i < rounds; i++ {
		a, err := RandomRange(rng, lo, hi)
		if err != nil {
			return false, err
		}
		xl, _ := mm.exp(a.padded(size), d.limbs)
		x := newUint(xl)
		if x.isOne() || x.Equal(nMinusOne) {
			continue
		}
		for r := uint(1); r < s; r++ {
			x = x.Mul(x).mod(n)
			if x.Equal(nMinusOne) {
				continue NextWitness
			}
			if x.isOne() {
				return false, nil
			}
		}
		return false, nil
	}
	return true, nil
}
