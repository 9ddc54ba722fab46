package cryptography

import (
	"context"
	"fmt"
	"io"

	"github.com/MGTheTrain/rsa-engine/internal/domain/rsakey"
	"github.com/MGTheTrain/rsa-engine/internal/pkg/bigint"
)

const (
	// MinKeyBits is the smallest modulus GenerateKey accepts.
	MinKeyBits = 512
	// DefaultExponent is used when GenerateKey is given a nil exponent.
	DefaultExponent = 65537
	// MinPrimalityRounds is the floor on Miller–Rabin rounds per prime candidate.
	MinPrimalityRounds = 40
	// DefaultMaxAttempts bounds the candidates drawn for one prime.
	DefaultMaxAttempts = 10000
)

type keyGenConfig struct {
	rounds      int
	maxAttempts int
	observe     func(attempts int)
}

// KeyGenOption tunes GenerateKey.
type KeyGenOption func(*keyGenConfig)

// WithPrimalityRounds sets the Miller–Rabin rounds per candidate. Values below MinPrimalityRounds are raised to it.
func WithPrimalityRounds(rounds int) KeyGenOption {
	return func(c *keyGenConfig) {
		c.rounds = max(rounds, MinPrimalityRounds)
	}
}

// WithMaxAttempts sets how many candidates may be drawn for each prime before generation fails with
// ErrRandomnessUnavailable. Values below 1 keep the default.
func WithMaxAttempts(attempts int) KeyGenOption {
	return func(c *keyGenConfig) {
		if attempts > 0 {
			c.maxAttempts = attempts
		}
	}
}

// WithAttemptObserver registers fn to receive the total number of candidates drawn by a successful generation.
func WithAttemptObserver(fn func(attempts int)) KeyGenOption {
	return func(c *keyGenConfig) {
		c.observe = fn
	}
}

// GenerateKey generates an RSA key whose modulus has exactly bits bits, with public exponent exponent
// (DefaultExponent when nil). The primes are drawn from rng, so the key is a deterministic function of the
// rng byte stream. ctx is checked before every candidate draw.
//
// The returned key carries the full CRT set with p > q.
func GenerateKey(ctx context.Context, rng io.Reader, bits int, exponent *bigint.Uint, opts ...KeyGenOption) (*rsakey.Key, error) {
	cfg := keyGenConfig{rounds: MinPrimalityRounds, maxAttempts: DefaultMaxAttempts}
	for _, opt := range opts {
		opt(&cfg)
	}

	if bits < MinKeyBits || bits%2 != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidKeySize, bits)
	}
	e := exponent
	if e == nil {
		e = bigint.FromUint64(DefaultExponent)
	}
	if !e.IsOdd() || e.BitLen() < 2 || e.BitLen() >= bits {
		return nil, fmt.Errorf("%w: %s", ErrInvalidExponent, e)
	}

	var p, q *bigint.Uint
	total := 0
	for {
		var attempts int
		var err error
		if p, attempts, err = generatePrime(ctx, rng, bits/2, e, cfg); err != nil {
			return nil, err
		}
		total += attempts
		if q, attempts, err = generatePrime(ctx, rng, bits/2, e, cfg); err != nil {
			return nil, err
		}
		total += attempts
		if !p.Equal(q) {
			break
		}
	}
	if p.Cmp(q) < 0 {
		p, q = q, p
	}

	key, err := assembleKey(p, q, e)
	if err != nil {
		return nil, err
	}
	if cfg.observe != nil {
		cfg.observe(total)
	}
	return key, nil
}

// generatePrime draws odd candidates of exactly bits bits with the top two bits set until one is prime with
// gcd(e, candidate-1) = 1. It returns the prime and the number of candidates drawn.
func generatePrime(ctx context.Context, rng io.Reader, bits int, e *bigint.Uint, cfg keyGenConfig) (*bigint.Uint, int, error) {
	one := bigint.One()
	buf := make([]byte, (bits+7)/8)
	defer clear(buf)

	b := uint(bits % 8)
	if b == 0 {
		b = 8
	}

	for attempt := 1; attempt <= cfg.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, attempt - 1, err
		}

		if _, err := io.ReadFull(rng, buf); err != nil {
			return nil, attempt, randomnessFailure(err)
		}
		// Clear excess bits, then set the top two so the product of two such primes has exactly 2*bits bits.
		buf[0] &= uint8(int(1<<b) - 1)
		if b >= 2 {
			buf[0] |= 3 << (b - 2)
		} else {
			buf[0] |= 1
			buf[1] |= 0x80
		}
		buf[len(buf)-1] |= 1

		candidate := bigint.FromBytes(buf)
		candidateMinusOne, _ := candidate.Sub(one)
		if !bigint.GCD(e, candidateMinusOne).Equal(one) {
			continue
		}

		prime, err := bigint.IsProbablePrime(candidate, cfg.rounds, rng)
		if err != nil {
			return nil, attempt, randomnessFailure(err)
		}
		if prime {
			return candidate, attempt, nil
		}
	}
	return nil, cfg.maxAttempts, fmt.Errorf("%w: %w: no %d-bit prime after %d candidates",
		ErrGenerationFailed, ErrRandomnessUnavailable, bits, cfg.maxAttempts)
}

func randomnessFailure(err error) error {
	return fmt.Errorf("%w: %w: %w", ErrGenerationFailed, ErrRandomnessUnavailable, err)
}

// assembleKey derives d and the CRT values from p > q and e, then builds the key through rsakey.New so the
// result passes the same checks as an imported key.
func assembleKey(p, q, e *bigint.Uint) (*rsakey.Key, error) {
	one := bigint.One()
	pMinusOne, _ := p.Sub(one)
	qMinusOne, _ := q.Sub(one)

	lambda := bigint.LCM(pMinusOne, qMinusOne)
	d, err := bigint.ModInverse(e, lambda)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	qInv, err := bigint.ModInverse(q, p)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	dp, _ := d.Mod(pMinusOne)
	dq, _ := d.Mod(qMinusOne)

	key, err := rsakey.New(rsakey.Components{
		N: p.Mul(q), E: e, D: d,
		P: p, Q: q,
		DP: dp, DQ: dq,
		QInv: qInv,
	})
	for _, v := range []*bigint.Uint{p, q, d, dp, dq, qInv, lambda, pMinusOne, qMinusOne} {
		v.Wipe()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	return key, nil
}
