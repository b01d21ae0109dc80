package game

import (
	"crypto/rand"
	"fmt"
	"math/big"
	mrand "math/rand/v2"
	"sync"
)

// SecretSource draws a random integer in [min, max).
type SecretSource interface {
	IntRange(min, max int) (int, error)
}

// CryptoSource draws from crypto/rand. It is the default source.
type CryptoSource struct{}

func (CryptoSource) IntRange(min, max int) (int, error) {
	if min >= max {
		return 0, ErrInvalidRange
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max-min)))
	if err != nil {
		return 0, err
	}
	return min + int(n.Int64()), nil
}

// SeededSource is a deterministic PCG-backed source.
type SeededSource struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeededSource returns a source that yields the same sequence for the same seed.
func NewSeededSource(seed uint64) *SeededSource {
	return &SeededSource{rng: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *SeededSource) IntRange(min, max int) (int, error) {
	if min >= max {
		return 0, ErrInvalidRange
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return min + s.rng.IntN(max-min), nil
}

// FixedSource always yields the same number.
type FixedSource int

func (f FixedSource) IntRange(min, max int) (int, error) {
	n := int(f)
	if n < min || n >= max {
		return 0, fmt.Errorf("%w: fixed secret %d outside [%d, %d)", ErrInvalidRange, n, min, max)
	}
	return n, nil
}
