package fixed

import "github.com/chrismaghuhn/rollback-playground/internal/errs"

// Rand is a XorShift32 generator with explicit, copyable state. The zero
// value is not usable — construct with NewRand.
type Rand struct {
	state uint32
}

// NewRand constructs a Rand from a non-zero seed. Zero is the absorbing
// state of XorShift32 (it maps to itself forever) and is rejected.
func NewRand(seed uint32) (Rand, error) {
	if seed == 0 {
		return Rand{}, errs.New(errs.InvalidArgument, "prng seed must be non-zero")
	}
	return Rand{state: seed}, nil
}

// State returns the current 32-bit state word.
func (r Rand) State() uint32 {
	return r.state
}

// Next advances the generator and returns the new state. Period is
// 2^32 - 1; starting from any non-zero seed the state never becomes
// zero.
func (r *Rand) Next() uint32 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

// Bounded returns a uniform value in [0, bound) using Lemire's
// multiply-high reduction. bound == 0 is rejected.
func (r *Rand) Bounded(bound uint32) (uint32, error) {
	if bound == 0 {
		return 0, errs.New(errs.InvalidArgument, "bounded upper bound must be non-zero")
	}
	product := uint64(r.Next()) * uint64(bound)
	return uint32(product >> 32), nil
}

// NextInt returns a uniform value in [min, max). max <= min is rejected.
func (r *Rand) NextInt(min, max int32) (int32, error) {
	if max <= min {
		return 0, errs.New(errs.InvalidArgument, "NextInt requires max > min")
	}
	span, err := r.Bounded(uint32(max - min))
	if err != nil {
		return 0, err
	}
	return min + int32(span), nil
}
