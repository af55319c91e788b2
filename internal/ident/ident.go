package ident

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// Player and match ids live in disjoint hex ranges, so a four-digit hex id is
// always a player and a six-digit hex id is always a match.
const (
	PlayerLow  = 0x1000
	PlayerHigh = 0xFFFF
	MatchLow   = 0x100000
	MatchHigh  = 0xFFFFFF
)

// maxAttempts bounds the draw-and-check loop. The ranges are large relative
// to expected record counts, so hitting this means the store is effectively
// full (or the count capability is lying).
const maxAttempts = 64

// ErrIDSpaceExhausted is returned when no free id was found within the
// attempt budget.
var ErrIDSpaceExhausted = errors.New("ident: no free id found in range")

// Source yields random ints in [0, n). *rand.Rand satisfies it; tests inject
// a deterministic implementation.
type Source interface {
	Intn(n int) int
}

// CountFunc reports how many stored records currently hold the candidate id.
type CountFunc func(id int) (int64, error)

// Allocator hands out random ids from a half-open range, re-drawing until the
// store-bound count capability reports the candidate unused.
type Allocator struct {
	low, high int
	src       Source
}

// New creates an Allocator over [low, high). A nil src gets a time-seeded
// default.
func New(low, high int, src Source) *Allocator {
	if src == nil {
		src = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Allocator{low: low, high: high, src: src}
}

// Next returns an id that had zero matching records at the time of the check
// immediately preceding return. The caller is expected to persist a record
// under the id straight away; Next itself has no side effects.
func (a *Allocator) Next(count CountFunc) (int, error) {
	for i := 0; i < maxAttempts; i++ {
		candidate := a.low + a.src.Intn(a.high-a.low)
		n, err := count(candidate)
		if err != nil {
			return 0, fmt.Errorf("checking candidate id %#x: %w", candidate, err)
		}
		if n == 0 {
			return candidate, nil
		}
	}
	return 0, ErrIDSpaceExhausted
}
