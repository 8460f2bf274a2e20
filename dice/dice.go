// Package dice rolls the seeded dice the resolver runs on.
//
// # Determinism
//
// A Roller is a thin wrapper over math/rand seeded once at construction.
// Two rollers built from the same seed produce the same sequence of rolls
// as long as they are asked for the same dice in the same order. A Roller
// is not safe for concurrent use; every simulation run owns its own.
package dice

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// Roll captures the individual dice and their total.
type Roll struct {
	Dice  []int
	Total int
}

func (r Roll) String() string {
	parts := make([]string, len(r.Dice))
	for i, d := range r.Dice {
		parts[i] = strconv.Itoa(d)
	}
	return fmt.Sprintf("%d [%s]", r.Total, strings.Join(parts, "+"))
}

// Roller is a seeded source of dice rolls.
type Roller struct {
	seed int64
	rng  *rand.Rand
}

// New returns a roller seeded with seed.
func New(seed int64) *Roller {
	return &Roller{seed: seed, rng: rand.New(rand.NewSource(seed))}
}

// Seed is the seed the roller was built with.
func (r *Roller) Seed() int64 { return r.seed }

// Roll2D6 rolls two six-sided dice.
func (r *Roller) Roll2D6() Roll {
	a, b := r.rng.Intn(6)+1, r.rng.Intn(6)+1
	return Roll{Dice: []int{a, b}, Total: a + b}
}

// Chance returns true with probability p. p <= 0 never draws from the
// stream and p >= 1 always returns true without drawing.
func (r *Roller) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.rng.Float64() < p
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
