// Package random provides seeding helpers for variant selection.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// NewRNG returns a source seeded with base+stream, or from crypto/rand when
// base is 0. Distinct streams give parallel workers uncorrelated choices.
func NewRNG(base int64, stream int) (*rand.Rand, error) {
	if base == 0 {
		seed, err := NewSeed()
		if err != nil {
			return nil, err
		}
		return rand.New(rand.NewSource(seed)), nil
	}
	return rand.New(rand.NewSource(base + int64(stream))), nil
}
