// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package encode generates the fixed input patterns that cue digits into
a column.  Each digit maps to a sparse permuted-binary pattern over a
single input pool; patterns are generated once at construction and are
deterministic for a given seed.
*/
package encode

import (
	"fmt"
	"math/rand"

	"github.com/emer/emergent/patgen"
	"github.com/emer/etable/etensor"
)

// Params are the digit pattern generation parameters
type Params struct {
	NDigits int     `def:"10" desc:"number of digit patterns to generate"`
	PoolY   int     `def:"10" desc:"Y size of the input pool"`
	PoolX   int     `def:"10" desc:"X size of the input pool"`
	PctAct  float32 `def:"0.2" desc:"proportion of active units per pattern"`
	MinDiff float32 `def:"0.4" desc:"minimum proportion of active units that must differ between patterns"`
}

// Defaults sets default parameter values
func (ep *Params) Defaults() {
	ep.NDigits = 10
	ep.PoolY = 10
	ep.PoolX = 10
	ep.PctAct = 0.2
	ep.MinDiff = 0.4
}

// DigitEncoder holds one sparse binary pattern per digit, generated
// with patgen permuted-binary sampling.  It is immutable after New.
type DigitEncoder struct {
	Params Params                       `desc:"generation parameters"`
	Vocab  map[string]*etensor.Float32  `view:"no-inline" desc:"pattern vocabulary -- digits under key \"digits\""`
	Pats   *etensor.Float32             `desc:"digit patterns, row per digit"`
}

// New generates the digit patterns for the given parameters and seed.
// The global rand source is seeded for pattern generation only -- the
// column and controllers carry their own generators.
func New(ep Params, seed int64) (*DigitEncoder, error) {
	if ep.NDigits <= 0 || ep.PoolY <= 0 || ep.PoolX <= 0 {
		return nil, fmt.Errorf("encode.New: invalid params: %+v", ep)
	}
	de := &DigitEncoder{Params: ep}
	de.Vocab = map[string]*etensor.Float32{}
	rand.Seed(seed)
	patgen.AddVocabPermutedBinary(de.Vocab, "digits", ep.NDigits, ep.PoolY, ep.PoolX, ep.PctAct, ep.MinDiff)
	de.Pats = de.Vocab["digits"]
	if de.Pats == nil {
		return nil, fmt.Errorf("encode.New: pattern generation failed for params: %+v", ep)
	}
	return de, nil
}

// InputDim returns the flat length of each digit pattern
func (de *DigitEncoder) InputDim() int {
	return de.Params.PoolY * de.Params.PoolX
}

// Encode returns the input pattern for the given digit as a flat
// slice.  The returned slice is a copy and safe to hold.
func (de *DigitEncoder) Encode(digit int) ([]float32, error) {
	if digit < 0 || digit >= de.Params.NDigits {
		return nil, fmt.Errorf("encode.Encode: digit %d out of range [0, %d)", digit, de.Params.NDigits)
	}
	dim := de.InputDim()
	pat := make([]float32, dim)
	copy(pat, de.Pats.Values[digit*dim:(digit+1)*dim])
	return pat, nil
}
