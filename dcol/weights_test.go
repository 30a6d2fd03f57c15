// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dcol

import (
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
	"github.com/emer/etable/etensor"
)

const normTol = float32(1.0e-4)

func TestRowNorms(t *testing.T) {
	np := NetworkParams{N: 20, InputDim: 15, NDigits: 5}
	np.Update()
	pp := PhysicsParams{}
	pp.Defaults()
	wt := NewWeights(&np)
	wt.InitRandom(rand.New(rand.NewSource(3)))
	wt.ApplyPhysics(&pp)
	for ri := 0; ri < np.N; ri++ {
		if d := math32.Abs(RowL1(wt.Attr, ri) - pp.WAttrRowNorm); d > normTol {
			t.Errorf("Attr row %d: L1 %g != %g", ri, RowL1(wt.Attr, ri), pp.WAttrRowNorm)
		}
		if d := math32.Abs(RowL1(wt.In, ri) - pp.WInRowNorm); d > normTol {
			t.Errorf("In row %d: L1 %g != %g", ri, RowL1(wt.In, ri), pp.WInRowNorm)
		}
		if d := math32.Abs(RowL1(wt.Next, ri) - TransRowNorm); d > normTol {
			t.Errorf("Next row %d: L1 %g != %g", ri, RowL1(wt.Next, ri), float32(TransRowNorm))
		}
		if d := math32.Abs(RowL1(wt.Prev, ri) - TransRowNorm); d > normTol {
			t.Errorf("Prev row %d: L1 %g != %g", ri, RowL1(wt.Prev, ri), float32(TransRowNorm))
		}
	}
	// Out starts zero and is never renormalized
	for _, v := range wt.Out.Values {
		if v != 0 {
			t.Errorf("Out should be zero after init, got %g", v)
			break
		}
	}
}

func TestRowNormsAfterTuning(t *testing.T) {
	// retargeting the configured norms and re-applying physics must
	// re-establish them; the transition norm stays fixed
	np := NetworkParams{N: 10, InputDim: 10, NDigits: 5}
	np.Update()
	pp := PhysicsParams{}
	pp.Defaults()
	wt := NewWeights(&np)
	wt.InitRandom(rand.New(rand.NewSource(3)))
	wt.ApplyPhysics(&pp)
	pp.WAttrRowNorm = 2.5
	wt.ApplyPhysics(&pp)
	for ri := 0; ri < np.N; ri++ {
		if d := math32.Abs(RowL1(wt.Attr, ri) - 2.5); d > normTol {
			t.Errorf("Attr row %d after retune: L1 %g != 2.5", ri, RowL1(wt.Attr, ri))
		}
		if d := math32.Abs(RowL1(wt.Next, ri) - TransRowNorm); d > normTol {
			t.Errorf("Next row %d after retune: L1 %g != %g", ri, RowL1(wt.Next, ri), float32(TransRowNorm))
		}
	}
}

func TestRenormZeroRow(t *testing.T) {
	w := etensor.NewFloat32([]int{2, 3}, nil, []string{"Recv", "Send"})
	w.Values[3] = 1
	w.Values[4] = 1
	RenormRows(w, 1)
	for ci := 0; ci < 3; ci++ {
		if w.Values[ci] != 0 {
			t.Errorf("zero row modified: %v", w.Values[:3])
		}
	}
	if d := math32.Abs(RowL1(w, 1) - 1); d > normTol {
		t.Errorf("row 1: L1 %g != 1", RowL1(w, 1))
	}
}

func TestMatVec(t *testing.T) {
	w := etensor.NewFloat32([]int{2, 3}, nil, []string{"Recv", "Send"})
	copy(w.Values, []float32{1, 2, 3, 4, 5, 6})
	out := make([]float32, 2)
	if err := MatVec(w, []float32{1, 1, 1}, out); err != nil {
		t.Fatal(err)
	}
	if out[0] != 6 || out[1] != 15 {
		t.Errorf("MatVec: got %v, expected [6 15]", out)
	}
	if err := MatVec(w, []float32{1, 1}, out); err == nil {
		t.Errorf("expected error for short vector")
	}
	if err := MatVec(w, []float32{1, 1, 1}, out[:1]); err == nil {
		t.Errorf("expected error for short output")
	}
}
