// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dcol

import (
	"fmt"
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/emer/etable/etensor"
)

// TransRowNorm is the fixed L1 row norm for the transition matrices
// WNext and WPrev -- always re-established after learning and physics
// application, independent of tuning.
const TransRowNorm = 1.5

// Weights owns the five dense weight matrices of one column.
// Rows are receiving neurons, columns are sending units.
type Weights struct {
	Attr *etensor.Float32 `desc:"recurrent attractor matrix, N x N"`
	Next *etensor.Float32 `desc:"forward (successor) transition matrix, N x N"`
	Prev *etensor.Float32 `desc:"backward (predecessor) transition matrix, N x N"`
	In   *etensor.Float32 `desc:"input matrix, N x InputDim"`
	Out  *etensor.Float32 `desc:"readout matrix, ReadoutDim x N -- delta rule only, no row-norm constraint"`
}

// NewWeights allocates all matrices per the network dimensions
func NewWeights(np *NetworkParams) *Weights {
	wt := &Weights{}
	wt.Attr = etensor.NewFloat32([]int{np.N, np.N}, nil, []string{"Recv", "Send"})
	wt.Next = etensor.NewFloat32([]int{np.N, np.N}, nil, []string{"Recv", "Send"})
	wt.Prev = etensor.NewFloat32([]int{np.N, np.N}, nil, []string{"Recv", "Send"})
	wt.In = etensor.NewFloat32([]int{np.N, np.InputDim}, nil, []string{"Recv", "Send"})
	wt.Out = etensor.NewFloat32([]int{np.ReadoutDim, np.N}, nil, []string{"Recv", "Send"})
	return wt
}

// InitRandom initializes Attr, Next, Prev, In with uniform positive
// random values from the given stream, and zeroes Out.
// The caller must apply physics afterwards to restore the row norms.
func (wt *Weights) InitRandom(rnd *rand.Rand) {
	for _, w := range []*etensor.Float32{wt.Attr, wt.Next, wt.Prev, wt.In} {
		for i := range w.Values {
			w.Values[i] = rnd.Float32()
		}
	}
	for i := range wt.Out.Values {
		wt.Out.Values[i] = 0
	}
}

// RenormRows rescales every row of w so its L1 norm equals target.
// All-zero rows are left alone.
func RenormRows(w *etensor.Float32, target float32) {
	rows := w.Dim(0)
	cols := w.Dim(1)
	for ri := 0; ri < rows; ri++ {
		rv := w.Values[ri*cols : (ri+1)*cols]
		sum := float32(0)
		for _, v := range rv {
			sum += math32.Abs(v)
		}
		if sum == 0 {
			continue
		}
		sc := target / sum
		for ci := range rv {
			rv[ci] *= sc
		}
	}
}

// ApplyPhysics re-establishes the row-norm invariants: Attr and In rows
// to the configured targets, Next and Prev rows to the fixed constant.
// Out is never renormalized.
func (wt *Weights) ApplyPhysics(pp *PhysicsParams) {
	RenormRows(wt.Attr, pp.WAttrRowNorm)
	RenormRows(wt.In, pp.WInRowNorm)
	RenormRows(wt.Next, TransRowNorm)
	RenormRows(wt.Prev, TransRowNorm)
}

// MatVec computes out = w . vec, checking dimensions.
// A length mismatch is an invariant violation: the training pipeline
// upstream is broken, so it is returned as a fatal error.
func MatVec(w *etensor.Float32, vec, out []float32) error {
	rows := w.Dim(0)
	cols := w.Dim(1)
	if len(vec) != cols {
		return fmt.Errorf("dcol.MatVec: vector length %d != matrix cols %d", len(vec), cols)
	}
	if len(out) != rows {
		return fmt.Errorf("dcol.MatVec: output length %d != matrix rows %d", len(out), rows)
	}
	for ri := 0; ri < rows; ri++ {
		rv := w.Values[ri*cols : (ri+1)*cols]
		sum := float32(0)
		for ci, v := range rv {
			sum += v * vec[ci]
		}
		out[ri] = sum
	}
	return nil
}

// RowL1 returns the L1 norm of row ri
func RowL1(w *etensor.Float32, ri int) float32 {
	cols := w.Dim(1)
	rv := w.Values[ri*cols : (ri+1)*cols]
	sum := float32(0)
	for _, v := range rv {
		sum += math32.Abs(v)
	}
	return sum
}
