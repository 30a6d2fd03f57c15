// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dcol

import (
	"fmt"
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/emer/etable/etensor"
	"github.com/goki/mat32"
)

// Encoder is the black-box collaborator mapping a digit to its fixed
// binary sparse feature vector.  Must be deterministic per digit with
// constant dimensionality.
type Encoder interface {
	// Encode returns the SDR for the given digit, error if out of range
	Encode(digit int) ([]float32, error)

	// InputDim returns the fixed vector length
	InputDim() int
}

// Column is the simulated recurrent spiking neuron population plus its
// weight matrices, digit prototypes, and private random stream.  One
// Column is owned by exactly one run; no state is shared.
type Column struct {
	Net  NetworkParams `view:"inline" desc:"fixed dimensions"`
	Phys PhysicsParams `desc:"step dynamics and learning parameters"`
	Gate GateParams    `view:"inline" desc:"sustain gate configuration"`

	Wts *Weights `view:"no-inline" desc:"the five weight matrices"`

	Neurons []Neuron `view:"-" desc:"neuron state, one per unit"`

	// per-digit running-average activity fingerprints, NDigits x N --
	// built during the encode curriculum, used for diagnostic
	// classification independent of the readout
	Protos   *etensor.Float32 `view:"no-inline"`
	HasProto []bool           `view:"-" desc:"whether each digit's prototype has been established"`

	RndSeed int64      `desc:"seed of the column's private random stream"`
	Rnd     *rand.Rand `view:"-" desc:"private random stream -- one per column for reproducibility"`

	Dbg *Debugger `view:"-" desc:"optional diagnostic observer -- nil-safe, pure observer"`

	acts     []float32 // current activity vector per ActivityMode
	prevActs []float32 // previous step's activity vector
	recBuf   []float32
	transBuf []float32
	extBuf   []float32
	outBuf   []float32
}

// NewColumn constructs a column with default physics and gate params,
// random initial weights, and a private stream seeded from seed.
func NewColumn(np *NetworkParams, seed int64) (*Column, error) {
	np.Update()
	if err := np.Validate(); err != nil {
		return nil, err
	}
	cl := &Column{Net: *np, RndSeed: seed}
	cl.Phys.Defaults()
	cl.Gate.Defaults()
	cl.Wts = NewWeights(&cl.Net)
	cl.Neurons = make([]Neuron, cl.Net.N)
	cl.Protos = etensor.NewFloat32([]int{cl.Net.NDigits, cl.Net.N}, nil, []string{"Digit", "Neuron"})
	cl.HasProto = make([]bool, cl.Net.NDigits)
	cl.acts = make([]float32, cl.Net.N)
	cl.prevActs = make([]float32, cl.Net.N)
	cl.recBuf = make([]float32, cl.Net.N)
	cl.transBuf = make([]float32, cl.Net.N)
	cl.extBuf = make([]float32, cl.Net.N)
	cl.outBuf = make([]float32, cl.Net.ReadoutDim)
	cl.Seed(seed)
	cl.InitWeights()
	return cl, nil
}

// Seed resets the column's private random stream
func (cl *Column) Seed(seed int64) {
	cl.RndSeed = seed
	cl.Rnd = rand.New(rand.NewSource(seed))
}

// InitWeights randomizes all learnable weights from the private stream
// and re-establishes the row-norm invariants.
func (cl *Column) InitWeights() {
	cl.Wts.InitRandom(cl.Rnd)
	cl.ApplyPhysics()
}

// ApplyPhysics re-establishes the row-norm invariants after any change
// to the physics parameters.
func (cl *Column) ApplyPhysics() {
	cl.Wts.ApplyPhysics(&cl.Phys)
}

// InitState zeroes all neuron state and the activity vectors -- called
// at the start of every trial.
func (cl *Column) InitState() {
	for ni := range cl.Neurons {
		cl.Neurons[ni].Init()
	}
	for i := range cl.acts {
		cl.acts[i] = 0
		cl.prevActs[i] = 0
	}
}

// Activity returns the current population activity vector (live slice,
// do not mutate -- copy before storing).
func (cl *Column) Activity() []float32 { return cl.acts }

// ActivityCopy returns a copy of the current activity vector
func (cl *Column) ActivityCopy() []float32 {
	act := make([]float32, len(cl.acts))
	copy(act, cl.acts)
	return act
}

// SpikeMass returns the sum of the current activity vector
func (cl *Column) SpikeMass() float32 {
	sum := float32(0)
	for _, a := range cl.acts {
		sum += a
	}
	return sum
}

//////////////////////////////////////////////////////////////////////
//  Step dynamics

// StepEncode advances one step with external input drive: full
// attractor gain, no transition drive, unscaled threshold / inhibition.
func (cl *Column) StepEncode(input []float32) error {
	return cl.step(input, OpPlus, false)
}

// StepSettle advances one free step with no input and no transition
// drive: pure associative recall dynamics.
func (cl *Column) StepSettle() {
	_ = cl.step(nil, OpPlus, false) // no input, lengths cannot mismatch
}

// StepFree advances one transition free-run step: reduced attractor
// gain, boosted transition drive via WNext or WPrev per the operator,
// scaled-down threshold and inhibition.
func (cl *Column) StepFree(op Operators) {
	_ = cl.step(nil, op, true) // no input, lengths cannot mismatch
}

// step is the single-timestep dynamics shared by all regimes.  The
// activity vector feeding the matrices is the previous step's state:
// all neurons update synchronously.
func (cl *Column) step(input []float32, op Operators, trans bool) error {
	pp := &cl.Phys
	gAttr, gNext := float32(1), float32(0)
	thScale, inhibScale := float32(1), float32(1)
	var wTrans *etensor.Float32
	if trans {
		gAttr, gNext = pp.AttrGainTrans, pp.NextGainTrans
		thScale, inhibScale = pp.ThScaleTrans, pp.InhibScaleTrans
		wTrans = cl.Wts.Next
		if op == OpMinus {
			wTrans = cl.Wts.Prev
		}
	}
	copy(cl.prevActs, cl.acts)
	act := cl.prevActs

	meanAct := float32(0)
	for _, a := range act {
		meanAct += a
	}
	meanAct /= float32(len(act))
	inhib := pp.KInhib * inhibScale * meanAct
	thr := pp.VTh * thScale

	if err := MatVec(cl.Wts.Attr, act, cl.recBuf); err != nil {
		return err
	}
	if trans {
		if err := MatVec(wTrans, act, cl.transBuf); err != nil {
			return err
		}
	}
	if input != nil {
		if err := MatVec(cl.Wts.In, input, cl.extBuf); err != nil {
			return err
		}
	}

	for ni := range cl.Neurons {
		nrn := &cl.Neurons[ni]
		if nrn.Refrac > 0 {
			// refractory: ignore all input, decay toward reset
			nrn.Refrac--
			nrn.Vm = pp.VReset + pp.Alpha*(nrn.Vm-pp.VReset)
			nrn.Spike = 0
			nrn.RecIn = 0
			nrn.TransIn = 0
			nrn.ExtIn = 0
			nrn.Inhib = 0
			nrn.Noise = 0
		} else {
			rec := gAttr * cl.recBuf[ni]
			tr := float32(0)
			if trans {
				tr = gNext * cl.transBuf[ni]
			}
			ext := float32(0)
			if input != nil {
				ext = cl.extBuf[ni]
			}
			noise := pp.Noise.Gen(cl.Rnd)
			v := pp.Alpha*nrn.Vm + rec + tr + ext - inhib + noise
			nrn.RecIn = rec
			nrn.TransIn = tr
			nrn.ExtIn = ext
			nrn.Inhib = inhib
			nrn.Noise = noise
			if v >= thr {
				nrn.Spike = 1
				nrn.Vm = pp.VReset
				nrn.Refrac = int32(pp.RefracSteps)
			} else {
				nrn.Spike = 0
				nrn.Vm = v
			}
		}
		switch pp.ActivityMode {
		case SpikeEMA:
			nrn.Act += pp.ActivityAlpha * (nrn.Spike - nrn.Act)
		case VoltEMA:
			proxy := nrn.Spike
			if nrn.Spike == 0 {
				proxy = mat32.Clamp(nrn.Vm/pp.VTh, 0, 1)
			}
			nrn.Act += pp.ActivityAlpha * (proxy - nrn.Act)
		default:
			nrn.Act = nrn.Spike
		}
		cl.acts[ni] = nrn.Act
	}
	cl.Dbg.RecordStep(cl, trans)
	return nil
}

//////////////////////////////////////////////////////////////////////
//  Prototypes and prediction

// ProtoSmooth is the exponential smoothing retained fraction for
// prototype updates on re-exposure (95/5).
const ProtoSmooth = 0.95

// UpdateProto folds the given activity vector into the digit's
// prototype: straight copy on first exposure, 95/5 smoothing after.
func (cl *Column) UpdateProto(digit int, act []float32) error {
	if digit < 0 || digit >= cl.Net.NDigits {
		return fmt.Errorf("dcol.UpdateProto: digit %d out of range [0,%d)", digit, cl.Net.NDigits)
	}
	if len(act) != cl.Net.N {
		return fmt.Errorf("dcol.UpdateProto: activity length %d != N %d", len(act), cl.Net.N)
	}
	row := cl.Protos.Values[digit*cl.Net.N : (digit+1)*cl.Net.N]
	if !cl.HasProto[digit] {
		copy(row, act)
		cl.HasProto[digit] = true
		return nil
	}
	for i := range row {
		row[i] = ProtoSmooth*row[i] + (1-ProtoSmooth)*act[i]
	}
	return nil
}

// Proto returns the digit's prototype row (live slice), error if missing
func (cl *Column) Proto(digit int) ([]float32, error) {
	if digit < 0 || digit >= cl.Net.NDigits || !cl.HasProto[digit] {
		return nil, fmt.Errorf("dcol.Proto: no prototype for digit %d", digit)
	}
	return cl.Protos.Values[digit*cl.Net.N : (digit+1)*cl.Net.N], nil
}

// ProtoPredict classifies the activity vector against the prototypes by
// normalized dot product.  Returns ok = false when the activity norm is
// near zero or no prototypes exist -- expected outcome, not an error.
func (cl *Column) ProtoPredict(act []float32) (digit int, ok bool) {
	an := norm32(act)
	if an < 1e-6 {
		return -1, false
	}
	best := float32(-2)
	digit = -1
	for d := 0; d < cl.Net.NDigits; d++ {
		if !cl.HasProto[d] {
			continue
		}
		row := cl.Protos.Values[d*cl.Net.N : (d+1)*cl.Net.N]
		pn := norm32(row)
		if pn < 1e-6 {
			continue
		}
		dot := float32(0)
		for i, a := range act {
			dot += a * row[i]
		}
		sim := dot / (an * pn)
		if sim > best {
			best = sim
			digit = d
		}
	}
	return digit, digit >= 0
}

// Predict runs the readout on the activity vector, returning the argmax
// digit and the logits (live buffer, valid until the next call).
func (cl *Column) Predict(act []float32) (int, []float32, error) {
	if err := MatVec(cl.Wts.Out, act, cl.outBuf); err != nil {
		return -1, nil, err
	}
	mi := 0
	for i := 1; i < len(cl.outBuf); i++ {
		if cl.outBuf[i] > cl.outBuf[mi] {
			mi = i
		}
	}
	return mi, cl.outBuf, nil
}

func norm32(v []float32) float32 {
	ss := float32(0)
	for _, x := range v {
		ss += x * x
	}
	return math32.Sqrt(ss)
}
