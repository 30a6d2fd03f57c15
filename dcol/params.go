// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dcol

import (
	"fmt"
	"math/rand"

	"github.com/emer/emergent/erand"
	"github.com/goki/ki/kit"
)

// NetworkParams are the fixed dimensions of one column instance.
// All weight matrices are sized from these -- immutable after construction.
type NetworkParams struct {
	N          int `def:"120" desc:"number of neurons in the column"`
	InputDim   int `def:"100" desc:"dimensionality of the encoder input SDR"`
	NDigits    int `def:"10" desc:"number of digits represented"`
	ReadoutDim int `desc:"readout dimensionality -- equals NDigits unless overridden"`
}

func (np *NetworkParams) Defaults() {
	np.N = 120
	np.InputDim = 100
	np.NDigits = 10
	np.Update()
}

// Update derives dependent fields -- call after any changes
func (np *NetworkParams) Update() {
	if np.ReadoutDim == 0 {
		np.ReadoutDim = np.NDigits
	}
}

// Validate returns an error if any dimension is unusable
func (np *NetworkParams) Validate() error {
	if np.N <= 0 || np.InputDim <= 0 || np.NDigits <= 0 {
		return fmt.Errorf("dcol.NetworkParams: all dimensions must be positive: %+v", *np)
	}
	return nil
}

// NoiseParams parameterize the zero-mean membrane noise added each step.
// Var is the width parameter of the distribution (std for Gaussian).
// Set On = false (or Var = 0) for ablation runs.
type NoiseParams struct {
	erand.RndParams
	On bool `desc:"whether to add noise to the membrane potential each step"`
}

func (np *NoiseParams) Defaults() {
	np.On = true
	np.Dist = erand.Gaussian
	np.Mean = 0
	np.Var = 0.05
}

// Gen generates one noise sample from the column's private stream.
// Unknown distributions fall back to the mean.
func (np *NoiseParams) Gen(rnd *rand.Rand) float32 {
	if !np.On || np.Var == 0 {
		return 0
	}
	switch np.Dist {
	case erand.Uniform:
		return float32(np.Mean + np.Var*(2*rnd.Float64()-1))
	case erand.Gaussian:
		return float32(np.Mean + np.Var*rnd.NormFloat64())
	default:
		return float32(np.Mean)
	}
}

// WindowParams name the windows used for readout and learning, plus the
// ambient exclude-first-k transient discount.  Names use the window
// vocabulary of ParseWindow, including the name(k=K) form.
type WindowParams struct {
	Eval          string `def:"tailNoImpulse" desc:"window whose mean activity drives readout prediction and readout learning"`
	Learn         string `def:"tail" desc:"window whose mean activity is the observed state in the transition learning rule"`
	Settle        string `def:"late" desc:"window over the cue phase averaged into the pre-transition activity state"`
	ExcludeFirstK int    `def:"1" desc:"ambient number of initial free-run steps excluded by the NoImpulse windows -- discounts the drive-switch impulse transient"`
}

func (wp *WindowParams) Defaults() {
	wp.Eval = "tailNoImpulse"
	wp.Learn = "tail"
	wp.Settle = "late"
	wp.ExcludeFirstK = 1
}

// PhysicsParams are all tunable constants of the step dynamics and
// learning rules.  ApplyPhysics on the Column must be called after any
// change so the row-norm invariants are re-established.
type PhysicsParams struct {
	Alpha      float32 `def:"0.9" min:"0" max:"1" desc:"membrane potential decay factor per step"`
	VTh        float32 `def:"1" desc:"spike threshold on membrane potential"`
	VReset     float32 `def:"0" desc:"reset potential after a spike, and the refractory decay target"`
	KInhib     float32 `def:"0.8" desc:"global inhibition gain, multiplies mean population activity"`
	RefracSteps int    `def:"2" desc:"refractory steps after a spike -- input is ignored entirely while counting down"`

	AttrGainTrans  float32 `def:"0.4" desc:"attractor drive gain during a transition free-run -- reduced so transition drive dominates"`
	NextGainTrans  float32 `def:"1.6" desc:"transition drive gain during a transition free-run"`
	ThScaleTrans   float32 `def:"0.7" desc:"threshold scaling during a transition free-run"`
	InhibScaleTrans float32 `def:"0.6" desc:"inhibition scaling during a transition free-run"`

	Noise NoiseParams `view:"inline" desc:"zero-mean membrane noise"`

	WAttrRowNorm float32 `def:"1" desc:"target L1 row norm for the attractor matrix"`
	WInRowNorm   float32 `def:"1" desc:"target L1 row norm for the input matrix"`

	EtaAttr  float32 `def:"0.05" desc:"attractor Hebbian learning rate (encode phase, online)"`
	EtaTrans float32 `def:"0.1" desc:"transition error-driven learning rate"`
	EtaOut   float32 `def:"0.05" desc:"readout delta-rule learning rate"`

	TEnc     int `def:"20" desc:"input-driven encode steps per Phase A trial"`
	TRecall  int `def:"20" desc:"free recall steps per Phase A trial"`
	CueSteps int `def:"10" desc:"input-driven cue steps re-instating the start digit before an isolated transition"`
	TTrans   int `def:"40" desc:"free-run transition horizon in steps"`
	TailLen  int `def:"10" desc:"length of the tail window over the transition horizon"`

	ActivityMode  ActivityModes `desc:"which per-neuron activity signal drives recurrent dynamics and learning"`
	ActivityAlpha float32       `def:"0.3" desc:"EMA rate for the smoothed activity modes"`

	SilenceThr float32 `def:"0.5" desc:"spike-mass threshold at or below which a step counts as silent"`

	Windows WindowParams `view:"inline" desc:"named windows for readout, learning, and settling"`
}

func (pp *PhysicsParams) Defaults() {
	pp.Alpha = 0.9
	pp.VTh = 1
	pp.VReset = 0
	pp.KInhib = 0.8
	pp.RefracSteps = 2
	pp.AttrGainTrans = 0.4
	pp.NextGainTrans = 1.6
	pp.ThScaleTrans = 0.7
	pp.InhibScaleTrans = 0.6
	pp.Noise.Defaults()
	pp.WAttrRowNorm = 1
	pp.WInRowNorm = 1
	pp.EtaAttr = 0.05
	pp.EtaTrans = 0.1
	pp.EtaOut = 0.05
	pp.TEnc = 20
	pp.TRecall = 20
	pp.CueSteps = 10
	pp.TTrans = 40
	pp.TailLen = 10
	pp.ActivityMode = SpikeAct
	pp.ActivityAlpha = 0.3
	pp.SilenceThr = 0.5
	pp.Windows.Defaults()
}

// Validate checks the configuration-error conditions that must be
// caught before a run (fatal, no auto-correction).
func (pp *PhysicsParams) Validate() error {
	if pp.TTrans <= 0 {
		return fmt.Errorf("dcol.PhysicsParams: TTrans must be positive, got %d", pp.TTrans)
	}
	if pp.TailLen > pp.TTrans {
		return fmt.Errorf("dcol.PhysicsParams: TailLen %d exceeds TTrans %d", pp.TailLen, pp.TTrans)
	}
	return nil
}

//////////////////////////////////////////////////////////////////////
// Enums

// ActivityModes selects the per-neuron activity signal used as the
// population activity vector in the dynamics and learning rules.
type ActivityModes int

//go:generate stringer -type=ActivityModes

var KiT_ActivityModes = kit.Enums.AddEnum(ActivityModesN, kit.NotBitFlag, nil)

func (ev ActivityModes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *ActivityModes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// SpikeAct uses the raw binary spike train directly
	SpikeAct ActivityModes = iota

	// SpikeEMA uses an exponential moving average of the spike train
	SpikeEMA

	// VoltEMA uses an EMA of a clipped voltage-over-threshold proxy
	VoltEMA

	ActivityModesN
)

// Operators select the transition direction: successor or predecessor.
type Operators int

//go:generate stringer -type=Operators

var KiT_Operators = kit.Enums.AddEnum(OperatorsN, kit.NotBitFlag, nil)

func (ev Operators) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Operators) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// OpPlus drives toward the successor digit: (d+1) mod NDigits
	OpPlus Operators = iota

	// OpMinus drives toward the predecessor digit: (d-1+NDigits) mod NDigits
	OpMinus

	OperatorsN
)

// TargetDigit returns the target of a transition from digit under op,
// with wraparound.
func TargetDigit(digit int, op Operators, nDigits int) int {
	if op == OpMinus {
		return (digit - 1 + nDigits) % nDigits
	}
	return (digit + 1) % nDigits
}
