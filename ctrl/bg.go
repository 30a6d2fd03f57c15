// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctrl

import (
	"fmt"
	"math/rand"

	"github.com/chewxy/math32"
)

// NFeatures is the fixed dimensionality of the BG feature vector:
// tail spike mass, mean spike mass, tail-silent fraction, late-silent
// fraction, time-to-silence.
const NFeatures = 5

// BGParams configure the linear-bandit controller.
type BGParams struct {
	Temperature float32 `def:"1" min:"0" desc:"softmax temperature dividing the logits -- must be positive"`
	Epsilon     float32 `def:"0.1" min:"0" max:"1" desc:"probability of a uniformly random action when sampling"`
	Eta         float32 `def:"0.05" desc:"policy learning rate"`

	SampleActions bool `desc:"sample from the softmax distribution -- greedy argmax when false"`

	EnforceOrder bool    `desc:"retain the previous action when the new sample sits earlier in the configured action order -- actions escalate monotonically within a phase"`
	MinDwell     int     `desc:"minimum consecutive trials an action must be held before it can be replaced"`
	Hysteresis   float32 `desc:"required logit margin of a candidate over the incumbent before switching -- 0 disables"`

	// per-phase minimum trials before any action switch, indexed by phase;
	// phases beyond the slice are unconstrained
	MinPhaseDuration []int

	WaitSettleSteps int `def:"5" desc:"idle settle steps inserted by the Wait action"`

	ActionSet []Actions `desc:"the configured action order -- defaults to Go, GoNoLearn, Wait, Abort"`

	RewardCorrect   float32 `def:"1" desc:"reward for a correct, non-aborted trial"`
	RewardWrong     float32 `def:"0.5" desc:"penalty magnitude for a wrong, non-aborted trial"`
	AbortPenalty    float32 `def:"1" desc:"penalty magnitude for an aborted trial"`
	GateFailPenalty float32 `def:"0.25" desc:"fixed penalty subtracted when the sustain gate failed"`

	AbortEndsEpisode bool `desc:"an Abort action also requests the surrounding episode stop"`
}

func (bp *BGParams) Defaults() {
	bp.Temperature = 1
	bp.Epsilon = 0.1
	bp.Eta = 0.05
	bp.SampleActions = true
	bp.WaitSettleSteps = 5
	bp.ActionSet = []Actions{Go, GoNoLearn, Wait, Abort}
	bp.RewardCorrect = 1
	bp.RewardWrong = 0.5
	bp.AbortPenalty = 1
	bp.GateFailPenalty = 0.25
	bp.AbortEndsEpisode = true
}

// BGCtrl is the tabular-linear bandit controller: one weight vector per
// action over the fixed 5-dimensional sustain feature vector, updated
// with a single-step policy-gradient-style rule once per trial.
type BGCtrl struct {
	Params BGParams `view:"inline" desc:"parameters"`

	// per-action weight vectors, indexed by position in Params.ActionSet
	Wts [][NFeatures]float32

	// feature vector for the next decision, derived from the previous
	// trial's outcome; reused unchanged after an aborted trial
	Feats [NFeatures]float32

	rnd *rand.Rand

	prevIdx     int // index in ActionSet of the committed action, -1 at episode start
	lastIdx     int // action actually taken this trial
	dwell       int // consecutive trials the committed action has been held
	phase       int
	phaseTrials int
	abortReq    bool

	nTrials   int
	nSwitches int
	nAborts   int
	rewardSum float64
}

// NewBG constructs the bandit controller with its own seeded random
// stream.  Temperature must be positive: fatal configuration error.
func NewBG(bp *BGParams, seed int64) (*BGCtrl, error) {
	if bp.Temperature <= 0 {
		return nil, fmt.Errorf("ctrl.NewBG: Temperature must be positive, got %g", bp.Temperature)
	}
	bg := &BGCtrl{Params: *bp}
	if len(bg.Params.ActionSet) == 0 {
		bg.Params.ActionSet = []Actions{Go, GoNoLearn, Wait, Abort}
	}
	bg.Wts = make([][NFeatures]float32, len(bg.Params.ActionSet))
	bg.rnd = rand.New(rand.NewSource(seed))
	bg.prevIdx = -1
	return bg, nil
}

func (bg *BGCtrl) ResetEpisode() {
	bg.prevIdx = -1
	bg.dwell = 0
	bg.abortReq = false
}

// Logits returns the temperature-scaled action logits for the current
// feature vector.
func (bg *BGCtrl) Logits() []float32 {
	lg := make([]float32, len(bg.Params.ActionSet))
	for ai := range bg.Params.ActionSet {
		dot := float32(0)
		for j := 0; j < NFeatures; j++ {
			dot += bg.Wts[ai][j] * bg.Feats[j]
		}
		lg[ai] = dot / bg.Params.Temperature
	}
	return lg
}

// sample picks an action index from the logits: greedy argmax unless
// SampleActions, then epsilon-uniform or stabilized softmax.
func (bg *BGCtrl) sample(logits []float32) int {
	if !bg.Params.SampleActions {
		return argmax32(logits)
	}
	if bg.rnd.Float64() < float64(bg.Params.Epsilon) {
		return bg.rnd.Intn(len(logits))
	}
	mx := logits[argmax32(logits)]
	ps := make([]float32, len(logits))
	sum := float32(0)
	for i, lg := range logits {
		p := math32.Exp(lg - mx)
		ps[i] = p
		sum += p
	}
	r := float32(bg.rnd.Float64()) * sum
	for i, p := range ps {
		r -= p
		if r <= 0 {
			return i
		}
	}
	return len(ps) - 1
}

// constrain applies the switching constraints, returning the index to
// commit: the incumbent is retained on an order violation, unmet dwell
// or phase duration, or an insufficient logit margin.
func (bg *BGCtrl) constrain(cand int, logits []float32) int {
	if bg.prevIdx < 0 || cand == bg.prevIdx {
		return cand
	}
	if bg.Params.EnforceOrder && cand < bg.prevIdx {
		return bg.prevIdx
	}
	if bg.dwell < bg.Params.MinDwell {
		return bg.prevIdx
	}
	if bg.phase < len(bg.Params.MinPhaseDuration) && bg.phaseTrials < bg.Params.MinPhaseDuration[bg.phase] {
		return bg.prevIdx
	}
	if bg.Params.Hysteresis > 0 && logits[cand]-logits[bg.prevIdx] < bg.Params.Hysteresis {
		return bg.prevIdx
	}
	return cand
}

func (bg *BGCtrl) BeforeTransition(ctx Context) Decision {
	if ctx.Phase != bg.phase {
		bg.phase = ctx.Phase
		bg.phaseTrials = 0
	}
	logits := bg.Logits()
	idx := bg.constrain(bg.sample(logits), logits)
	if idx == bg.prevIdx {
		bg.dwell++
	} else {
		if bg.prevIdx >= 0 {
			bg.nSwitches++
		}
		bg.dwell = 1
	}
	bg.prevIdx = idx
	bg.lastIdx = idx
	bg.phaseTrials++

	act := bg.Params.ActionSet[idx]
	dec := Decision{Action: act}
	switch act {
	case Wait:
		dec.SettleSteps = bg.Params.WaitSettleSteps
	case GoNoLearn:
		dec.NoLearn = true
	case Abort:
		if bg.Params.AbortEndsEpisode {
			bg.abortReq = true
		}
	}
	return dec
}

// Reward computes the scalar reward for an outcome: abort penalty if
// aborted, 0 if indeterminate, else correct/wrong reward minus the
// gate-failure penalty.
func (bg *BGCtrl) Reward(out Outcome) float32 {
	if out.Aborted {
		return -bg.Params.AbortPenalty
	}
	if out.Indeterminate {
		return 0
	}
	r := -bg.Params.RewardWrong
	if out.Correct {
		r = bg.Params.RewardCorrect
	}
	if out.GateFailed {
		r -= bg.Params.GateFailPenalty
	}
	return r
}

func (bg *BGCtrl) AfterTransition(out Outcome) {
	r := bg.Reward(out)
	for j := 0; j < NFeatures; j++ {
		bg.Wts[bg.lastIdx][j] += bg.Params.Eta * r * bg.Feats[j]
	}
	if !out.Aborted {
		bg.Feats[0] = out.TailSpikeMass
		bg.Feats[1] = out.MeanSpikeMass
		bg.Feats[2] = out.TailSilentFrac
		bg.Feats[3] = out.LateSilentFrac
		bg.Feats[4] = float32(out.TimeToSilence)
	}
	bg.nTrials++
	if out.Aborted {
		bg.nAborts++
	}
	bg.rewardSum += float64(r)
}

func (bg *BGCtrl) ShouldAbortEpisode() bool { return bg.abortReq }

func (bg *BGCtrl) Stats() map[string]float64 {
	st := map[string]float64{
		"Trials":   float64(bg.nTrials),
		"Switches": float64(bg.nSwitches),
		"Aborts":   float64(bg.nAborts),
	}
	if bg.nTrials > 0 {
		st["MeanReward"] = bg.rewardSum / float64(bg.nTrials)
	}
	return st
}

func argmax32(vals []float32) int {
	mi := 0
	for i := 1; i < len(vals); i++ {
		if vals[i] > vals[mi] {
			mi = i
		}
	}
	return mi
}
