// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctrl

// StandardParams configure the pass-through controller.
type StandardParams struct {
	GraceTrials int `desc:"suppress gate-requested episode stops for this many initial trials of each episode -- a warm-up grace period"`
}

func (sp *StandardParams) Defaults() {
	sp.GraceTrials = 0
}

// StandardCtrl is the stateless pass-through controller: always Go,
// optionally suppressing episode stops during the warm-up grace period.
type StandardCtrl struct {
	Params StandardParams `view:"inline" desc:"parameters"`

	trial int
}

func NewStandard(sp *StandardParams) *StandardCtrl {
	return &StandardCtrl{Params: *sp}
}

func (sc *StandardCtrl) ResetEpisode() {
	sc.trial = 0
}

func (sc *StandardCtrl) BeforeTransition(ctx Context) Decision {
	dec := Decision{Action: Go}
	if sc.trial < sc.Params.GraceTrials {
		dec.SuppressStop = true
	}
	return dec
}

func (sc *StandardCtrl) AfterTransition(out Outcome) {
	sc.trial++
}

func (sc *StandardCtrl) ShouldAbortEpisode() bool { return false }

func (sc *StandardCtrl) Stats() map[string]float64 {
	return map[string]float64{"Trials": float64(sc.trial)}
}
