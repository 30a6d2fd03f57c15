// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dcol

// GateParams configure the sustain gate: the per-trial health check on
// whether network activity settled appropriately during a transition.
type GateParams struct {
	Enabled           bool    `desc:"whether the gate is active at all -- when off, no trial ever fails it"`
	MaxTailSilentFrac float32 `def:"0.5" desc:"maximum tolerated fraction of silent steps in the tail window"`
	MinTimeToSilence  int     `desc:"minimum required time-to-silence in steps -- 0 disables the time check"`
	SkipUpdatesOnFail bool    `desc:"suppress all weight updates for a trial that fails the gate"`
	SkipEpisodeOnFail bool    `desc:"request that the surrounding episode stop chaining further transitions on failure"`
	AbortAfterTrials  int     `desc:"force the episode stop after this many consecutive gate failures, even when the controller suppressed earlier stops -- 0 disables"`
}

func (gp *GateParams) Defaults() {
	gp.Enabled = true
	gp.MaxTailSilentFrac = 0.5
	gp.MinTimeToSilence = 0
	gp.SkipUpdatesOnFail = true
	gp.SkipEpisodeOnFail = false
	gp.AbortAfterTrials = 0
}

// GateVerdict is the gate's pure-function output for one trial.
type GateVerdict struct {
	Failed       bool `desc:"the trial failed the health check"`
	SkipUpdates  bool `desc:"all learning-rule applications are suppressed for this trial"`
	AbortEpisode bool `desc:"the episode should stop chaining further transitions"`
}

// Evaluate computes the verdict from sustain metrics.  A disabled gate
// never fails.
func (gp *GateParams) Evaluate(st SustainStats) GateVerdict {
	timeFailed := gp.MinTimeToSilence > 0 && st.TimeToSilence < gp.MinTimeToSilence
	failed := gp.Enabled && (st.TailSilentFrac > gp.MaxTailSilentFrac || timeFailed)
	return GateVerdict{
		Failed:       failed,
		SkipUpdates:  failed && gp.SkipUpdatesOnFail,
		AbortEpisode: failed && gp.SkipEpisodeOnFail,
	}
}
