// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dcol

import (
	"fmt"
	"log"

	"github.com/emer/dcolumn/ctrl"
)

// EpisodeStats accumulate trial-level counters across one episode (or
// one evaluation sweep).  Owned by the caller and threaded through the
// trial operations -- never global, so parallel columns in separate
// runs stay independent.
type EpisodeStats struct {
	Phase           int `desc:"curriculum phase index reported to the controller"`
	Trials          int `desc:"trials run"`
	EpisodeTrials   int `desc:"trials run within the current episode, reset at episode start"`
	Correct         int `desc:"correct readout predictions"`
	GateFails       int `desc:"trials that failed the sustain gate"`
	ConsecGateFails int `desc:"current run of consecutive gate failures"`
	UpdatesSkipped  int `desc:"trials whose weight updates were suppressed"`
	Aborts          int `desc:"aborted trials"`
	WindowWarns     int `desc:"degenerate-window diagnostics seen"`
}

func (es *EpisodeStats) Init() {
	*es = EpisodeStats{Phase: es.Phase}
}

// PhaseAResult is the outcome of one encode-curriculum trial.
type PhaseAResult struct {
	Digit      int        `desc:"digit presented"`
	Pred       int        `desc:"readout prediction from the recall mean"`
	Correct    bool       `desc:"prediction matched the digit"`
	ProtoPred  int        `desc:"diagnostic nearest-prototype classification, -1 if unavailable"`
	ProtoOK    bool       `desc:"whether a prototype prediction was available"`
	RecallMean []float32  `desc:"mean activity over the free recall steps"`
}

// TrialResult is the outcome of one transition trial.
type TrialResult struct {
	Start  int          `desc:"start digit"`
	Target int          `desc:"target digit under the operator"`
	Op     Operators    `desc:"transition operator"`
	Action ctrl.Actions `desc:"controller action for this trial"`

	Pred          int  `desc:"readout prediction from the eval window mean, -1 if unavailable"`
	Correct       bool `desc:"prediction matched the target"`
	ProtoPred     int  `desc:"diagnostic nearest-prototype classification, -1 if unavailable"`
	ProtoOK       bool `desc:"whether a prototype prediction was available"`
	Indeterminate bool `desc:"eval window activity was near zero -- no prediction possible"`

	Aborted        bool `desc:"controller abort or gate-triggered episode stop"`
	GateFailed     bool `desc:"the sustain gate failed"`
	UpdatesSkipped bool `desc:"weight updates were suppressed this trial"`

	Sustain       SustainStats `desc:"sustain health metrics"`
	MeanSpikeMass float32      `desc:"mean spike mass over the whole free run"`
}

// EpisodeResult is the outcome of one Phase B counting episode.
type EpisodeResult struct {
	Start        int            `desc:"starting digit"`
	Length       int            `desc:"requested chain length"`
	Trials       []*TrialResult `desc:"per-transition results, possibly fewer than Length"`
	NCorrect     int            `desc:"correct transitions"`
	AbortedEarly bool           `desc:"the chain stopped before reaching Length"`
}

//////////////////////////////////////////////////////////////////////
//  Phase A: encode curriculum

// RunPhaseA presents one digit: input-driven encode steps with online
// attractor learning, then free recall steps.  The recall-mean activity
// updates the digit's prototype and trains the readout; correctness is
// evaluated against the readout prediction.
func (cl *Column) RunPhaseA(enc Encoder, digit int) (*PhaseAResult, error) {
	pat, err := enc.Encode(digit)
	if err != nil {
		return nil, err
	}
	cl.InitState()
	for t := 0; t < cl.Phys.TEnc; t++ {
		if err := cl.StepEncode(pat); err != nil {
			return nil, err
		}
		if err := cl.LearnAttractor(cl.acts, cl.prevActs); err != nil {
			return nil, err
		}
	}
	sum := make([]float32, cl.Net.N)
	for t := 0; t < cl.Phys.TRecall; t++ {
		cl.StepSettle()
		for i, a := range cl.acts {
			sum[i] += a
		}
	}
	if cl.Phys.TRecall > 0 {
		sc := 1 / float32(cl.Phys.TRecall)
		for i := range sum {
			sum[i] *= sc
		}
	}
	if err := cl.UpdateProto(digit, sum); err != nil {
		return nil, err
	}
	if err := cl.LearnReadout(digit, sum); err != nil {
		return nil, err
	}
	pred, _, err := cl.Predict(sum)
	if err != nil {
		return nil, err
	}
	res := &PhaseAResult{Digit: digit, Pred: pred, Correct: pred == digit, RecallMean: sum}
	res.ProtoPred, res.ProtoOK = cl.ProtoPredict(sum)
	return res, nil
}

// MissingProtos returns the digits still lacking a prototype after the
// encode curriculum, logging a warning when any exist.  Phase A may
// legitimately under-train rare digits: warned, not fatal.
func (cl *Column) MissingProtos() []int {
	var missing []int
	for d := 0; d < cl.Net.NDigits; d++ {
		if !cl.HasProto[d] {
			missing = append(missing, d)
		}
	}
	if len(missing) > 0 {
		log.Printf("dcol.MissingProtos: %d digits have no prototype after encode curriculum: %v\n", len(missing), missing)
	}
	return missing
}

//////////////////////////////////////////////////////////////////////
//  Transitions

// cue re-instates the start digit with input-driven steps and returns
// the pre-transition activity state: the mean activity over the settle
// window resolved against the cue horizon.
func (cl *Column) cue(enc Encoder, digit int) ([]float32, error) {
	pat, err := enc.Encode(digit)
	if err != nil {
		return nil, err
	}
	ws, err := ParseWindow(cl.Phys.Windows.Settle)
	if err != nil {
		return nil, err
	}
	tl := cl.Phys.TailLen
	if tl > cl.Phys.CueSteps {
		tl = cl.Phys.CueSteps
	}
	wins, _ := ResolveWindows([]WindowSpec{ws}, cl.Phys.CueSteps, tl, 0)
	cl.InitState()
	sum := make([]float32, cl.Net.N)
	cnt := 0
	for t := 0; t < cl.Phys.CueSteps; t++ {
		if err := cl.StepEncode(pat); err != nil {
			return nil, err
		}
		if len(wins) > 0 && wins[0].Contains(t) {
			for i, a := range cl.acts {
				sum[i] += a
			}
			cnt++
		}
	}
	if cnt == 0 {
		copy(sum, cl.acts)
		return sum, nil
	}
	sc := 1 / float32(cnt)
	for i := range sum {
		sum[i] *= sc
	}
	return sum, nil
}

// windowMeanFrom looks up a configured window name in the finalized
// means, accepting either the canonical or bare form.
func windowMeanFrom(means map[string][]float32, name string) ([]float32, error) {
	ws, err := ParseWindow(name)
	if err != nil {
		return nil, err
	}
	if m, ok := means[ws.Name()]; ok {
		return m, nil
	}
	if m, ok := means[ws.BaseName()]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("dcol: window %q was dropped during resolution -- cannot evaluate", name)
}

// RunTransitionTrial runs one isolated start -> target transition:
// state reset, cue steps re-instating the start digit, then the
// transition free-run.  The controller may be nil (always Go).
func (cl *Column) RunTransitionTrial(enc Encoder, digit int, op Operators, co ctrl.Controller, es *EpisodeStats) (*TrialResult, error) {
	if es == nil {
		es = &EpisodeStats{}
	}
	es.EpisodeTrials = 0 // isolated trial is its own episode
	preAct, err := cl.cue(enc, digit)
	if err != nil {
		return nil, err
	}
	return cl.Transition(digit, op, co, es, preAct)
}

// Transition executes one transition from the column's current state.
// preAct is the pre-transition activity state for the learning rule;
// nil means snapshot the current activity (chained episodes).
func (cl *Column) Transition(start int, op Operators, co ctrl.Controller, es *EpisodeStats, preAct []float32) (*TrialResult, error) {
	target := TargetDigit(start, op, cl.Net.NDigits)
	res := &TrialResult{Start: start, Target: target, Op: op, Action: ctrl.Go, Pred: -1, ProtoPred: -1}

	dec := ctrl.Decision{Action: ctrl.Go}
	if co != nil {
		dec = co.BeforeTransition(ctrl.Context{Trial: es.Trials, EpisodeTrial: es.EpisodeTrials, Phase: es.Phase})
	}
	res.Action = dec.Action
	if dec.Action == ctrl.Abort {
		res.Aborted = true
		res.UpdatesSkipped = true
		es.Trials++
		es.EpisodeTrials++
		es.Aborts++
		if co != nil {
			co.AfterTransition(ctrl.Outcome{Aborted: true})
		}
		cl.Dbg.RecordTrial(res)
		return res, nil
	}
	for t := 0; t < dec.SettleSteps; t++ {
		cl.StepSettle()
	}
	if dec.SettleSteps > 0 || preAct == nil {
		preAct = cl.ActivityCopy()
	}

	specs, err := cl.windowSpecs()
	if err != nil {
		return nil, err
	}
	ev, err := NewEvaluator(specs, &cl.Phys, cl.Net.N)
	if err != nil {
		return nil, err
	}
	es.WindowWarns += len(ev.Diags)

	for t := 0; t < cl.Phys.TTrans; t++ {
		cl.StepFree(op)
		ev.StepAccum(t, cl.acts)
	}
	means := ev.Finalize()
	res.Sustain = ev.Sustain(cl.Phys.SilenceThr)
	res.MeanSpikeMass = ev.MassMean()

	verdict := cl.Gate.Evaluate(res.Sustain)
	res.GateFailed = verdict.Failed

	evalMean, err := windowMeanFrom(means, cl.Phys.Windows.Eval)
	if err != nil {
		return nil, err
	}
	learnMean, err := windowMeanFrom(means, cl.Phys.Windows.Learn)
	if err != nil {
		return nil, err
	}

	if norm32(evalMean) < 1e-6 {
		res.Indeterminate = true
	} else {
		pred, _, err := cl.Predict(evalMean)
		if err != nil {
			return nil, err
		}
		res.Pred = pred
		res.Correct = pred == target
	}
	res.ProtoPred, res.ProtoOK = cl.ProtoPredict(evalMean)

	skip := verdict.SkipUpdates || dec.NoLearn
	res.UpdatesSkipped = skip
	if !skip {
		if err := cl.LearnTransition(op, target, learnMean, preAct); err != nil {
			return nil, err
		}
		if !res.Indeterminate {
			if err := cl.LearnReadout(target, evalMean); err != nil {
				return nil, err
			}
		}
	}

	es.Trials++
	es.EpisodeTrials++
	if res.Correct {
		es.Correct++
	}
	if verdict.Failed {
		es.GateFails++
		es.ConsecGateFails++
	} else {
		es.ConsecGateFails = 0
	}
	if skip {
		es.UpdatesSkipped++
	}

	gateStop := verdict.AbortEpisode && !dec.SuppressStop
	forced := cl.Gate.AbortAfterTrials > 0 && es.ConsecGateFails >= cl.Gate.AbortAfterTrials
	res.Aborted = gateStop || forced // controller abort handled above -- plain OR, no precedence
	if res.Aborted {
		es.Aborts++
	}

	if co != nil {
		co.AfterTransition(ctrl.Outcome{
			Aborted:        false, // trial ran to completion
			Indeterminate:  res.Indeterminate,
			Correct:        res.Correct,
			GateFailed:     res.GateFailed,
			TailSpikeMass:  res.Sustain.TailSpikeMassMean,
			MeanSpikeMass:  res.MeanSpikeMass,
			TailSilentFrac: res.Sustain.TailSilentFrac,
			LateSilentFrac: res.Sustain.LateSilentFrac,
			TimeToSilence:  res.Sustain.TimeToSilence,
		})
	}
	cl.Dbg.RecordTrial(res)
	return res, nil
}

// windowSpecs parses the configured eval and learn window names,
// deduplicated.
func (cl *Column) windowSpecs() ([]WindowSpec, error) {
	evalWs, err := ParseWindow(cl.Phys.Windows.Eval)
	if err != nil {
		return nil, err
	}
	learnWs, err := ParseWindow(cl.Phys.Windows.Learn)
	if err != nil {
		return nil, err
	}
	specs := []WindowSpec{evalWs}
	if learnWs != evalWs {
		specs = append(specs, learnWs)
	}
	return specs, nil
}

//////////////////////////////////////////////////////////////////////
//  Phase B: counting episodes

// RunCountingEpisode chains successor transitions within one continuous
// episode sharing accumulated state: a random start digit is cued once,
// then each transition proceeds from wherever the network is.  The
// chain stops early on a controller or gate abort, unless suppressed.
func (cl *Column) RunCountingEpisode(enc Encoder, minLen, maxLen int, co ctrl.Controller, es *EpisodeStats) (*EpisodeResult, error) {
	if minLen <= 0 || maxLen < minLen {
		return nil, fmt.Errorf("dcol.RunCountingEpisode: bad length range [%d,%d]", minLen, maxLen)
	}
	if es == nil {
		es = &EpisodeStats{}
	}
	if co != nil {
		co.ResetEpisode()
	}
	es.EpisodeTrials = 0
	length := minLen
	if maxLen > minLen {
		length += cl.Rnd.Intn(maxLen - minLen + 1)
	}
	start := cl.Rnd.Intn(cl.Net.NDigits)
	preAct, err := cl.cue(enc, start)
	if err != nil {
		return nil, err
	}
	res := &EpisodeResult{Start: start, Length: length}
	cur := start
	for i := 0; i < length; i++ {
		tr, err := cl.Transition(cur, OpPlus, co, es, preAct)
		if err != nil {
			return nil, err
		}
		res.Trials = append(res.Trials, tr)
		if tr.Correct {
			res.NCorrect++
		}
		if tr.Aborted || (co != nil && co.ShouldAbortEpisode()) {
			res.AbortedEarly = true
			break
		}
		cur = tr.Target
		preAct = nil // chained: snapshot at transition time
	}
	return res, nil
}
