// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dcol

import (
	"fmt"
	"log"
)

// SustainStats are the per-trial health metrics computed from the
// scalar spike-mass trajectory of one transition free-run.  Immutable
// once computed; the sustain gate consumes them.
type SustainStats struct {
	TailSilentFrac    float32 `desc:"fraction of tail-window steps with spike mass at or below the silence threshold"`
	LateSilentFrac    float32 `desc:"fraction of late-window steps with spike mass at or below the silence threshold"`
	TailSpikeMassMean float32 `desc:"mean spike mass over the tail window"`
	LateSpikeMassMean float32 `desc:"mean spike mass over the late window"`
	TimeToSilence     int     `desc:"first step with spike mass at or below threshold, or the horizon length if never silent"`
}

// TimeToSilence returns the first step index where spike mass is at or
// below thr, else len(masses) -- the network never went silent.
func TimeToSilence(masses []float32, thr float32) int {
	for t, m := range masses {
		if m <= thr {
			return t
		}
	}
	return len(masses)
}

// SilentFrac returns the fraction of steps in [start, end) with spike
// mass at or below thr.  Empty ranges yield 0.
func SilentFrac(masses []float32, start, end int, thr float32) float32 {
	if end > len(masses) {
		end = len(masses)
	}
	if start < 0 {
		start = 0
	}
	if end <= start {
		return 0
	}
	n := 0
	for t := start; t < end; t++ {
		if masses[t] <= thr {
			n++
		}
	}
	return float32(n) / float32(end-start)
}

// Evaluator accumulates per-step activity into every requested window's
// running sum during one transition free-run, and records the scalar
// spike-mass trajectory for the sustain metrics.  One evaluator serves
// one trial.
type Evaluator struct {
	TTrans  int           `desc:"free-run horizon in steps"`
	Windows []WindowRange `desc:"resolved windows being accumulated"`
	Diags   []string      `desc:"degenerate-range diagnostics from resolution"`

	tailRange WindowRange
	lateRange WindowRange

	sums   [][]float32
	counts []int

	// spike-mass trajectory, one entry per completed step
	Masses []float32
}

// NewEvaluator resolves the given specs over the physics horizon and
// prepares accumulation buffers.  Fatal errors: non-positive TTrans,
// TailLen > TTrans, or a fully empty resolved window set.
// Degenerate-range diagnostics are logged and kept on the evaluator.
func NewEvaluator(specs []WindowSpec, pp *PhysicsParams, n int) (*Evaluator, error) {
	if err := pp.Validate(); err != nil {
		return nil, err
	}
	wins, diags := ResolveWindows(specs, pp.TTrans, pp.TailLen, pp.Windows.ExcludeFirstK)
	for _, d := range diags {
		log.Println("dcol.NewEvaluator:", d)
	}
	if len(wins) == 0 {
		return nil, fmt.Errorf("dcol.NewEvaluator: no usable windows resolved from %d specs over TTrans=%d", len(specs), pp.TTrans)
	}
	ev := &Evaluator{TTrans: pp.TTrans, Windows: wins, Diags: diags}
	ev.sums = make([][]float32, len(wins))
	ev.counts = make([]int, len(wins))
	for i := range ev.sums {
		ev.sums[i] = make([]float32, n)
	}
	ev.Masses = make([]float32, 0, pp.TTrans)

	// the sustain ranges are fixed regardless of what was requested
	sus, _ := ResolveWindows([]WindowSpec{{Kind: Tail}, {Kind: Late}}, pp.TTrans, pp.TailLen, 0)
	for _, wr := range sus {
		if wr.Spec.Kind == Tail {
			ev.tailRange = wr
		} else {
			ev.lateRange = wr
		}
	}
	return ev, nil
}

// StepAccum folds one step's activity vector into all windows
// containing step t, and appends its spike mass to the trajectory.
func (ev *Evaluator) StepAccum(t int, act []float32) {
	mass := float32(0)
	for _, a := range act {
		mass += a
	}
	ev.Masses = append(ev.Masses, mass)
	for wi, wr := range ev.Windows {
		if !wr.Contains(t) {
			continue
		}
		sum := ev.sums[wi]
		for i, a := range act {
			sum[i] += a
		}
		ev.counts[wi]++
	}
}

// Finalize divides the window sums into mean activity vectors, keyed by
// the canonical window name.  Any name(k=K) entry is also exposed under
// its bare name when the bare name has no entry of its own, so
// downstream code can use either form.
func (ev *Evaluator) Finalize() map[string][]float32 {
	means := make(map[string][]float32, len(ev.Windows))
	for wi, wr := range ev.Windows {
		mean := make([]float32, len(ev.sums[wi]))
		if ev.counts[wi] > 0 {
			sc := 1 / float32(ev.counts[wi])
			for i, s := range ev.sums[wi] {
				mean[i] = s * sc
			}
		}
		means[wr.Spec.Name()] = mean
	}
	for _, wr := range ev.Windows {
		if wr.Spec.K == 0 {
			continue
		}
		base := wr.Spec.BaseName()
		if _, ok := means[base]; !ok {
			means[base] = means[wr.Spec.Name()]
		}
	}
	return means
}

// Sustain computes the trial's sustain metrics from the recorded
// spike-mass trajectory.
func (ev *Evaluator) Sustain(thr float32) SustainStats {
	st := SustainStats{}
	st.TimeToSilence = TimeToSilence(ev.Masses, thr)
	st.TailSilentFrac = SilentFrac(ev.Masses, ev.tailRange.Start, ev.tailRange.End, thr)
	st.LateSilentFrac = SilentFrac(ev.Masses, ev.lateRange.Start, ev.lateRange.End, thr)
	st.TailSpikeMassMean = massMean(ev.Masses, ev.tailRange.Start, ev.tailRange.End)
	st.LateSpikeMassMean = massMean(ev.Masses, ev.lateRange.Start, ev.lateRange.End)
	return st
}

// MassMean returns the mean spike mass over the whole trajectory
func (ev *Evaluator) MassMean() float32 {
	return massMean(ev.Masses, 0, len(ev.Masses))
}

func massMean(masses []float32, start, end int) float32 {
	if end > len(masses) {
		end = len(masses)
	}
	if start < 0 {
		start = 0
	}
	if end <= start {
		return 0
	}
	sum := float32(0)
	for t := start; t < end; t++ {
		sum += masses[t]
	}
	return sum / float32(end-start)
}
