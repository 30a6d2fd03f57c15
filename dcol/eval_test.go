// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dcol

import (
	"testing"

	"github.com/chewxy/math32"
)

const difTol = float32(1.0e-6)

func TestTimeToSilence(t *testing.T) {
	if ts := TimeToSilence([]float32{0.1, 0.2, 0.3}, 0.5); ts != 0 {
		t.Errorf("all silent: got %d, expected 0", ts)
	}
	if ts := TimeToSilence([]float32{2, 3, 4}, 0.5); ts != 3 {
		t.Errorf("never silent: got %d, expected horizon 3", ts)
	}
	if ts := TimeToSilence([]float32{2, 2, 0.4, 2}, 0.5); ts != 2 {
		t.Errorf("mid silence: got %d, expected 2", ts)
	}
	if ts := TimeToSilence(nil, 0.5); ts != 0 {
		t.Errorf("empty: got %d, expected 0", ts)
	}
}

func TestSilentFrac(t *testing.T) {
	masses := []float32{0, 2, 0, 2, 0}
	if sf := SilentFrac(masses, 0, 5, 0.5); math32.Abs(sf-0.6) > difTol {
		t.Errorf("full range: got %g, expected 0.6", sf)
	}
	if sf := SilentFrac(masses, 1, 4, 0.5); math32.Abs(sf-1.0/3.0) > difTol {
		t.Errorf("sub range: got %g", sf)
	}
	if sf := SilentFrac(masses, 3, 3, 0.5); sf != 0 {
		t.Errorf("empty range: got %g, expected 0", sf)
	}
	if sf := SilentFrac(masses, -2, 100, 0.5); math32.Abs(sf-0.6) > difTol {
		t.Errorf("clamped range: got %g", sf)
	}
}

func TestEvaluatorAccum(t *testing.T) {
	pp := PhysicsParams{}
	pp.Defaults()
	ev, err := NewEvaluator([]WindowSpec{{Kind: Mean}, {Kind: Tail}}, &pp, 2)
	if err != nil {
		t.Fatal(err)
	}
	act := []float32{1, 0}
	for ts := 0; ts < pp.TTrans; ts++ {
		ev.StepAccum(ts, act)
	}
	means := ev.Finalize()
	mn, ok := means["mean"]
	if !ok {
		t.Fatal("no mean window in result")
	}
	if math32.Abs(mn[0]-1) > difTol || math32.Abs(mn[1]) > difTol {
		t.Errorf("mean: got %v", mn)
	}
	tl, ok := means["tail"]
	if !ok {
		t.Fatal("no tail window in result")
	}
	if math32.Abs(tl[0]-1) > difTol {
		t.Errorf("tail: got %v", tl)
	}
	st := ev.Sustain(pp.SilenceThr)
	if st.TimeToSilence != pp.TTrans {
		t.Errorf("TimeToSilence: got %d, expected %d", st.TimeToSilence, pp.TTrans)
	}
	if st.TailSilentFrac != 0 {
		t.Errorf("TailSilentFrac: got %g, expected 0", st.TailSilentFrac)
	}
	if math32.Abs(ev.MassMean()-1) > difTol {
		t.Errorf("MassMean: got %g", ev.MassMean())
	}
}

func TestEvaluatorSilence(t *testing.T) {
	pp := PhysicsParams{}
	pp.Defaults()
	ev, err := NewEvaluator([]WindowSpec{{Kind: Mean}}, &pp, 2)
	if err != nil {
		t.Fatal(err)
	}
	// activity dies after 5 steps
	for ts := 0; ts < pp.TTrans; ts++ {
		act := []float32{0, 0}
		if ts < 5 {
			act = []float32{1, 1}
		}
		ev.StepAccum(ts, act)
	}
	st := ev.Sustain(pp.SilenceThr)
	if st.TimeToSilence != 5 {
		t.Errorf("TimeToSilence: got %d, expected 5", st.TimeToSilence)
	}
	if st.TailSilentFrac != 1 {
		t.Errorf("TailSilentFrac: got %g, expected 1", st.TailSilentFrac)
	}
	if st.LateSilentFrac != 1 {
		t.Errorf("LateSilentFrac: got %g, expected 1", st.LateSilentFrac)
	}
	gp := GateParams{}
	gp.Defaults()
	vd := gp.Evaluate(st)
	if !vd.Failed {
		t.Errorf("dead tail should fail the gate")
	}
}

func TestEvaluatorAlias(t *testing.T) {
	pp := PhysicsParams{}
	pp.Defaults()
	ev, err := NewEvaluator([]WindowSpec{{Kind: TailNoImpulse, K: 2}}, &pp, 1)
	if err != nil {
		t.Fatal(err)
	}
	for ts := 0; ts < pp.TTrans; ts++ {
		ev.StepAccum(ts, []float32{1})
	}
	means := ev.Finalize()
	if _, ok := means["tailNoImpulse(k=2)"]; !ok {
		t.Errorf("canonical name missing: %v", means)
	}
	if _, ok := means["tailNoImpulse"]; !ok {
		t.Errorf("bare-name alias missing: %v", means)
	}
}

func TestEvaluatorErrors(t *testing.T) {
	pp := PhysicsParams{}
	pp.Defaults()
	pp.TTrans = 0
	if _, err := NewEvaluator([]WindowSpec{{Kind: Mean}}, &pp, 1); err == nil {
		t.Errorf("expected error for TTrans=0")
	}
	pp.Defaults()
	pp.TailLen = pp.TTrans + 1
	if _, err := NewEvaluator([]WindowSpec{{Kind: Tail}}, &pp, 1); err == nil {
		t.Errorf("expected error for TailLen > TTrans")
	}
}
