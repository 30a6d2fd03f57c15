// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dcol

import "testing"

func TestGateEvaluate(t *testing.T) {
	tests := []struct {
		desc    string
		enabled bool
		maxTsf  float32
		minTts  int
		st      SustainStats
		failed  bool
	}{
		{"healthy tail", true, 0.5, 0, SustainStats{TailSilentFrac: 0.2, TimeToSilence: 40}, false},
		{"dead tail", true, 0.5, 0, SustainStats{TailSilentFrac: 1, TimeToSilence: 5}, true},
		{"at threshold passes", true, 0.5, 0, SustainStats{TailSilentFrac: 0.5, TimeToSilence: 40}, false},
		{"dead tail fails regardless of time check", true, 0.5, 0, SustainStats{TailSilentFrac: 1, TimeToSilence: 100}, true},
		{"premature silence", true, 0.5, 10, SustainStats{TailSilentFrac: 0, TimeToSilence: 5}, true},
		{"time check off", true, 0.5, 0, SustainStats{TailSilentFrac: 0, TimeToSilence: 0}, false},
		{"disabled never fails", false, 0.5, 10, SustainStats{TailSilentFrac: 1, TimeToSilence: 0}, false},
	}
	for _, ts := range tests {
		gp := GateParams{}
		gp.Defaults()
		gp.Enabled = ts.enabled
		gp.MaxTailSilentFrac = ts.maxTsf
		gp.MinTimeToSilence = ts.minTts
		vd := gp.Evaluate(ts.st)
		if vd.Failed != ts.failed {
			t.Errorf("%s: Failed = %v, expected %v", ts.desc, vd.Failed, ts.failed)
		}
	}
}

func TestGateVerdictFlags(t *testing.T) {
	gp := GateParams{}
	gp.Defaults()
	gp.SkipUpdatesOnFail = true
	gp.SkipEpisodeOnFail = true
	st := SustainStats{TailSilentFrac: 1}
	vd := gp.Evaluate(st)
	if !vd.Failed || !vd.SkipUpdates || !vd.AbortEpisode {
		t.Errorf("all flags should be set on failure: %+v", vd)
	}
	gp.SkipUpdatesOnFail = false
	gp.SkipEpisodeOnFail = false
	vd = gp.Evaluate(st)
	if !vd.Failed || vd.SkipUpdates || vd.AbortEpisode {
		t.Errorf("failure without consequences misconfigured: %+v", vd)
	}
	// passing trial sets nothing
	vd = gp.Evaluate(SustainStats{TailSilentFrac: 0, TimeToSilence: 40})
	if vd.Failed || vd.SkipUpdates || vd.AbortEpisode {
		t.Errorf("pass should set no flags: %+v", vd)
	}
}
