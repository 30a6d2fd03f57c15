// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dcol

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/chewxy/math32"
)

func testNet() NetworkParams {
	np := NetworkParams{N: 30, InputDim: 20, NDigits: 5}
	np.Update()
	return np
}

// testPat is a fixed sparse input pattern for direct stepping tests
func testPat(dim int, on ...int) []float32 {
	pat := make([]float32, dim)
	for _, i := range on {
		pat[i] = 1
	}
	return pat
}

func TestColumnDeterminism(t *testing.T) {
	np := testNet()
	c1, err := NewColumn(&np, 42)
	if err != nil {
		t.Fatal(err)
	}
	c2, err := NewColumn(&np, 42)
	if err != nil {
		t.Fatal(err)
	}
	pat := testPat(np.InputDim, 1, 4, 7, 12)
	run := func(cl *Column) {
		cl.InitState()
		for ts := 0; ts < 20; ts++ {
			if err := cl.StepEncode(pat); err != nil {
				t.Fatal(err)
			}
			if err := cl.LearnAttractor(cl.Activity(), cl.prevActs); err != nil {
				t.Fatal(err)
			}
		}
		for ts := 0; ts < 10; ts++ {
			cl.StepSettle()
		}
	}
	run(c1)
	run(c2)
	for i, v := range c1.Wts.Attr.Values {
		if v != c2.Wts.Attr.Values[i] {
			t.Fatalf("same-seed attractor weights diverged at %d: %g != %g", i, v, c2.Wts.Attr.Values[i])
		}
	}
	a1, a2 := c1.Activity(), c2.Activity()
	for i := range a1 {
		if a1[i] != a2[i] {
			t.Fatalf("same-seed activity diverged at %d", i)
		}
	}

	c3, err := NewColumn(&np, 43)
	if err != nil {
		t.Fatal(err)
	}
	run(c3)
	same := true
	for i, v := range c1.Wts.Attr.Values {
		if v != c3.Wts.Attr.Values[i] {
			same = false
			break
		}
	}
	if same {
		t.Errorf("different seeds produced identical weights")
	}
}

func TestRefractory(t *testing.T) {
	np := testNet()
	cl, err := NewColumn(&np, 1)
	if err != nil {
		t.Fatal(err)
	}
	cl.Phys.Noise.On = false
	cl.InitState()
	cl.Neurons[0].Vm = 5 // well above threshold
	cl.StepSettle()
	// find any neuron that spiked and check its reset + refractory count
	spiked := -1
	for ni := range cl.Neurons {
		if cl.Neurons[ni].Spike == 1 {
			spiked = ni
			break
		}
	}
	if spiked < 0 {
		t.Fatal("no neuron spiked from Vm=5")
	}
	sn := &cl.Neurons[spiked]
	if sn.Vm != cl.Phys.VReset {
		t.Errorf("spiking should reset Vm: got %g", sn.Vm)
	}
	if sn.Refrac != int32(cl.Phys.RefracSteps) {
		t.Errorf("Refrac: got %d, expected %d", sn.Refrac, cl.Phys.RefracSteps)
	}
	// during refractory steps the neuron cannot spike, even with drive
	refrac := int(sn.Refrac)
	for ts := 0; ts < refrac; ts++ {
		cl.StepSettle()
		if sn.Spike != 0 {
			t.Errorf("refractory neuron spiked at step %d", ts)
		}
	}
	if sn.Refrac != 0 {
		t.Errorf("refractory count not exhausted: %d", sn.Refrac)
	}
}

func TestProtoSmoothing(t *testing.T) {
	np := testNet()
	cl, err := NewColumn(&np, 1)
	if err != nil {
		t.Fatal(err)
	}
	a1 := make([]float32, np.N)
	a1[0] = 1
	if err := cl.UpdateProto(2, a1); err != nil {
		t.Fatal(err)
	}
	p, err := cl.Proto(2)
	if err != nil {
		t.Fatal(err)
	}
	if p[0] != 1 {
		t.Errorf("first exposure should copy: got %g", p[0])
	}
	a2 := make([]float32, np.N)
	a2[1] = 1
	if err := cl.UpdateProto(2, a2); err != nil {
		t.Fatal(err)
	}
	if d := math32.Abs(p[0] - 0.95); d > difTol {
		t.Errorf("retained: got %g, expected 0.95", p[0])
	}
	if d := math32.Abs(p[1] - 0.05); d > difTol {
		t.Errorf("folded in: got %g, expected 0.05", p[1])
	}
	if _, err := cl.Proto(3); err == nil {
		t.Errorf("expected error for missing prototype")
	}
	if err := cl.UpdateProto(np.NDigits, a1); err == nil {
		t.Errorf("expected error for out-of-range digit")
	}
}

func TestProtoPredict(t *testing.T) {
	np := testNet()
	cl, err := NewColumn(&np, 1)
	if err != nil {
		t.Fatal(err)
	}
	for d := 0; d < 3; d++ {
		act := make([]float32, np.N)
		act[d*3] = 1
		act[d*3+1] = 1
		if err := cl.UpdateProto(d, act); err != nil {
			t.Fatal(err)
		}
	}
	probe := make([]float32, np.N)
	probe[3] = 1
	probe[4] = 0.8
	d, ok := cl.ProtoPredict(probe)
	if !ok || d != 1 {
		t.Errorf("got digit %d ok %v, expected 1 true", d, ok)
	}
	// near-zero activity is indeterminate, not an error
	d, ok = cl.ProtoPredict(make([]float32, np.N))
	if ok || d != -1 {
		t.Errorf("zero activity: got digit %d ok %v", d, ok)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	np := testNet()
	c1, err := NewColumn(&np, 5)
	if err != nil {
		t.Fatal(err)
	}
	act := make([]float32, np.N)
	act[2] = 1
	if err := c1.UpdateProto(1, act); err != nil {
		t.Fatal(err)
	}
	c1.Phys.ActivityMode = VoltEMA
	var buf bytes.Buffer
	if err := c1.WriteSnapshotJSON(&buf); err != nil {
		t.Fatal(err)
	}
	c2, err := NewColumn(&np, 99)
	if err != nil {
		t.Fatal(err)
	}
	if err := c2.ReadSnapshotJSON(&buf); err != nil {
		t.Fatal(err)
	}
	for i, v := range c1.Wts.Attr.Values {
		if c2.Wts.Attr.Values[i] != v {
			t.Fatalf("Attr not restored value-exactly at %d", i)
		}
	}
	for i, v := range c1.Wts.Out.Values {
		if c2.Wts.Out.Values[i] != v {
			t.Fatalf("Out not restored value-exactly at %d", i)
		}
	}
	if !c2.HasProto[1] || c2.HasProto[0] {
		t.Errorf("HasProto not restored: %v", c2.HasProto)
	}
	if c2.Phys.ActivityMode != VoltEMA {
		t.Errorf("ActivityMode not restored: got %v", c2.Phys.ActivityMode)
	}

	// dimension mismatch is fatal
	np2 := NetworkParams{N: 10, InputDim: 20, NDigits: 5}
	np2.Update()
	c3, err := NewColumn(&np2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := c3.SetSnapshot(c1.Snapshot()); err == nil {
		t.Errorf("expected error restoring mismatched snapshot")
	}
}

func TestSnapshotFile(t *testing.T) {
	np := testNet()
	c1, err := NewColumn(&np, 5)
	if err != nil {
		t.Fatal(err)
	}
	act := make([]float32, np.N)
	act[3] = 1
	if err := c1.UpdateProto(2, act); err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	for _, fnm := range []string{filepath.Join(dir, "col.wts"), filepath.Join(dir, "col.wts.gz")} {
		if err := c1.SaveSnapshotJSON(fnm); err != nil {
			t.Fatal(err)
		}
		c2, err := NewColumn(&np, 99)
		if err != nil {
			t.Fatal(err)
		}
		if err := c2.OpenSnapshotJSON(fnm); err != nil {
			t.Fatal(err)
		}
		for i, v := range c1.Wts.Attr.Values {
			if c2.Wts.Attr.Values[i] != v {
				t.Fatalf("%s: Attr not restored value-exactly at %d", fnm, i)
			}
		}
		if !c2.HasProto[2] {
			t.Errorf("%s: HasProto not restored", fnm)
		}
	}
}
