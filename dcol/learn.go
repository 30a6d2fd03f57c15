// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dcol

import "fmt"

///////////////////////////////////////////////////////////////////////
//  learn.go contains the three Hebbian / delta learning rules.
//  All are outer-product updates on the dense matrices, followed by
//  the row-norm renormalization each matrix requires.

// LearnAttractor applies the online attractor Hebbian update during the
// encode phase: WAttr += EtaAttr * outer(act, prevAct), then L1 row
// renormalization to the configured target.
func (cl *Column) LearnAttractor(act, prevAct []float32) error {
	n := cl.Net.N
	if len(act) != n || len(prevAct) != n {
		return fmt.Errorf("dcol.LearnAttractor: vector lengths %d/%d != N %d", len(act), len(prevAct), n)
	}
	eta := cl.Phys.EtaAttr
	w := cl.Wts.Attr
	for ri := 0; ri < n; ri++ {
		ra := act[ri]
		if ra == 0 { // outer product row is zero, skip
			continue
		}
		rv := w.Values[ri*n : (ri+1)*n]
		sc := eta * ra
		for ci := range rv {
			rv[ci] += sc * prevAct[ci]
		}
	}
	RenormRows(w, cl.Phys.WAttrRowNorm)
	return nil
}

// LearnTransition applies the error-driven transition update toward the
// target digit's prototype: W += EtaTrans * outer(proto - windowMean,
// preAct), then renormalization to the fixed transition row norm.
// The target prototype must already exist: a missing prototype means
// the curriculum ordering upstream is broken, and is fatal.
func (cl *Column) LearnTransition(op Operators, target int, windowMean, preAct []float32) error {
	proto, err := cl.Proto(target)
	if err != nil {
		return fmt.Errorf("dcol.LearnTransition: target digit %d has no prototype -- encode curriculum must run first: %v", target, err)
	}
	n := cl.Net.N
	if len(windowMean) != n || len(preAct) != n {
		return fmt.Errorf("dcol.LearnTransition: vector lengths %d/%d != N %d", len(windowMean), len(preAct), n)
	}
	w := cl.Wts.Next
	if op == OpMinus {
		w = cl.Wts.Prev
	}
	eta := cl.Phys.EtaTrans
	for ri := 0; ri < n; ri++ {
		errv := proto[ri] - windowMean[ri]
		if errv == 0 {
			continue
		}
		rv := w.Values[ri*n : (ri+1)*n]
		sc := eta * errv
		for ci := range rv {
			rv[ci] += sc * preAct[ci]
		}
	}
	RenormRows(w, TransRowNorm)
	return nil
}

// LearnReadout applies the delta rule on the readout: WOut += EtaOut *
// outer(oneHot(target) - logits, windowMean).  No renormalization.
func (cl *Column) LearnReadout(target int, windowMean []float32) error {
	if target < 0 || target >= cl.Net.ReadoutDim {
		return fmt.Errorf("dcol.LearnReadout: target %d out of range [0,%d)", target, cl.Net.ReadoutDim)
	}
	n := cl.Net.N
	if len(windowMean) != n {
		return fmt.Errorf("dcol.LearnReadout: vector length %d != N %d", len(windowMean), n)
	}
	_, logits, err := cl.Predict(windowMean)
	if err != nil {
		return err
	}
	eta := cl.Phys.EtaOut
	w := cl.Wts.Out
	for ri := 0; ri < cl.Net.ReadoutDim; ri++ {
		tgt := float32(0)
		if ri == target {
			tgt = 1
		}
		delta := tgt - logits[ri]
		if delta == 0 {
			continue
		}
		rv := w.Values[ri*n : (ri+1)*n]
		sc := eta * delta
		for ci := range rv {
			rv[ci] += sc * windowMean[ci]
		}
	}
	return nil
}
