// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package encode

import "testing"

func TestEncodeDeterministic(t *testing.T) {
	ep := Params{}
	ep.Defaults()
	e1, err := New(ep, 42)
	if err != nil {
		t.Fatal(err)
	}
	e2, err := New(ep, 42)
	if err != nil {
		t.Fatal(err)
	}
	for d := 0; d < ep.NDigits; d++ {
		p1, err := e1.Encode(d)
		if err != nil {
			t.Fatal(err)
		}
		p2, err := e2.Encode(d)
		if err != nil {
			t.Fatal(err)
		}
		for i := range p1 {
			if p1[i] != p2[i] {
				t.Errorf("digit %d unit %d: same seed produced %g != %g", d, i, p1[i], p2[i])
			}
		}
	}
}

func TestEncodeSparsity(t *testing.T) {
	ep := Params{}
	ep.Defaults()
	de, err := New(ep, 7)
	if err != nil {
		t.Fatal(err)
	}
	nOn := int(ep.PctAct * float32(ep.PoolY*ep.PoolX))
	for d := 0; d < ep.NDigits; d++ {
		pat, err := de.Encode(d)
		if err != nil {
			t.Fatal(err)
		}
		on := 0
		for _, v := range pat {
			if v > 0.5 {
				on++
			}
		}
		if on != nOn {
			t.Errorf("digit %d: %d units on, expected %d", d, on, nOn)
		}
	}
}

func TestEncodeDistinct(t *testing.T) {
	ep := Params{}
	ep.Defaults()
	de, err := New(ep, 7)
	if err != nil {
		t.Fatal(err)
	}
	for a := 0; a < ep.NDigits; a++ {
		pa, _ := de.Encode(a)
		for b := a + 1; b < ep.NDigits; b++ {
			pb, _ := de.Encode(b)
			diff := 0
			for i := range pa {
				if pa[i] != pb[i] {
					diff++
				}
			}
			if diff == 0 {
				t.Errorf("digits %d and %d have identical patterns", a, b)
			}
		}
	}
}

func TestEncodeRange(t *testing.T) {
	ep := Params{}
	ep.Defaults()
	de, err := New(ep, 7)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := de.Encode(-1); err == nil {
		t.Errorf("expected error for digit -1")
	}
	if _, err := de.Encode(ep.NDigits); err == nil {
		t.Errorf("expected error for digit %d", ep.NDigits)
	}
	if de.InputDim() != ep.PoolY*ep.PoolX {
		t.Errorf("InputDim %d != %d", de.InputDim(), ep.PoolY*ep.PoolX)
	}
}
