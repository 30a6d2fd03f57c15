// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dcol

import "fmt"

// dcol.Neuron holds all of the neuron (unit) level state variables.
// All variables accessible via the variable-name interface must be
// float32; Refrac is kept as an int countdown and exposed as float.
type Neuron struct {

	// membrane potential -- integrates drive currents over time
	Vm float32

	// whether the neuron spiked this step (0 or 1)
	Spike float32

	// smoothed activity in 0..1 -- only meaningful in the EMA activity modes,
	// equals Spike in SpikeAct mode
	Act float32

	// recurrent attractor drive received this step
	RecIn float32

	// transition-matrix drive received this step
	TransIn float32

	// encoder input drive received this step
	ExtIn float32

	// global inhibition applied this step
	Inhib float32

	// noise sample added to Vm this step
	Noise float32

	// refractory countdown -- input is ignored entirely while > 0
	Refrac int32
}

// Init zeroes all state -- called at the start of every trial
func (nrn *Neuron) Init() {
	nrn.Vm = 0
	nrn.Spike = 0
	nrn.Act = 0
	nrn.RecIn = 0
	nrn.TransIn = 0
	nrn.ExtIn = 0
	nrn.Inhib = 0
	nrn.Noise = 0
	nrn.Refrac = 0
}

// NeuronVars are the named, observable neuron variables
var NeuronVars = []string{"Vm", "Spike", "Act", "RecIn", "TransIn", "ExtIn", "Inhib", "Noise", "Refrac"}

var NeuronVarsMap map[string]int

func init() {
	NeuronVarsMap = make(map[string]int, len(NeuronVars))
	for i, v := range NeuronVars {
		NeuronVarsMap[v] = i
	}
}

// VarByName returns the value of the given variable, error if not found
func (nrn *Neuron) VarByName(varNm string) (float32, error) {
	i, ok := NeuronVarsMap[varNm]
	if !ok {
		return 0, fmt.Errorf("dcol.Neuron VarByName: variable name: %v not valid", varNm)
	}
	return nrn.VarByIndex(i), nil
}

// VarByIndex returns the value indexed by the order in NeuronVars
func (nrn *Neuron) VarByIndex(idx int) float32 {
	switch idx {
	case 0:
		return nrn.Vm
	case 1:
		return nrn.Spike
	case 2:
		return nrn.Act
	case 3:
		return nrn.RecIn
	case 4:
		return nrn.TransIn
	case 5:
		return nrn.ExtIn
	case 6:
		return nrn.Inhib
	case 7:
		return nrn.Noise
	case 8:
		return float32(nrn.Refrac)
	}
	return 0
}
