// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dcol

import (
	"github.com/emer/etable/agg"
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"github.com/emer/etable/minmax"
)

// Debugger is the optional diagnostic observer: it accumulates per-step
// current statistics and per-trial outcomes into etable logs for
// offline analysis.  It is a pure observer -- the simulation behaves
// identically with or without one attached, and all hooks are nil-safe.
type Debugger struct {
	On          bool `desc:"master switch -- when false all hooks are no-ops"`
	RecordSteps bool `desc:"also record the per-step current statistics and raw activity (large)"`

	TrialLog *etable.Table `view:"no-inline" desc:"per-trial outcomes and sustain metrics"`
	StepLog  *etable.Table `view:"no-inline" desc:"per-step population current statistics"`

	trial int
	step  int
}

// NewDebugger returns an active debugger with configured logs for a
// column of n neurons.
func NewDebugger(n int, recordSteps bool) *Debugger {
	dbg := &Debugger{On: true, RecordSteps: recordSteps}
	dbg.TrialLog = &etable.Table{}
	dbg.TrialLog.SetMetaData("name", "TrialLog")
	dbg.TrialLog.SetFromSchema(etable.Schema{
		{Name: "Trial", Type: etensor.INT64, CellShape: nil, DimNames: nil},
		{Name: "Start", Type: etensor.INT64, CellShape: nil, DimNames: nil},
		{Name: "Target", Type: etensor.INT64, CellShape: nil, DimNames: nil},
		{Name: "Op", Type: etensor.STRING, CellShape: nil, DimNames: nil},
		{Name: "Action", Type: etensor.STRING, CellShape: nil, DimNames: nil},
		{Name: "Correct", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "Aborted", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "GateFailed", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "UpdatesSkipped", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "TailSilentFrac", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "LateSilentFrac", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "TailSpikeMass", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "LateSpikeMass", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "TimeToSilence", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "MeanSpikeMass", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
	}, 0)
	dbg.StepLog = &etable.Table{}
	dbg.StepLog.SetMetaData("name", "StepLog")
	dbg.StepLog.SetFromSchema(etable.Schema{
		{Name: "Trial", Type: etensor.INT64, CellShape: nil, DimNames: nil},
		{Name: "Step", Type: etensor.INT64, CellShape: nil, DimNames: nil},
		{Name: "Trans", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "SpikeMass", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "SpikeFrac", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "RecMean", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "RecMax", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "TransMean", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "TransMax", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "InMean", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "InMax", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "Inhib", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "NoiseMean", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "VmMean", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "Act", Type: etensor.FLOAT32, CellShape: []int{n}, DimNames: []string{"Neuron"}},
	}, 0)
	return dbg
}

// RecordStep logs one step's population current statistics.
// Called by the column after every step; nil-safe.
func (dbg *Debugger) RecordStep(cl *Column, trans bool) {
	if dbg == nil || !dbg.On || !dbg.RecordSteps {
		return
	}
	var rec, tr, in, vm minmax.AvgMax32
	rec.Init()
	tr.Init()
	in.Init()
	vm.Init()
	nNrn := len(cl.Neurons)
	spikes := 0
	noiseSum := float32(0)
	inhib := float32(0)
	for ni := range cl.Neurons {
		nrn := &cl.Neurons[ni]
		rec.UpdateVal(nrn.RecIn, ni)
		tr.UpdateVal(nrn.TransIn, ni)
		in.UpdateVal(nrn.ExtIn, ni)
		vm.UpdateVal(nrn.Vm, ni)
		noiseSum += nrn.Noise
		if nrn.Spike > 0 {
			spikes++
		}
		if nrn.Inhib > 0 {
			inhib = nrn.Inhib
		}
	}
	rec.CalcAvg()
	tr.CalcAvg()
	in.CalcAvg()
	vm.CalcAvg()

	dt := dbg.StepLog
	dt.AddRows(1)
	row := dt.Rows - 1
	dt.SetCellFloat("Trial", row, float64(dbg.trial))
	dt.SetCellFloat("Step", row, float64(dbg.step))
	dt.SetCellFloat("Trans", row, boolToFloat(trans))
	dt.SetCellFloat("SpikeMass", row, float64(cl.SpikeMass()))
	dt.SetCellFloat("SpikeFrac", row, float64(spikes)/float64(nNrn))
	dt.SetCellFloat("RecMean", row, float64(rec.Avg))
	dt.SetCellFloat("RecMax", row, float64(rec.Max))
	dt.SetCellFloat("TransMean", row, float64(tr.Avg))
	dt.SetCellFloat("TransMax", row, float64(tr.Max))
	dt.SetCellFloat("InMean", row, float64(in.Avg))
	dt.SetCellFloat("InMax", row, float64(in.Max))
	dt.SetCellFloat("Inhib", row, float64(inhib))
	dt.SetCellFloat("NoiseMean", row, float64(noiseSum)/float64(nNrn))
	dt.SetCellFloat("VmMean", row, float64(vm.Avg))
	act := etensor.NewFloat32([]int{nNrn}, nil, []string{"Neuron"})
	copy(act.Values, cl.Activity())
	dt.SetCellTensor("Act", row, act)
	dbg.step++
}

// RecordTrial logs one trial's outcome and sustain metrics; nil-safe.
func (dbg *Debugger) RecordTrial(res *TrialResult) {
	if dbg == nil || !dbg.On {
		return
	}
	dt := dbg.TrialLog
	dt.AddRows(1)
	row := dt.Rows - 1
	dt.SetCellFloat("Trial", row, float64(dbg.trial))
	dt.SetCellFloat("Start", row, float64(res.Start))
	dt.SetCellFloat("Target", row, float64(res.Target))
	dt.SetCellString("Op", row, res.Op.String())
	dt.SetCellString("Action", row, res.Action.String())
	dt.SetCellFloat("Correct", row, boolToFloat(res.Correct))
	dt.SetCellFloat("Aborted", row, boolToFloat(res.Aborted))
	dt.SetCellFloat("GateFailed", row, boolToFloat(res.GateFailed))
	dt.SetCellFloat("UpdatesSkipped", row, boolToFloat(res.UpdatesSkipped))
	dt.SetCellFloat("TailSilentFrac", row, float64(res.Sustain.TailSilentFrac))
	dt.SetCellFloat("LateSilentFrac", row, float64(res.Sustain.LateSilentFrac))
	dt.SetCellFloat("TailSpikeMass", row, float64(res.Sustain.TailSpikeMassMean))
	dt.SetCellFloat("LateSpikeMass", row, float64(res.Sustain.LateSpikeMassMean))
	dt.SetCellFloat("TimeToSilence", row, float64(res.Sustain.TimeToSilence))
	dt.SetCellFloat("MeanSpikeMass", row, float64(res.MeanSpikeMass))
	dbg.trial++
	dbg.step = 0
}

// Summary returns mean trial-level statistics over everything recorded.
func (dbg *Debugger) Summary() map[string]float64 {
	if dbg == nil || dbg.TrialLog == nil || dbg.TrialLog.Rows == 0 {
		return nil
	}
	ix := etable.NewIdxView(dbg.TrialLog)
	sum := map[string]float64{"Trials": float64(dbg.TrialLog.Rows)}
	for _, cn := range []string{"Correct", "Aborted", "GateFailed", "TailSilentFrac", "TimeToSilence", "MeanSpikeMass"} {
		sum[cn] = agg.Mean(ix, cn)[0]
	}
	return sum
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
