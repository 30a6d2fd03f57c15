// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package dcol implements the digit column simulation engine: a recurrent
population of leaky-integrate-and-fire neurons with an attractor weight
matrix, forward / backward transition matrices, an input matrix, and a
linear readout, trained with Hebbian and delta rules through a staged
curriculum.

The Column owns all mutable simulation state (neuron voltages, spikes,
smoothed activity, refractory counters, weight matrices, digit
prototypes) and runs entirely single-threaded: one trial completes
before the next begins.  Parallelism across runs is process-level --
independent Columns with independent seeds, no shared state.

Trial-level health evaluation is split across three small pieces:
named transition windows resolved into concrete step ranges
(window.go), per-window activity accumulation plus sustain metrics
(eval.go), and the sustain gate verdict deciding whether a trial's
weight updates are applied (gate.go).
*/
package dcol
