// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package dcolumn is the overall repository for the digit column simulation:
a small recurrent spiking network that learns digit representations and
successor / predecessor transitions between them, trained through a
staged curriculum.

This top-level of the repository has no functional code -- everything is
organized into the following sub-repositories:

* dcol: the core simulation engine -- spiking neuron dynamics, Hebbian and
delta learning rules, transition window resolution and evaluation, the
sustain gate, trial orchestration, and snapshot I/O.

* ctrl: trial-level controller policies that decide, before each
transition, whether to go, wait, suppress learning, or abort -- a
pass-through Standard controller and a linear-bandit BG controller.

* encode: the digit SDR encoder collaborator, generating fixed sparse
binary feature vectors per digit.

* examples: these compile into runnable programs.  examples/counting runs
the full encode + counting curriculum headlessly and logs trial and epoch
statistics.
*/
package dcolumn
