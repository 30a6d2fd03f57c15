// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package ctrl implements the trial-level controller policies consulted
before and after every transition: a pass-through Standard controller
and a BG linear-bandit controller that learns, from sustain metrics,
when to go, wait, suppress learning, or abort.
*/
package ctrl

import (
	"fmt"

	"github.com/goki/ki/kit"
)

// Actions are the discrete choices available to a controller before a
// transition.  Within a phase they are meant to escalate monotonically
// in the configured order (see BGParams.EnforceOrder).
type Actions int

//go:generate stringer -type=Actions

var KiT_Actions = kit.Enums.AddEnum(ActionsN, kit.NotBitFlag, nil)

func (ev Actions) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Actions) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Go runs the transition and learns -- the default
	Go Actions = iota

	// GoNoLearn runs the transition with weight updates disabled
	GoNoLearn

	// Wait inserts extra idle settle steps before the transition, then learns
	Wait

	// Abort abandons the trial immediately
	Abort

	ActionsN
)

// Context is what a controller sees before a transition.
type Context struct {
	Trial        int `desc:"global trial counter within the run"`
	EpisodeTrial int `desc:"trial index within the current episode"`
	Phase        int `desc:"curriculum phase index"`
}

// Decision is a controller's pre-transition output, consumed by the
// trial orchestrator within the same trial.
type Decision struct {
	Action       Actions `desc:"the chosen action"`
	SettleSteps  int     `desc:"extra idle settle steps to run before the transition (Wait)"`
	NoLearn      bool    `desc:"disable weight updates for this trial (GoNoLearn)"`
	SuppressStop bool    `desc:"ignore a gate-requested episode stop for this trial"`
}

// Outcome is the trial result reported back to the controller.  The
// feature vector for the next BG decision is derived from it.
type Outcome struct {
	Aborted       bool    `desc:"the trial was aborted before or during the transition"`
	Indeterminate bool    `desc:"no prediction was available (near-zero activity) -- neutral reward"`
	Correct       bool    `desc:"readout predicted the target digit"`
	GateFailed    bool    `desc:"the sustain gate failed this trial"`
	TailSpikeMass float32 `desc:"mean spike mass over the tail window"`
	MeanSpikeMass float32 `desc:"mean spike mass over the whole transition"`
	TailSilentFrac float32 `desc:"fraction of silent tail steps"`
	LateSilentFrac float32 `desc:"fraction of silent late steps"`
	TimeToSilence  int     `desc:"steps until spike mass first went silent"`
}

// Controller is the policy consulted around every transition.  All
// implementations are single-threaded: one trial's AfterTransition
// completes before the next BeforeTransition.
type Controller interface {
	// ResetEpisode clears per-episode state at the start of an episode
	ResetEpisode()

	// BeforeTransition returns the decision for the upcoming transition
	BeforeTransition(ctx Context) Decision

	// AfterTransition reports the trial outcome and updates policy state
	AfterTransition(out Outcome)

	// ShouldAbortEpisode reports whether the controller wants the
	// surrounding episode stopped
	ShouldAbortEpisode() bool

	// Stats returns accumulated policy statistics for logging
	Stats() map[string]float64
}

// ControllerKinds is the closed set of controller implementations.
type ControllerKinds int

//go:generate stringer -type=ControllerKinds

var KiT_ControllerKinds = kit.Enums.AddEnum(ControllerKindsN, kit.NotBitFlag, nil)

func (ev ControllerKinds) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *ControllerKinds) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Standard is the stateless pass-through controller
	Standard ControllerKinds = iota

	// BG is the linear-bandit controller
	BG

	ControllerKindsN
)

// Config selects and parameterizes one controller at construction.
// Only the sub-config matching Kind is consulted.
type Config struct {
	Kind     ControllerKinds `desc:"which controller to build"`
	Seed     int64           `desc:"seed for the controller's private random stream (BG)"`
	Standard StandardParams  `view:"inline" desc:"Standard controller parameters"`
	BG       BGParams        `view:"inline" desc:"BG controller parameters"`
}

func (cf *Config) Defaults() {
	cf.Kind = Standard
	cf.Standard.Defaults()
	cf.BG.Defaults()
}

// New constructs the configured controller.  Configuration errors
// (e.g. non-positive BG temperature) are fatal.
func New(cf *Config) (Controller, error) {
	switch cf.Kind {
	case Standard:
		return NewStandard(&cf.Standard), nil
	case BG:
		return NewBG(&cf.BG, cf.Seed)
	}
	return nil, fmt.Errorf("ctrl.New: unknown controller kind: %v", cf.Kind)
}
